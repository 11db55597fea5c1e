package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"nomadeAdmin/internal/modules/admin/application/usecase"
	"nomadeAdmin/internal/modules/admin/infrastructure"
	catalog "nomadeAdmin/internal/modules/catalog/domain"
	"nomadeAdmin/internal/shared/normalization"
)

const (
	maxColumns = 5
	maxCell    = 40
)

var hiddenColumns = map[string]struct{}{"id": {}, "created_at": {}, "updated_at": {}}

type listView struct {
	Items      []map[string]any `json:"items"`
	Count      int              `json:"count"`
	Page       int              `json:"page"`
	SearchTerm string           `json:"searchTerm"`
}

func decodeList(snapshot any) (listView, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return listView{}, err
	}
	var view listView
	if err := json.Unmarshal(raw, &view); err != nil {
		return listView{}, err
	}
	return view, nil
}

// columns picks the id plus the first schema fields, or the first record keys for
// schemaless entities.
func columns(binding *infrastructure.Binding, items []map[string]any) []string {
	cols := []string{"id"}
	if binding.Schema != nil {
		for _, field := range binding.Schema.Fields {
			if field.WriteOnly {
				continue
			}
			cols = append(cols, field.Name)
			if len(cols) > maxColumns {
				break
			}
		}
		return cols
	}
	keys := map[string]struct{}{}
	for _, item := range items {
		for key := range item {
			if _, hidden := hiddenColumns[key]; !hidden {
				keys[key] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(keys))
	for key := range keys {
		names = append(names, key)
	}
	sort.Strings(names)
	if len(names) > maxColumns {
		names = names[:maxColumns]
	}
	return append(cols, names...)
}

func printList(w io.Writer, binding *infrastructure.Binding, view listView) {
	cols := columns(binding, view.Items)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(cols, "\t")))
	for _, item := range view.Items {
		cells := make([]string, 0, len(cols))
		for _, col := range cols {
			cells = append(cells, cell(item[col]))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()

	summary := fmt.Sprintf("%d of %d %s, page %d", len(view.Items), view.Count, binding.Entity, view.Page)
	if view.SearchTerm != "" {
		summary += fmt.Sprintf(", search %q", view.SearchTerm)
	}
	fmt.Fprintln(w, summary)
}

func printRecord(w io.Writer, record any) error {
	fields, err := normalization.Project(record)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "%s:\t%s\n", name, cell(fields[name]))
	}
	return tw.Flush()
}

func printStats(w io.Writer, stats usecase.Stats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "total\t%d\n", stats.Total)
	for _, name := range sortedKeys(stats.Counts) {
		fmt.Fprintf(tw, "%s\t%d\n", name, stats.Counts[name])
	}
	for _, name := range sortedKeys(stats.Sums) {
		fmt.Fprintf(tw, "%s\t%s\n", name, strconv.FormatFloat(stats.Sums[name], 'f', -1, 64))
	}
	_ = tw.Flush()
	if stats.Sampled {
		fmt.Fprintln(w, "counts and sums cover the current page only")
	}
}

func printImages(w io.Writer, images []catalog.Image, primary string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tID\tTYPE\tURL\tPRIMARY")
	for _, image := range images {
		mark := ""
		if image.ID == primary {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", image.DisplayOrder, image.ID, image.ImageType, image.ImageURL, mark)
	}
	_ = tw.Flush()
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func cell(value any) string {
	var text string
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		text = typed
	case float64:
		text = strconv.FormatFloat(typed, 'f', -1, 64)
	case map[string]any, []any:
		raw, _ := json.Marshal(typed)
		text = string(raw)
	default:
		text = fmt.Sprint(typed)
	}
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) > maxCell {
		text = text[:maxCell-3] + "..."
	}
	return text
}
