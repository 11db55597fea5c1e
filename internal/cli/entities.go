package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nomadeAdmin/internal/modules/admin/application/usecase"
)

func (a *App) entitiesCommand() *cobra.Command {
	return public(&cobra.Command{
		Use:   "entities",
		Short: "List the entities adminctl can manage",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintln(a.out, strings.Join(a.registry.Entities(), "\n"))
			return nil
		},
	})
}

func (a *App) listCommand() *cobra.Command {
	var (
		search string
		page   int
	)
	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "Show one page of records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			binding, err := a.binding(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			list := binding.List
			switch {
			case cmd.Flags().Changed("search"):
				err = list.Load(ctx, search, page)
			case page > 1:
				err = list.SetPage(ctx, page)
			default:
				err = list.Mount(ctx)
			}
			if err != nil {
				return err
			}
			view, err := decodeList(list.Snapshot())
			if err != nil {
				return err
			}
			printList(a.out, binding, view)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search term")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

func (a *App) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <entity> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			binding, err := a.binding(args[0])
			if err != nil {
				return err
			}
			record, err := binding.List.Lookup(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return printRecord(a.out, record)
		},
	}
}

func (a *App) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <entity>",
		Short: "Aggregate the first page of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			binding, err := a.binding(args[0])
			if err != nil {
				return err
			}
			if _, ok := binding.List.StatsSnapshot(); !ok {
				return fmt.Errorf("%s has no stats", binding.Entity)
			}
			if err := binding.List.Mount(cmd.Context()); err != nil {
				return err
			}
			raw, _ := binding.List.StatsSnapshot()
			stats, ok := raw.(usecase.Stats)
			if !ok {
				return fmt.Errorf("%s has no stats", binding.Entity)
			}
			printStats(a.out, stats)
			return nil
		},
	}
}

func (a *App) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <entity> field=value...",
		Short: "Create a record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.submit(cmd, args[0], "", args[1:])
		},
	}
}

func (a *App) updateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <entity> <id> field=value...",
		Short: "Change fields of a record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.submit(cmd, args[0], args[1], args[2:])
		},
	}
}

// submit fills the entity form with the assignments and saves it. An empty id creates.
func (a *App) submit(cmd *cobra.Command, entity, id string, assignments []string) error {
	binding, err := a.binding(entity)
	if err != nil {
		return err
	}
	fields, err := parseAssignments(assignments)
	if err != nil {
		return err
	}
	form, err := binding.NewForm(cmd.Context(), id)
	if err != nil {
		return err
	}
	for name, value := range fields {
		form.Set(name, value)
	}
	saved, err := form.SubmitAny(cmd.Context())
	if err != nil {
		return a.reportInvalid(err)
	}
	return printRecord(a.out, saved)
}

func (a *App) deleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			binding, err := a.binding(args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirmer(yes).Confirm(cmd.Context(), fmt.Sprintf("Delete %s %s?", binding.Entity, args[1]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(a.out, "Aborted")
				return nil
			}
			return binding.List.Remove(cmd.Context(), args[1])
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}
