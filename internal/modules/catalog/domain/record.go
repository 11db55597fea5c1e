package domain

import (
	"fmt"
	"strconv"
)

// Record is an untyped backend row for resources that only need list, delete and raw
// form editing (profiles, sessions, cabins, schedules, ...).
type Record map[string]any

func (r Record) EntityID() string {
	switch id := r["id"].(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
