package audit

import (
	"fmt"
	"sort"
	"strings"
)

// ChangesSummary renders a compact "field: old -> new" line per changed
// field, fields in stable order. Fields absent from one side render as "-".
func ChangesSummary(before, after map[string]any) string {
	fields := make(map[string]struct{})
	for field := range before {
		fields[field] = struct{}{}
	}
	for field := range after {
		fields[field] = struct{}{}
	}

	names := make([]string, 0, len(fields))
	for field := range fields {
		names = append(names, field)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, field := range names {
		oldValue, hadOld := before[field]
		newValue, hasNew := after[field]
		if hadOld && hasNew && fmt.Sprint(oldValue) == fmt.Sprint(newValue) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s -> %s", field, renderValue(oldValue, hadOld), renderValue(newValue, hasNew)))
	}

	return strings.Join(parts, "; ")
}

func renderValue(value any, present bool) string {
	if !present || value == nil {
		return "-"
	}
	return fmt.Sprint(value)
}
