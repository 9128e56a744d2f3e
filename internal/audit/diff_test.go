package audit

import "testing"

func TestChangesSummary(t *testing.T) {
	tests := []struct {
		name   string
		before map[string]any
		after  map[string]any
		want   string
	}{
		{
			name:   "single field changed",
			before: map[string]any{"status": "VERIFICATION"},
			after:  map[string]any{"status": "SUBMITTED"},
			want:   "status: VERIFICATION -> SUBMITTED",
		},
		{
			name:   "unchanged fields omitted",
			before: map[string]any{"status": "SUBMITTED", "priority": "MEDIUM"},
			after:  map[string]any{"status": "APPROVED", "priority": "MEDIUM"},
			want:   "status: SUBMITTED -> APPROVED",
		},
		{
			name:   "multiple changes sorted by field",
			before: map[string]any{"priority": "LOW", "assignee": "none"},
			after:  map[string]any{"priority": "HIGH", "assignee": "a1"},
			want:   "assignee: none -> a1; priority: LOW -> HIGH",
		},
		{
			name:   "field appears",
			before: map[string]any{},
			after:  map[string]any{"closedAt": "2026-01-01"},
			want:   "closedAt: - -> 2026-01-01",
		},
		{
			name:   "field removed",
			before: map[string]any{"assignee": "a1"},
			after:  map[string]any{},
			want:   "assignee: a1 -> -",
		},
		{
			name:   "nil rendered as dash",
			before: map[string]any{"assignee": nil},
			after:  map[string]any{"assignee": "a1"},
			want:   "assignee: - -> a1",
		},
		{
			name:   "no changes",
			before: map[string]any{"status": "CLOSED"},
			after:  map[string]any{"status": "CLOSED"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChangesSummary(tt.before, tt.after)
			if got != tt.want {
				t.Errorf("ChangesSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}
