package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestListWhereAppliesUserScopeFirst(t *testing.T) {
	userID := uuid.New()
	where, args, _ := buildCaseListWhere(ListParams{
		Scope:    Scope{AssignedTo: &userID},
		Statuses: []string{"VERIFICATION"},
	})

	if !strings.Contains(where, "assigned_process_user_id = $1") {
		t.Fatalf("user scope must bind the first placeholder, got %q", where)
	}
	if len(args) != 2 || args[0] != userID {
		t.Fatalf("expected scope user id as first arg, got %v", args)
	}
}

func TestListWhereAllScopeAddsNoAssigneeClause(t *testing.T) {
	where, args, _ := buildCaseListWhere(ListParams{Scope: Scope{All: true}})

	if strings.Contains(where, "assigned_process_user_id") {
		t.Fatalf("manager scope should not constrain assignee, got %q", where)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args for unfiltered manager scope, got %v", args)
	}
}

func TestListWhereCombinesFiltersWithAnd(t *testing.T) {
	schemeType := "SOLAR_SUBSIDY"
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	where, args, _ := buildCaseListWhere(ListParams{
		Scope:         Scope{All: true},
		Statuses:      []string{"SUBMITTED", "APPROVED"},
		Priorities:    []string{"HIGH"},
		SchemeType:    &schemeType,
		CreatedFrom:   &from,
		CreatedBefore: &to,
	})

	for _, fragment := range []string{
		"process_status = ANY($1)",
		"priority = ANY($2)",
		"scheme_type = $3",
		"created_at >= $4",
		"created_at < $5",
	} {
		if !strings.Contains(where, fragment) {
			t.Errorf("expected fragment %q in %q", fragment, where)
		}
	}
	if len(args) != 5 {
		t.Errorf("expected 5 args, got %d", len(args))
	}
	if parts := strings.Split(where, " AND "); len(parts) != 6 {
		t.Errorf("expected TRUE plus 5 clauses joined by AND, got %q", where)
	}
}

func TestListWhereSearchCoversSnapshotFields(t *testing.T) {
	where, args, _ := buildCaseListWhere(ListParams{
		Scope:  Scope{All: true},
		Search: "desai",
	})

	for _, column := range []string{"case_number", "client_name", "company", "mobile_number", "consumer_number", "scheme_type"} {
		if !strings.Contains(where, column) {
			t.Errorf("search clause missing column %s: %q", column, where)
		}
	}
	if len(args) != 1 || args[0] != "%desai%" {
		t.Errorf("expected single pattern arg, got %v", args)
	}
}

func TestMapCaseSortColumn(t *testing.T) {
	tests := []struct {
		sortBy string
		want   string
	}{
		{"caseNumber", "case_number"},
		{"clientName", "client_name"},
		{"status", "process_status"},
		{"priority", "priority"},
		{"updatedAt", "updated_at"},
		{"", "created_at"},
		{"garbage", "created_at"},
	}

	for _, tt := range tests {
		if got := mapCaseSortColumn(tt.sortBy); got != tt.want {
			t.Errorf("mapCaseSortColumn(%q) = %q, want %q", tt.sortBy, got, tt.want)
		}
	}
}
