// Package repository provides data access for the case store, the assignment
// history ledger and the per-year case number counter.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("case not found")
	ErrLeadNotFound  = errors.New("lead not found")
	ErrLeadConverted = errors.New("lead already converted")
	ErrDuplicateCase = errors.New("case already exists for lead")
	// ErrStaleStatus is returned when a guarded status update lost the race
	// against a concurrent mutation. Retrying is safe: preconditions are
	// re-checked against current state on every attempt.
	ErrStaleStatus = errors.New("case status changed concurrently")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Case is one unit of processing work derived from a lead. The contact fields
// are a snapshot frozen at conversion time; they do not track later lead
// edits. BenefitType holds at most one value per case and is exposed as a
// list on the wire for forward compatibility.
type Case struct {
	ID                    uuid.UUID
	LeadID                uuid.UUID
	CaseNumber            string
	SchemeType            string
	CaseType              *string
	BenefitType           *string
	ProcessStatus         string
	Priority              string
	AssignedProcessUserID *uuid.UUID
	AssignedRole          *string
	ClientName            string
	Company               string
	MobileNumber          string
	ConsumerNumber        *string
	KVA                   *string
	Metadata              map[string]any
	CreatedAt             time.Time
	UpdatedAt             time.Time
	ClosedAt              *time.Time
}

const caseColumns = `id, lead_id, case_number, scheme_type, case_type, benefit_type,
	process_status, priority, assigned_process_user_id, assigned_role,
	client_name, company, mobile_number, consumer_number, kva, metadata,
	created_at, updated_at, closed_at`

func scanCase(row pgx.Row) (Case, error) {
	var item Case
	var metadata []byte
	err := row.Scan(
		&item.ID, &item.LeadID, &item.CaseNumber, &item.SchemeType, &item.CaseType, &item.BenefitType,
		&item.ProcessStatus, &item.Priority, &item.AssignedProcessUserID, &item.AssignedRole,
		&item.ClientName, &item.Company, &item.MobileNumber, &item.ConsumerNumber, &item.KVA, &metadata,
		&item.CreatedAt, &item.UpdatedAt, &item.ClosedAt,
	)
	if err != nil {
		return Case{}, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
			return Case{}, err
		}
	}
	return item, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Case, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, id)
	item, err := scanCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Case{}, ErrNotFound
	}
	return item, err
}

// ExistsForLead reports whether any case traces back to the lead. Used as the
// defensive duplicate check ahead of conversion.
func (r *Repository) ExistsForLead(ctx context.Context, leadID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cases WHERE lead_id = $1)`, leadID).Scan(&exists)
	return exists, err
}

// Scope restricts a query to the cases an acting user may observe. Nil
// AssignedTo with All=false is never passed down; callers short-circuit the
// empty scope before reaching storage.
type Scope struct {
	All        bool
	AssignedTo *uuid.UUID
}

// ListParams filter a case page. CreatedBefore is an exclusive upper bound;
// the service derives it from the caller's inclusive end date.
type ListParams struct {
	Scope         Scope
	Statuses      []string
	AssignedTo    *uuid.UUID
	Priorities    []string
	SchemeType    *string
	Search        string
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
	Offset        int
	Limit         int
	SortBy        string
	SortOrder     string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Case, int, error) {
	whereClause, args, argIdx := buildCaseListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM cases WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := mapCaseSortColumn(params.SortBy)
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM cases
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, caseColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Case, 0)
	for rows.Next() {
		item, err := scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return items, total, nil
}

func buildCaseListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	addClause := func(clause string, values ...interface{}) {
		placeholders := make([]interface{}, len(values))
		for i := range values {
			placeholders[i] = argIdx
			args = append(args, values[i])
			argIdx++
		}
		whereClauses = append(whereClauses, fmt.Sprintf(clause, placeholders...))
	}

	// Visibility scope always comes first; user-scoped readers can never
	// widen it through filters.
	if !params.Scope.All && params.Scope.AssignedTo != nil {
		addClause("assigned_process_user_id = $%d", *params.Scope.AssignedTo)
	}

	if len(params.Statuses) > 0 {
		addClause("process_status = ANY($%d)", params.Statuses)
	}
	if params.AssignedTo != nil {
		addClause("assigned_process_user_id = $%d", *params.AssignedTo)
	}
	if len(params.Priorities) > 0 {
		addClause("priority = ANY($%d)", params.Priorities)
	}
	if params.SchemeType != nil {
		addClause("scheme_type = $%d", *params.SchemeType)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(case_number ILIKE $%d OR client_name ILIKE $%d OR company ILIKE $%d OR mobile_number ILIKE $%d OR COALESCE(consumer_number, '') ILIKE $%d OR scheme_type ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, pattern)
		argIdx++
	}
	if params.CreatedFrom != nil {
		addClause("created_at >= $%d", *params.CreatedFrom)
	}
	if params.CreatedBefore != nil {
		addClause("created_at < $%d", *params.CreatedBefore)
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapCaseSortColumn(sortBy string) string {
	switch sortBy {
	case "caseNumber":
		return "case_number"
	case "clientName":
		return "client_name"
	case "company":
		return "company"
	case "status":
		return "process_status"
	case "priority":
		return "priority"
	case "updatedAt":
		return "updated_at"
	default:
		return "created_at"
	}
}

// StatusCounts and PriorityCounts are sparse; the service zero-fills them
// over the full enum sets.
type StatsRow struct {
	Total          int
	StatusCounts   map[string]int
	PriorityCounts map[string]int
}

func (r *Repository) Stats(ctx context.Context, scope Scope) (StatsRow, error) {
	whereClause := "TRUE"
	args := []interface{}{}
	if !scope.All && scope.AssignedTo != nil {
		whereClause = "assigned_process_user_id = $1"
		args = append(args, *scope.AssignedTo)
	}

	stats := StatsRow{
		StatusCounts:   make(map[string]int),
		PriorityCounts: make(map[string]int),
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT process_status, priority, COUNT(*)
		FROM cases
		WHERE %s
		GROUP BY process_status, priority
	`, whereClause), args...)
	if err != nil {
		return StatsRow{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status, priority string
		var count int
		if err := rows.Scan(&status, &priority, &count); err != nil {
			return StatsRow{}, err
		}
		stats.StatusCounts[status] += count
		stats.PriorityCounts[priority] += count
		stats.Total += count
	}

	if rows.Err() != nil {
		return StatsRow{}, rows.Err()
	}

	return stats, nil
}

// UpdateStatusGuarded moves a case from an expected status to a new one as a
// single guarded statement. setClosed stamps closed_at; transitions into any
// other state leave closed_at untouched.
func (r *Repository) UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from string, to string, setClosed bool) (Case, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE cases
		SET process_status = $3,
			updated_at = now(),
			closed_at = CASE WHEN $4 THEN now() ELSE closed_at END
		WHERE id = $1 AND process_status = $2
		RETURNING `+caseColumns, id, from, to, setClosed)

	item, err := scanCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the case vanished or its status moved under us.
		if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, ErrNotFound) {
			return Case{}, ErrNotFound
		}
		return Case{}, ErrStaleStatus
	}
	return item, err
}

func (r *Repository) UpdatePriority(ctx context.Context, id uuid.UUID, priority string) (Case, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE cases SET priority = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+caseColumns, id, priority)

	item, err := scanCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Case{}, ErrNotFound
	}
	return item, err
}

// ListStaleQueryRaised finds cases parked in QUERY_RAISED since before the
// cutoff. Used by the background sweep that nudges stalled queries.
func (r *Repository) ListStaleQueryRaised(ctx context.Context, cutoff time.Time) ([]Case, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+caseColumns+`
		FROM cases
		WHERE process_status = 'QUERY_RAISED' AND updated_at < $1
		ORDER BY updated_at ASC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Case, 0)
	for rows.Next() {
		item, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Delete removes a case permanently and returns the deleted row so callers
// can audit the before-snapshot. The case number is never reissued and the
// originating lead stays converted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (Case, error) {
	row := r.pool.QueryRow(ctx, `DELETE FROM cases WHERE id = $1 RETURNING `+caseColumns, id)
	item, err := scanCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Case{}, ErrNotFound
	}
	return item, err
}
