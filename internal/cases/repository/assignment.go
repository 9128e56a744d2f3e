package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AssignmentRecord is one row of the append-only assignment history. History
// rows are only ever inserted, never updated or deleted. Besides the routing
// change itself it keeps who performed it, by id and by display name, so the
// trail reads standalone after user records change.
type AssignmentRecord struct {
	ID             uuid.UUID
	CaseID         uuid.UUID
	PreviousUserID *uuid.UUID
	PreviousRole   *string
	NewUserID      uuid.UUID
	NewRole        *string
	AssignedBy     uuid.UUID
	AssignedByName string
	AssignedAt     time.Time
}

type AssignParams struct {
	UserID         uuid.UUID
	Role           *string
	AssignedBy     uuid.UUID
	AssignedByName string
}

// AssignResult carries the updated case plus the state it replaced, so the
// service can report reassignment versus first assignment.
type AssignResult struct {
	Case           Case
	PreviousUserID *uuid.UUID
	PreviousRole   *string
}

// BulkAssigned identifies one case touched by a bulk assignment, with the
// assignee it replaced.
type BulkAssigned struct {
	CaseID         uuid.UUID
	LeadID         uuid.UUID
	PreviousUserID *uuid.UUID
}

// Assign routes a single case. The case row is locked first so the history
// row always records the true previous assignee, even under concurrent
// assignment of the same case.
func (r *Repository) Assign(ctx context.Context, caseID uuid.UUID, params AssignParams) (AssignResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return AssignResult{}, err
	}
	defer tx.Rollback(ctx)

	var previousUserID *uuid.UUID
	var previousRole *string
	err = tx.QueryRow(ctx, `
		SELECT assigned_process_user_id, assigned_role FROM cases WHERE id = $1 FOR UPDATE
	`, caseID).Scan(&previousUserID, &previousRole)
	if errors.Is(err, pgx.ErrNoRows) {
		return AssignResult{}, ErrNotFound
	}
	if err != nil {
		return AssignResult{}, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO case_assignment_history (
			case_id, previous_user_id, previous_role, new_user_id, new_role, assigned_by, assigned_by_name
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, caseID, previousUserID, previousRole, params.UserID, params.Role, params.AssignedBy, params.AssignedByName); err != nil {
		return AssignResult{}, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE cases SET assigned_process_user_id = $2, assigned_role = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+caseColumns, caseID, params.UserID, params.Role)
	item, err := scanCase(row)
	if err != nil {
		return AssignResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return AssignResult{}, err
	}

	return AssignResult{Case: item, PreviousUserID: previousUserID, PreviousRole: previousRole}, nil
}

// BulkAssign routes every listed case in one statement. Locking, history
// insertion and the update happen inside a single CTE so an interleaved
// single-case assignment can neither be lost nor recorded out of order.
// Unknown ids are skipped; the returned rows are the cases actually updated.
func (r *Repository) BulkAssign(ctx context.Context, caseIDs []uuid.UUID, params AssignParams) ([]BulkAssigned, error) {
	rows, err := r.pool.Query(ctx, `
		WITH target AS (
			SELECT id, assigned_process_user_id, assigned_role
			FROM cases
			WHERE id = ANY($1)
			FOR UPDATE
		), history AS (
			INSERT INTO case_assignment_history (
				case_id, previous_user_id, previous_role, new_user_id, new_role, assigned_by, assigned_by_name
			)
			SELECT id, assigned_process_user_id, assigned_role, $2, $3, $4, $5 FROM target
		)
		UPDATE cases
		SET assigned_process_user_id = $2, assigned_role = $3, updated_at = now()
		FROM target
		WHERE cases.id = target.id
		RETURNING cases.id, cases.lead_id, target.assigned_process_user_id
	`, caseIDs, params.UserID, params.Role, params.AssignedBy, params.AssignedByName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	updated := make([]BulkAssigned, 0, len(caseIDs))
	for rows.Next() {
		var item BulkAssigned
		if err := rows.Scan(&item.CaseID, &item.LeadID, &item.PreviousUserID); err != nil {
			return nil, err
		}
		updated = append(updated, item)
	}

	return updated, rows.Err()
}

// ListHistory returns the assignment trail for a case, oldest first.
func (r *Repository) ListHistory(ctx context.Context, caseID uuid.UUID) ([]AssignmentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, case_id, previous_user_id, previous_role, new_user_id, new_role,
			assigned_by, assigned_by_name, assigned_at
		FROM case_assignment_history
		WHERE case_id = $1
		ORDER BY assigned_at ASC, id ASC
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]AssignmentRecord, 0)
	for rows.Next() {
		var rec AssignmentRecord
		if err := rows.Scan(&rec.ID, &rec.CaseID, &rec.PreviousUserID, &rec.PreviousRole, &rec.NewUserID, &rec.NewRole, &rec.AssignedBy, &rec.AssignedByName, &rec.AssignedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
