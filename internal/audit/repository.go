// Package audit provides the append-only system audit log: every meaningful
// mutation is recorded with actor, entity, before/after snapshots and a
// human-readable summary of what changed. Entries are immutable once written.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ActionCaseCreated       = "CASE_CREATED"
	ActionCaseUpdated       = "CASE_UPDATED"
	ActionCaseStatusChanged = "CASE_STATUS_CHANGED"
	ActionCaseAssigned      = "CASE_ASSIGNED"
	ActionCaseReassigned    = "CASE_REASSIGNED"
	ActionCaseBulkAssigned  = "CASE_BULK_ASSIGNED"
	ActionCaseDeleted       = "CASE_DELETED"
	ActionLeadConverted     = "LEAD_CONVERTED"
)

// EntityIDMultiple marks entries that cover a batch rather than one entity.
const EntityIDMultiple = "multiple"

// Entry is one audit log row. Before and After are full JSON snapshots of the
// entity around the mutation; Changes is a pre-rendered summary for display.
type Entry struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	ActorName  string
	ActorRole  string
	ActionType string
	EntityType string
	EntityID   string
	Before     map[string]any
	After      map[string]any
	Changes    string
	Metadata   map[string]any
	CreatedAt  time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, entry Entry) error {
	before, err := marshalSnapshot(entry.Before)
	if err != nil {
		return err
	}
	after, err := marshalSnapshot(entry.After)
	if err != nil {
		return err
	}
	metadata, err := marshalSnapshot(entry.Metadata)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO system_audit_log (
			actor_id, actor_name, actor_role, action_type,
			entity_type, entity_id, before_snapshot, after_snapshot, changes, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, entry.ActorID, entry.ActorName, entry.ActorRole, entry.ActionType,
		entry.EntityType, entry.EntityID, before, after, entry.Changes, metadata)
	return err
}

func marshalSnapshot(snapshot map[string]any) ([]byte, error) {
	if snapshot == nil {
		return nil, nil
	}
	return json.Marshal(snapshot)
}

type ListParams struct {
	ActionType *string
	EntityType *string
	EntityID   *string
	ActorID    *uuid.UUID
	From       *time.Time
	To         *time.Time
	Offset     int
	Limit      int
}

// List returns audit entries newest first. There is no mutation counterpart;
// the log only grows.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Entry, int, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	addClause := func(clause string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf(clause, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.ActionType != nil {
		addClause("action_type = $%d", *params.ActionType)
	}
	if params.EntityType != nil {
		addClause("entity_type = $%d", *params.EntityType)
	}
	if params.EntityID != nil {
		addClause("entity_id = $%d", *params.EntityID)
	}
	if params.ActorID != nil {
		addClause("actor_id = $%d", *params.ActorID)
	}
	if params.From != nil {
		addClause("created_at >= $%d", *params.From)
	}
	if params.To != nil {
		addClause("created_at <= $%d", *params.To)
	}

	whereClause := strings.Join(whereClauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM system_audit_log WHERE %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, actor_id, actor_name, actor_role, action_type,
			entity_type, entity_id, before_snapshot, after_snapshot, changes, metadata, created_at
		FROM system_audit_log
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var entry Entry
		var before, after, metadata []byte
		if err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.ActorName, &entry.ActorRole, &entry.ActionType,
			&entry.EntityType, &entry.EntityID, &before, &after, &entry.Changes, &metadata, &entry.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		if err := unmarshalSnapshot(before, &entry.Before); err != nil {
			return nil, 0, err
		}
		if err := unmarshalSnapshot(after, &entry.After); err != nil {
			return nil, 0, err
		}
		if err := unmarshalSnapshot(metadata, &entry.Metadata); err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return entries, total, nil
}

func unmarshalSnapshot(data []byte, target *map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
