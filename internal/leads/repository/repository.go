// Package repository provides data access for lead records. This subsystem
// only touches the conversion attributes of a lead; intake and deletion live
// elsewhere.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead is an inbound sales record. SubmittedPayload, when present, is the
// snapshot captured at submission time and takes priority over the live
// contact fields as conversion input.
type Lead struct {
	ID                uuid.UUID
	ClientName        string
	Company           *string
	MobileNumber      string
	ConsumerNumber    *string
	KVA               *string
	SubmittedPayload  map[string]any
	ConvertedToCaseID *uuid.UUID
	ConvertedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Converted reports whether the lead has already been turned into cases.
func (l Lead) Converted() bool {
	return l.ConvertedToCaseID != nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	var lead Lead
	var payload []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, client_name, company, mobile_number, consumer_number, kva,
			submitted_payload, converted_to_case_id, converted_at, created_at, updated_at
		FROM leads WHERE id = $1
	`, id).Scan(
		&lead.ID, &lead.ClientName, &lead.Company, &lead.MobileNumber, &lead.ConsumerNumber, &lead.KVA,
		&payload, &lead.ConvertedToCaseID, &lead.ConvertedAt, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &lead.SubmittedPayload); err != nil {
			return Lead{}, err
		}
	}

	return lead, nil
}

// AddActivity appends an activity-log entry to a lead. Callers treat this as
// fire-and-forget; a failed activity write never rolls back the operation
// that triggered it.
func (r *Repository) AddActivity(ctx context.Context, leadID uuid.UUID, userID uuid.UUID, action string, meta map[string]interface{}) error {
	var metaJSON []byte
	if meta != nil {
		encoded, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		metaJSON = encoded
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO lead_activity (lead_id, user_id, action, metadata)
		VALUES ($1, $2, $3, $4)
	`, leadID, userID, action, metaJSON)
	return err
}
