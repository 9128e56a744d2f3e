package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"caseflow_backend/internal/cases/domain"
)

// CaseDraft is a fully resolved case the service wants persisted inside the
// conversion transaction. Case numbers are allocated in here, not by the
// caller, so the per-year counter only ever advances on committed work.
type CaseDraft struct {
	SchemeType     string
	CaseType       *string
	BenefitType    *string
	ProcessStatus  string
	Priority       string
	ClientName     string
	Company        string
	MobileNumber   string
	ConsumerNumber *string
	KVA            *string
	Metadata       map[string]any
}

// ConvertLead atomically creates one case per draft, marks the lead converted
// and appends a lead activity row. The lead row is locked for the duration of
// the transaction so concurrent conversion attempts serialize; the loser sees
// the converted marker on its own re-check and fails without side effects.
func (r *Repository) ConvertLead(ctx context.Context, leadID uuid.UUID, actorID uuid.UUID, drafts []CaseDraft) ([]Case, error) {
	if len(drafts) == 0 {
		return nil, errors.New("conversion requires at least one case draft")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var convertedToCaseID *uuid.UUID
	err = tx.QueryRow(ctx, `SELECT converted_to_case_id FROM leads WHERE id = $1 FOR UPDATE`, leadID).
		Scan(&convertedToCaseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	if convertedToCaseID != nil {
		return nil, ErrLeadConverted
	}

	var duplicate bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cases WHERE lead_id = $1)`, leadID).Scan(&duplicate); err != nil {
		return nil, err
	}
	if duplicate {
		return nil, ErrDuplicateCase
	}

	year := time.Now().UTC().Year()
	created := make([]Case, 0, len(drafts))
	for _, draft := range drafts {
		counter, err := nextCaseCounter(ctx, tx, year)
		if err != nil {
			return nil, err
		}
		caseNumber := domain.FormatCaseNumber(year, counter)

		var metadata []byte
		if draft.Metadata != nil {
			metadata, err = json.Marshal(draft.Metadata)
			if err != nil {
				return nil, err
			}
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO cases (
				lead_id, case_number, scheme_type, case_type, benefit_type,
				process_status, priority,
				client_name, company, mobile_number, consumer_number, kva, metadata
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING `+caseColumns,
			leadID, caseNumber, draft.SchemeType, draft.CaseType, draft.BenefitType,
			draft.ProcessStatus, draft.Priority,
			draft.ClientName, draft.Company, draft.MobileNumber, draft.ConsumerNumber, draft.KVA, metadata,
		)
		item, err := scanCase(row)
		if err != nil {
			return nil, err
		}
		created = append(created, item)
	}

	// The lead back-references the first created case.
	if _, err := tx.Exec(ctx, `
		UPDATE leads SET converted_to_case_id = $2, converted_at = now(), updated_at = now()
		WHERE id = $1
	`, leadID, created[0].ID); err != nil {
		return nil, err
	}

	caseIDs := make([]uuid.UUID, len(created))
	for i, item := range created {
		caseIDs[i] = item.ID
	}
	activityMeta, err := json.Marshal(map[string]any{"caseIds": caseIDs, "count": len(caseIDs)})
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO lead_activity (lead_id, user_id, action, metadata)
		VALUES ($1, $2, 'converted_to_case', $3)
	`, leadID, actorID, activityMeta); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

// nextCaseCounter bumps and returns the per-year counter. The upsert locks
// the year row, serializing allocation across concurrent conversions; since
// it runs inside the conversion transaction, a rollback also reverts the
// increment, so committed numbers stay dense and strictly increasing.
func nextCaseCounter(ctx context.Context, tx pgx.Tx, year int) (int64, error) {
	var counter int64
	err := tx.QueryRow(ctx, `
		INSERT INTO case_counters (year, counter) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET counter = case_counters.counter + 1
		RETURNING counter
	`, year).Scan(&counter)
	return counter, err
}
