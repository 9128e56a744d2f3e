package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"caseflow_backend/internal/audit"
	"caseflow_backend/internal/cases/domain"
	"caseflow_backend/internal/cases/repository"
	"caseflow_backend/internal/cases/transport"
	"caseflow_backend/internal/events"
	"caseflow_backend/platform/apperr"
)

// Assign routes a single case to a process user. A first assignment and a
// reassignment are distinguished in the audit trail; both append one history
// record.
func (s *Service) Assign(ctx context.Context, actor domain.Actor, caseID uuid.UUID, req transport.AssignCaseRequest) (transport.CaseResponse, error) {
	if !domain.Can(domain.ActionAssignCase, actor.Role) {
		return transport.CaseResponse{}, apperr.Unauthorized()
	}

	result, err := s.repo.Assign(ctx, caseID, repository.AssignParams{
		UserID:         req.UserID,
		Role:           req.Role,
		AssignedBy:     actor.UserID,
		AssignedByName: actor.Name,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return transport.CaseResponse{}, apperr.NotFound("case not found")
	}
	if err != nil {
		return transport.CaseResponse{}, err
	}

	actionType := audit.ActionCaseAssigned
	before := map[string]any{"assignedProcessUserId": nil}
	if result.PreviousUserID != nil {
		actionType = audit.ActionCaseReassigned
		before["assignedProcessUserId"] = result.PreviousUserID.String()
	}
	after := map[string]any{"assignedProcessUserId": req.UserID.String()}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		ActionType: actionType,
		EntityType: "case",
		EntityID:   caseID.String(),
		Before:     before,
		After:      after,
		Changes:    audit.ChangesSummary(before, after),
	})

	s.bus.Publish(ctx, events.CaseAssigned{
		BaseEvent:      events.NewBaseEvent(),
		CaseID:         caseID,
		LeadID:         result.Case.LeadID,
		PreviousUserID: result.PreviousUserID,
		NewUserID:      req.UserID,
		NewRole:        req.Role,
		AssignedBy:     actor.UserID,
	})

	return toCaseResponse(result.Case), nil
}

// BulkAssign routes many cases in one shot. Unknown ids are skipped rather
// than failing the batch; the response reports how many cases actually moved,
// and a batch that moves nothing is a failure. The audit trail gets one
// aggregate entry for the whole batch, while the event bus gets one
// CaseAssigned per updated case so subscribers see bulk and single
// assignments alike.
func (s *Service) BulkAssign(ctx context.Context, actor domain.Actor, req transport.BulkAssignRequest) (transport.BulkAssignResponse, error) {
	if !domain.Can(domain.ActionBulkAssign, actor.Role) {
		return transport.BulkAssignResponse{}, apperr.Unauthorized()
	}

	updated, err := s.repo.BulkAssign(ctx, dedupeIDs(req.CaseIDs), repository.AssignParams{
		UserID:         req.UserID,
		Role:           req.Role,
		AssignedBy:     actor.UserID,
		AssignedByName: actor.Name,
	})
	if err != nil {
		return transport.BulkAssignResponse{}, err
	}

	caseIDs := make([]uuid.UUID, len(updated))
	for i, item := range updated {
		caseIDs[i] = item.CaseID
	}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		ActionType: audit.ActionCaseBulkAssigned,
		EntityType: "case",
		EntityID:   audit.EntityIDMultiple,
		Metadata: map[string]any{
			"caseIds":   uuidStrings(caseIDs),
			"userId":    req.UserID.String(),
			"requested": len(req.CaseIDs),
			"updated":   len(updated),
		},
	})

	for _, item := range updated {
		s.bus.Publish(ctx, events.CaseAssigned{
			BaseEvent:      events.NewBaseEvent(),
			CaseID:         item.CaseID,
			LeadID:         item.LeadID,
			PreviousUserID: item.PreviousUserID,
			NewUserID:      req.UserID,
			NewRole:        req.Role,
			AssignedBy:     actor.UserID,
		})
	}

	message := fmt.Sprintf("%d cases assigned", len(updated))
	if len(updated) == 0 {
		message = "no matching cases found"
	}

	return transport.BulkAssignResponse{
		Success: len(updated) > 0,
		Message: message,
		Count:   len(updated),
	}, nil
}

// History returns the append-only assignment trail for a case the actor can
// see, oldest record first.
func (s *Service) History(ctx context.Context, actor domain.Actor, caseID uuid.UUID) (transport.AssignmentHistoryResponse, error) {
	if _, err := s.visibleCase(ctx, actor, caseID); err != nil {
		return transport.AssignmentHistoryResponse{}, err
	}

	records, err := s.repo.ListHistory(ctx, caseID)
	if err != nil {
		return transport.AssignmentHistoryResponse{}, err
	}

	out := make([]transport.AssignmentRecordResponse, len(records))
	for i, rec := range records {
		out[i] = transport.AssignmentRecordResponse{
			ID:             rec.ID,
			CaseID:         rec.CaseID,
			PreviousUserID: rec.PreviousUserID,
			PreviousRole:   rec.PreviousRole,
			NewUserID:      rec.NewUserID,
			NewRole:        rec.NewRole,
			AssignedBy:     rec.AssignedBy,
			AssignedByName: rec.AssignedByName,
			AssignedAt:     rec.AssignedAt,
		}
	}

	return transport.AssignmentHistoryResponse{CaseID: caseID, Records: out}, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
