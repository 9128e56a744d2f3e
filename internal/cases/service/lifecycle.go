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

// UpdateStatus moves a case through the status machine. Process executives
// may only move their own cases; a case outside the caller's visibility reads
// as not found rather than forbidden.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, caseID uuid.UUID, req transport.UpdateStatusRequest) (transport.CaseResponse, error) {
	if !domain.Can(domain.ActionUpdateStatus, actor.Role) {
		return transport.CaseResponse{}, apperr.Unauthorized()
	}

	newStatus := domain.ProcessStatus(req.Status)
	if !domain.ValidStatus(newStatus) {
		return transport.CaseResponse{}, apperr.Validation(fmt.Sprintf("unknown status %q", req.Status))
	}

	item, err := s.visibleCase(ctx, actor, caseID)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	if err := s.requireOwnership(actor, item); err != nil {
		return transport.CaseResponse{}, err
	}

	currentStatus := domain.ProcessStatus(item.ProcessStatus)
	if err := s.transitions.Validate(currentStatus, newStatus); err != nil {
		return transport.CaseResponse{}, apperr.InvalidTransition(err.Error())
	}

	updated, err := s.repo.UpdateStatusGuarded(ctx, caseID, item.ProcessStatus, string(newStatus), newStatus == domain.StatusClosed)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return transport.CaseResponse{}, apperr.NotFound("case not found")
	case errors.Is(err, repository.ErrStaleStatus):
		return transport.CaseResponse{}, apperr.New(apperr.KindConflict, "CONFLICT", "case was modified concurrently, retry the request")
	case err != nil:
		return transport.CaseResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		ActionType: audit.ActionCaseStatusChanged,
		EntityType: "case",
		EntityID:   caseID.String(),
		Before:     caseSnapshot(item),
		After:      caseSnapshot(updated),
		Changes:    audit.ChangesSummary(caseSnapshot(item), caseSnapshot(updated)),
	})

	s.bus.Publish(ctx, events.CaseStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		CaseID:    caseID,
		LeadID:    updated.LeadID,
		OldStatus: item.ProcessStatus,
		NewStatus: updated.ProcessStatus,
		ChangedBy: actor.UserID,
	})

	return toCaseResponse(updated), nil
}

// UpdatePriority reprioritizes a case under the same ownership rules as
// status changes.
func (s *Service) UpdatePriority(ctx context.Context, actor domain.Actor, caseID uuid.UUID, req transport.UpdatePriorityRequest) (transport.CaseResponse, error) {
	if !domain.Can(domain.ActionUpdatePriority, actor.Role) {
		return transport.CaseResponse{}, apperr.Unauthorized()
	}
	if !domain.ValidPriority(domain.Priority(req.Priority)) {
		return transport.CaseResponse{}, apperr.Validation(fmt.Sprintf("unknown priority %q", req.Priority))
	}

	item, err := s.visibleCase(ctx, actor, caseID)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	if err := s.requireOwnership(actor, item); err != nil {
		return transport.CaseResponse{}, err
	}

	updated, err := s.repo.UpdatePriority(ctx, caseID, req.Priority)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.CaseResponse{}, apperr.NotFound("case not found")
	}
	if err != nil {
		return transport.CaseResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		ActionType: audit.ActionCaseUpdated,
		EntityType: "case",
		EntityID:   caseID.String(),
		Before:     caseSnapshot(item),
		After:      caseSnapshot(updated),
		Changes:    audit.ChangesSummary(caseSnapshot(item), caseSnapshot(updated)),
	})

	return toCaseResponse(updated), nil
}

// Delete permanently removes a case. The originating lead stays converted and
// the case number is never reissued.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, caseID uuid.UUID) error {
	if !domain.Can(domain.ActionDeleteCase, actor.Role) {
		return apperr.Unauthorized()
	}

	deleted, err := s.repo.Delete(ctx, caseID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("case not found")
	}
	if err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		ActionType: audit.ActionCaseDeleted,
		EntityType: "case",
		EntityID:   caseID.String(),
		Before:     caseSnapshot(deleted),
		Changes:    audit.ChangesSummary(caseSnapshot(deleted), nil),
	})

	s.bus.Publish(ctx, events.CaseDeleted{
		BaseEvent: events.NewBaseEvent(),
		CaseID:    caseID,
		LeadID:    deleted.LeadID,
		DeletedBy: actor.UserID,
	})

	return nil
}

// visibleCase fetches a case and hides it behind not-found when the actor's
// scope does not admit it.
func (s *Service) visibleCase(ctx context.Context, actor domain.Actor, caseID uuid.UUID) (repository.Case, error) {
	scope := domain.VisibilityScope(actor)
	if scope.None() {
		return repository.Case{}, apperr.NotFound("case not found")
	}

	item, err := s.repo.GetByID(ctx, caseID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Case{}, apperr.NotFound("case not found")
	}
	if err != nil {
		return repository.Case{}, err
	}
	if !scope.CanSee(item.AssignedProcessUserID) {
		return repository.Case{}, apperr.NotFound("case not found")
	}
	return item, nil
}

// requireOwnership restricts process executives to cases assigned to them.
// Managers and admins pass unconditionally.
func (s *Service) requireOwnership(actor domain.Actor, item repository.Case) error {
	if actor.Role != domain.RoleProcessExecutive {
		return nil
	}
	if item.AssignedProcessUserID == nil || *item.AssignedProcessUserID != actor.UserID {
		return apperr.Unauthorized()
	}
	return nil
}
