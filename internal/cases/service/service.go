// Package service implements the case lifecycle use cases: conversion,
// status transitions, assignment routing, scoped reads and deletion. All
// policy and visibility decisions live here or in the domain package; the
// repository below is policy-free.
package service

import (
	"context"

	"github.com/google/uuid"

	"caseflow_backend/internal/audit"
	"caseflow_backend/internal/cases/domain"
	"caseflow_backend/internal/cases/repository"
	"caseflow_backend/internal/cases/transport"
	"caseflow_backend/internal/events"
	leadrepo "caseflow_backend/internal/leads/repository"
	"caseflow_backend/platform/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CaseStore is the persistence surface the service drives. It is satisfied
// by *repository.Repository in production and by in-memory fakes in tests.
type CaseStore interface {
	ConvertLead(ctx context.Context, leadID uuid.UUID, actorID uuid.UUID, drafts []repository.CaseDraft) ([]repository.Case, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Case, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Case, int, error)
	Stats(ctx context.Context, scope repository.Scope) (repository.StatsRow, error)
	UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from string, to string, setClosed bool) (repository.Case, error)
	UpdatePriority(ctx context.Context, id uuid.UUID, priority string) (repository.Case, error)
	Assign(ctx context.Context, caseID uuid.UUID, params repository.AssignParams) (repository.AssignResult, error)
	BulkAssign(ctx context.Context, caseIDs []uuid.UUID, params repository.AssignParams) ([]repository.BulkAssigned, error)
	ListHistory(ctx context.Context, caseID uuid.UUID) ([]repository.AssignmentRecord, error)
	Delete(ctx context.Context, id uuid.UUID) (repository.Case, error)
}

// LeadStore reads the lead a conversion starts from.
type LeadStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadrepo.Lead, error)
}

// AuditRecorder appends entries to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

type Service struct {
	repo        CaseStore
	leads       LeadStore
	auditor     AuditRecorder
	bus         events.Bus
	log         *logger.Logger
	transitions domain.TransitionTable
}

// New wires the case service. The transition table is injected so strict
// deployments and permissive ones share the same code path.
func New(
	repo CaseStore,
	leads LeadStore,
	auditor AuditRecorder,
	bus events.Bus,
	log *logger.Logger,
	transitions domain.TransitionTable,
) *Service {
	return &Service{
		repo:        repo,
		leads:       leads,
		auditor:     auditor,
		bus:         bus,
		log:         log,
		transitions: transitions,
	}
}

func scopeToRepo(scope domain.Scope) repository.Scope {
	return repository.Scope{All: scope.All, AssignedTo: scope.AssignedTo}
}

func toCaseResponse(item repository.Case) transport.CaseResponse {
	benefitTypes := []string{}
	if item.BenefitType != nil {
		benefitTypes = []string{*item.BenefitType}
	}
	return transport.CaseResponse{
		ID:                    item.ID,
		LeadID:                item.LeadID,
		CaseNumber:            item.CaseNumber,
		SchemeType:            item.SchemeType,
		CaseType:              item.CaseType,
		BenefitTypes:          benefitTypes,
		ProcessStatus:         item.ProcessStatus,
		Priority:              item.Priority,
		AssignedProcessUserID: item.AssignedProcessUserID,
		AssignedRole:          item.AssignedRole,
		ClientName:            item.ClientName,
		Company:               item.Company,
		MobileNumber:          item.MobileNumber,
		ConsumerNumber:        item.ConsumerNumber,
		KVA:                   item.KVA,
		Metadata:              item.Metadata,
		CreatedAt:             item.CreatedAt,
		UpdatedAt:             item.UpdatedAt,
		ClosedAt:              item.ClosedAt,
	}
}

func toCaseResponses(items []repository.Case) []transport.CaseResponse {
	out := make([]transport.CaseResponse, len(items))
	for i, item := range items {
		out[i] = toCaseResponse(item)
	}
	return out
}

// caseSnapshot is the audit view of a case: the mutable lifecycle fields
// plus enough identity to read the log standalone.
func caseSnapshot(item repository.Case) map[string]any {
	snapshot := map[string]any{
		"caseNumber":    item.CaseNumber,
		"schemeType":    item.SchemeType,
		"processStatus": item.ProcessStatus,
		"priority":      item.Priority,
		"clientName":    item.ClientName,
	}
	if item.BenefitType != nil {
		snapshot["benefitType"] = *item.BenefitType
	}
	if item.AssignedProcessUserID != nil {
		snapshot["assignedProcessUserId"] = item.AssignedProcessUserID.String()
	}
	if item.AssignedRole != nil {
		snapshot["assignedRole"] = *item.AssignedRole
	}
	return snapshot
}
