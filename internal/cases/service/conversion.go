package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"caseflow_backend/internal/audit"
	"caseflow_backend/internal/cases/domain"
	"caseflow_backend/internal/cases/repository"
	"caseflow_backend/internal/cases/transport"
	"caseflow_backend/internal/events"
	leadrepo "caseflow_backend/internal/leads/repository"
	"caseflow_backend/platform/apperr"
	"caseflow_backend/platform/phone"
)

// Convert turns a lead into one case per requested benefit type. The
// operation is idempotent at the lead level: a second attempt fails with
// ALREADY_CONVERTED and creates nothing.
func (s *Service) Convert(ctx context.Context, actor domain.Actor, leadID uuid.UUID, req transport.ConvertLeadRequest) (transport.ConvertLeadResponse, error) {
	if !domain.Can(domain.ActionConvertLead, actor.Role) {
		return transport.ConvertLeadResponse{}, apperr.Unauthorized()
	}

	if dup := firstDuplicate(req.BenefitTypes); dup != "" {
		return transport.ConvertLeadResponse{}, apperr.Validation(fmt.Sprintf("benefit type %q listed more than once", dup))
	}

	lead, err := s.leads.GetByID(ctx, leadID)
	if errors.Is(err, leadrepo.ErrNotFound) {
		return transport.ConvertLeadResponse{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return transport.ConvertLeadResponse{}, err
	}
	if lead.Converted() {
		return transport.ConvertLeadResponse{}, apperr.AlreadyConverted("lead has already been converted")
	}

	drafts := planConversion(lead, req)

	created, err := s.repo.ConvertLead(ctx, leadID, actor.UserID, drafts)
	switch {
	case errors.Is(err, repository.ErrLeadNotFound):
		return transport.ConvertLeadResponse{}, apperr.NotFound("lead not found")
	case errors.Is(err, repository.ErrLeadConverted):
		return transport.ConvertLeadResponse{}, apperr.AlreadyConverted("lead has already been converted")
	case errors.Is(err, repository.ErrDuplicateCase):
		return transport.ConvertLeadResponse{}, apperr.DuplicateCase("a case already exists for this lead")
	case err != nil:
		return transport.ConvertLeadResponse{}, err
	}

	caseIDs := make([]uuid.UUID, len(created))
	for i, item := range created {
		caseIDs[i] = item.ID
		s.auditor.Record(ctx, audit.Entry{
			ActorID:    actor.UserID,
			ActorName:  actor.Name,
			ActorRole:  string(actor.Role),
			ActionType: audit.ActionCaseCreated,
			EntityType: "case",
			EntityID:   item.ID.String(),
			After:      caseSnapshot(item),
			Changes:    audit.ChangesSummary(nil, caseSnapshot(item)),
		})
		s.bus.Publish(ctx, events.CaseCreated{
			BaseEvent:  events.NewBaseEvent(),
			CaseID:     item.ID,
			LeadID:     leadID,
			CaseNumber: item.CaseNumber,
			SchemeType: item.SchemeType,
			CreatedBy:  actor.UserID,
		})
	}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		ActionType: audit.ActionLeadConverted,
		EntityType: "lead",
		EntityID:   leadID.String(),
		Metadata:   map[string]any{"caseIds": uuidStrings(caseIDs), "schemeType": req.SchemeType},
	})

	s.bus.Publish(ctx, events.LeadConverted{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      leadID,
		CaseIDs:     caseIDs,
		SchemeType:  req.SchemeType,
		ConvertedBy: actor.UserID,
	})

	return transport.ConvertLeadResponse{
		LeadID: leadID,
		Cases:  toCaseResponses(created),
		Count:  len(created),
	}, nil
}

// planConversion resolves the drafts to persist: one per benefit type, or a
// single general case when none are requested. Contact fields are frozen from
// the lead, preferring values the client submitted in the intake payload over
// the live lead columns.
func planConversion(lead leadrepo.Lead, req transport.ConvertLeadRequest) []repository.CaseDraft {
	priority := string(domain.PriorityMedium)
	if req.Priority != nil {
		priority = *req.Priority
	}

	base := repository.CaseDraft{
		SchemeType:     strings.TrimSpace(req.SchemeType),
		CaseType:       req.CaseType,
		ProcessStatus:  string(domain.StatusDocumentsPending),
		Priority:       priority,
		ClientName:     payloadString(lead.SubmittedPayload, "clientName", lead.ClientName),
		Company:        snapshotCompany(lead),
		MobileNumber:   phone.NormalizeE164(payloadString(lead.SubmittedPayload, "mobileNumber", lead.MobileNumber)),
		ConsumerNumber: payloadOptional(lead.SubmittedPayload, "consumerNumber", lead.ConsumerNumber),
		KVA:            payloadOptional(lead.SubmittedPayload, "kva", lead.KVA),
		Metadata:       req.Metadata,
	}

	if len(req.BenefitTypes) == 0 {
		return []repository.CaseDraft{base}
	}

	drafts := make([]repository.CaseDraft, len(req.BenefitTypes))
	for i, benefitType := range req.BenefitTypes {
		draft := base
		bt := strings.TrimSpace(benefitType)
		draft.BenefitType = &bt
		drafts[i] = draft
	}
	return drafts
}

// snapshotCompany resolves the frozen company name. Leads without a company
// snapshot as "-" so every case renders a value.
func snapshotCompany(lead leadrepo.Lead) string {
	if v := payloadString(lead.SubmittedPayload, "company", ""); v != "" {
		return v
	}
	if lead.Company != nil && strings.TrimSpace(*lead.Company) != "" {
		return strings.TrimSpace(*lead.Company)
	}
	return "-"
}

func payloadString(payload map[string]any, key string, fallback string) string {
	if payload != nil {
		if v, ok := payload[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(fallback)
}

func payloadOptional(payload map[string]any, key string, fallback *string) *string {
	if payload != nil {
		if v, ok := payload[key].(string); ok && strings.TrimSpace(v) != "" {
			trimmed := strings.TrimSpace(v)
			return &trimmed
		}
	}
	return fallback
}

func firstDuplicate(values []string) string {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if _, ok := seen[key]; ok {
			return v
		}
		seen[key] = struct{}{}
	}
	return ""
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
