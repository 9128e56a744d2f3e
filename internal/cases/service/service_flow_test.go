package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"caseflow_backend/internal/audit"
	"caseflow_backend/internal/cases/domain"
	"caseflow_backend/internal/cases/repository"
	"caseflow_backend/internal/cases/transport"
	"caseflow_backend/internal/events"
	leadrepo "caseflow_backend/internal/leads/repository"
	"caseflow_backend/platform/apperr"
	"caseflow_backend/platform/logger"
)

// fakeStore drives the service through the CaseStore seam with in-memory
// state, mimicking the repository's locking semantics: conversion re-checks
// the lead, assignment records the previous assignee before updating.
type fakeStore struct {
	lead         *leadrepo.Lead
	cases        map[uuid.UUID]repository.Case
	history      map[uuid.UUID][]repository.AssignmentRecord
	convertCalls int
	lastList     repository.ListParams
}

func newFakeStore(lead *leadrepo.Lead) *fakeStore {
	return &fakeStore{
		lead:    lead,
		cases:   make(map[uuid.UUID]repository.Case),
		history: make(map[uuid.UUID][]repository.AssignmentRecord),
	}
}

func (f *fakeStore) ConvertLead(_ context.Context, leadID uuid.UUID, _ uuid.UUID, drafts []repository.CaseDraft) ([]repository.Case, error) {
	if f.lead == nil || f.lead.ID != leadID {
		return nil, repository.ErrLeadNotFound
	}
	if f.lead.Converted() {
		return nil, repository.ErrLeadConverted
	}
	f.convertCalls++
	created := make([]repository.Case, len(drafts))
	for i, draft := range drafts {
		item := repository.Case{
			ID:            uuid.New(),
			LeadID:        leadID,
			CaseNumber:    domain.FormatCaseNumber(2026, int64(i+1)),
			SchemeType:    draft.SchemeType,
			BenefitType:   draft.BenefitType,
			ProcessStatus: draft.ProcessStatus,
			Priority:      draft.Priority,
			ClientName:    draft.ClientName,
			Company:       draft.Company,
			MobileNumber:  draft.MobileNumber,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		f.cases[item.ID] = item
		created[i] = item
	}
	first := created[0].ID
	f.lead.ConvertedToCaseID = &first
	return created, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Case, error) {
	item, ok := f.cases[id]
	if !ok {
		return repository.Case{}, repository.ErrNotFound
	}
	return item, nil
}

func (f *fakeStore) List(_ context.Context, params repository.ListParams) ([]repository.Case, int, error) {
	f.lastList = params
	return []repository.Case{}, 0, nil
}

func (f *fakeStore) Stats(context.Context, repository.Scope) (repository.StatsRow, error) {
	return repository.StatsRow{}, nil
}

func (f *fakeStore) UpdateStatusGuarded(_ context.Context, id uuid.UUID, from string, to string, _ bool) (repository.Case, error) {
	item, ok := f.cases[id]
	if !ok {
		return repository.Case{}, repository.ErrNotFound
	}
	if item.ProcessStatus != from {
		return repository.Case{}, repository.ErrStaleStatus
	}
	item.ProcessStatus = to
	f.cases[id] = item
	return item, nil
}

func (f *fakeStore) UpdatePriority(_ context.Context, id uuid.UUID, priority string) (repository.Case, error) {
	item, ok := f.cases[id]
	if !ok {
		return repository.Case{}, repository.ErrNotFound
	}
	item.Priority = priority
	f.cases[id] = item
	return item, nil
}

func (f *fakeStore) Assign(_ context.Context, caseID uuid.UUID, params repository.AssignParams) (repository.AssignResult, error) {
	item, ok := f.cases[caseID]
	if !ok {
		return repository.AssignResult{}, repository.ErrNotFound
	}
	previousUserID := item.AssignedProcessUserID
	previousRole := item.AssignedRole
	f.history[caseID] = append(f.history[caseID], repository.AssignmentRecord{
		ID:             uuid.New(),
		CaseID:         caseID,
		PreviousUserID: previousUserID,
		PreviousRole:   previousRole,
		NewUserID:      params.UserID,
		NewRole:        params.Role,
		AssignedBy:     params.AssignedBy,
		AssignedByName: params.AssignedByName,
		AssignedAt:     time.Now(),
	})
	item.AssignedProcessUserID = &params.UserID
	item.AssignedRole = params.Role
	f.cases[caseID] = item
	return repository.AssignResult{Case: item, PreviousUserID: previousUserID, PreviousRole: previousRole}, nil
}

func (f *fakeStore) BulkAssign(ctx context.Context, caseIDs []uuid.UUID, params repository.AssignParams) ([]repository.BulkAssigned, error) {
	updated := make([]repository.BulkAssigned, 0, len(caseIDs))
	for _, id := range caseIDs {
		item, ok := f.cases[id]
		if !ok {
			continue
		}
		previousUserID := item.AssignedProcessUserID
		if _, err := f.Assign(ctx, id, params); err != nil {
			return nil, err
		}
		updated = append(updated, repository.BulkAssigned{CaseID: id, LeadID: item.LeadID, PreviousUserID: previousUserID})
	}
	return updated, nil
}

func (f *fakeStore) ListHistory(_ context.Context, caseID uuid.UUID) ([]repository.AssignmentRecord, error) {
	return f.history[caseID], nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) (repository.Case, error) {
	item, ok := f.cases[id]
	if !ok {
		return repository.Case{}, repository.ErrNotFound
	}
	delete(f.cases, id)
	return item, nil
}

type fakeLeadStore struct {
	lead *leadrepo.Lead
}

func (f *fakeLeadStore) GetByID(_ context.Context, id uuid.UUID) (leadrepo.Lead, error) {
	if f.lead == nil || f.lead.ID != id {
		return leadrepo.Lead{}, leadrepo.ErrNotFound
	}
	return *f.lead, nil
}

type fakeAuditor struct {
	entries []audit.Entry
}

func (f *fakeAuditor) Record(_ context.Context, entry audit.Entry) {
	f.entries = append(f.entries, entry)
}

func (f *fakeAuditor) actions() []string {
	out := make([]string, len(f.entries))
	for i, entry := range f.entries {
		out[i] = entry.ActionType
	}
	return out
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(string, events.Handler) {}

type serviceFixture struct {
	svc     *Service
	store   *fakeStore
	auditor *fakeAuditor
	bus     *fakeBus
}

func newFixture(lead *leadrepo.Lead) serviceFixture {
	store := newFakeStore(lead)
	auditor := &fakeAuditor{}
	bus := &fakeBus{}
	svc := New(store, &fakeLeadStore{lead: lead}, auditor, bus, logger.New("development"), domain.TableFor(true))
	return serviceFixture{svc: svc, store: store, auditor: auditor, bus: bus}
}

func adminActor() domain.Actor {
	return domain.Actor{UserID: uuid.New(), Name: "Priya Nair", Role: domain.RoleAdmin}
}

func seedCase(store *fakeStore, leadID uuid.UUID) uuid.UUID {
	id := uuid.New()
	store.cases[id] = repository.Case{
		ID:            id,
		LeadID:        leadID,
		CaseNumber:    domain.FormatCaseNumber(2026, int64(len(store.cases)+1)),
		SchemeType:    "SOLAR_SUBSIDY",
		ProcessStatus: string(domain.StatusDocumentsPending),
		Priority:      string(domain.PriorityMedium),
		ClientName:    "Acme Industries",
		Company:       "Acme Industries",
		MobileNumber:  "+919876543210",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	return id
}

func TestConvertSecondAttemptCreatesNothing(t *testing.T) {
	lead := &leadrepo.Lead{
		ID:           uuid.New(),
		ClientName:   "Acme Industries",
		MobileNumber: "+919876543210",
	}
	fx := newFixture(lead)
	actor := adminActor()
	req := transport.ConvertLeadRequest{
		SchemeType:   "SOLAR_SUBSIDY",
		BenefitTypes: []string{"CAPITAL_SUBSIDY", "INTEREST_SUBSIDY"},
	}

	first, err := fx.svc.Convert(context.Background(), actor, lead.ID, req)
	if err != nil {
		t.Fatalf("first conversion failed: %v", err)
	}
	if first.Count != 2 || len(fx.store.cases) != 2 {
		t.Fatalf("expected 2 cases from first conversion, got count=%d stored=%d", first.Count, len(fx.store.cases))
	}

	_, err = fx.svc.Convert(context.Background(), actor, lead.ID, req)
	if err == nil {
		t.Fatal("second conversion must fail")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != "ALREADY_CONVERTED" {
		t.Fatalf("expected ALREADY_CONVERTED, got %v", err)
	}
	if fx.store.convertCalls != 1 {
		t.Errorf("second attempt must not reach storage, convert calls = %d", fx.store.convertCalls)
	}
	if len(fx.store.cases) != 2 {
		t.Errorf("second attempt must persist nothing, stored cases = %d", len(fx.store.cases))
	}
}

func TestAssignHistoryAgreesWithCaseFields(t *testing.T) {
	leadID := uuid.New()
	fx := newFixture(nil)
	actor := adminActor()
	caseID := seedCase(fx.store, leadID)
	firstUser := uuid.New()
	secondUser := uuid.New()
	role := string(domain.RoleProcessExecutive)

	if _, err := fx.svc.Assign(context.Background(), actor, caseID, transport.AssignCaseRequest{UserID: firstUser, Role: &role}); err != nil {
		t.Fatalf("first assignment failed: %v", err)
	}
	if _, err := fx.svc.Assign(context.Background(), actor, caseID, transport.AssignCaseRequest{UserID: secondUser, Role: &role}); err != nil {
		t.Fatalf("reassignment failed: %v", err)
	}

	history, err := fx.svc.History(context.Background(), actor, caseID)
	if err != nil {
		t.Fatalf("history read failed: %v", err)
	}
	if len(history.Records) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(history.Records))
	}

	newest := history.Records[len(history.Records)-1]
	if newest.PreviousUserID == nil || *newest.PreviousUserID != firstUser {
		t.Errorf("newest record must carry the replaced assignee, got %v", newest.PreviousUserID)
	}
	if newest.PreviousRole == nil || *newest.PreviousRole != role {
		t.Errorf("newest record must carry the replaced role, got %v", newest.PreviousRole)
	}
	if newest.AssignedByName != actor.Name {
		t.Errorf("newest record must carry the actor name, got %q", newest.AssignedByName)
	}

	item := fx.store.cases[caseID]
	if item.AssignedProcessUserID == nil || *item.AssignedProcessUserID != newest.NewUserID {
		t.Errorf("case assignee %v disagrees with newest history record %v", item.AssignedProcessUserID, newest.NewUserID)
	}

	actions := fx.auditor.actions()
	if len(actions) != 2 || actions[0] != audit.ActionCaseAssigned || actions[1] != audit.ActionCaseReassigned {
		t.Errorf("expected assigned then reassigned audit actions, got %v", actions)
	}
}

func TestBulkAssignSkipsUnknownAndPublishesPerCase(t *testing.T) {
	leadID := uuid.New()
	fx := newFixture(nil)
	actor := adminActor()
	firstCase := seedCase(fx.store, leadID)
	secondCase := seedCase(fx.store, leadID)
	user := uuid.New()
	role := string(domain.RoleProcessExecutive)

	resp, err := fx.svc.BulkAssign(context.Background(), actor, transport.BulkAssignRequest{
		CaseIDs: []uuid.UUID{firstCase, secondCase, uuid.New()},
		UserID:  user,
		Role:    &role,
	})
	if err != nil {
		t.Fatalf("bulk assignment failed: %v", err)
	}
	if !resp.Success || resp.Count != 2 {
		t.Fatalf("expected success with 2 updated, got success=%v count=%d", resp.Success, resp.Count)
	}

	for _, caseID := range []uuid.UUID{firstCase, secondCase} {
		records := fx.store.history[caseID]
		if len(records) != 1 {
			t.Fatalf("expected one history record for %s, got %d", caseID, len(records))
		}
		item := fx.store.cases[caseID]
		if item.AssignedProcessUserID == nil || *item.AssignedProcessUserID != records[0].NewUserID {
			t.Errorf("case assignee disagrees with history for %s", caseID)
		}
		if records[0].AssignedByName != actor.Name {
			t.Errorf("history record missing actor name for %s", caseID)
		}
	}

	assigned := 0
	for _, event := range fx.bus.published {
		if _, ok := event.(events.CaseAssigned); ok {
			assigned++
		}
	}
	if assigned != 2 {
		t.Errorf("expected one assignment event per updated case, got %d", assigned)
	}
}

func TestBulkAssignNothingMatchedIsFailure(t *testing.T) {
	fx := newFixture(nil)
	actor := adminActor()

	resp, err := fx.svc.BulkAssign(context.Background(), actor, transport.BulkAssignRequest{
		CaseIDs: []uuid.UUID{uuid.New(), uuid.New()},
		UserID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("bulk assignment errored: %v", err)
	}
	if resp.Success {
		t.Error("a batch that updates nothing must not report success")
	}
	if resp.Count != 0 || resp.Message != "no matching cases found" {
		t.Errorf("unexpected empty-batch result: count=%d message=%q", resp.Count, resp.Message)
	}
	if len(fx.bus.published) != 0 {
		t.Errorf("no events expected for an empty batch, got %d", len(fx.bus.published))
	}
}

func TestListQueriesExclusiveCreatedBound(t *testing.T) {
	fx := newFixture(nil)
	actor := adminActor()
	createdTo := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	if _, err := fx.svc.List(context.Background(), actor, transport.ListCasesRequest{CreatedTo: &createdTo}); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	bound := fx.store.lastList.CreatedBefore
	if bound == nil {
		t.Fatal("expected an upper bound to reach storage")
	}
	if want := createdTo.Add(24 * time.Hour); !bound.Equal(want) {
		t.Errorf("upper bound = %v, want %v so the end day stays included", bound, want)
	}
}
