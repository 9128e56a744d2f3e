package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"caseflow_backend/internal/cases/domain"
	"caseflow_backend/internal/cases/repository"
	"caseflow_backend/internal/cases/transport"
	"caseflow_backend/platform/apperr"
)

// GetByID returns a case inside the actor's visibility scope.
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, caseID uuid.UUID) (transport.CaseResponse, error) {
	item, err := s.visibleCase(ctx, actor, caseID)
	if err != nil {
		return transport.CaseResponse{}, err
	}
	return toCaseResponse(item), nil
}

// List returns a filtered, paginated page of the actor's visible cases.
// Filters narrow the visible slice; they can never widen it.
func (s *Service) List(ctx context.Context, actor domain.Actor, req transport.ListCasesRequest) (transport.ListCasesResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	for _, status := range req.Status {
		if !domain.ValidStatus(domain.ProcessStatus(status)) {
			return transport.ListCasesResponse{}, apperr.Validation(fmt.Sprintf("unknown status filter %q", status))
		}
	}

	scope := domain.VisibilityScope(actor)
	if scope.None() {
		return transport.ListCasesResponse{
			Items:    []transport.CaseResponse{},
			Total:    0,
			Page:     page,
			PageSize: pageSize,
		}, nil
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Scope:         scopeToRepo(scope),
		Statuses:      req.Status,
		AssignedTo:    req.AssignedTo,
		Priorities:    req.Priority,
		SchemeType:    req.SchemeType,
		Search:        req.Search,
		CreatedFrom:   req.CreatedFrom,
		CreatedBefore: createdUpperBound(req.CreatedTo),
		Offset:        (page - 1) * pageSize,
		Limit:         pageSize,
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		return transport.ListCasesResponse{}, err
	}

	return transport.ListCasesResponse{
		Items:    toCaseResponses(items),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// createdUpperBound turns the inclusive createdTo date into the exclusive
// bound storage queries with, so cases created during the end day still
// match.
func createdUpperBound(createdTo *time.Time) *time.Time {
	if createdTo == nil {
		return nil
	}
	bound := createdTo.Add(24 * time.Hour)
	return &bound
}

// Stats aggregates the actor's visible cases into status and priority
// histograms. Every enum value appears, zero-filled, so clients render
// stable charts.
func (s *Service) Stats(ctx context.Context, actor domain.Actor) (transport.StatsResponse, error) {
	response := transport.StatsResponse{
		ByStatus:   make(map[string]int, len(domain.AllStatuses())),
		ByPriority: make(map[string]int, len(domain.AllPriorities())),
	}
	for _, status := range domain.AllStatuses() {
		response.ByStatus[string(status)] = 0
	}
	for _, priority := range domain.AllPriorities() {
		response.ByPriority[string(priority)] = 0
	}

	scope := domain.VisibilityScope(actor)
	if scope.None() {
		return response, nil
	}

	stats, err := s.repo.Stats(ctx, scopeToRepo(scope))
	if err != nil {
		return transport.StatsResponse{}, err
	}

	response.Total = stats.Total
	for status, count := range stats.StatusCounts {
		response.ByStatus[status] = count
	}
	for priority, count := range stats.PriorityCounts {
		response.ByPriority[priority] = count
	}

	return response, nil
}
