// Package transport defines the wire-level request and response types for the
// cases API. Field names are camelCase to match the public contract.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// ConvertLeadRequest drives lead conversion. BenefitTypes fans the lead out
// into one case per entry; an empty list produces a single general case.
type ConvertLeadRequest struct {
	SchemeType   string         `json:"schemeType" validate:"required,min=2,max=100"`
	CaseType     *string        `json:"caseType" validate:"omitempty,max=100"`
	BenefitTypes []string       `json:"benefitTypes" validate:"omitempty,max=20,dive,min=1,max=100"`
	Priority     *string        `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Metadata     map[string]any `json:"metadata"`
}

// CaseResponse is the canonical wire shape of a case. BenefitTypes is a list
// with zero or one entry today.
type CaseResponse struct {
	ID                    uuid.UUID      `json:"id"`
	LeadID                uuid.UUID      `json:"leadId"`
	CaseNumber            string         `json:"caseNumber"`
	SchemeType            string         `json:"schemeType"`
	CaseType              *string        `json:"caseType,omitempty"`
	BenefitTypes          []string       `json:"benefitTypes"`
	ProcessStatus         string         `json:"processStatus"`
	Priority              string         `json:"priority"`
	AssignedProcessUserID *uuid.UUID     `json:"assignedProcessUserId,omitempty"`
	AssignedRole          *string        `json:"assignedRole,omitempty"`
	ClientName            string         `json:"clientName"`
	Company               string         `json:"company"`
	MobileNumber          string         `json:"mobileNumber"`
	ConsumerNumber        *string        `json:"consumerNumber,omitempty"`
	KVA                   *string        `json:"kva,omitempty"`
	Metadata              map[string]any `json:"metadata,omitempty"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
	ClosedAt              *time.Time     `json:"closedAt,omitempty"`
}

type ConvertLeadResponse struct {
	LeadID uuid.UUID      `json:"leadId"`
	Cases  []CaseResponse `json:"cases"`
	Count  int            `json:"count"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdatePriorityRequest struct {
	Priority string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH URGENT"`
}

type AssignCaseRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
	Role   *string   `json:"role" validate:"omitempty,oneof=PROCESS_MANAGER PROCESS_EXECUTIVE"`
}

type BulkAssignRequest struct {
	CaseIDs []uuid.UUID `json:"caseIds" validate:"required,min=1,max=500"`
	UserID  uuid.UUID   `json:"userId" validate:"required"`
	Role    *string     `json:"role" validate:"omitempty,oneof=PROCESS_MANAGER PROCESS_EXECUTIVE"`
}

type BulkAssignResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ListCasesRequest binds the list query string. Repeated status and priority
// params combine as an OR filter; all distinct filters combine as AND.
type ListCasesRequest struct {
	Status      []string   `form:"status" validate:"omitempty,dive,min=1"`
	AssignedTo  *uuid.UUID `form:"assignedTo"`
	Priority    []string   `form:"priority" validate:"omitempty,dive,oneof=LOW MEDIUM HIGH URGENT"`
	SchemeType  *string    `form:"schemeType" validate:"omitempty,min=1,max=100"`
	Search      string     `form:"search" validate:"omitempty,max=200"`
	CreatedFrom *time.Time `form:"createdFrom" time_format:"2006-01-02"`
	CreatedTo   *time.Time `form:"createdTo" time_format:"2006-01-02"`
	Page        int        `form:"page" validate:"omitempty,min=1"`
	PageSize    int        `form:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy      string     `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt caseNumber clientName company status priority"`
	SortOrder   string     `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type ListCasesResponse struct {
	Items    []CaseResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// StatsResponse reports case counts over the caller's visible slice. Both
// histograms carry every enum value, zero-filled.
type StatsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPriority map[string]int `json:"byPriority"`
}

type AssignmentRecordResponse struct {
	ID             uuid.UUID  `json:"id"`
	CaseID         uuid.UUID  `json:"caseId"`
	PreviousUserID *uuid.UUID `json:"previousUserId,omitempty"`
	PreviousRole   *string    `json:"previousRole,omitempty"`
	NewUserID      uuid.UUID  `json:"newUserId"`
	NewRole        *string    `json:"newRole,omitempty"`
	AssignedBy     uuid.UUID  `json:"assignedBy"`
	AssignedByName string     `json:"assignedByName"`
	AssignedAt     time.Time  `json:"assignedAt"`
}

type AssignmentHistoryResponse struct {
	CaseID  uuid.UUID                  `json:"caseId"`
	Records []AssignmentRecordResponse `json:"records"`
}
