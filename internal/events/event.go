// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"caseflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Case Lifecycle Domain Events
// =============================================================================

// LeadConverted is published after a lead has been converted into cases.
type LeadConverted struct {
	BaseEvent
	LeadID      uuid.UUID   `json:"leadId"`
	CaseIDs     []uuid.UUID `json:"caseIds"`
	SchemeType  string      `json:"schemeType"`
	ConvertedBy uuid.UUID   `json:"convertedBy"`
}

func (e LeadConverted) EventName() string { return "cases.lead.converted" }

// CaseCreated is published once per case synthesized during conversion.
type CaseCreated struct {
	BaseEvent
	CaseID     uuid.UUID `json:"caseId"`
	LeadID     uuid.UUID `json:"leadId"`
	CaseNumber string    `json:"caseNumber"`
	SchemeType string    `json:"schemeType"`
	CreatedBy  uuid.UUID `json:"createdBy"`
}

func (e CaseCreated) EventName() string { return "cases.case.created" }

// CaseStatusChanged is published when a case moves through the status machine.
type CaseStatusChanged struct {
	BaseEvent
	CaseID    uuid.UUID `json:"caseId"`
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedBy uuid.UUID `json:"changedBy"`
}

func (e CaseStatusChanged) EventName() string { return "cases.case.status_changed" }

// CaseAssigned is published when a case is assigned or reassigned, including
// each case touched by a bulk assignment.
type CaseAssigned struct {
	BaseEvent
	CaseID         uuid.UUID  `json:"caseId"`
	LeadID         uuid.UUID  `json:"leadId"`
	PreviousUserID *uuid.UUID `json:"previousUserId,omitempty"`
	NewUserID      uuid.UUID  `json:"newUserId"`
	NewRole        *string    `json:"newRole,omitempty"`
	AssignedBy     uuid.UUID  `json:"assignedBy"`
}

func (e CaseAssigned) EventName() string { return "cases.case.assigned" }

// CaseDeleted is published when a case is removed. Deletion is irreversible
// and does not un-convert the originating lead.
type CaseDeleted struct {
	BaseEvent
	CaseID    uuid.UUID `json:"caseId"`
	LeadID    uuid.UUID `json:"leadId"`
	DeletedBy uuid.UUID `json:"deletedBy"`
}

func (e CaseDeleted) EventName() string { return "cases.case.deleted" }
