// Package domain holds the pure rules of the case lifecycle: the status state
// machine, the role capability table and the visibility projection. Nothing in
// this package touches storage or transport.
package domain

import "fmt"

// ProcessStatus is the processing state of a case.
type ProcessStatus string

const (
	StatusDocumentsPending  ProcessStatus = "DOCUMENTS_PENDING"
	StatusDocumentsReceived ProcessStatus = "DOCUMENTS_RECEIVED"
	StatusVerification      ProcessStatus = "VERIFICATION"
	StatusSubmitted         ProcessStatus = "SUBMITTED"
	StatusQueryRaised       ProcessStatus = "QUERY_RAISED"
	StatusApproved          ProcessStatus = "APPROVED"
	StatusRejected          ProcessStatus = "REJECTED"
	StatusClosed            ProcessStatus = "CLOSED"
)

// AllStatuses lists every process status in display order. Statistics
// histograms are zero-filled over this list.
func AllStatuses() []ProcessStatus {
	return []ProcessStatus{
		StatusDocumentsPending,
		StatusDocumentsReceived,
		StatusVerification,
		StatusSubmitted,
		StatusQueryRaised,
		StatusApproved,
		StatusRejected,
		StatusClosed,
	}
}

// ValidStatus reports whether value names a known process status.
func ValidStatus(value ProcessStatus) bool {
	for _, status := range AllStatuses() {
		if status == value {
			return true
		}
	}
	return false
}

// Priority is the processing priority of a case.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// AllPriorities lists every priority in ascending order.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// ValidPriority reports whether value names a known priority.
func ValidPriority(value Priority) bool {
	for _, priority := range AllPriorities() {
		if priority == value {
			return true
		}
	}
	return false
}

// TransitionTable maps each status to the set of statuses it may move to.
// The table is injected configuration: which variant applies is a product
// decision, not a hard-coded rule.
type TransitionTable map[ProcessStatus][]ProcessStatus

// CanTransition reports whether a case in from may move to to.
func (t TransitionTable) CanTransition(from, to ProcessStatus) bool {
	for _, allowed := range t[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Validate checks a requested transition and returns an error naming both
// states when the move is not allowed.
func (t TransitionTable) Validate(from, to ProcessStatus) error {
	if !ValidStatus(to) {
		return fmt.Errorf("unknown status %s", to)
	}
	if !t.CanTransition(from, to) {
		return fmt.Errorf("cannot move case from %s to %s", from, to)
	}
	return nil
}

// PermissiveTransitions allows any status to move to any status, including
// itself. This matches the current production rule.
func PermissiveTransitions() TransitionTable {
	table := make(TransitionTable, len(AllStatuses()))
	for _, from := range AllStatuses() {
		table[from] = AllStatuses()
	}
	return table
}

// StrictTransitions is the directed-graph variant: documents flow forward
// through verification and submission, queries bounce back to submission,
// APPROVED and REJECTED are dead-ends feeding only into CLOSED, and CLOSED is
// terminal.
func StrictTransitions() TransitionTable {
	return TransitionTable{
		StatusDocumentsPending:  {StatusDocumentsReceived, StatusClosed},
		StatusDocumentsReceived: {StatusDocumentsPending, StatusVerification, StatusClosed},
		StatusVerification:      {StatusSubmitted, StatusQueryRaised, StatusClosed},
		StatusSubmitted:         {StatusQueryRaised, StatusApproved, StatusRejected, StatusClosed},
		StatusQueryRaised:       {StatusSubmitted, StatusVerification, StatusClosed},
		StatusApproved:          {StatusClosed},
		StatusRejected:          {StatusClosed},
		StatusClosed:            {},
	}
}

// TableFor selects the transition table variant from configuration.
func TableFor(strict bool) TransitionTable {
	if strict {
		return StrictTransitions()
	}
	return PermissiveTransitions()
}
