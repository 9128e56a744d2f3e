package domain

import "github.com/google/uuid"

// Scope is the visibility projection for an acting user. Exactly one of the
// three shapes applies: everything, only cases assigned to AssignedTo, or
// nothing.
type Scope struct {
	All        bool
	AssignedTo *uuid.UUID
}

// None reports whether the scope admits no cases at all.
func (s Scope) None() bool {
	return !s.All && s.AssignedTo == nil
}

// VisibilityScope derives the scope for an actor. Managers see everything, a
// process executive sees only cases assigned to them, and every other role
// sees nothing. Every read path composes on this projection; nothing queries
// the raw case collection.
func VisibilityScope(actor Actor) Scope {
	switch actor.Role {
	case RoleAdmin, RoleProcessManager, RoleSalesManager:
		return Scope{All: true}
	case RoleProcessExecutive:
		id := actor.UserID
		return Scope{AssignedTo: &id}
	default:
		return Scope{}
	}
}

// CanSee reports whether a case with the given assignee is inside the scope.
// Unassigned cases are invisible to a user-scoped reader even when they
// belong to the same company or lead family.
func (s Scope) CanSee(assignedUserID *uuid.UUID) bool {
	if s.All {
		return true
	}
	if s.AssignedTo == nil {
		return false
	}
	return assignedUserID != nil && *assignedUserID == *s.AssignedTo
}
