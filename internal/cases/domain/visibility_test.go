package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestVisibilityScopePerRole(t *testing.T) {
	userID := uuid.New()

	for _, role := range []Role{RoleAdmin, RoleProcessManager, RoleSalesManager} {
		scope := VisibilityScope(Actor{UserID: userID, Role: role})
		if !scope.All {
			t.Errorf("role %s must see all cases", role)
		}
	}

	scope := VisibilityScope(Actor{UserID: userID, Role: RoleProcessExecutive})
	if scope.All {
		t.Error("process executive must not see all cases")
	}
	if scope.AssignedTo == nil || *scope.AssignedTo != userID {
		t.Error("process executive scope must be restricted to own user id")
	}

	for _, role := range []Role{RoleSalesExecutive, Role("INTERN"), Role("")} {
		scope := VisibilityScope(Actor{UserID: userID, Role: role})
		if !scope.None() {
			t.Errorf("role %q must see nothing", role)
		}
	}
}

func TestCanSeeIsolation(t *testing.T) {
	executive := uuid.New()
	other := uuid.New()
	scope := VisibilityScope(Actor{UserID: executive, Role: RoleProcessExecutive})

	// Two cases for the same company: one assigned to the executive, one
	// unassigned. The executive must see exactly the assigned one.
	if !scope.CanSee(&executive) {
		t.Error("executive must see a case assigned to them")
	}
	if scope.CanSee(nil) {
		t.Error("executive must not see an unassigned sibling case")
	}
	if scope.CanSee(&other) {
		t.Error("executive must not see a case assigned to another user")
	}

	admin := VisibilityScope(Actor{UserID: other, Role: RoleAdmin})
	if !admin.CanSee(nil) || !admin.CanSee(&executive) {
		t.Error("admin scope must see every case")
	}

	none := VisibilityScope(Actor{UserID: other, Role: RoleSalesExecutive})
	if none.CanSee(&other) {
		t.Error("sales executive must see nothing, even own assignments")
	}
}
