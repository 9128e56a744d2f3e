package domain

import "testing"

func TestCapabilityTable(t *testing.T) {
	cases := []struct {
		action Action
		role   Role
		want   bool
	}{
		{ActionAssignCase, RoleAdmin, true},
		{ActionAssignCase, RoleProcessManager, true},
		{ActionAssignCase, RoleSalesManager, false},
		{ActionAssignCase, RoleProcessExecutive, false},
		{ActionAssignCase, RoleSalesExecutive, false},

		{ActionBulkAssign, RoleAdmin, true},
		{ActionBulkAssign, RoleProcessManager, true},
		{ActionBulkAssign, RoleProcessExecutive, false},

		{ActionConvertLead, RoleAdmin, true},
		{ActionConvertLead, RoleSalesManager, true},
		{ActionConvertLead, RoleSalesExecutive, false},

		{ActionUpdateStatus, RoleProcessExecutive, true},
		{ActionUpdateStatus, RoleSalesManager, false},

		{ActionDeleteCase, RoleAdmin, true},
		{ActionDeleteCase, RoleProcessManager, false},

		{ActionViewAudit, RoleAdmin, true},
		{ActionViewAudit, RoleProcessManager, false},

		// Unknown roles never gain capabilities.
		{ActionAssignCase, Role("INTERN"), false},
		{Action("unknown"), RoleAdmin, false},
	}

	for _, tc := range cases {
		if got := Can(tc.action, tc.role); got != tc.want {
			t.Errorf("Can(%s, %s) = %v, want %v", tc.action, tc.role, got, tc.want)
		}
	}
}
