package domain

import "github.com/google/uuid"

// Role names the roles the identity provider may resolve for an acting user.
type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RoleProcessManager   Role = "PROCESS_MANAGER"
	RoleSalesManager     Role = "SALES_MANAGER"
	RoleProcessExecutive Role = "PROCESS_EXECUTIVE"
	RoleSalesExecutive   Role = "SALES_EXECUTIVE"
)

// Actor is the acting user descriptor resolved by the external identity
// provider. It is always passed explicitly; nothing in this subsystem reads
// an ambient current user.
type Actor struct {
	UserID uuid.UUID
	Name   string
	Role   Role
}

// Action names a mutating or privileged operation gated by the policy table.
type Action string

const (
	ActionConvertLead    Action = "convert_lead"
	ActionUpdateStatus   Action = "update_status"
	ActionUpdatePriority Action = "update_priority"
	ActionAssignCase     Action = "assign_case"
	ActionBulkAssign     Action = "bulk_assign"
	ActionDeleteCase     Action = "delete_case"
	ActionViewAudit      Action = "view_audit"
)

// capabilities is the single declarative policy table. Every call site
// authorizes through Can rather than re-deriving role checks ad hoc.
//
// Whether update_status should be gated at all is inconsistent in the
// upstream business rules; the gated reading is used here, with the assigned
// PROCESS_EXECUTIVE additionally allowed via the ownership check in the
// service layer.
var capabilities = map[Action][]Role{
	ActionConvertLead:    {RoleAdmin, RoleProcessManager, RoleSalesManager},
	ActionUpdateStatus:   {RoleAdmin, RoleProcessManager, RoleProcessExecutive},
	ActionUpdatePriority: {RoleAdmin, RoleProcessManager, RoleProcessExecutive},
	ActionAssignCase:     {RoleAdmin, RoleProcessManager},
	ActionBulkAssign:     {RoleAdmin, RoleProcessManager},
	ActionDeleteCase:     {RoleAdmin},
	ActionViewAudit:      {RoleAdmin},
}

// Can reports whether the role may perform the action.
func Can(action Action, role Role) bool {
	for _, allowed := range capabilities[action] {
		if allowed == role {
			return true
		}
	}
	return false
}
