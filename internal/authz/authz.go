// Package authz resolves whether a principal may act on a resource.
//
// All role and module-permission checks live here as one ordered rule list so
// handlers and services cannot drift apart on who is allowed to do what. The
// resolver is total: every (principal, action, resource) tuple produces
// exactly one of allow, deny or read-only.
package authz

import "formdesk/internal/model"

// Outcome is the tri-state resolver result. ReadOnly is not an error: the
// resource may be viewed but not mutated by this principal.
type Outcome string

const (
	Allow    Outcome = "allow"
	Deny     Outcome = "deny"
	ReadOnly Outcome = "read_only"
)

// Decision is the resolver result with a reason for deny outcomes
type Decision struct {
	Outcome Outcome
	Reason  string
}

// Allowed reports whether the action may proceed as a mutation
func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Action names an operation the resolver understands
type Action string

const (
	// Respondent portal
	ActionSubmitResponse Action = "response:submit"
	ActionEditResponse   Action = "response:edit"
	ActionViewOwnData    Action = "response:view_own"

	// Admin portal, forms module
	ActionManageForms       Action = "form:manage"
	ActionMutateForm        Action = "form:mutate"
	ActionDeleteForm        Action = "form:delete"
	ActionViewFormResponses Action = "form:view_responses"

	// Admin portal, users module
	ActionManageUsers        Action = "user:manage"
	ActionMutateUser         Action = "user:mutate"
	ActionSetUserRole        Action = "user:set_role"
	ActionEditProtectedField Action = "user:edit_protected"

	// Admin portal, global
	ActionUpdateSettings Action = "settings:update"
)

// Principal is the authenticated actor making a request
type Principal struct {
	ID            string
	Role          model.Role
	Perms         model.ModulePermissions
	Authenticated bool
}

// Resource carries the attributes rules look at. For form actions OwnerID is
// the form creator; for user mutations it is the target account's id and
// TargetRole its role.
type Resource struct {
	OwnerID    string
	TargetRole model.Role
}

var respondentActions = map[Action]bool{
	ActionSubmitResponse: true,
	ActionEditResponse:   true,
	ActionViewOwnData:    true,
}

var ownershipActions = map[Action]bool{
	ActionMutateForm: true,
	ActionDeleteForm: true,
}

var superAdminOnlyActions = map[Action]bool{
	ActionSetUserRole:        true,
	ActionEditProtectedField: true,
	ActionUpdateSettings:     true,
}

var userMutationActions = map[Action]bool{
	ActionMutateUser:         true,
	ActionSetUserRole:        true,
	ActionEditProtectedField: true,
}

var userModuleActions = map[Action]bool{
	ActionManageUsers:        true,
	ActionMutateUser:         true,
	ActionSetUserRole:        true,
	ActionEditProtectedField: true,
}

var formModuleActions = map[Action]bool{
	ActionManageForms:       true,
	ActionViewFormResponses: true,
}

// Resolve applies the rule list in order; the first matching rule wins.
// Self-protection on user mutations is checked before the coarser module
// gate so a protected target reads back as read-only, not as a deny.
func Resolve(p Principal, a Action, res Resource) Decision {
	// Rule 1: authentication
	if !p.Authenticated {
		return Decision{Outcome: Deny, Reason: "authentication required"}
	}

	// Rule 2: portal separation, both directions
	if respondentActions[a] && p.Role != model.RoleUser {
		return Decision{Outcome: Deny, Reason: "admin accounts cannot use the respondent portal"}
	}
	if !respondentActions[a] && p.Role != model.RoleAdmin && p.Role != model.RoleSuperAdmin {
		return Decision{Outcome: Deny, Reason: "admin portal requires an admin account"}
	}

	// Rule 6 (specific before coarse): a SUPERADMIN account is read-only to
	// everyone but itself; an ADMIN account is read-only to other admins.
	if userMutationActions[a] && res.OwnerID != p.ID {
		switch p.Role {
		case model.RoleSuperAdmin:
			if res.TargetRole == model.RoleSuperAdmin {
				return Decision{Outcome: ReadOnly}
			}
		case model.RoleAdmin:
			if res.TargetRole == model.RoleAdmin || res.TargetRole == model.RoleSuperAdmin {
				return Decision{Outcome: ReadOnly}
			}
		}
	}

	// Rule 3: resource ownership on form mutations, terminal either way
	if ownershipActions[a] {
		if p.Role == model.RoleSuperAdmin || p.ID == res.OwnerID {
			return Decision{Outcome: Allow}
		}
		return Decision{Outcome: Deny, Reason: "only the form owner may modify it"}
	}

	// Rule 5: role-restricted fields
	if superAdminOnlyActions[a] && p.Role != model.RoleSuperAdmin {
		return Decision{Outcome: Deny, Reason: "superadmin required"}
	}

	// Rule 4: module gates for non-super admins
	if p.Role == model.RoleAdmin {
		if userModuleActions[a] && !p.Perms.Users {
			return Decision{Outcome: Deny, Reason: "users module not granted"}
		}
		if formModuleActions[a] && !p.Perms.Forms {
			return Decision{Outcome: Deny, Reason: "forms module not granted"}
		}
	}

	// Rule 7: default
	return Decision{Outcome: Allow}
}
