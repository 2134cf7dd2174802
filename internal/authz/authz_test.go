package authz

import (
	"testing"

	"formdesk/internal/model"
)

func user(id string) Principal {
	return Principal{ID: id, Role: model.RoleUser, Authenticated: true}
}

func admin(id string, users, forms bool) Principal {
	return Principal{
		ID:            id,
		Role:          model.RoleAdmin,
		Perms:         model.ModulePermissions{Users: users, Forms: forms},
		Authenticated: true,
	}
}

func superAdmin(id string) Principal {
	return Principal{ID: id, Role: model.RoleSuperAdmin, Authenticated: true}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		name      string
		principal Principal
		action    Action
		resource  Resource
		want      Outcome
	}{
		// Rule 1: authentication
		{name: "anonymous submit", principal: Principal{}, action: ActionSubmitResponse, want: Deny},
		{name: "anonymous form manage", principal: Principal{}, action: ActionManageForms, want: Deny},

		// Rule 2: portal separation
		{name: "admin submitting response", principal: admin("a1", true, true), action: ActionSubmitResponse, want: Deny},
		{name: "superadmin editing response", principal: superAdmin("s1"), action: ActionEditResponse, want: Deny},
		{name: "user listing users", principal: user("u1"), action: ActionManageUsers, want: Deny},
		{name: "user mutating form", principal: user("u1"), action: ActionMutateForm, resource: Resource{OwnerID: "u1"}, want: Deny},
		{name: "user submits", principal: user("u1"), action: ActionSubmitResponse, want: Allow},
		{name: "user views own data", principal: user("u1"), action: ActionViewOwnData, want: Allow},

		// Rule 3: form ownership
		{name: "owner mutates form", principal: admin("a1", false, true), action: ActionMutateForm, resource: Resource{OwnerID: "a1"}, want: Allow},
		{name: "non-owner mutates form", principal: admin("a2", true, true), action: ActionMutateForm, resource: Resource{OwnerID: "a1"}, want: Deny},
		{name: "non-owner deletes form", principal: admin("a2", true, true), action: ActionDeleteForm, resource: Resource{OwnerID: "a1"}, want: Deny},
		{name: "superadmin mutates any form", principal: superAdmin("s1"), action: ActionMutateForm, resource: Resource{OwnerID: "a1"}, want: Allow},
		{name: "superadmin deletes any form", principal: superAdmin("s1"), action: ActionDeleteForm, resource: Resource{OwnerID: "a1"}, want: Allow},

		// Rule 4: module gates
		{name: "admin with forms lists forms", principal: admin("a1", false, true), action: ActionManageForms, want: Allow},
		{name: "admin without forms lists forms", principal: admin("a1", true, false), action: ActionManageForms, want: Deny},
		{name: "admin with users lists users", principal: admin("a1", true, false), action: ActionManageUsers, want: Allow},
		{name: "admin without users lists users", principal: admin("a1", false, true), action: ActionManageUsers, want: Deny},
		{name: "admin without forms views responses", principal: admin("a1", true, false), action: ActionViewFormResponses, want: Deny},
		{name: "superadmin bypasses module gates", principal: superAdmin("s1"), action: ActionManageUsers, want: Allow},

		// Rule 5: role-restricted fields
		{name: "admin sets role", principal: admin("a1", true, true), action: ActionSetUserRole, resource: Resource{OwnerID: "u1", TargetRole: model.RoleUser}, want: Deny},
		{name: "admin edits protected field", principal: admin("a1", true, true), action: ActionEditProtectedField, resource: Resource{OwnerID: "u1", TargetRole: model.RoleUser}, want: Deny},
		{name: "superadmin sets role", principal: superAdmin("s1"), action: ActionSetUserRole, resource: Resource{OwnerID: "u1", TargetRole: model.RoleUser}, want: Allow},
		{name: "admin updates settings", principal: admin("a1", true, true), action: ActionUpdateSettings, want: Deny},
		{name: "superadmin updates settings", principal: superAdmin("s1"), action: ActionUpdateSettings, want: Allow},

		// Rule 6: self-protection, checked before module gates
		{name: "superadmin mutates other superadmin", principal: superAdmin("s1"), action: ActionMutateUser, resource: Resource{OwnerID: "s2", TargetRole: model.RoleSuperAdmin}, want: ReadOnly},
		{name: "superadmin mutates self", principal: superAdmin("s1"), action: ActionMutateUser, resource: Resource{OwnerID: "s1", TargetRole: model.RoleSuperAdmin}, want: Allow},
		{name: "admin mutates other admin", principal: admin("a1", true, false), action: ActionMutateUser, resource: Resource{OwnerID: "a2", TargetRole: model.RoleAdmin}, want: ReadOnly},
		{name: "admin mutates superadmin", principal: admin("a1", true, false), action: ActionMutateUser, resource: Resource{OwnerID: "s1", TargetRole: model.RoleSuperAdmin}, want: ReadOnly},
		{name: "ungated admin still sees admin target as read-only", principal: admin("a1", false, false), action: ActionMutateUser, resource: Resource{OwnerID: "a2", TargetRole: model.RoleAdmin}, want: ReadOnly},
		{name: "admin with users mutates plain user", principal: admin("a1", true, false), action: ActionMutateUser, resource: Resource{OwnerID: "u1", TargetRole: model.RoleUser}, want: Allow},
		{name: "admin without users mutates plain user", principal: admin("a1", false, true), action: ActionMutateUser, resource: Resource{OwnerID: "u1", TargetRole: model.RoleUser}, want: Deny},
		{name: "superadmin mutates admin", principal: superAdmin("s1"), action: ActionMutateUser, resource: Resource{OwnerID: "a1", TargetRole: model.RoleAdmin}, want: Allow},

		// Rule 7: default
		{name: "admin creates form", principal: admin("a1", false, true), action: ActionManageForms, want: Allow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.principal, tc.action, tc.resource)
			if got.Outcome != tc.want {
				t.Fatalf("Resolve(%+v, %q, %+v) = %q (%s), want %q",
					tc.principal, tc.action, tc.resource, got.Outcome, got.Reason, tc.want)
			}
			if got.Outcome == Deny && got.Reason == "" {
				t.Fatal("deny outcome must carry a reason")
			}
		})
	}
}

// Every tuple resolves to exactly one of the three outcomes, whatever the
// combination of role, action and resource.
func TestResolveIsTotal(t *testing.T) {
	principals := []Principal{
		{},
		user("u1"),
		admin("a1", false, false),
		admin("a1", true, false),
		admin("a1", false, true),
		admin("a1", true, true),
		superAdmin("s1"),
		{ID: "x1", Role: model.Role("INTERN"), Authenticated: true},
	}
	actions := []Action{
		ActionSubmitResponse, ActionEditResponse, ActionViewOwnData,
		ActionManageForms, ActionMutateForm, ActionDeleteForm, ActionViewFormResponses,
		ActionManageUsers, ActionMutateUser, ActionSetUserRole, ActionEditProtectedField,
		ActionUpdateSettings,
	}
	resources := []Resource{
		{},
		{OwnerID: "a1"},
		{OwnerID: "other"},
		{OwnerID: "u1", TargetRole: model.RoleUser},
		{OwnerID: "a2", TargetRole: model.RoleAdmin},
		{OwnerID: "s2", TargetRole: model.RoleSuperAdmin},
	}

	for _, p := range principals {
		for _, a := range actions {
			for _, res := range resources {
				d := Resolve(p, a, res)
				switch d.Outcome {
				case Allow, Deny, ReadOnly:
				default:
					t.Fatalf("Resolve(%+v, %q, %+v) produced unknown outcome %q", p, a, res, d.Outcome)
				}
			}
		}
	}
}

// Unknown roles never reach the admin portal or the respondent portal.
func TestResolveRejectsUnknownRole(t *testing.T) {
	p := Principal{ID: "x1", Role: model.Role("INTERN"), Authenticated: true}
	for _, a := range []Action{ActionSubmitResponse, ActionManageForms, ActionManageUsers, ActionUpdateSettings} {
		if d := Resolve(p, a, Resource{}); d.Outcome != Deny {
			t.Fatalf("Resolve(unknown role, %q) = %q, want deny", a, d.Outcome)
		}
	}
}
