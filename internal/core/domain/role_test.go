package domain

import "testing"

func TestDefaultRoles(t *testing.T) {
	roles := DefaultRoles()

	names := DefaultRoleNames()
	if len(roles) != len(names) {
		t.Fatalf("expected %d default roles, got %d", len(names), len(roles))
	}
	for i, role := range roles {
		if role.ID != names[i] || role.Name != names[i] {
			t.Fatalf("expected role %d to be %s, got %s/%s", i, names[i], role.ID, role.Name)
		}
		if !role.IsDefault() || !role.IsActive || role.TeamID != nil {
			t.Fatalf("expected active global default role, got %+v", role)
		}
		if err := role.Permissions.Validate(); err != nil {
			t.Fatalf("%s matrix invalid: %v", role.Name, err)
		}
	}

	if !roles[0].Permissions.Equal(FullMatrix()) {
		t.Fatalf("expected Owner to hold every permission")
	}
	if !roles[1].Permissions.Equal(DefaultMatrix()) {
		t.Fatalf("expected Member to hold the default matrix")
	}
}

func TestAdminCannotManageRoles(t *testing.T) {
	admin, ok := DefaultRole(RoleAdmin)
	if !ok {
		t.Fatalf("expected Admin default role")
	}
	if admin.Permissions[CategoryMembers][ActionManageRoles] || admin.Permissions[CategoryTeam][ActionManageRoles] {
		t.Fatalf("expected Admin to lack role management")
	}
	if !admin.Permissions[CategoryMembers][ActionRemove] || !admin.Permissions[CategoryTeam][ActionEditSettings] {
		t.Fatalf("expected Admin to hold the remaining permissions")
	}
}

func TestManagerMatrix(t *testing.T) {
	manager, _ := DefaultRole(RoleManager)

	granted := []string{"sites.create", "plugins.install", "members.invite", "notifications.create", "team.view"}
	for _, pair := range granted {
		category, action, _ := ParsePermission(pair)
		if !manager.Permissions[category][action] {
			t.Fatalf("expected Manager to hold %s", pair)
		}
	}

	denied := []string{"sites.delete", "plugins.uninstall", "members.remove", "team.edit_settings", "notifications.delete"}
	for _, pair := range denied {
		category, action, _ := ParsePermission(pair)
		if manager.Permissions[category][action] {
			t.Fatalf("expected Manager to lack %s", pair)
		}
	}
}

func TestDefaultRoleLookup(t *testing.T) {
	for _, ref := range []string{"Owner", "owner", " MANAGER "} {
		if !IsDefaultRoleID(ref) {
			t.Fatalf("expected %q to name a default role", ref)
		}
	}
	if IsDefaultRoleID("Editor") || IsDefaultRoleID("") {
		t.Fatalf("expected custom names not to match")
	}

	first, _ := DefaultRole(RoleOwner)
	first.Permissions[CategorySites][ActionView] = false
	second, _ := DefaultRole(RoleOwner)
	if !second.Permissions[CategorySites][ActionView] {
		t.Fatalf("expected DefaultRole to return fresh copies")
	}
}
