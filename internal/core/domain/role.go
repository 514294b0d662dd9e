package domain

import (
	"strings"
	"time"
)

// RoleType distinguishes built-in roles from team-defined ones.
type RoleType string

const (
	RoleTypeDefault RoleType = "default"
	RoleTypeCustom  RoleType = "custom"
)

// Built-in role identifiers. For default roles the ID and the name are the same value,
// which is also what legacy memberships store in team_role_id.
const (
	RoleOwner   = "Owner"
	RoleMember  = "Member"
	RoleManager = "Manager"
	RoleAdmin   = "Admin"
)

// Role is a named permission matrix assignable to team members.
type Role struct {
	ID          string
	TeamID      *string
	Name        string
	Description *string
	Type        RoleType
	Permissions Matrix
	IsActive    bool
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsDefault reports whether the role is one of the built-in roles.
func (r Role) IsDefault() bool {
	return r.Type == RoleTypeDefault
}

var defaultRoleOrder = []string{RoleOwner, RoleMember, RoleManager, RoleAdmin}

func managerMatrix() Matrix {
	return DefaultMatrix().Grant(
		"sites.view", "sites.create", "sites.edit", "sites.share", "sites.manage_plugins",
		"plugins.view", "plugins.install", "plugins.activate", "plugins.deactivate", "plugins.manage_versions",
		"members.view", "members.invite",
		"notifications.view", "notifications.create",
	)
}

func adminMatrix() Matrix {
	m := FullMatrix()
	m[CategoryMembers][ActionManageRoles] = false
	m[CategoryTeam][ActionManageRoles] = false
	return m
}

func builtinRole(name, description string, permissions Matrix) Role {
	desc := description
	return Role{
		ID:          name,
		Name:        name,
		Description: &desc,
		Type:        RoleTypeDefault,
		Permissions: permissions,
		IsActive:    true,
	}
}

// DefaultRoles returns fresh copies of the built-in roles in display order.
func DefaultRoles() []Role {
	return []Role{
		builtinRole(RoleOwner, "Full access to the team; cannot be restricted", FullMatrix()),
		builtinRole(RoleMember, "Read-only access to the team", DefaultMatrix()),
		builtinRole(RoleManager, "Manages sites, plugins and invitations", managerMatrix()),
		builtinRole(RoleAdmin, "Full access except role management", adminMatrix()),
	}
}

// DefaultRole looks up a built-in role by id or name, ignoring case.
func DefaultRole(idOrName string) (Role, bool) {
	key := strings.TrimSpace(idOrName)
	for _, role := range DefaultRoles() {
		if strings.EqualFold(role.ID, key) {
			return role, true
		}
	}
	return Role{}, false
}

// IsDefaultRoleID reports whether the identifier names a built-in role.
func IsDefaultRoleID(idOrName string) bool {
	_, ok := DefaultRole(idOrName)
	return ok
}

// DefaultRoleNames lists the built-in role names in display order.
func DefaultRoleNames() []string {
	out := make([]string, len(defaultRoleOrder))
	copy(out, defaultRoleOrder)
	return out
}
