package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
)

// RoleSource describes which step of the resolution chain produced a role.
type RoleSource string

const (
	RoleSourceOwner         RoleSource = "owner"
	RoleSourceAssigned      RoleSource = "assigned"
	RoleSourceTeamDefault   RoleSource = "team_default"
	RoleSourceBuiltinMember RoleSource = "builtin_member"
)

// ResolvedRole is the effective role of a user within a team.
type ResolvedRole struct {
	Role   domain.Role
	Owner  bool
	Source RoleSource
	// LegacyManageMembers mirrors the flat manage_members flag of the membership.
	LegacyManageMembers bool
}

// RoleLister provides the role set of a team.
type RoleLister interface {
	ListRoles(ctx context.Context, teamID string) ([]domain.Role, error)
}

// IsOwner reports whether userID owns the team.
func IsOwner(team domain.Team, userID string) bool {
	return userID != "" && team.OwnerID == userID
}

// ResolveMembership returns the active membership of userID or ErrNotAMember.
func ResolveMembership(team domain.Team, userID string) (domain.Membership, error) {
	if userID == "" {
		return domain.Membership{}, ErrNotAMember
	}
	member, ok := team.FindMember(userID)
	if !ok || member.Status != domain.MembershipActive {
		return domain.Membership{}, ErrNotAMember
	}
	return member, nil
}

// MembershipResolver maps a (team, user) pair to an effective role.
type MembershipResolver struct {
	roles  RoleLister
	logger *zap.Logger
}

// NewMembershipResolver constructs a resolver backed by the given role set provider.
func NewMembershipResolver(roles RoleLister) *MembershipResolver {
	return &MembershipResolver{roles: roles, logger: zap.NewNop()}
}

// WithLogger sets the logger used when the role store is unavailable.
func (r *MembershipResolver) WithLogger(logger *zap.Logger) *MembershipResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.logger = logger
	return r
}

// ResolveRole returns the synthetic Owner role for the owner. For members it resolves
// team_role_id, then the team default role, then the built-in Member role. It only
// fails with ErrNotAMember.
func (r *MembershipResolver) ResolveRole(ctx context.Context, team domain.Team, userID string) (ResolvedRole, error) {
	if IsOwner(team, userID) {
		owner, _ := domain.DefaultRole(domain.RoleOwner)
		return ResolvedRole{Role: owner, Owner: true, Source: RoleSourceOwner}, nil
	}

	member, err := ResolveMembership(team, userID)
	if err != nil {
		return ResolvedRole{}, err
	}

	roles := r.teamRoles(ctx, team.ID)
	resolved := ResolvedRole{LegacyManageMembers: member.ManageMembers}

	if role, ok := findRole(roles, member.TeamRoleID, false); ok {
		resolved.Role = role
		resolved.Source = RoleSourceAssigned
		return resolved, nil
	}

	if role, ok := findRole(roles, team.DefaultRoleID(), true); ok {
		r.logger.Debug("member role reference dangling, using team default",
			zap.String("team_id", team.ID),
			zap.String("user_id", userID),
			zap.String("team_role_id", member.TeamRoleID),
		)
		resolved.Role = role
		resolved.Source = RoleSourceTeamDefault
		return resolved, nil
	}

	fallback, _ := domain.DefaultRole(domain.RoleMember)
	resolved.Role = fallback
	resolved.Source = RoleSourceBuiltinMember
	return resolved, nil
}

func (r *MembershipResolver) teamRoles(ctx context.Context, teamID string) []domain.Role {
	if r.roles == nil {
		return domain.DefaultRoles()
	}
	roles, err := r.roles.ListRoles(ctx, teamID)
	if err != nil {
		r.logger.Warn("list team roles failed, resolving against default roles",
			zap.String("team_id", teamID),
			zap.Error(err),
		)
		return domain.DefaultRoles()
	}
	return roles
}

// findRole matches ref against role ids; built-in roles also match case-insensitively
// by name, and byName extends that to custom roles. The Owner role is only reachable
// through team ownership.
func findRole(roles []domain.Role, ref string, byName bool) (domain.Role, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Role{}, false
	}

	for _, role := range roles {
		if role.ID == ref && role.IsActive {
			if role.ID == domain.RoleOwner {
				return domain.Role{}, false
			}
			return role, true
		}
	}

	for _, role := range roles {
		if !role.IsActive || role.ID == domain.RoleOwner {
			continue
		}
		if (byName || role.IsDefault()) && strings.EqualFold(role.Name, ref) {
			return role, true
		}
	}

	return domain.Role{}, false
}
