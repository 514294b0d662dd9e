package domain

import "time"

// MembershipStatus enumerates the lifecycle of a team membership.
type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "active"
	MembershipInvited MembershipStatus = "invited"
	MembershipRemoved MembershipStatus = "removed"
)

// TeamSettings holds per-team behaviour switches.
type TeamSettings struct {
	AllowMemberInvites bool
	// DefaultTeamRoleID is a role id or built-in role name.
	DefaultTeamRoleID string
}

// Membership links a user to a team with a role reference.
type Membership struct {
	UserID     string
	Email      string
	TeamRoleID string
	Status     MembershipStatus
	// ManageMembers is the legacy flat permission carried by older memberships.
	// When set it grants members.manage_roles.
	ManageMembers bool
	JoinedAt      time.Time
}

// Team is a collaboration scope owning members and custom roles.
type Team struct {
	ID          string
	Name        string
	Description *string
	AvatarURL   *string
	OwnerID     string
	Settings    TeamSettings
	Members     []Membership
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultRoleID returns the configured default role id, falling back to Member.
func (t Team) DefaultRoleID() string {
	if t.Settings.DefaultTeamRoleID == "" {
		return RoleMember
	}
	return t.Settings.DefaultTeamRoleID
}

// FindMember returns the membership for userID regardless of status.
func (t Team) FindMember(userID string) (Membership, bool) {
	for _, member := range t.Members {
		if member.UserID == userID {
			return member, true
		}
	}
	return Membership{}, false
}
