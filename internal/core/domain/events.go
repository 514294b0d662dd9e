package domain

import "time"

// RoleChange enumerates role lifecycle transitions carried by RoleChangedEvent.
type RoleChange string

const (
	RoleCreated     RoleChange = "created"
	RoleUpdated     RoleChange = "updated"
	RoleDeactivated RoleChange = "deactivated"
)

// MembershipChange enumerates membership transitions carried by MembershipChangedEvent.
type MembershipChange string

const (
	MemberInvited      MembershipChange = "invited"
	MemberJoined       MembershipChange = "joined"
	MemberRoleAssigned MembershipChange = "role_assigned"
	MemberRemoved      MembershipChange = "removed"
)

// TeamChange enumerates team transitions carried by TeamChangedEvent.
type TeamChange string

const (
	TeamCreated         TeamChange = "created"
	TeamSettingsUpdated TeamChange = "settings_updated"
)

// RoleChangedEvent represents the payload for wphub.team.role.<change> messages.
type RoleChangedEvent struct {
	EventID     string
	TeamID      string
	RoleID      string
	RoleName    string
	Change      RoleChange
	Permissions Matrix
	ActorID     string
	OccurredAt  time.Time
	Metadata    map[string]any
}

// MembershipChangedEvent represents the payload for wphub.team.member.<change> messages.
type MembershipChangedEvent struct {
	EventID    string
	TeamID     string
	UserID     string
	RoleID     string
	Change     MembershipChange
	ActorID    string
	OccurredAt time.Time
	Metadata   map[string]any
}

// TeamChangedEvent represents the payload for wphub.team.<change> messages.
type TeamChangedEvent struct {
	EventID    string
	TeamID     string
	OwnerID    string
	Change     TeamChange
	ActorID    string
	OccurredAt time.Time
	Metadata   map[string]any
}
