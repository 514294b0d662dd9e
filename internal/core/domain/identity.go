package domain

import "time"

// Actor is the authenticated caller as supplied by the identity provider.
type Actor struct {
	UserID string
	Email  string
}

// ActivityRecord is an audit entry describing a mutation.
type ActivityRecord struct {
	ID         string
	ActorID    string
	ActorEmail string
	Action     string
	EntityType string
	EntityID   string
	TeamID     string
	CreatedAt  time.Time
}

// Activity entity types.
const (
	EntityTeam       = "team"
	EntityRole       = "role"
	EntityMembership = "membership"
)
