package port

import (
	"context"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishRoleChanged(ctx context.Context, event domain.RoleChangedEvent) error
	PublishMembershipChanged(ctx context.Context, event domain.MembershipChangedEvent) error
	PublishTeamChanged(ctx context.Context, event domain.TeamChangedEvent) error
}

// ActivityLog accepts audit records. Failures are not fatal to the caller.
type ActivityLog interface {
	Append(ctx context.Context, record domain.ActivityRecord) error
}
