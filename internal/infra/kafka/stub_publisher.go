package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when kafka.enabled is false.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, teamID string, at time.Time, fields ...zap.Field) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published", append([]zap.Field{
		zap.String("event_type", eventType),
		zap.String("team_id", teamID),
		zap.Time("timestamp", at.UTC()),
	}, fields...)...)
}

// PublishRoleChanged logs team.role.<change> events.
func (p *StubPublisher) PublishRoleChanged(_ context.Context, event domain.RoleChangedEvent) error {
	p.logEvent(roleEventType(event.Change), event.TeamID, event.OccurredAt,
		zap.String("role_id", event.RoleID),
		zap.String("role_name", event.RoleName),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}

// PublishMembershipChanged logs team.member.<change> events.
func (p *StubPublisher) PublishMembershipChanged(_ context.Context, event domain.MembershipChangedEvent) error {
	p.logEvent(membershipEventType(event.Change), event.TeamID, event.OccurredAt,
		zap.String("user_id", event.UserID),
		zap.String("role_id", event.RoleID),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}

// PublishTeamChanged logs team.<change> events.
func (p *StubPublisher) PublishTeamChanged(_ context.Context, event domain.TeamChangedEvent) error {
	p.logEvent(teamEventType(event.Change), event.TeamID, event.OccurredAt,
		zap.String("owner_id", event.OwnerID),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
