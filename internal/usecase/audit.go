package usecase

import (
	"context"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/logger"
)

// auditTrail fans a successful mutation out to the activity log and the event bus.
// Neither sink can fail the mutation.
type auditTrail struct {
	activity port.ActivityLog
	events   port.EventPublisher
	logger   *zap.Logger
}

func (a auditTrail) record(ctx context.Context, actor domain.Actor, record domain.ActivityRecord) {
	if a.activity == nil {
		return
	}
	record.ActorID = actor.UserID
	record.ActorEmail = actor.Email
	if err := a.activity.Append(ctx, record); err != nil {
		a.logger.Warn("append activity record failed",
			zap.String("team_id", record.TeamID),
			zap.String("entity_type", record.EntityType),
			zap.String("entity_id", record.EntityID),
			zap.String("actor_email", logger.MaskEmail(actor.Email)),
			zap.Error(err),
		)
	}
}

func (a auditTrail) roleChanged(ctx context.Context, event domain.RoleChangedEvent) {
	if a.events == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if err := a.events.PublishRoleChanged(ctx, event); err != nil {
		a.logger.Warn("publish role changed event failed",
			zap.String("team_id", event.TeamID),
			zap.String("role_id", event.RoleID),
			zap.String("change", string(event.Change)),
			zap.Error(err),
		)
	}
}

func (a auditTrail) membershipChanged(ctx context.Context, event domain.MembershipChangedEvent) {
	if a.events == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if err := a.events.PublishMembershipChanged(ctx, event); err != nil {
		a.logger.Warn("publish membership changed event failed",
			zap.String("team_id", event.TeamID),
			zap.String("user_id", event.UserID),
			zap.String("change", string(event.Change)),
			zap.Error(err),
		)
	}
}

func (a auditTrail) teamChanged(ctx context.Context, event domain.TeamChangedEvent) {
	if a.events == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if err := a.events.PublishTeamChanged(ctx, event); err != nil {
		a.logger.Warn("publish team changed event failed",
			zap.String("team_id", event.TeamID),
			zap.String("change", string(event.Change)),
			zap.Error(err),
		)
	}
}
