package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/config"
)

const schemaVersion = "1.0"

// Event type names, relative to the configured topic prefix.
func roleEventType(change domain.RoleChange) string {
	return "team.role." + string(change)
}

func membershipEventType(change domain.MembershipChange) string {
	return "team.member." + string(change)
}

func teamEventType(change domain.TeamChange) string {
	return "team." + string(change)
}

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	TeamID    string           `json:"team_id"`
	ActorID   string           `json:"actor_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, teamID, actorID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	if eventID == "" {
		eventID = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		metadata["trace_id"] = sc.TraceID().String()
	}

	bytes, err := json.Marshal(eventEnvelope{
		EventID:   eventID,
		EventType: eventType,
		TeamID:    teamID,
		ActorID:   actorID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(teamID),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishRoleChanged publishes team.role.<change> events.
func (p *EventPublisher) PublishRoleChanged(ctx context.Context, event domain.RoleChangedEvent) error {
	payload := struct {
		RoleID      string         `json:"role_id"`
		RoleName    string         `json:"role_name"`
		Change      string         `json:"change"`
		Permissions domain.Matrix  `json:"permissions,omitempty"`
		OccurredAt  time.Time      `json:"occurred_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		RoleID:      event.RoleID,
		RoleName:    event.RoleName,
		Change:      string(event.Change),
		Permissions: event.Permissions,
		OccurredAt:  event.OccurredAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, roleEventType(event.Change), event.TeamID, event.ActorID, event.OccurredAt, payload)
}

// PublishMembershipChanged publishes team.member.<change> events.
func (p *EventPublisher) PublishMembershipChanged(ctx context.Context, event domain.MembershipChangedEvent) error {
	payload := struct {
		UserID     string         `json:"user_id"`
		RoleID     string         `json:"role_id,omitempty"`
		Change     string         `json:"change"`
		OccurredAt time.Time      `json:"occurred_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		UserID:     event.UserID,
		RoleID:     event.RoleID,
		Change:     string(event.Change),
		OccurredAt: event.OccurredAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, membershipEventType(event.Change), event.TeamID, event.ActorID, event.OccurredAt, payload)
}

// PublishTeamChanged publishes team.<change> events.
func (p *EventPublisher) PublishTeamChanged(ctx context.Context, event domain.TeamChangedEvent) error {
	payload := struct {
		OwnerID    string         `json:"owner_id"`
		Change     string         `json:"change"`
		OccurredAt time.Time      `json:"occurred_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		OwnerID:    event.OwnerID,
		Change:     string(event.Change),
		OccurredAt: event.OccurredAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, teamEventType(event.Change), event.TeamID, event.ActorID, event.OccurredAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
