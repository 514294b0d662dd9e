package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	uuid "github.com/google/uuid"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
)

const activityTable = "wphub.activity_logs"

// ActivityRepository appends audit records to the activity log table.
type ActivityRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewActivityRepository constructs a PostgreSQL-backed activity log sink.
func NewActivityRepository(exec pgExecutor) *ActivityRepository {
	return &ActivityRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append stores one activity record, assigning an id and timestamp when missing.
func (r *ActivityRepository) Append(ctx context.Context, record domain.ActivityRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	stmt, args, err := r.builder.Insert(activityTable).
		Columns(
			"id",
			"actor_id",
			"actor_email",
			"action",
			"entity_type",
			"entity_id",
			"team_id",
			"created_at",
		).
		Values(
			record.ID,
			record.ActorID,
			record.ActorEmail,
			record.Action,
			record.EntityType,
			record.EntityID,
			record.TeamID,
			record.CreatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert activity sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	return nil
}

var _ port.ActivityLog = (*ActivityRepository)(nil)
