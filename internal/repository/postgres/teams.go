package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/repository"
)

const (
	teamsTable   = "wphub.teams"
	membersTable = "wphub.team_members"
)

// TeamRepository implements team and membership persistence.
type TeamRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTeamRepository constructs a PostgreSQL-backed team repository.
func NewTeamRepository(exec pgExecutor) *TeamRepository {
	repo := &TeamRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *TeamRepository) WithTx(tx pgx.Tx) *TeamRepository {
	if tx == nil {
		return r
	}
	return &TeamRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts the team row followed by its initial memberships.
func (r *TeamRepository) Create(ctx context.Context, team domain.Team) error {
	if r.pool != nil {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin create team tx: %w", err)
		}
		defer func() {
			_ = tx.Rollback(ctx)
		}()

		if err := r.WithTx(tx).create(ctx, team); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit create team tx: %w", err)
		}
		return nil
	}

	return r.create(ctx, team)
}

func (r *TeamRepository) create(ctx context.Context, team domain.Team) error {
	stmt, args, err := r.builder.Insert(teamsTable).
		Columns(
			"id",
			"name",
			"description",
			"avatar_url",
			"owner_id",
			"allow_member_invites",
			"default_team_role_id",
			"created_at",
			"updated_at",
		).
		Values(
			team.ID,
			team.Name,
			optionalString(team.Description),
			optionalString(team.AvatarURL),
			team.OwnerID,
			team.Settings.AllowMemberInvites,
			team.DefaultRoleID(),
			team.CreatedAt.UTC(),
			team.UpdatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert team sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert team: %w", err)
	}

	for _, member := range team.Members {
		if err := r.AddMember(ctx, team.ID, member); err != nil {
			return err
		}
	}

	return nil
}

// GetByID loads the team together with its memberships ordered by join time.
func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (*domain.Team, error) {
	stmt, args, err := r.builder.Select(
		"id",
		"name",
		"description",
		"avatar_url",
		"owner_id",
		"allow_member_invites",
		"default_team_role_id",
		"created_at",
		"updated_at",
	).
		From(teamsTable).
		Where(squirrel.Eq{"id": teamID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select team sql: %w", err)
	}

	var (
		team        domain.Team
		description sql.NullString
		avatarURL   sql.NullString
		defaultRole sql.NullString
	)

	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&team.ID,
		&team.Name,
		&description,
		&avatarURL,
		&team.OwnerID,
		&team.Settings.AllowMemberInvites,
		&defaultRole,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan team: %w", err)
	}

	team.Description = nullableStringPtr(description)
	team.AvatarURL = nullableStringPtr(avatarURL)
	if defaultRole.Valid {
		team.Settings.DefaultTeamRoleID = defaultRole.String
	}

	members, err := r.listMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	team.Members = members

	return &team, nil
}

func (r *TeamRepository) listMembers(ctx context.Context, teamID string) ([]domain.Membership, error) {
	stmt, args, err := r.builder.Select(
		"user_id",
		"email",
		"team_role_id",
		"status",
		"manage_members",
		"joined_at",
	).
		From(membersTable).
		Where(squirrel.Eq{"team_id": teamID}).
		OrderBy("joined_at ASC", "user_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list members sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	members := make([]domain.Membership, 0)
	for rows.Next() {
		var (
			member domain.Membership
			status string
		)
		if err := rows.Scan(
			&member.UserID,
			&member.Email,
			&member.TeamRoleID,
			&status,
			&member.ManageMembers,
			&member.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		member.Status = domain.MembershipStatus(status)
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}

// UpdateSettings overwrites the team settings.
func (r *TeamRepository) UpdateSettings(ctx context.Context, teamID string, settings domain.TeamSettings) error {
	defaultRole := settings.DefaultTeamRoleID
	if defaultRole == "" {
		defaultRole = domain.RoleMember
	}

	stmt, args, err := r.builder.Update(teamsTable).
		Set("allow_member_invites", settings.AllowMemberInvites).
		Set("default_team_role_id", defaultRole).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": teamID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update team settings sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update team settings: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AddMember inserts a membership. The (team_id, user_id) primary key keeps one
// membership per user.
func (r *TeamRepository) AddMember(ctx context.Context, teamID string, member domain.Membership) error {
	stmt, args, err := r.builder.Insert(membersTable).
		Columns(
			"team_id",
			"user_id",
			"email",
			"team_role_id",
			"status",
			"manage_members",
			"joined_at",
		).
		Values(
			teamID,
			member.UserID,
			member.Email,
			member.TeamRoleID,
			string(member.Status),
			member.ManageMembers,
			member.JoinedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert member sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert member: %w", err)
	}

	return nil
}

// UpdateMember overwrites role, status and join time of an existing membership.
func (r *TeamRepository) UpdateMember(ctx context.Context, teamID string, member domain.Membership) error {
	stmt, args, err := r.builder.Update(membersTable).
		Set("team_role_id", member.TeamRoleID).
		Set("status", string(member.Status)).
		Set("manage_members", member.ManageMembers).
		Set("joined_at", member.JoinedAt.UTC()).
		Where(squirrel.Eq{"team_id": teamID, "user_id": member.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update member sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.TeamRepository = (*TeamRepository)(nil)
