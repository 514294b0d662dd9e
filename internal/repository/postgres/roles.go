package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/repository"
)

const rolesTable = "wphub.team_roles"

var roleColumns = []string{
	"id",
	"team_id",
	"name",
	"description",
	"type",
	"permissions",
	"is_active",
	"created_by",
	"created_at",
	"updated_at",
}

// RoleRepository implements custom role persistence operations.
type RoleRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a PostgreSQL-backed role repository.
func NewRoleRepository(exec pgExecutor) *RoleRepository {
	repo := &RoleRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *RoleRepository) WithTx(tx pgx.Tx) *RoleRepository {
	if tx == nil {
		return r
	}
	return &RoleRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new custom role. A concurrent insert of the same name in the same
// team is rejected by the partial unique index and surfaces as repository.ErrConflict.
func (r *RoleRepository) Create(ctx context.Context, role domain.Role) error {
	permissions, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("marshal role permissions: %w", err)
	}

	stmt, args, err := r.builder.Insert(rolesTable).
		Columns(roleColumns...).
		Values(
			role.ID,
			optionalString(role.TeamID),
			role.Name,
			optionalString(role.Description),
			string(role.Type),
			permissions,
			role.IsActive,
			optionalString(role.CreatedBy),
			role.CreatedAt.UTC(),
			role.UpdatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert role: %w", err)
	}

	return nil
}

// GetByID retrieves a team role by id, including inactive ones.
func (r *RoleRepository) GetByID(ctx context.Context, teamID, roleID string) (*domain.Role, error) {
	stmt, args, err := r.builder.Select(roleColumns...).
		From(rolesTable).
		Where(squirrel.Eq{"id": roleID, "team_id": teamID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role by id sql: %w", err)
	}

	role, err := scanRole(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("scan role by id: %w", err)
	}

	return role, nil
}

// ListActive returns the active custom roles of a team, newest first.
func (r *RoleRepository) ListActive(ctx context.Context, teamID string) ([]domain.Role, error) {
	stmt, args, err := r.builder.Select(roleColumns...).
		From(rolesTable).
		Where(squirrel.Eq{"team_id": teamID, "is_active": true}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	roles := make([]domain.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, *role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

// FindActiveByName looks up an active team role by name, ignoring case.
func (r *RoleRepository) FindActiveByName(ctx context.Context, teamID, name string) (*domain.Role, error) {
	stmt, args, err := r.builder.Select(roleColumns...).
		From(rolesTable).
		Where(squirrel.Eq{"team_id": teamID, "is_active": true}).
		Where(squirrel.Expr("lower(name) = lower(?)", name)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role by name sql: %w", err)
	}

	role, err := scanRole(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("scan role by name: %w", err)
	}

	return role, nil
}

// Update overwrites the mutable fields of an active custom role. Deactivated roles
// report ErrNotFound.
func (r *RoleRepository) Update(ctx context.Context, role domain.Role) error {
	permissions, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("marshal role permissions: %w", err)
	}

	stmt, args, err := r.builder.Update(rolesTable).
		Set("name", role.Name).
		Set("description", optionalString(role.Description)).
		Set("permissions", permissions).
		Set("updated_at", role.UpdatedAt.UTC()).
		Where(squirrel.Eq{"id": role.ID, "team_id": optionalString(role.TeamID), "type": string(domain.RoleTypeCustom), "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update role sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("update role: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Deactivate soft-deletes a custom role. Memberships still referencing it are left
// untouched; resolution falls back to the team default role.
func (r *RoleRepository) Deactivate(ctx context.Context, teamID, roleID string) error {
	stmt, args, err := r.builder.Update(rolesTable).
		Set("is_active", false).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": roleID, "team_id": teamID, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate role sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("deactivate role: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanRole(row pgx.Row) (*domain.Role, error) {
	var (
		role        domain.Role
		teamID      sql.NullString
		description sql.NullString
		roleType    string
		permissions []byte
		createdBy   sql.NullString
	)

	if err := row.Scan(
		&role.ID,
		&teamID,
		&role.Name,
		&description,
		&roleType,
		&permissions,
		&role.IsActive,
		&createdBy,
		&role.CreatedAt,
		&role.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	role.TeamID = nullableStringPtr(teamID)
	role.Description = nullableStringPtr(description)
	role.CreatedBy = nullableStringPtr(createdBy)
	role.Type = domain.RoleType(roleType)

	matrix := make(domain.Matrix)
	if len(permissions) > 0 {
		if err := json.Unmarshal(permissions, &matrix); err != nil {
			return nil, fmt.Errorf("decode role permissions: %w", err)
		}
	}
	role.Permissions = matrix

	return &role, nil
}

var _ port.RoleRepository = (*RoleRepository)(nil)
