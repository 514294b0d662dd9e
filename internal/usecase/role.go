package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/repository"
)

const maxRoleNameLength = 64

// CreateRoleInput captures the payload for creating a custom role.
type CreateRoleInput struct {
	TeamID      string
	Name        string
	Description *string
	// Permissions defaults to domain.DefaultMatrix when nil.
	Permissions domain.Matrix
}

// UpdateRoleInput is a partial update; nil fields are left unchanged.
type UpdateRoleInput struct {
	TeamID      string
	RoleID      string
	Name        *string
	Description *string
	Permissions domain.Matrix
}

// RoleService manages the role set of a team: the built-in roles plus its custom roles.
type RoleService struct {
	roles      port.RoleRepository
	teams      port.TeamRepository
	cache      port.RoleCache
	authorizer *Authorizer
	audit      auditTrail
	logger     *zap.Logger
	now        func() time.Time
}

// NewRoleService constructs a RoleService. Mutations are authorized through an
// Authorizer resolving roles against this service unless WithAuthorizer overrides it.
func NewRoleService(roles port.RoleRepository, teams port.TeamRepository, activity port.ActivityLog, events port.EventPublisher) *RoleService {
	s := &RoleService{
		roles:  roles,
		teams:  teams,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	s.audit = auditTrail{activity: activity, events: events, logger: s.logger}
	s.authorizer = NewAuthorizer(NewMembershipResolver(s))
	return s
}

// WithLogger sets the logger used for non-fatal failures.
func (s *RoleService) WithLogger(logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.logger = logger
	s.audit.logger = logger
	return s
}

// WithCache enables caching of the custom role list per team.
func (s *RoleService) WithCache(cache port.RoleCache) *RoleService {
	s.cache = cache
	return s
}

// WithAuthorizer replaces the authorizer used to check role mutations.
func (s *RoleService) WithAuthorizer(authorizer *Authorizer) *RoleService {
	if authorizer != nil {
		s.authorizer = authorizer
	}
	return s
}

// WithClock overrides the time source.
func (s *RoleService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// ListRoles returns the built-in roles (Owner, Member, Manager, Admin) followed by the
// active custom roles of the team, newest first.
func (s *RoleService) ListRoles(ctx context.Context, teamID string) ([]domain.Role, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, newTeamValidationError("team_id", "team id is required")
	}

	custom, err := s.customRoles(ctx, teamID)
	if err != nil {
		return nil, err
	}

	defaults := domain.DefaultRoles()
	roles := make([]domain.Role, 0, len(defaults)+len(custom))
	roles = append(roles, defaults...)
	roles = append(roles, custom...)
	return roles, nil
}

func (s *RoleService) customRoles(ctx context.Context, teamID string) ([]domain.Role, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, teamID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("read role cache failed", zap.String("team_id", teamID), zap.Error(err))
		}
	}

	stored, err := s.roles.ListActive(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	custom := make([]domain.Role, 0, len(stored))
	for _, role := range stored {
		if !role.IsActive || role.IsDefault() {
			continue
		}
		custom = append(custom, role)
	}
	sort.SliceStable(custom, func(i, j int) bool {
		return custom[i].CreatedAt.After(custom[j].CreatedAt)
	})

	if s.cache != nil {
		if err := s.cache.Set(ctx, teamID, custom); err != nil {
			s.logger.Warn("write role cache failed", zap.String("team_id", teamID), zap.Error(err))
		}
	}

	return custom, nil
}

// GetRole returns a built-in role or an active custom role of the team.
func (s *RoleService) GetRole(ctx context.Context, teamID, roleID string) (*domain.Role, error) {
	roleID = strings.TrimSpace(roleID)
	if role, ok := domain.DefaultRole(roleID); ok {
		return &role, nil
	}

	teamID = strings.TrimSpace(teamID)
	if teamID == "" || roleID == "" {
		return nil, ErrRoleNotFound
	}

	role, err := s.roles.GetByID(ctx, teamID, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	if !role.IsActive {
		return nil, ErrRoleNotFound
	}

	return role, nil
}

// CreateRole validates and persists a new custom role.
func (s *RoleService) CreateRole(ctx context.Context, actor domain.Actor, input CreateRoleInput) (*domain.Role, error) {
	teamID := strings.TrimSpace(input.TeamID)
	if teamID == "" {
		return nil, newTeamValidationError("team_id", "team id is required")
	}

	name, err := normalizeRoleName(input.Name)
	if err != nil {
		return nil, err
	}

	permissions := input.Permissions
	if permissions == nil {
		permissions = domain.DefaultMatrix()
	}
	if err := permissions.Validate(); err != nil {
		return nil, err
	}

	if err := s.authorizeMutation(ctx, teamID, actor); err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(ctx, teamID, name, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	createdBy := strings.TrimSpace(actor.UserID)
	role := domain.Role{
		ID:          uuid.NewString(),
		TeamID:      &teamID,
		Name:        name,
		Description: trimmedOptional(input.Description),
		Type:        domain.RoleTypeCustom,
		Permissions: permissions.Normalize(),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if createdBy != "" {
		role.CreatedBy = &createdBy
	}

	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, newRoleValidationError("name", fmt.Sprintf("a role named %q already exists", name))
		}
		return nil, fmt.Errorf("create role: %w", err)
	}

	s.invalidate(ctx, teamID)
	s.audit.record(ctx, actor, domain.ActivityRecord{
		Action:     fmt.Sprintf("Created role %s", role.Name),
		EntityType: domain.EntityRole,
		EntityID:   role.ID,
		TeamID:     teamID,
	})
	s.audit.roleChanged(ctx, domain.RoleChangedEvent{
		TeamID:      teamID,
		RoleID:      role.ID,
		RoleName:    role.Name,
		Change:      domain.RoleCreated,
		Permissions: role.Permissions.Clone(),
		ActorID:     actor.UserID,
		OccurredAt:  now,
	})

	return &role, nil
}

// UpdateRole applies a partial update to a custom role.
func (s *RoleService) UpdateRole(ctx context.Context, actor domain.Actor, input UpdateRoleInput) (*domain.Role, error) {
	roleID := strings.TrimSpace(input.RoleID)
	if domain.IsDefaultRoleID(roleID) {
		return nil, ErrImmutableRole
	}

	teamID := strings.TrimSpace(input.TeamID)
	if teamID == "" {
		return nil, newTeamValidationError("team_id", "team id is required")
	}
	if roleID == "" {
		return nil, ErrRoleNotFound
	}

	if err := s.authorizeMutation(ctx, teamID, actor); err != nil {
		return nil, err
	}

	current, err := s.GetRole(ctx, teamID, roleID)
	if err != nil {
		return nil, err
	}
	if current.IsDefault() {
		return nil, ErrImmutableRole
	}

	updated := *current
	if input.Name != nil {
		name, err := normalizeRoleName(*input.Name)
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(name, current.Name) {
			if err := s.ensureNameAvailable(ctx, teamID, name, current.ID); err != nil {
				return nil, err
			}
		}
		updated.Name = name
	}
	if input.Description != nil {
		updated.Description = trimmedOptional(input.Description)
	}
	if input.Permissions != nil {
		if err := input.Permissions.Validate(); err != nil {
			return nil, err
		}
		updated.Permissions = input.Permissions.Normalize()
	}

	now := s.now().UTC()
	updated.UpdatedAt = now

	if err := s.roles.Update(ctx, updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRoleNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, newRoleValidationError("name", fmt.Sprintf("a role named %q already exists", updated.Name))
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	s.invalidate(ctx, teamID)
	s.audit.record(ctx, actor, domain.ActivityRecord{
		Action:     fmt.Sprintf("Updated role %s", updated.Name),
		EntityType: domain.EntityRole,
		EntityID:   updated.ID,
		TeamID:     teamID,
	})
	s.audit.roleChanged(ctx, domain.RoleChangedEvent{
		TeamID:      teamID,
		RoleID:      updated.ID,
		RoleName:    updated.Name,
		Change:      domain.RoleUpdated,
		Permissions: updated.Permissions.Clone(),
		ActorID:     actor.UserID,
		OccurredAt:  now,
	})

	return &updated, nil
}

// DeleteRole deactivates a custom role. Members still referencing it fall back to the
// team default role on resolution.
func (s *RoleService) DeleteRole(ctx context.Context, actor domain.Actor, teamID, roleID string) error {
	roleID = strings.TrimSpace(roleID)
	if domain.IsDefaultRoleID(roleID) {
		return ErrImmutableRole
	}

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return newTeamValidationError("team_id", "team id is required")
	}
	if roleID == "" {
		return ErrRoleNotFound
	}

	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if !s.authorizer.CanManageRoles(ctx, *team, actor.UserID) {
		return ErrPermissionDenied
	}

	role, err := s.GetRole(ctx, teamID, roleID)
	if err != nil {
		return err
	}
	if role.IsDefault() {
		return ErrImmutableRole
	}

	if err := s.roles.Deactivate(ctx, teamID, role.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("deactivate role: %w", err)
	}

	if assigned := countAssigned(*team, role.ID); assigned > 0 {
		s.logger.Info("deactivated role still assigned",
			zap.String("team_id", teamID),
			zap.String("role_id", role.ID),
			zap.Int("members", assigned),
		)
	}

	s.invalidate(ctx, teamID)
	s.audit.record(ctx, actor, domain.ActivityRecord{
		Action:     fmt.Sprintf("Deleted role %s", role.Name),
		EntityType: domain.EntityRole,
		EntityID:   role.ID,
		TeamID:     teamID,
	})
	s.audit.roleChanged(ctx, domain.RoleChangedEvent{
		TeamID:     teamID,
		RoleID:     role.ID,
		RoleName:   role.Name,
		Change:     domain.RoleDeactivated,
		ActorID:    actor.UserID,
		OccurredAt: s.now().UTC(),
	})

	return nil
}

func (s *RoleService) authorizeMutation(ctx context.Context, teamID string, actor domain.Actor) error {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if !s.authorizer.CanManageRoles(ctx, *team, actor.UserID) {
		return ErrPermissionDenied
	}
	return nil
}

func (s *RoleService) loadTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

// ensureNameAvailable rejects names taken by a built-in role or another active custom role.
func (s *RoleService) ensureNameAvailable(ctx context.Context, teamID, name, selfID string) error {
	if domain.IsDefaultRoleID(name) {
		return newRoleValidationError("name", fmt.Sprintf("%q is reserved for a default role", name))
	}

	existing, err := s.roles.FindActiveByName(ctx, teamID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup role by name: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return newRoleValidationError("name", fmt.Sprintf("a role named %q already exists", existing.Name))
	}
	return nil
}

func (s *RoleService) invalidate(ctx context.Context, teamID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, teamID); err != nil {
		s.logger.Warn("invalidate role cache failed", zap.String("team_id", teamID), zap.Error(err))
	}
}

func normalizeRoleName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", newRoleValidationError("name", "role name is required")
	}
	if len([]rune(name)) > maxRoleNameLength {
		return "", newRoleValidationError("name", fmt.Sprintf("role name must be at most %d characters", maxRoleNameLength))
	}
	return name, nil
}

func trimmedOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func countAssigned(team domain.Team, roleID string) int {
	count := 0
	for _, member := range team.Members {
		if member.Status != domain.MembershipRemoved && member.TeamRoleID == roleID {
			count++
		}
	}
	return count
}
