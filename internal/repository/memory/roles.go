package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/repository"
)

// RoleRepository keeps custom roles in process memory. It enforces the same
// case-insensitive active-name uniqueness as the postgres schema.
type RoleRepository struct {
	mu    sync.RWMutex
	roles map[string]domain.Role
}

// NewRoleRepository returns an empty role store.
func NewRoleRepository() *RoleRepository {
	return &RoleRepository{roles: make(map[string]domain.Role)}
}

func (r *RoleRepository) Create(_ context.Context, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.roles[role.ID]; exists {
		return repository.ErrConflict
	}
	if role.IsActive && r.nameTakenLocked(role) {
		return repository.ErrConflict
	}
	r.roles[role.ID] = copyRole(role)
	return nil
}

func (r *RoleRepository) GetByID(_ context.Context, teamID, roleID string) (*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[roleID]
	if !ok || teamOf(role) != teamID {
		return nil, repository.ErrNotFound
	}
	out := copyRole(role)
	return &out, nil
}

func (r *RoleRepository) ListActive(_ context.Context, teamID string) ([]domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Role, 0)
	for _, role := range r.roles {
		if role.IsActive && teamOf(role) == teamID {
			out = append(out, copyRole(role))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *RoleRepository) FindActiveByName(_ context.Context, teamID, name string) (*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.TrimSpace(name)
	for _, role := range r.roles {
		if role.IsActive && teamOf(role) == teamID && strings.EqualFold(role.Name, name) {
			out := copyRole(role)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *RoleRepository) Update(_ context.Context, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.roles[role.ID]
	if !ok || teamOf(existing) != teamOf(role) || !existing.IsActive || existing.Type != domain.RoleTypeCustom {
		return repository.ErrNotFound
	}
	stored := copyRole(role)
	stored.Type = existing.Type
	stored.IsActive = existing.IsActive
	stored.CreatedAt = existing.CreatedAt
	stored.CreatedBy = existing.CreatedBy
	if r.nameTakenLocked(stored) {
		return repository.ErrConflict
	}
	r.roles[role.ID] = stored
	return nil
}

func (r *RoleRepository) Deactivate(_ context.Context, teamID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[roleID]
	if !ok || teamOf(role) != teamID || !role.IsActive {
		return repository.ErrNotFound
	}
	role.IsActive = false
	r.roles[roleID] = role
	return nil
}

func (r *RoleRepository) nameTakenLocked(role domain.Role) bool {
	for id, existing := range r.roles {
		if id == role.ID || !existing.IsActive {
			continue
		}
		if teamOf(existing) == teamOf(role) && strings.EqualFold(existing.Name, role.Name) {
			return true
		}
	}
	return false
}

func teamOf(role domain.Role) string {
	if role.TeamID == nil {
		return ""
	}
	return *role.TeamID
}

func copyRole(role domain.Role) domain.Role {
	role.Permissions = role.Permissions.Clone()
	return role
}

var _ port.RoleRepository = (*RoleRepository)(nil)
