package port

import (
	"context"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
)

// RoleRepository handles persistence of team-scoped custom roles.
// Built-in roles are never stored.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	GetByID(ctx context.Context, teamID, roleID string) (*domain.Role, error)
	// ListActive returns active custom roles of the team, newest first.
	ListActive(ctx context.Context, teamID string) ([]domain.Role, error)
	// FindActiveByName matches names case-insensitively.
	FindActiveByName(ctx context.Context, teamID, name string) (*domain.Role, error)
	Update(ctx context.Context, role domain.Role) error
	Deactivate(ctx context.Context, teamID, roleID string) error
}
