package port

import (
	"context"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
)

// RoleCache stores the custom role list of a team between mutations.
// Get returns repository.ErrNotFound on a miss.
type RoleCache interface {
	Get(ctx context.Context, teamID string) ([]domain.Role, error)
	Set(ctx context.Context, teamID string, roles []domain.Role) error
	Invalidate(ctx context.Context, teamID string) error
}
