package port

import (
	"context"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
)

// TeamRepository persists teams together with their embedded memberships.
type TeamRepository interface {
	Create(ctx context.Context, team domain.Team) error
	// GetByID loads the team and its memberships ordered by join time.
	GetByID(ctx context.Context, teamID string) (*domain.Team, error)
	UpdateSettings(ctx context.Context, teamID string, settings domain.TeamSettings) error
	AddMember(ctx context.Context, teamID string, member domain.Membership) error
	UpdateMember(ctx context.Context, teamID string, member domain.Membership) error
}
