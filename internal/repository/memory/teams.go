package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/repository"
)

// TeamRepository keeps teams and memberships in process memory.
type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]domain.Team
}

// NewTeamRepository returns an empty team store.
func NewTeamRepository() *TeamRepository {
	return &TeamRepository{teams: make(map[string]domain.Team)}
}

func (r *TeamRepository) Create(_ context.Context, team domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.teams[team.ID]; exists {
		return repository.ErrConflict
	}
	r.teams[team.ID] = copyTeam(team)
	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.teams[teamID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyTeam(team)
	sort.SliceStable(out.Members, func(i, j int) bool {
		if out.Members[i].JoinedAt.Equal(out.Members[j].JoinedAt) {
			return out.Members[i].UserID < out.Members[j].UserID
		}
		return out.Members[i].JoinedAt.Before(out.Members[j].JoinedAt)
	})
	return &out, nil
}

func (r *TeamRepository) UpdateSettings(_ context.Context, teamID string, settings domain.TeamSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.teams[teamID]
	if !ok {
		return repository.ErrNotFound
	}
	team.Settings = settings
	r.teams[teamID] = team
	return nil
}

func (r *TeamRepository) AddMember(_ context.Context, teamID string, member domain.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.teams[teamID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, exists := team.FindMember(member.UserID); exists {
		return repository.ErrConflict
	}
	team.Members = append(append([]domain.Membership(nil), team.Members...), member)
	r.teams[teamID] = team
	return nil
}

func (r *TeamRepository) UpdateMember(_ context.Context, teamID string, member domain.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.teams[teamID]
	if !ok {
		return repository.ErrNotFound
	}
	members := append([]domain.Membership(nil), team.Members...)
	for i := range members {
		if members[i].UserID == member.UserID {
			members[i] = member
			team.Members = members
			r.teams[teamID] = team
			return nil
		}
	}
	return repository.ErrNotFound
}

func copyTeam(team domain.Team) domain.Team {
	team.Members = append([]domain.Membership(nil), team.Members...)
	return team
}

var _ port.TeamRepository = (*TeamRepository)(nil)
