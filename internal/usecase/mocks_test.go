package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/repository"
)

type roleRepoMock struct {
	roles         map[string]domain.Role
	createErr     error
	listErr       error
	updateErr     error
	deactivateErr error
	listCalls     int
}

func newRoleRepoMock(roles ...domain.Role) *roleRepoMock {
	m := &roleRepoMock{roles: make(map[string]domain.Role)}
	for _, role := range roles {
		m.roles[role.ID] = role
	}
	return m
}

func (m *roleRepoMock) Create(_ context.Context, role domain.Role) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.roles {
		if existing.IsActive && sameTeam(existing.TeamID, role.TeamID) && strings.EqualFold(existing.Name, role.Name) {
			return repository.ErrConflict
		}
	}
	m.roles[role.ID] = role
	return nil
}

func (m *roleRepoMock) GetByID(_ context.Context, teamID, roleID string) (*domain.Role, error) {
	role, ok := m.roles[roleID]
	if !ok || role.TeamID == nil || *role.TeamID != teamID {
		return nil, repository.ErrNotFound
	}
	role.Permissions = role.Permissions.Clone()
	return &role, nil
}

func (m *roleRepoMock) ListActive(_ context.Context, teamID string) ([]domain.Role, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Role, 0)
	for _, role := range m.roles {
		if role.IsActive && role.TeamID != nil && *role.TeamID == teamID {
			role.Permissions = role.Permissions.Clone()
			out = append(out, role)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *roleRepoMock) FindActiveByName(_ context.Context, teamID, name string) (*domain.Role, error) {
	for _, role := range m.roles {
		if role.IsActive && role.TeamID != nil && *role.TeamID == teamID && strings.EqualFold(role.Name, name) {
			return &role, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) Update(_ context.Context, role domain.Role) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.roles[role.ID]; !ok {
		return repository.ErrNotFound
	}
	m.roles[role.ID] = role
	return nil
}

func (m *roleRepoMock) Deactivate(_ context.Context, teamID, roleID string) error {
	if m.deactivateErr != nil {
		return m.deactivateErr
	}
	role, ok := m.roles[roleID]
	if !ok || role.TeamID == nil || *role.TeamID != teamID {
		return repository.ErrNotFound
	}
	role.IsActive = false
	m.roles[roleID] = role
	return nil
}

func sameTeam(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type teamRepoMock struct {
	teams     map[string]domain.Team
	createErr error
	getErr    error
	addErr    error
}

func newTeamRepoMock(teams ...domain.Team) *teamRepoMock {
	m := &teamRepoMock{teams: make(map[string]domain.Team)}
	for _, team := range teams {
		m.teams[team.ID] = team
	}
	return m
}

func (m *teamRepoMock) Create(_ context.Context, team domain.Team) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.teams[team.ID]; exists {
		return repository.ErrConflict
	}
	m.teams[team.ID] = team
	return nil
}

func (m *teamRepoMock) GetByID(_ context.Context, teamID string) (*domain.Team, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	team, ok := m.teams[teamID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	team.Members = append([]domain.Membership(nil), team.Members...)
	return &team, nil
}

func (m *teamRepoMock) UpdateSettings(_ context.Context, teamID string, settings domain.TeamSettings) error {
	team, ok := m.teams[teamID]
	if !ok {
		return repository.ErrNotFound
	}
	team.Settings = settings
	m.teams[teamID] = team
	return nil
}

func (m *teamRepoMock) AddMember(_ context.Context, teamID string, member domain.Membership) error {
	if m.addErr != nil {
		return m.addErr
	}
	team, ok := m.teams[teamID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, exists := team.FindMember(member.UserID); exists {
		return repository.ErrConflict
	}
	team.Members = append(append([]domain.Membership(nil), team.Members...), member)
	m.teams[teamID] = team
	return nil
}

func (m *teamRepoMock) UpdateMember(_ context.Context, teamID string, member domain.Membership) error {
	team, ok := m.teams[teamID]
	if !ok {
		return repository.ErrNotFound
	}
	members := append([]domain.Membership(nil), team.Members...)
	for i := range members {
		if members[i].UserID == member.UserID {
			members[i] = member
			team.Members = members
			m.teams[teamID] = team
			return nil
		}
	}
	return repository.ErrNotFound
}

type roleCacheMock struct {
	entries     map[string][]domain.Role
	getErr      error
	invalidated []string
}

func newRoleCacheMock() *roleCacheMock {
	return &roleCacheMock{entries: make(map[string][]domain.Role)}
}

func (m *roleCacheMock) Get(_ context.Context, teamID string) ([]domain.Role, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	roles, ok := m.entries[teamID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return roles, nil
}

func (m *roleCacheMock) Set(_ context.Context, teamID string, roles []domain.Role) error {
	m.entries[teamID] = roles
	return nil
}

func (m *roleCacheMock) Invalidate(_ context.Context, teamID string) error {
	delete(m.entries, teamID)
	m.invalidated = append(m.invalidated, teamID)
	return nil
}

type activityLogMock struct {
	records []domain.ActivityRecord
	err     error
}

func (m *activityLogMock) Append(_ context.Context, record domain.ActivityRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, record)
	return nil
}

type eventPublisherMock struct {
	roleEvents       []domain.RoleChangedEvent
	membershipEvents []domain.MembershipChangedEvent
	teamEvents       []domain.TeamChangedEvent
	err              error
}

func (m *eventPublisherMock) PublishRoleChanged(_ context.Context, event domain.RoleChangedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.roleEvents = append(m.roleEvents, event)
	return nil
}

func (m *eventPublisherMock) PublishMembershipChanged(_ context.Context, event domain.MembershipChangedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.membershipEvents = append(m.membershipEvents, event)
	return nil
}

func (m *eventPublisherMock) PublishTeamChanged(_ context.Context, event domain.TeamChangedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.teamEvents = append(m.teamEvents, event)
	return nil
}

type decisionRecorderMock struct {
	mu        sync.Mutex
	decisions []string
}

func (m *decisionRecorderMock) RecordDecision(category, action, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, category+"."+action+":"+outcome)
}

type staticRoleLister struct {
	roles []domain.Role
	err   error
}

func (s staticRoleLister) ListRoles(_ context.Context, _ string) ([]domain.Role, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.roles, nil
}

// tickingClock returns a clock that advances one second per call.
func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func testTeam(members ...domain.Membership) domain.Team {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	owner := domain.Membership{
		UserID:     "owner-1",
		Email:      "owner@example.com",
		TeamRoleID: domain.RoleOwner,
		Status:     domain.MembershipActive,
		JoinedAt:   now,
	}
	return domain.Team{
		ID:        "team-1",
		Name:      "Agency",
		OwnerID:   "owner-1",
		Settings:  domain.TeamSettings{DefaultTeamRoleID: domain.RoleMember},
		Members:   append([]domain.Membership{owner}, members...),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func activeMember(userID, roleID string) domain.Membership {
	return domain.Membership{
		UserID:     userID,
		Email:      userID + "@example.com",
		TeamRoleID: roleID,
		Status:     domain.MembershipActive,
		JoinedAt:   time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC),
	}
}

func customRole(id, teamID, name string, permissions domain.Matrix, createdAt time.Time) domain.Role {
	team := teamID
	return domain.Role{
		ID:          id,
		TeamID:      &team,
		Name:        name,
		Type:        domain.RoleTypeCustom,
		Permissions: permissions,
		IsActive:    true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}
