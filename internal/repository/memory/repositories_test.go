package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/repository"
)

func testRole(id, teamID, name string, createdAt time.Time) domain.Role {
	team := teamID
	return domain.Role{
		ID:          id,
		TeamID:      &team,
		Name:        name,
		Type:        domain.RoleTypeCustom,
		Permissions: domain.DefaultMatrix(),
		IsActive:    true,
		CreatedAt:   createdAt,
	}
}

func TestRoleRepositoryNameUniqueness(t *testing.T) {
	repo := NewRoleRepository()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.Create(ctx, testRole("r1", "team-1", "Support", now)); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.Create(ctx, testRole("r2", "team-1", "support", now)); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate name, got %v", err)
	}
	if err := repo.Create(ctx, testRole("r3", "team-2", "Support", now)); err != nil {
		t.Fatalf("same name in another team should be allowed: %v", err)
	}

	if err := repo.Deactivate(ctx, "team-1", "r1"); err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}
	if err := repo.Create(ctx, testRole("r4", "team-1", "SUPPORT", now)); err != nil {
		t.Fatalf("name of a deactivated role should be reusable: %v", err)
	}
	if err := repo.Deactivate(ctx, "team-1", "r1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deactivating twice, got %v", err)
	}
}

func TestRoleRepositoryListActiveNewestFirst(t *testing.T) {
	repo := NewRoleRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = repo.Create(ctx, testRole("old", "team-1", "Old", base))
	_ = repo.Create(ctx, testRole("new", "team-1", "New", base.Add(time.Hour)))
	_ = repo.Create(ctx, testRole("other", "team-2", "Other", base))

	roles, err := repo.ListActive(ctx, "team-1")
	if err != nil {
		t.Fatalf("ListActive returned error: %v", err)
	}
	if len(roles) != 2 || roles[0].ID != "new" || roles[1].ID != "old" {
		t.Fatalf("unexpected order: %+v", roles)
	}

	roles[0].Permissions[domain.CategorySites][domain.ActionView] = true
	stored, _ := repo.GetByID(ctx, "team-1", "new")
	if stored.Permissions[domain.CategorySites][domain.ActionView] {
		t.Fatalf("stored matrix was mutated through a returned copy")
	}
}

func TestRoleRepositoryUpdate(t *testing.T) {
	repo := NewRoleRepository()
	ctx := context.Background()
	now := time.Now()
	_ = repo.Create(ctx, testRole("a", "team-1", "Alpha", now))
	_ = repo.Create(ctx, testRole("b", "team-1", "Beta", now))

	renamed := testRole("b", "team-1", "alpha", now)
	if err := repo.Update(ctx, renamed); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict renaming onto an existing name, got %v", err)
	}
	if err := repo.Update(ctx, testRole("missing", "team-1", "Gamma", now)); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	found, err := repo.FindActiveByName(ctx, "team-1", " BETA ")
	if err != nil || found.ID != "b" {
		t.Fatalf("expected to find beta, got %+v (%v)", found, err)
	}
}

func TestRoleRepositoryUpdateCannotReviveDeactivatedRole(t *testing.T) {
	repo := NewRoleRepository()
	ctx := context.Background()
	now := time.Now()
	_ = repo.Create(ctx, testRole("r1", "team-1", "QA", now))

	stale, err := repo.GetByID(ctx, "team-1", "r1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if err := repo.Deactivate(ctx, "team-1", "r1"); err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}

	stale.Name = "QA renamed"
	if err := repo.Update(ctx, *stale); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating a deactivated role, got %v", err)
	}
	stored, err := repo.GetByID(ctx, "team-1", "r1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.IsActive || stored.Name != "QA" {
		t.Fatalf("deactivated role changed: %+v", stored)
	}
}

func TestRoleRepositoryUpdateKeepsStoredState(t *testing.T) {
	repo := NewRoleRepository()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = repo.Create(ctx, testRole("r1", "team-1", "QA", created))

	patch := testRole("r1", "team-1", "Testers", created.Add(time.Hour))
	patch.IsActive = false
	patch.Type = domain.RoleTypeDefault
	if err := repo.Update(ctx, patch); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	stored, _ := repo.GetByID(ctx, "team-1", "r1")
	if !stored.IsActive || stored.Type != domain.RoleTypeCustom || !stored.CreatedAt.Equal(created) || stored.Name != "Testers" {
		t.Fatalf("unexpected stored role: %+v", stored)
	}
}

func TestTeamRepositoryMembers(t *testing.T) {
	repo := NewTeamRepository()
	ctx := context.Background()
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	team := domain.Team{ID: "team-1", OwnerID: "owner", Members: []domain.Membership{
		{UserID: "owner", Status: domain.MembershipActive, JoinedAt: joined},
	}}
	if err := repo.Create(ctx, team); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.Create(ctx, team); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	member := domain.Membership{UserID: "u2", Status: domain.MembershipInvited, JoinedAt: joined.Add(-time.Hour)}
	if err := repo.AddMember(ctx, "team-1", member); err != nil {
		t.Fatalf("AddMember returned error: %v", err)
	}
	if err := repo.AddMember(ctx, "team-1", member); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for second membership, got %v", err)
	}

	member.Status = domain.MembershipActive
	if err := repo.UpdateMember(ctx, "team-1", member); err != nil {
		t.Fatalf("UpdateMember returned error: %v", err)
	}
	if err := repo.UpdateMember(ctx, "team-1", domain.Membership{UserID: "ghost"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateSettings(ctx, "team-1", domain.TeamSettings{DefaultTeamRoleID: domain.RoleManager}); err != nil {
		t.Fatalf("UpdateSettings returned error: %v", err)
	}

	loaded, err := repo.GetByID(ctx, "team-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if len(loaded.Members) != 2 || loaded.Members[0].UserID != "u2" {
		t.Fatalf("expected members ordered by join time, got %+v", loaded.Members)
	}
	if loaded.Members[0].Status != domain.MembershipActive || loaded.Settings.DefaultTeamRoleID != domain.RoleManager {
		t.Fatalf("updates were not persisted: %+v", loaded)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
