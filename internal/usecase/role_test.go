package usecase

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/repository"
)

var ownerActor = domain.Actor{UserID: "owner-1", Email: "owner@example.com"}

type roleFixture struct {
	service  *RoleService
	roles    *roleRepoMock
	teams    *teamRepoMock
	cache    *roleCacheMock
	activity *activityLogMock
	events   *eventPublisherMock
}

func newRoleFixture(t *testing.T, team domain.Team, roles ...domain.Role) *roleFixture {
	t.Helper()

	f := &roleFixture{
		roles:    newRoleRepoMock(roles...),
		teams:    newTeamRepoMock(team),
		cache:    newRoleCacheMock(),
		activity: &activityLogMock{},
		events:   &eventPublisherMock{},
	}
	f.service = NewRoleService(f.roles, f.teams, f.activity, f.events).
		WithLogger(zaptest.NewLogger(t)).
		WithCache(f.cache)
	f.service.WithClock(tickingClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)))
	return f
}

func roleNames(roles []domain.Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names
}

func TestRoleService_ListRolesDefaultsFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inactive := customRole("role-old", "team-1", "Retired", domain.DefaultMatrix(), base)
	inactive.IsActive = false

	f := newRoleFixture(t, testTeam(),
		customRole("role-qa", "team-1", "QA", domain.DefaultMatrix(), base.Add(time.Hour)),
		customRole("role-editor", "team-1", "Editor", domain.DefaultMatrix(), base.Add(2*time.Hour)),
		customRole("role-other", "team-2", "Elsewhere", domain.DefaultMatrix(), base),
		inactive,
	)

	roles, err := f.service.ListRoles(context.Background(), "team-1")
	if err != nil {
		t.Fatalf("ListRoles returned error: %v", err)
	}

	want := []string{"Owner", "Member", "Manager", "Admin", "Editor", "QA"}
	if got := roleNames(roles); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected roles %v, got %v", want, got)
	}
	for _, role := range roles[:4] {
		if !role.IsDefault() || role.TeamID != nil {
			t.Fatalf("expected global default role, got %+v", role)
		}
	}
}

func TestRoleService_ListRolesUsesCache(t *testing.T) {
	f := newRoleFixture(t, testTeam(), customRole("role-qa", "team-1", "QA", domain.DefaultMatrix(), time.Now()))

	for i := 0; i < 3; i++ {
		if _, err := f.service.ListRoles(context.Background(), "team-1"); err != nil {
			t.Fatalf("ListRoles returned error: %v", err)
		}
	}

	if f.roles.listCalls != 1 {
		t.Fatalf("expected one repository read, got %d", f.roles.listCalls)
	}
}

func TestRoleService_ListRolesCacheFailureFallsThrough(t *testing.T) {
	f := newRoleFixture(t, testTeam(), customRole("role-qa", "team-1", "QA", domain.DefaultMatrix(), time.Now()))
	f.cache.getErr = errors.New("redis down")

	roles, err := f.service.ListRoles(context.Background(), "team-1")
	if err != nil {
		t.Fatalf("ListRoles returned error: %v", err)
	}
	if len(roles) != 5 {
		t.Fatalf("expected defaults plus QA, got %v", roleNames(roles))
	}
}

func TestRoleService_CreateRoleRoundTrip(t *testing.T) {
	f := newRoleFixture(t, testTeam())

	matrix := domain.DefaultMatrix().Grant("sites.view", "sites.edit")
	created, err := f.service.CreateRole(context.Background(), ownerActor, CreateRoleInput{
		TeamID:      "team-1",
		Name:        "  Editor ",
		Permissions: matrix,
	})
	if err != nil {
		t.Fatalf("CreateRole returned error: %v", err)
	}
	if created.Type != domain.RoleTypeCustom || !created.IsActive {
		t.Fatalf("expected active custom role, got %+v", created)
	}
	if created.CreatedBy == nil || *created.CreatedBy != "owner-1" {
		t.Fatalf("expected created_by owner-1")
	}

	roles, err := f.service.ListRoles(context.Background(), "team-1")
	if err != nil {
		t.Fatalf("ListRoles returned error: %v", err)
	}

	var found *domain.Role
	for i := range roles {
		if roles[i].Name == "Editor" {
			found = &roles[i]
		}
	}
	if found == nil {
		t.Fatalf("expected Editor in %v", roleNames(roles))
	}
	if !reflect.DeepEqual(found.Permissions, matrix) {
		t.Fatalf("expected permissions %v, got %v", matrix, found.Permissions)
	}

	if len(f.activity.records) != 1 || f.activity.records[0].Action != "Created role Editor" {
		t.Fatalf("expected activity record, got %+v", f.activity.records)
	}
	if f.activity.records[0].ActorEmail != "owner@example.com" || f.activity.records[0].EntityType != domain.EntityRole {
		t.Fatalf("unexpected activity record: %+v", f.activity.records[0])
	}
	if len(f.events.roleEvents) != 1 || f.events.roleEvents[0].Change != domain.RoleCreated {
		t.Fatalf("expected role created event, got %+v", f.events.roleEvents)
	}
	if f.events.roleEvents[0].EventID == "" {
		t.Fatalf("expected event id to be assigned")
	}
	if len(f.cache.invalidated) != 1 {
		t.Fatalf("expected cache invalidation, got %v", f.cache.invalidated)
	}
}

func TestRoleService_CreateRoleNilMatrixUsesDefault(t *testing.T) {
	f := newRoleFixture(t, testTeam())

	created, err := f.service.CreateRole(context.Background(), ownerActor, CreateRoleInput{TeamID: "team-1", Name: "Viewer"})
	if err != nil {
		t.Fatalf("CreateRole returned error: %v", err)
	}
	if !created.Permissions.Equal(domain.DefaultMatrix()) {
		t.Fatalf("expected default matrix, got %v", created.Permissions)
	}
}

func TestRoleService_StoresTotalMatrices(t *testing.T) {
	f := newRoleFixture(t, testTeam())

	partial := domain.Matrix{domain.CategoryPlugins: domain.DefaultMatrix()[domain.CategoryPlugins]}
	partial[domain.CategoryPlugins][domain.ActionInstall] = true

	created, err := f.service.CreateRole(context.Background(), ownerActor, CreateRoleInput{TeamID: "team-1", Name: "Installer", Permissions: partial})
	if err != nil {
		t.Fatalf("CreateRole returned error: %v", err)
	}
	stored := f.roles.roles[created.ID].Permissions
	if len(stored) != len(domain.Vocabulary()) {
		t.Fatalf("expected every category stored, got %v", stored)
	}
	if !stored[domain.CategoryPlugins][domain.ActionInstall] || stored[domain.CategorySites][domain.ActionView] {
		t.Fatalf("unexpected stored grants: %v", stored)
	}

	teamOnly := domain.Matrix{domain.CategoryTeam: domain.DefaultMatrix()[domain.CategoryTeam]}
	if _, err := f.service.UpdateRole(context.Background(), ownerActor, UpdateRoleInput{TeamID: "team-1", RoleID: created.ID, Permissions: teamOnly}); err != nil {
		t.Fatalf("UpdateRole returned error: %v", err)
	}
	stored = f.roles.roles[created.ID].Permissions
	if len(stored) != len(domain.Vocabulary()) || stored[domain.CategoryPlugins][domain.ActionInstall] {
		t.Fatalf("expected updated matrix to be stored in full, got %v", stored)
	}
}

func TestRoleService_CreateRoleDuplicateNameCaseInsensitive(t *testing.T) {
	f := newRoleFixture(t, testTeam())

	if _, err := f.service.CreateRole(context.Background(), ownerActor, CreateRoleInput{TeamID: "team-1", Name: "Support"}); err != nil {
		t.Fatalf("first CreateRole returned error: %v", err)
	}

	_, err := f.service.CreateRole(context.Background(), ownerActor, CreateRoleInput{TeamID: "team-1", Name: "support"})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "name" || !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("unexpected validation error: %+v", validationErr)
	}
}

func TestRoleService_CreateRoleValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateRoleInput
	}{
		{name: "empty name", input: CreateRoleInput{TeamID: "team-1", Name: "   "}},
		{name: "default role name", input: CreateRoleInput{TeamID: "team-1", Name: "admin"}},
		{name: "overlong name", input: CreateRoleInput{TeamID: "team-1", Name: strings.Repeat("a", maxRoleNameLength+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRoleFixture(t, testTeam())

			_, err := f.service.CreateRole(context.Background(), ownerActor, tt.input)
			if !errors.Is(err, ErrInvalidRole) {
				t.Fatalf("expected ErrInvalidRole, got %v", err)
			}
			if len(f.roles.roles) != 0 {
				t.Fatalf("expected nothing persisted")
			}
		})
	}
}

func TestRoleService_CreateRoleRejectsMalformedMatrix(t *testing.T) {
	f := newRoleFixture(t, testTeam())

	partial := domain.Matrix{domain.CategorySites: {domain.ActionView: true}}
	_, err := f.service.CreateRole(context.Background(), ownerActor, CreateRoleInput{TeamID: "team-1", Name: "Broken", Permissions: partial})

	var shapeErr *domain.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
	if len(f.roles.roles) != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestRoleService_CreateRoleStorageConflict(t *testing.T) {
	f := newRoleFixture(t, testTeam())
	f.roles.createErr = repository.ErrConflict

	_, err := f.service.CreateRole(context.Background(), ownerActor, CreateRoleInput{TeamID: "team-1", Name: "Support"})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError from unique violation, got %v", err)
	}
}

func TestRoleService_MutationsRequireRoleManagement(t *testing.T) {
	legacy := activeMember("legacy-1", domain.RoleMember)
	legacy.ManageMembers = true

	team := testTeam(
		activeMember("manager-1", domain.RoleManager),
		activeMember("admin-1", domain.RoleAdmin),
		legacy,
	)
	team.Members = append(team.Members, domain.Membership{UserID: "invited-1", TeamRoleID: domain.RoleAdmin, Status: domain.MembershipInvited})

	tests := []struct {
		actor   string
		wantErr error
	}{
		{actor: "owner-1"},
		{actor: "legacy-1"},
		{actor: "manager-1", wantErr: ErrPermissionDenied},
		{actor: "admin-1", wantErr: ErrPermissionDenied},
		{actor: "invited-1", wantErr: ErrPermissionDenied},
		{actor: "stranger", wantErr: ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.actor, func(t *testing.T) {
			f := newRoleFixture(t, team)
			_, err := f.service.CreateRole(context.Background(), domain.Actor{UserID: tt.actor}, CreateRoleInput{TeamID: "team-1", Name: "Support"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRoleService_CustomRoleGrantsRoleManagement(t *testing.T) {
	lead := customRole("role-lead", "team-1", "Lead", domain.DefaultMatrix().Grant("team.manage_roles"), time.Now())
	f := newRoleFixture(t, testTeam(activeMember("lead-1", "role-lead")), lead)

	if _, err := f.service.CreateRole(context.Background(), domain.Actor{UserID: "lead-1"}, CreateRoleInput{TeamID: "team-1", Name: "QA"}); err != nil {
		t.Fatalf("expected lead to create roles, got %v", err)
	}
}

func TestRoleService_UnknownTeam(t *testing.T) {
	f := newRoleFixture(t, testTeam())

	_, err := f.service.CreateRole(context.Background(), ownerActor, CreateRoleInput{TeamID: "missing", Name: "QA"})
	if !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestRoleService_DefaultRolesAreImmutable(t *testing.T) {
	f := newRoleFixture(t, testTeam())
	name := "Renamed"

	for _, id := range append(domain.DefaultRoleNames(), "owner", "MEMBER") {
		_, err := f.service.UpdateRole(context.Background(), ownerActor, UpdateRoleInput{TeamID: "team-1", RoleID: id, Name: &name})
		if !errors.Is(err, ErrImmutableRole) {
			t.Fatalf("UpdateRole(%s): expected ErrImmutableRole, got %v", id, err)
		}
		if err := f.service.DeleteRole(context.Background(), ownerActor, "team-1", id); !errors.Is(err, ErrImmutableRole) {
			t.Fatalf("DeleteRole(%s): expected ErrImmutableRole, got %v", id, err)
		}
	}
}

func TestRoleService_UpdateRole(t *testing.T) {
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	f := newRoleFixture(t, testTeam(),
		customRole("role-qa", "team-1", "QA", domain.DefaultMatrix(), created),
		customRole("role-support", "team-1", "Support", domain.DefaultMatrix(), created),
	)

	name := "Quality"
	description := "  plugin testers "
	permissions := domain.DefaultMatrix().Grant("plugins.install")
	updated, err := f.service.UpdateRole(context.Background(), ownerActor, UpdateRoleInput{
		TeamID:      "team-1",
		RoleID:      "role-qa",
		Name:        &name,
		Description: &description,
		Permissions: permissions,
	})
	if err != nil {
		t.Fatalf("UpdateRole returned error: %v", err)
	}
	if updated.Name != "Quality" || updated.Description == nil || *updated.Description != "plugin testers" {
		t.Fatalf("unexpected updated role: %+v", updated)
	}
	if !f.roles.roles["role-qa"].Permissions.Equal(permissions) {
		t.Fatalf("expected permissions persisted")
	}
	if !updated.UpdatedAt.After(created) {
		t.Fatalf("expected updated_at to advance")
	}
	if len(f.events.roleEvents) != 1 || f.events.roleEvents[0].Change != domain.RoleUpdated {
		t.Fatalf("expected role updated event, got %+v", f.events.roleEvents)
	}

	clash := "SUPPORT"
	_, err = f.service.UpdateRole(context.Background(), ownerActor, UpdateRoleInput{TeamID: "team-1", RoleID: "role-qa", Name: &clash})
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected duplicate rename to fail, got %v", err)
	}

	sameName := "quality"
	if _, err := f.service.UpdateRole(context.Background(), ownerActor, UpdateRoleInput{TeamID: "team-1", RoleID: "role-qa", Name: &sameName}); err != nil {
		t.Fatalf("expected case-only rename to succeed, got %v", err)
	}
}

func TestRoleService_UpdateRoleRejectsMalformedMatrix(t *testing.T) {
	original := domain.DefaultMatrix()
	f := newRoleFixture(t, testTeam(), customRole("role-qa", "team-1", "QA", original, time.Now()))

	bad := domain.DefaultMatrix()
	bad["billing"] = map[domain.Action]bool{"view": true}
	_, err := f.service.UpdateRole(context.Background(), ownerActor, UpdateRoleInput{TeamID: "team-1", RoleID: "role-qa", Permissions: bad})

	var shapeErr *domain.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
	if !f.roles.roles["role-qa"].Permissions.Equal(original) {
		t.Fatalf("expected stored permissions unchanged")
	}
}

func TestRoleService_UpdateRoleNotFound(t *testing.T) {
	f := newRoleFixture(t, testTeam(), customRole("role-qa", "team-2", "QA", domain.DefaultMatrix(), time.Now()))

	name := "Other"
	_, err := f.service.UpdateRole(context.Background(), ownerActor, UpdateRoleInput{TeamID: "team-1", RoleID: "role-qa", Name: &name})
	if !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound for a role of another team, got %v", err)
	}
}

func TestRoleService_DeleteRoleDeactivates(t *testing.T) {
	f := newRoleFixture(t, testTeam(activeMember("user-2", "role-qa")),
		customRole("role-qa", "team-1", "QA", domain.DefaultMatrix(), time.Now()),
	)

	if err := f.service.DeleteRole(context.Background(), ownerActor, "team-1", "role-qa"); err != nil {
		t.Fatalf("DeleteRole returned error: %v", err)
	}

	stored := f.roles.roles["role-qa"]
	if stored.IsActive {
		t.Fatalf("expected role to be deactivated, not removed")
	}

	roles, err := f.service.ListRoles(context.Background(), "team-1")
	if err != nil {
		t.Fatalf("ListRoles returned error: %v", err)
	}
	if len(roles) != len(domain.DefaultRoles()) {
		t.Fatalf("expected only default roles, got %v", roleNames(roles))
	}

	if _, err := f.service.GetRole(context.Background(), "team-1", "role-qa"); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound after delete, got %v", err)
	}
	if err := f.service.DeleteRole(context.Background(), ownerActor, "team-1", "role-qa"); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected second delete to fail with ErrRoleNotFound, got %v", err)
	}
	if len(f.events.roleEvents) != 1 || f.events.roleEvents[0].Change != domain.RoleDeactivated {
		t.Fatalf("expected one deactivated event, got %+v", f.events.roleEvents)
	}
}

func TestRoleService_AuditFailuresAreNonFatal(t *testing.T) {
	f := newRoleFixture(t, testTeam())
	f.activity.err = errors.New("activity log unavailable")
	f.events.err = errors.New("broker unavailable")

	if _, err := f.service.CreateRole(context.Background(), ownerActor, CreateRoleInput{TeamID: "team-1", Name: "QA"}); err != nil {
		t.Fatalf("expected create to succeed despite audit failures, got %v", err)
	}
	if len(f.roles.roles) != 1 {
		t.Fatalf("expected role persisted")
	}
}

func TestRoleService_GetRole(t *testing.T) {
	f := newRoleFixture(t, testTeam(), customRole("role-qa", "team-1", "QA", domain.DefaultMatrix(), time.Now()))

	manager, err := f.service.GetRole(context.Background(), "team-1", "manager")
	if err != nil {
		t.Fatalf("GetRole(manager) returned error: %v", err)
	}
	if manager.ID != domain.RoleManager {
		t.Fatalf("expected built-in Manager, got %s", manager.ID)
	}

	qa, err := f.service.GetRole(context.Background(), "team-1", "role-qa")
	if err != nil || qa.Name != "QA" {
		t.Fatalf("expected QA, got %+v (%v)", qa, err)
	}

	if _, err := f.service.GetRole(context.Background(), "team-1", "missing"); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}
