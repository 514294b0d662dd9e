package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
)

func newTestAuthorizer(custom ...domain.Role) (*Authorizer, *decisionRecorderMock) {
	recorder := &decisionRecorderMock{}
	authorizer := NewAuthorizer(NewMembershipResolver(staticRoleLister{roles: rolesWith(custom...)})).
		WithRecorder(recorder)
	return authorizer, recorder
}

func TestAuthorizer_OwnerSupremacy(t *testing.T) {
	team := testTeam()
	// Ownership wins even over a restrictive membership entry.
	team.Members[0].TeamRoleID = domain.RoleMember

	authorizer, _ := newTestAuthorizer()
	for _, entry := range domain.Vocabulary() {
		for _, action := range entry.Actions {
			allowed, err := authorizer.Can(context.Background(), team, "owner-1", entry.Category, action)
			if err != nil {
				t.Fatalf("Can(%s.%s) returned error: %v", entry.Category, action, err)
			}
			if !allowed {
				t.Fatalf("expected owner to be allowed %s.%s", entry.Category, action)
			}
		}
	}
}

func TestAuthorizer_NonMemberFailsClosed(t *testing.T) {
	team := testTeam(
		domain.Membership{UserID: "invited-1", TeamRoleID: domain.RoleAdmin, Status: domain.MembershipInvited},
		domain.Membership{UserID: "removed-1", TeamRoleID: domain.RoleAdmin, Status: domain.MembershipRemoved},
	)

	authorizer, _ := newTestAuthorizer()
	for _, userID := range []string{"stranger", "invited-1", "removed-1", ""} {
		for _, entry := range domain.Vocabulary() {
			for _, action := range entry.Actions {
				allowed, err := authorizer.Can(context.Background(), team, userID, entry.Category, action)
				if err != nil {
					t.Fatalf("Can returned error: %v", err)
				}
				if allowed {
					t.Fatalf("expected %q to be denied %s.%s", userID, entry.Category, action)
				}
			}
		}
	}
}

func TestAuthorizer_CustomRoleGrant(t *testing.T) {
	qa := customRole("role-qa", "team-1", "QA", domain.DefaultMatrix().Normalize().Grant("plugins.install"), time.Now())
	qa.Permissions[domain.CategoryTeam][domain.ActionView] = false
	team := testTeam(activeMember("qa-1", "role-qa"))

	authorizer, _ := newTestAuthorizer(qa)

	install, err := authorizer.Can(context.Background(), team, "qa-1", domain.CategoryPlugins, domain.ActionInstall)
	if err != nil || !install {
		t.Fatalf("expected plugins.install to be allowed, got %v (%v)", install, err)
	}
	uninstall, err := authorizer.Can(context.Background(), team, "qa-1", domain.CategoryPlugins, domain.ActionUninstall)
	if err != nil || uninstall {
		t.Fatalf("expected plugins.uninstall to be denied, got %v (%v)", uninstall, err)
	}
}

func TestAuthorizer_TeamDefaultManagerForNewMember(t *testing.T) {
	team := testTeam(domain.Membership{UserID: "new-1", Status: domain.MembershipActive})
	team.Settings.DefaultTeamRoleID = domain.RoleManager

	authorizer, _ := newTestAuthorizer()
	manager, _ := domain.DefaultRole(domain.RoleManager)

	effective := authorizer.EffectivePermissions(context.Background(), team, "new-1")
	if !effective.Equal(manager.Permissions) {
		t.Fatalf("expected Manager matrix, got %v", effective)
	}

	invite, _ := authorizer.Can(context.Background(), team, "new-1", domain.CategoryMembers, domain.ActionInvite)
	remove, _ := authorizer.Can(context.Background(), team, "new-1", domain.CategoryMembers, domain.ActionRemove)
	if !invite || remove {
		t.Fatalf("expected Manager to invite but not remove, got invite=%v remove=%v", invite, remove)
	}
}

func TestAuthorizer_UnknownPermission(t *testing.T) {
	authorizer, recorder := newTestAuthorizer()
	team := testTeam()

	tests := []struct {
		category domain.Category
		action   domain.Action
	}{
		{category: "billing", action: domain.ActionView},
		{category: domain.CategoryTeam, action: domain.ActionInstall},
		{category: domain.CategorySites, action: ""},
	}

	for _, tt := range tests {
		allowed, err := authorizer.Can(context.Background(), team, "owner-1", tt.category, tt.action)
		var unknown *domain.UnknownPermissionError
		if !errors.As(err, &unknown) {
			t.Fatalf("Can(%s.%s): expected UnknownPermissionError, got %v", tt.category, tt.action, err)
		}
		if allowed {
			t.Fatalf("Can(%s.%s): unknown permission must never be granted", tt.category, tt.action)
		}
	}

	if len(recorder.decisions) != len(tests) || recorder.decisions[0] != "billing.view:error" {
		t.Fatalf("expected error outcomes recorded, got %v", recorder.decisions)
	}
}

func TestAuthorizer_CanManageRoles(t *testing.T) {
	legacy := activeMember("legacy-1", domain.RoleMember)
	legacy.ManageMembers = true
	lead := customRole("role-lead", "team-1", "Lead", domain.DefaultMatrix().Grant("team.manage_roles"), time.Now())
	hr := customRole("role-hr", "team-1", "HR", domain.DefaultMatrix().Grant("members.manage_roles"), time.Now())

	team := testTeam(
		legacy,
		activeMember("lead-1", "role-lead"),
		activeMember("hr-1", "role-hr"),
		activeMember("admin-1", domain.RoleAdmin),
		activeMember("member-1", domain.RoleMember),
	)

	authorizer, _ := newTestAuthorizer(lead, hr)

	tests := map[string]bool{
		"owner-1":  true,
		"legacy-1": true,
		"lead-1":   true,
		"hr-1":     true,
		"admin-1":  false,
		"member-1": false,
		"stranger": false,
	}
	for userID, want := range tests {
		if got := authorizer.CanManageRoles(context.Background(), team, userID); got != want {
			t.Fatalf("CanManageRoles(%s) = %v, want %v", userID, got, want)
		}
	}

	allowed, err := authorizer.Can(context.Background(), team, "legacy-1", domain.CategoryTeam, domain.ActionManageRoles)
	if err != nil || allowed {
		t.Fatalf("expected legacy flag to grant members.manage_roles only, got %v (%v)", allowed, err)
	}
}

func TestAuthorizer_EffectivePermissions(t *testing.T) {
	legacy := activeMember("legacy-1", domain.RoleMember)
	legacy.ManageMembers = true
	team := testTeam(legacy)

	authorizer, _ := newTestAuthorizer()

	if !authorizer.EffectivePermissions(context.Background(), team, "owner-1").Equal(domain.FullMatrix()) {
		t.Fatalf("expected owner to receive the full matrix")
	}

	stranger := authorizer.EffectivePermissions(context.Background(), team, "stranger")
	if err := stranger.Validate(); err != nil {
		t.Fatalf("expected a complete matrix, got %v", err)
	}
	if !stranger.Equal(domain.Matrix{}) {
		t.Fatalf("expected all-false matrix for non-member, got %v", stranger)
	}

	effective := authorizer.EffectivePermissions(context.Background(), team, "legacy-1")
	if !effective[domain.CategoryMembers][domain.ActionManageRoles] || !effective[domain.CategoryTeam][domain.ActionView] {
		t.Fatalf("expected Member matrix plus legacy grant, got %v", effective)
	}
}

func TestAuthorizer_RecordsOutcomes(t *testing.T) {
	authorizer, recorder := newTestAuthorizer()
	team := testTeam(activeMember("member-1", domain.RoleMember))

	_, _ = authorizer.Can(context.Background(), team, "member-1", domain.CategoryTeam, domain.ActionView)
	_, _ = authorizer.Can(context.Background(), team, "member-1", domain.CategorySites, domain.ActionDelete)

	want := []string{"team.view:allow", "sites.delete:deny"}
	if len(recorder.decisions) != len(want) {
		t.Fatalf("expected %v, got %v", want, recorder.decisions)
	}
	for i := range want {
		if recorder.decisions[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, recorder.decisions)
		}
	}
}
