package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/port"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/repository"
)

const maxTeamNameLength = 120

// CreateTeamInput captures the payload for creating a team.
type CreateTeamInput struct {
	Name               string
	Description        *string
	AvatarURL          *string
	AllowMemberInvites bool
	// DefaultRoleID must name a built-in role; empty means Member.
	DefaultRoleID string
}

// InviteMemberInput captures an invitation. RoleID defaults to the team default role.
type InviteMemberInput struct {
	UserID string
	Email  string
	RoleID string
}

// UpdateSettingsInput is a partial settings update; nil fields are left unchanged.
type UpdateSettingsInput struct {
	AllowMemberInvites *bool
	DefaultTeamRoleID  *string
}

// TeamService manages teams and their memberships.
type TeamService struct {
	teams      port.TeamRepository
	roles      *RoleService
	authorizer *Authorizer
	audit      auditTrail
	logger     *zap.Logger
	now        func() time.Time
}

// NewTeamService constructs a TeamService.
func NewTeamService(teams port.TeamRepository, roles *RoleService, authorizer *Authorizer, activity port.ActivityLog, events port.EventPublisher) *TeamService {
	s := &TeamService{
		teams:      teams,
		roles:      roles,
		authorizer: authorizer,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	s.audit = auditTrail{activity: activity, events: events, logger: s.logger}
	return s
}

// WithLogger sets the logger used for non-fatal failures.
func (s *TeamService) WithLogger(logger *zap.Logger) *TeamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.logger = logger
	s.audit.logger = logger
	return s
}

// WithClock overrides the time source.
func (s *TeamService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// CreateTeam creates a team owned by the actor, who is added as an active Owner member.
func (s *TeamService) CreateTeam(ctx context.Context, actor domain.Actor, input CreateTeamInput) (*domain.Team, error) {
	ownerID := strings.TrimSpace(actor.UserID)
	if ownerID == "" {
		return nil, newTeamValidationError("owner_id", "actor id is required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, newTeamValidationError("name", "team name is required")
	}
	if len([]rune(name)) > maxTeamNameLength {
		return nil, newTeamValidationError("name", fmt.Sprintf("team name must be at most %d characters", maxTeamNameLength))
	}

	defaultRoleID := domain.RoleMember
	if ref := strings.TrimSpace(input.DefaultRoleID); ref != "" {
		role, ok := domain.DefaultRole(ref)
		if !ok || role.ID == domain.RoleOwner {
			return nil, newTeamValidationError("default_team_role_id", "default role must be Member, Manager or Admin")
		}
		defaultRoleID = role.ID
	}

	now := s.now().UTC()
	team := domain.Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: trimmedOptional(input.Description),
		AvatarURL:   trimmedOptional(input.AvatarURL),
		OwnerID:     ownerID,
		Settings: domain.TeamSettings{
			AllowMemberInvites: input.AllowMemberInvites,
			DefaultTeamRoleID:  defaultRoleID,
		},
		Members: []domain.Membership{{
			UserID:     ownerID,
			Email:      strings.TrimSpace(actor.Email),
			TeamRoleID: domain.RoleOwner,
			Status:     domain.MembershipActive,
			JoinedAt:   now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.teams.Create(ctx, team); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, newTeamValidationError("id", "team already exists")
		}
		return nil, fmt.Errorf("create team: %w", err)
	}

	s.audit.record(ctx, actor, domain.ActivityRecord{
		Action:     fmt.Sprintf("Created team %s", team.Name),
		EntityType: domain.EntityTeam,
		EntityID:   team.ID,
		TeamID:     team.ID,
	})
	s.audit.teamChanged(ctx, domain.TeamChangedEvent{
		TeamID:     team.ID,
		OwnerID:    team.OwnerID,
		Change:     domain.TeamCreated,
		ActorID:    ownerID,
		OccurredAt: now,
	})

	return &team, nil
}

// GetTeam loads a team with its memberships.
func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, ErrTeamNotFound
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

// ViewTeam loads the team for a caller who owns it or holds an active or pending
// membership. Everyone else gets ErrTeamNotFound.
func (s *TeamService) ViewTeam(ctx context.Context, actor domain.Actor, teamID string) (*domain.Team, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if IsOwner(*team, actor.UserID) {
		return team, nil
	}
	member, found := team.FindMember(actor.UserID)
	if !found || member.Status == domain.MembershipRemoved {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

// InviteMember adds an invited membership. Inviting requires members.invite, or any
// active membership when the team allows member invites. Choosing a role other than the
// team default additionally requires role management rights.
func (s *TeamService) InviteMember(ctx context.Context, actor domain.Actor, teamID string, input InviteMemberInput) (*domain.Membership, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, newTeamValidationError("user_id", "user id is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, newTeamValidationError("email", "email is required")
	}

	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if !s.canInvite(ctx, *team, actor.UserID) {
		return nil, ErrPermissionDenied
	}

	roleRef := strings.TrimSpace(input.RoleID)
	usesDefault := roleRef == "" || strings.EqualFold(roleRef, team.DefaultRoleID())
	if usesDefault {
		roleRef = team.DefaultRoleID()
	} else if !s.authorizer.CanManageRoles(ctx, *team, actor.UserID) {
		return nil, ErrPermissionDenied
	}

	role, err := s.assignableRole(ctx, team.ID, roleRef)
	if usesDefault && (errors.Is(err, ErrRoleNotFound) || errors.Is(err, ErrImmutableRole)) {
		s.logger.Warn("team default role unavailable, inviting as Member",
			zap.String("team_id", team.ID),
			zap.String("default_role_id", roleRef),
		)
		role, err = s.assignableRole(ctx, team.ID, domain.RoleMember)
	}
	if err != nil {
		return nil, err
	}

	existing, found := team.FindMember(userID)
	if IsOwner(*team, userID) || (found && existing.Status != domain.MembershipRemoved) {
		return nil, ErrAlreadyMember
	}

	member := domain.Membership{
		UserID:     userID,
		Email:      email,
		TeamRoleID: role.ID,
		Status:     domain.MembershipInvited,
		JoinedAt:   s.now().UTC(),
	}

	if found {
		err = s.teams.UpdateMember(ctx, team.ID, member)
	} else {
		err = s.teams.AddMember(ctx, team.ID, member)
	}
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("invite member: %w", err)
	}

	s.audit.record(ctx, actor, domain.ActivityRecord{
		Action:     fmt.Sprintf("Invited %s as %s", email, role.Name),
		EntityType: domain.EntityMembership,
		EntityID:   userID,
		TeamID:     team.ID,
	})
	s.audit.membershipChanged(ctx, domain.MembershipChangedEvent{
		TeamID:     team.ID,
		UserID:     userID,
		RoleID:     role.ID,
		Change:     domain.MemberInvited,
		ActorID:    actor.UserID,
		OccurredAt: member.JoinedAt,
	})

	return &member, nil
}

// AcceptInvite activates the pending invitation of userID.
func (s *TeamService) AcceptInvite(ctx context.Context, teamID, userID string) (*domain.Membership, error) {
	userID = strings.TrimSpace(userID)
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	member, found := team.FindMember(userID)
	if !found || member.Status != domain.MembershipInvited {
		return nil, ErrNotAMember
	}

	member.Status = domain.MembershipActive
	member.JoinedAt = s.now().UTC()
	if err := s.teams.UpdateMember(ctx, team.ID, member); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotAMember
		}
		return nil, fmt.Errorf("accept invite: %w", err)
	}

	actor := domain.Actor{UserID: member.UserID, Email: member.Email}
	s.audit.record(ctx, actor, domain.ActivityRecord{
		Action:     fmt.Sprintf("%s joined the team", member.Email),
		EntityType: domain.EntityMembership,
		EntityID:   member.UserID,
		TeamID:     team.ID,
	})
	s.audit.membershipChanged(ctx, domain.MembershipChangedEvent{
		TeamID:     team.ID,
		UserID:     member.UserID,
		RoleID:     member.TeamRoleID,
		Change:     domain.MemberJoined,
		ActorID:    member.UserID,
		OccurredAt: member.JoinedAt,
	})

	return &member, nil
}

// AssignRole points the membership of userID at roleID.
func (s *TeamService) AssignRole(ctx context.Context, actor domain.Actor, teamID, userID, roleID string) (*domain.Membership, error) {
	userID = strings.TrimSpace(userID)
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if !s.authorizer.CanManageRoles(ctx, *team, actor.UserID) {
		return nil, ErrPermissionDenied
	}
	if IsOwner(*team, userID) {
		return nil, ErrOwnerRemoval
	}

	member, found := team.FindMember(userID)
	if !found || member.Status == domain.MembershipRemoved {
		return nil, ErrNotAMember
	}

	role, err := s.assignableRole(ctx, team.ID, roleID)
	if err != nil {
		return nil, err
	}

	member.TeamRoleID = role.ID
	if err := s.teams.UpdateMember(ctx, team.ID, member); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotAMember
		}
		return nil, fmt.Errorf("assign role: %w", err)
	}

	s.audit.record(ctx, actor, domain.ActivityRecord{
		Action:     fmt.Sprintf("Assigned role %s to %s", role.Name, member.Email),
		EntityType: domain.EntityMembership,
		EntityID:   member.UserID,
		TeamID:     team.ID,
	})
	s.audit.membershipChanged(ctx, domain.MembershipChangedEvent{
		TeamID:     team.ID,
		UserID:     member.UserID,
		RoleID:     role.ID,
		Change:     domain.MemberRoleAssigned,
		ActorID:    actor.UserID,
		OccurredAt: s.now().UTC(),
	})

	return &member, nil
}

// RemoveMember marks the membership of userID as removed.
func (s *TeamService) RemoveMember(ctx context.Context, actor domain.Actor, teamID, userID string) error {
	userID = strings.TrimSpace(userID)
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}

	allowed, err := s.authorizer.Can(ctx, *team, actor.UserID, domain.CategoryMembers, domain.ActionRemove)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrPermissionDenied
	}
	if IsOwner(*team, userID) {
		return ErrOwnerRemoval
	}

	member, found := team.FindMember(userID)
	if !found || member.Status == domain.MembershipRemoved {
		return ErrNotAMember
	}

	member.Status = domain.MembershipRemoved
	if err := s.teams.UpdateMember(ctx, team.ID, member); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotAMember
		}
		return fmt.Errorf("remove member: %w", err)
	}

	s.audit.record(ctx, actor, domain.ActivityRecord{
		Action:     fmt.Sprintf("Removed %s from the team", member.Email),
		EntityType: domain.EntityMembership,
		EntityID:   member.UserID,
		TeamID:     team.ID,
	})
	s.audit.membershipChanged(ctx, domain.MembershipChangedEvent{
		TeamID:     team.ID,
		UserID:     member.UserID,
		RoleID:     member.TeamRoleID,
		Change:     domain.MemberRemoved,
		ActorID:    actor.UserID,
		OccurredAt: s.now().UTC(),
	})

	return nil
}

// UpdateSettings changes invite policy and the default role for new members.
func (s *TeamService) UpdateSettings(ctx context.Context, actor domain.Actor, teamID string, input UpdateSettingsInput) (*domain.Team, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.authorizer.Can(ctx, *team, actor.UserID, domain.CategoryTeam, domain.ActionEditSettings)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	settings := team.Settings
	if input.AllowMemberInvites != nil {
		settings.AllowMemberInvites = *input.AllowMemberInvites
	}
	if input.DefaultTeamRoleID != nil {
		role, err := s.assignableRole(ctx, team.ID, *input.DefaultTeamRoleID)
		if err != nil {
			if errors.Is(err, ErrRoleNotFound) || errors.Is(err, ErrImmutableRole) {
				return nil, newTeamValidationError("default_team_role_id", err.Error())
			}
			return nil, err
		}
		settings.DefaultTeamRoleID = role.ID
	}

	if err := s.teams.UpdateSettings(ctx, team.ID, settings); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("update team settings: %w", err)
	}

	team.Settings = settings
	team.UpdatedAt = s.now().UTC()

	s.audit.record(ctx, actor, domain.ActivityRecord{
		Action:     "Updated team settings",
		EntityType: domain.EntityTeam,
		EntityID:   team.ID,
		TeamID:     team.ID,
	})
	s.audit.teamChanged(ctx, domain.TeamChangedEvent{
		TeamID:     team.ID,
		OwnerID:    team.OwnerID,
		Change:     domain.TeamSettingsUpdated,
		ActorID:    actor.UserID,
		OccurredAt: team.UpdatedAt,
		Metadata: map[string]any{
			"allow_member_invites": settings.AllowMemberInvites,
			"default_team_role_id": settings.DefaultTeamRoleID,
		},
	})

	return team, nil
}

func (s *TeamService) canInvite(ctx context.Context, team domain.Team, actorID string) bool {
	if ok, _ := s.authorizer.Can(ctx, team, actorID, domain.CategoryMembers, domain.ActionInvite); ok {
		return true
	}
	if !team.Settings.AllowMemberInvites {
		return false
	}
	_, err := ResolveMembership(team, actorID)
	return err == nil
}

// assignableRole resolves ref by id, or by name ignoring case, among the active roles of
// the team. The Owner role is never assignable.
func (s *TeamService) assignableRole(ctx context.Context, teamID, ref string) (domain.Role, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Role{}, ErrRoleNotFound
	}
	if strings.EqualFold(ref, domain.RoleOwner) {
		return domain.Role{}, ErrImmutableRole
	}

	roles, err := s.roles.ListRoles(ctx, teamID)
	if err != nil {
		return domain.Role{}, err
	}
	role, ok := findRole(roles, ref, true)
	if !ok {
		return domain.Role{}, ErrRoleNotFound
	}
	return role, nil
}
