package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/transport/http/middleware"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/usecase"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: middleware.GetTraceID(c),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// RolePayload is the wire shape of a role.
type RolePayload struct {
	ID          string        `json:"id"`
	TeamID      *string       `json:"team_id,omitempty"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Type        string        `json:"type"`
	Permissions domain.Matrix `json:"permissions"`
	IsActive    bool          `json:"is_active"`
	CreatedBy   *string       `json:"created_by,omitempty"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

// RoleListResponse lists a team's roles, defaults first.
type RoleListResponse struct {
	Roles []RolePayload `json:"roles"`
}

// RoleCreateRequest is the body of POST /teams/:teamID/roles.
type RoleCreateRequest struct {
	Name        string        `json:"name" binding:"required"`
	Description *string       `json:"description"`
	Permissions domain.Matrix `json:"permissions"`
}

// RoleUpdateRequest is the body of PATCH /teams/:teamID/roles/:roleID. Omitted fields are unchanged.
type RoleUpdateRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Permissions domain.Matrix `json:"permissions"`
}

// MemberPayload is the wire shape of a membership.
type MemberPayload struct {
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	TeamRoleID    string    `json:"team_role_id"`
	Status        string    `json:"status"`
	ManageMembers bool      `json:"manage_members,omitempty"`
	JoinedAt      time.Time `json:"joined_at"`
}

// TeamSettingsPayload mirrors domain.TeamSettings.
type TeamSettingsPayload struct {
	AllowMemberInvites bool   `json:"allow_member_invites"`
	DefaultTeamRoleID  string `json:"default_team_role_id"`
}

// TeamPayload is the wire shape of a team with its members.
type TeamPayload struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	AvatarURL   *string             `json:"avatar_url,omitempty"`
	OwnerID     string              `json:"owner_id"`
	Settings    TeamSettingsPayload `json:"settings"`
	Members     []MemberPayload     `json:"members"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TeamCreateRequest is the body of POST /teams.
type TeamCreateRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        *string `json:"description"`
	AvatarURL          *string `json:"avatar_url"`
	AllowMemberInvites bool    `json:"allow_member_invites"`
	DefaultTeamRoleID  string  `json:"default_team_role_id"`
}

// TeamSettingsRequest is the body of PATCH /teams/:teamID/settings.
type TeamSettingsRequest struct {
	AllowMemberInvites *bool   `json:"allow_member_invites"`
	DefaultTeamRoleID  *string `json:"default_team_role_id"`
}

// InviteMemberRequest is the body of POST /teams/:teamID/members.
type InviteMemberRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	Email      string `json:"email" binding:"required"`
	TeamRoleID string `json:"team_role_id"`
}

// AssignRoleRequest is the body of PUT /teams/:teamID/members/:userID/role.
type AssignRoleRequest struct {
	TeamRoleID string `json:"team_role_id" binding:"required"`
}

// ResolvedRoleResponse reports the role a member is evaluated with.
type ResolvedRoleResponse struct {
	UserID              string      `json:"user_id"`
	Owner               bool        `json:"owner"`
	Source              string      `json:"source"`
	LegacyManageMembers bool        `json:"legacy_manage_members,omitempty"`
	Role                RolePayload `json:"role"`
}

// PermissionCheckResponse answers a single can() question.
type PermissionCheckResponse struct {
	Category string `json:"category"`
	Action   string `json:"action"`
	Allowed  bool   `json:"allowed"`
}

// EffectivePermissionsResponse carries the caller's complete matrix.
type EffectivePermissionsResponse struct {
	UserID         string        `json:"user_id"`
	CanManageRoles bool          `json:"can_manage_roles"`
	Permissions    domain.Matrix `json:"permissions"`
}

// VocabularyResponse lists every category and its actions.
type VocabularyResponse struct {
	Categories []domain.CategoryActions `json:"categories"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func toRolePayload(role domain.Role) RolePayload {
	payload := RolePayload{
		ID:          role.ID,
		TeamID:      role.TeamID,
		Name:        role.Name,
		Description: role.Description,
		Type:        string(role.Type),
		Permissions: role.Permissions.Normalize(),
		IsActive:    role.IsActive,
		CreatedBy:   role.CreatedBy,
	}
	if !role.CreatedAt.IsZero() {
		createdAt := role.CreatedAt
		payload.CreatedAt = &createdAt
	}
	if !role.UpdatedAt.IsZero() {
		updatedAt := role.UpdatedAt
		payload.UpdatedAt = &updatedAt
	}
	return payload
}

func toMemberPayload(member domain.Membership) MemberPayload {
	return MemberPayload{
		UserID:        member.UserID,
		Email:         member.Email,
		TeamRoleID:    member.TeamRoleID,
		Status:        string(member.Status),
		ManageMembers: member.ManageMembers,
		JoinedAt:      member.JoinedAt,
	}
}

func toTeamPayload(team domain.Team) TeamPayload {
	members := make([]MemberPayload, 0, len(team.Members))
	for _, member := range team.Members {
		if member.Status == domain.MembershipRemoved {
			continue
		}
		members = append(members, toMemberPayload(member))
	}

	return TeamPayload{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		AvatarURL:   team.AvatarURL,
		OwnerID:     team.OwnerID,
		Settings: TeamSettingsPayload{
			AllowMemberInvites: team.Settings.AllowMemberInvites,
			DefaultTeamRoleID:  team.DefaultRoleID(),
		},
		Members:   members,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	}
}

func toResolvedRoleResponse(userID string, resolved usecase.ResolvedRole) ResolvedRoleResponse {
	return ResolvedRoleResponse{
		UserID:              userID,
		Owner:               resolved.Owner,
		Source:              string(resolved.Source),
		LegacyManageMembers: resolved.LegacyManageMembers,
		Role:                toRolePayload(resolved.Role),
	}
}
