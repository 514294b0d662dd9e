package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/transport/http/middleware"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/usecase"
)

// TeamHandler serves teams and their memberships.
type TeamHandler struct {
	teams      *usecase.TeamService
	authorizer *usecase.Authorizer
}

func NewTeamHandler(teams *usecase.TeamService, authorizer *usecase.Authorizer) *TeamHandler {
	return &TeamHandler{teams: teams, authorizer: authorizer}
}

// RegisterRoutes mounts POST / on r and the per-team routes on team, a /:teamID group.
func (h *TeamHandler) RegisterRoutes(r *gin.RouterGroup, team *gin.RouterGroup) {
	r.POST("", h.CreateTeam)

	team.GET("", h.GetTeam)
	team.PATCH("/settings", h.UpdateSettings)
	team.POST("/members", h.InviteMember)
	team.POST("/members/accept", h.AcceptInvite)
	team.GET("/members/:userID/role", h.ResolveMemberRole)
	team.PUT("/members/:userID/role", h.AssignRole)
	team.DELETE("/members/:userID", h.RemoveMember)
}

// CreateTeam godoc
// @Summary Create a team
// @Description Creates a team owned by the caller.
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TeamCreateRequest true "Team create request"
// @Success 201 {object} TeamPayload
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req TeamCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid team payload"))
		return
	}

	team, err := h.teams.CreateTeam(c.Request.Context(), actor, usecase.CreateTeamInput{
		Name:               req.Name,
		Description:        req.Description,
		AvatarURL:          req.AvatarURL,
		AllowMemberInvites: req.AllowMemberInvites,
		DefaultRoleID:      req.DefaultTeamRoleID,
	})
	if err != nil {
		respondRBACError(c, err, "failed to create team")
		return
	}
	c.JSON(http.StatusCreated, toTeamPayload(*team))
}

// GetTeam returns the team to its owner and members.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	team, err := h.teams.ViewTeam(c.Request.Context(), actor, c.Param("teamID"))
	if err != nil {
		respondRBACError(c, err, "failed to load team")
		return
	}
	c.JSON(http.StatusOK, toTeamPayload(*team))
}

// UpdateSettings changes the invite policy and default role.
func (h *TeamHandler) UpdateSettings(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req TeamSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid settings payload"))
		return
	}

	team, err := h.teams.UpdateSettings(c.Request.Context(), actor, c.Param("teamID"), usecase.UpdateSettingsInput{
		AllowMemberInvites: req.AllowMemberInvites,
		DefaultTeamRoleID:  req.DefaultTeamRoleID,
	})
	if err != nil {
		respondRBACError(c, err, "failed to update team settings")
		return
	}
	c.JSON(http.StatusOK, toTeamPayload(*team))
}

// InviteMember godoc
// @Summary Invite a member
// @Description Adds a pending membership.
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param request body InviteMemberRequest true "Invitation"
// @Success 201 {object} MemberPayload
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/teams/{teamID}/members [post]
func (h *TeamHandler) InviteMember(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid invite payload"))
		return
	}

	member, err := h.teams.InviteMember(c.Request.Context(), actor, c.Param("teamID"), usecase.InviteMemberInput{
		UserID: req.UserID,
		Email:  req.Email,
		RoleID: req.TeamRoleID,
	})
	if err != nil {
		respondRBACError(c, err, "failed to invite member")
		return
	}
	c.JSON(http.StatusCreated, toMemberPayload(*member))
}

// AcceptInvite activates the caller's pending membership.
func (h *TeamHandler) AcceptInvite(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	member, err := h.teams.AcceptInvite(c.Request.Context(), c.Param("teamID"), actor.UserID)
	if err != nil {
		RespondWithMappedError(c, err, append([]ErrorCase{
			{Err: usecase.ErrNotAMember, Status: http.StatusNotFound, Message: "no pending invitation"},
		}, rbacErrorCases...), http.StatusInternalServerError, "failed to accept invitation")
		return
	}
	c.JSON(http.StatusOK, toMemberPayload(*member))
}

// ResolveMemberRole godoc
// @Summary Resolve a member's effective role
// @Description Reports the role a member is evaluated with. Callers may query themselves; querying others requires members.view.
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param userID path string true "User ID"
// @Success 200 {object} ResolvedRoleResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/teams/{teamID}/members/{userID}/role [get]
func (h *TeamHandler) ResolveMemberRole(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	ctx := c.Request.Context()
	team, err := h.teams.ViewTeam(ctx, actor, c.Param("teamID"))
	if err != nil {
		respondRBACError(c, err, "failed to load team")
		return
	}

	userID := c.Param("userID")
	if userID != actor.UserID {
		allowed, err := h.authorizer.Can(ctx, *team, actor.UserID, domain.CategoryMembers, domain.ActionView)
		if err != nil || !allowed {
			respondRBACError(c, usecase.ErrPermissionDenied, "failed to resolve role")
			return
		}
	}

	resolved, err := h.authorizer.ResolveRole(ctx, *team, userID)
	if err != nil {
		respondRBACError(c, err, "failed to resolve role")
		return
	}
	c.JSON(http.StatusOK, toResolvedRoleResponse(userID, resolved))
}

// AssignRole godoc
// @Summary Assign a role to a member
// @Description Points a membership at another role.
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param userID path string true "User ID"
// @Param request body AssignRoleRequest true "Role assignment"
// @Success 200 {object} MemberPayload
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/teams/{teamID}/members/{userID}/role [put]
func (h *TeamHandler) AssignRole(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role assignment payload"))
		return
	}

	member, err := h.teams.AssignRole(c.Request.Context(), actor, c.Param("teamID"), c.Param("userID"), req.TeamRoleID)
	if err != nil {
		respondRBACError(c, err, "failed to assign role")
		return
	}
	c.JSON(http.StatusOK, toMemberPayload(*member))
}

// RemoveMember marks a membership removed.
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	if err := h.teams.RemoveMember(c.Request.Context(), actor, c.Param("teamID"), c.Param("userID")); err != nil {
		respondRBACError(c, err, "failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}
