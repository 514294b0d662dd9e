package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/transport/http/middleware"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/usecase"
)

// RoleHandler serves the team role store.
type RoleHandler struct {
	roles *usecase.RoleService
	teams *usecase.TeamService
}

func NewRoleHandler(roles *usecase.RoleService, teams *usecase.TeamService) *RoleHandler {
	return &RoleHandler{roles: roles, teams: teams}
}

// RegisterRoutes mounts the handlers on a /teams/:teamID/roles group.
func (h *RoleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.ListRoles)
	r.POST("", h.CreateRole)
	r.GET("/:roleID", h.GetRole)
	r.PATCH("/:roleID", h.UpdateRole)
	r.DELETE("/:roleID", h.DeleteRole)
}

// ListRoles godoc
// @Summary List team roles
// @Description Returns the built-in roles followed by the team's active custom roles.
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Success 200 {object} RoleListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/teams/{teamID}/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	teamID := c.Param("teamID")
	if _, err := h.teams.ViewTeam(c.Request.Context(), actor, teamID); err != nil {
		respondRBACError(c, err, "failed to load team")
		return
	}

	roles, err := h.roles.ListRoles(c.Request.Context(), teamID)
	if err != nil {
		respondRBACError(c, err, "failed to list roles")
		return
	}

	payload := make([]RolePayload, 0, len(roles))
	for _, role := range roles {
		payload = append(payload, toRolePayload(role))
	}
	c.JSON(http.StatusOK, RoleListResponse{Roles: payload})
}

// GetRole godoc
// @Summary Get a role
// @Description Returns a single role by id or built-in name.
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param roleID path string true "Role ID or built-in role name"
// @Success 200 {object} RolePayload
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/teams/{teamID}/roles/{roleID} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	teamID := c.Param("teamID")
	if _, err := h.teams.ViewTeam(c.Request.Context(), actor, teamID); err != nil {
		respondRBACError(c, err, "failed to load team")
		return
	}

	role, err := h.roles.GetRole(c.Request.Context(), teamID, c.Param("roleID"))
	if err != nil {
		respondRBACError(c, err, "failed to load role")
		return
	}
	c.JSON(http.StatusOK, toRolePayload(*role))
}

// CreateRole godoc
// @Summary Create a custom role
// @Description Adds a custom role. A missing permissions object yields the default matrix.
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param request body RoleCreateRequest true "Role create request"
// @Success 201 {object} RolePayload
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/teams/{teamID}/roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	role, err := h.roles.CreateRole(c.Request.Context(), actor, usecase.CreateRoleInput{
		TeamID:      c.Param("teamID"),
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondRBACError(c, err, "failed to create role")
		return
	}
	c.JSON(http.StatusCreated, toRolePayload(*role))
}

// UpdateRole godoc
// @Summary Update a custom role
// @Description Changes a custom role's name, description, or permissions.
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param roleID path string true "Role ID"
// @Param request body RoleUpdateRequest true "Fields to change"
// @Success 200 {object} RolePayload
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/teams/{teamID}/roles/{roleID} [patch]
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	role, err := h.roles.UpdateRole(c.Request.Context(), actor, usecase.UpdateRoleInput{
		TeamID:      c.Param("teamID"),
		RoleID:      c.Param("roleID"),
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondRBACError(c, err, "failed to update role")
		return
	}
	c.JSON(http.StatusOK, toRolePayload(*role))
}

// DeleteRole godoc
// @Summary Deactivate a custom role
// @Description Deactivates a custom role.
// @Tags Roles
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param roleID path string true "Role ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/teams/{teamID}/roles/{roleID} [delete]
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	if err := h.roles.DeleteRole(c.Request.Context(), actor, c.Param("teamID"), c.Param("roleID")); err != nil {
		respondRBACError(c, err, "failed to delete role")
		return
	}
	c.Status(http.StatusNoContent)
}
