package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/transport/http/middleware"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/usecase"
)

// PermissionHandler answers authorization questions for the calling user.
type PermissionHandler struct {
	teams      *usecase.TeamService
	authorizer *usecase.Authorizer
}

func NewPermissionHandler(teams *usecase.TeamService, authorizer *usecase.Authorizer) *PermissionHandler {
	return &PermissionHandler{teams: teams, authorizer: authorizer}
}

// Vocabulary godoc
// @Summary Permission vocabulary
// @Description Lists the fixed category/action set.
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} VocabularyResponse
// @Router /api/v1/permissions/vocabulary [get]
func (h *PermissionHandler) Vocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, VocabularyResponse{Categories: domain.Vocabulary()})
}

// Check godoc
// @Summary Check a single permission
// @Description Evaluates ?category=&action= for the caller. The pair may also be passed as ?permission=category.action. Callers outside the team get 404.
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param category query string false "Permission category"
// @Param action query string false "Permission action"
// @Param permission query string false "category.action shorthand"
// @Success 200 {object} PermissionCheckResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/teams/{teamID}/permissions/check [get]
func (h *PermissionHandler) Check(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	category := domain.Category(strings.TrimSpace(c.Query("category")))
	action := domain.Action(strings.TrimSpace(c.Query("action")))
	if pair := strings.TrimSpace(c.Query("permission")); pair != "" {
		var valid bool
		category, action, valid = domain.ParsePermission(pair)
		if !valid {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "permission must look like category.action"))
			return
		}
	}
	if category == "" || action == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "category and action are required"))
		return
	}

	ctx := c.Request.Context()
	team, err := h.teams.ViewTeam(ctx, actor, c.Param("teamID"))
	if err != nil {
		respondRBACError(c, err, "failed to load team")
		return
	}

	allowed, err := h.authorizer.Can(ctx, *team, actor.UserID, category, action)
	if err != nil {
		respondRBACError(c, err, "failed to evaluate permission")
		return
	}
	c.JSON(http.StatusOK, PermissionCheckResponse{
		Category: string(category),
		Action:   string(action),
		Allowed:  allowed,
	})
}

// Effective godoc
// @Summary Effective permissions of the caller
// @Description Returns the caller's complete permission matrix for the team.
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Success 200 {object} EffectivePermissionsResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/teams/{teamID}/permissions [get]
func (h *PermissionHandler) Effective(c *gin.Context) {
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

	c.JSON(http.StatusOK, EffectivePermissionsResponse{
		UserID:         actor.UserID,
		CanManageRoles: h.authorizer.CanManageRoles(ctx, *team, actor.UserID),
		Permissions:    h.authorizer.EffectivePermissions(ctx, *team, actor.UserID),
	})
}
