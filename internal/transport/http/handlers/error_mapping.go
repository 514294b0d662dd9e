package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/usecase"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// rbacErrorCases covers the sentinels shared by every team and role endpoint.
var rbacErrorCases = []ErrorCase{
	{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "insufficient permissions"},
	{Err: usecase.ErrTeamNotFound, Status: http.StatusNotFound, Message: "team not found"},
	{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
	{Err: usecase.ErrNotAMember, Status: http.StatusNotFound, Message: "member not found"},
	{Err: usecase.ErrImmutableRole, Status: http.StatusConflict, Message: "default roles cannot be modified"},
	{Err: usecase.ErrAlreadyMember, Status: http.StatusConflict, Message: "user is already a member of the team"},
	{Err: usecase.ErrOwnerRemoval, Status: http.StatusConflict, Message: "the team owner cannot be removed or reassigned"},
}

// RespondWithMappedError resolves the provided error against known cases or falls back to a generic response.
// Validation failures are reported with their field before cases are consulted.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	var validation *usecase.ValidationError
	if errors.As(err, &validation) {
		resp := NewErrorResponse(c, validation.Reason)
		resp.Field = validation.Field
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	var shape *domain.ShapeError
	if errors.As(err, &shape) {
		resp := NewErrorResponse(c, shape.Error())
		resp.Field = "permissions"
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	var unknown *domain.UnknownPermissionError
	if errors.As(err, &unknown) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, unknown.Error()))
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Message))
			return
		}
	}

	_ = c.Error(err)
	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}

func respondRBACError(c *gin.Context, err error, fallbackMessage string) {
	RespondWithMappedError(c, err, rbacErrorCases, http.StatusInternalServerError, fallbackMessage)
}
