package server

import (
	"errors"

	"github.com/gin-gonic/gin"

	"opsflow/pkg/oferrors"
	"opsflow/pkg/utils/resp"
)

// fail translates a service error into the matching HTTP response.
// Anything outside the known kinds is a storage or internal fault and
// surfaces as a 500 without leaking the cause.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, oferrors.ErrForbidden):
		resp.Forbidden(c, err.Error())
	case errors.Is(err, oferrors.ErrInvalidState):
		resp.Conflict(c, err.Error())
	case errors.Is(err, oferrors.ErrInvalidParameters),
		errors.Is(err, oferrors.ErrInvalidRole),
		errors.Is(err, oferrors.ErrReasonRequired):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, oferrors.ErrNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, oferrors.ErrUsernameExists),
		errors.Is(err, oferrors.ErrEmailExists):
		resp.Conflict(c, err.Error())
	case errors.Is(err, oferrors.ErrInvalidCredentials),
		errors.Is(err, oferrors.ErrInvalidToken):
		resp.Unauthorized(c, err.Error())
	case errors.Is(err, oferrors.ErrUserDisabled):
		resp.Forbidden(c, err.Error())
	default:
		s.logger.Errorf("internal error: %v", err)
		resp.Error(c, "internal server error")
	}
}
