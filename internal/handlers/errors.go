package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mlazarev/tracknest/internal/services"
	"github.com/mlazarev/tracknest/pkg/response"
)

// writeServiceError maps a service error to the HTTP surface. Conflicts,
// failed preconditions and validation failures are client errors; an
// unscoped row is a 404; everything else is a 500.
func writeServiceError(c *gin.Context, err error) {
	var conflict *services.ConflictError
	var invalid *services.ValidationError

	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectPrecondition):
		response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.As(err, &conflict):
		response.BadRequest(c, conflict.Error())
	case errors.As(err, &invalid):
		response.BadRequest(c, invalid.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
