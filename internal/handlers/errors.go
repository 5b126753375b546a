package handlers

import (
	"errors"
	"net/http"

	"stallfinder/internal/services"
	"stallfinder/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError translates service layer sentinels onto HTTP
// status codes. Anything unrecognized is a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		utils.UnauthorizedResponse(c)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c)
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, services.ErrStoreUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Data store unavailable")
	default:
		utils.InternalServerErrorResponse(c)
	}
}
