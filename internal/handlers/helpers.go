package handlers

import (
	"errors"
	"net/http"

	"salonstock/internal/common"
	"salonstock/internal/models"
	"salonstock/internal/services"

	"github.com/labstack/echo/v4"
)

// actorFromContext builds the ledger actor from the JWT claims the middleware
// stored on the request context.
func actorFromContext(c echo.Context) (models.Actor, error) {
	ctx := c.Request().Context()
	actorID, ok := common.GetActorIDFromContext(ctx)
	if !ok {
		return models.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "Actor not found")
	}
	name, _ := common.GetActorNameFromContext(ctx)
	return models.Actor{ID: actorID, Name: name}, nil
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// validation 400, not found 404, insufficient stock and illegal transitions 409.
func respondServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return common.SendValidationError(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, common.CreateErrorResponse("NOT_FOUND", err.Error(), nil))
	case errors.Is(err, services.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, common.CreateErrorResponse("INSUFFICIENT_STOCK", err.Error(), nil))
	case errors.Is(err, services.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, common.CreateErrorResponse("INVALID_TRANSITION", err.Error(), nil))
	default:
		return common.SendServerError(c, "Operation failed")
	}
}
