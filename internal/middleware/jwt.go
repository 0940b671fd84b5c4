package middleware

import (
	"context"
	"net/http"

	"salonstock/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ActorContext reads the JWT already validated by the echo-jwt middleware and
// puts the actor's id and display name into the request context. Every
// mutation records that actor on its ledger entries.
func ActorContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing subject in token")
			}
			actorID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid subject format")
			}

			actorName, _ := claims["name"].(string)
			if actorName == "" {
				actorName = "unknown"
			}

			ctx := context.WithValue(c.Request().Context(), common.ActorIDKey, actorID)
			ctx = context.WithValue(ctx, common.ActorNameKey, actorName)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
