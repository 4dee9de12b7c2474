package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-service/internal/api/middleware"
	"github.com/peoplehub/hr-service/internal/core/domain"
)

// actorFrom extracts the caller injected by the Auth middleware. A missing
// user id means the route was mounted without authentication; reject with
// 401 rather than acting as an anonymous user.
func actorFrom(c echo.Context) (domain.Actor, error) {
	id, _ := c.Get(middleware.UserIDKey).(string)
	if id == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ := c.Get(middleware.RoleKey).(string)
	return domain.Actor{ID: id, Role: role}, nil
}
