package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-service/internal/pkg/token"
)

// Context keys set by Auth and read by handlers and RBAC.
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
	EmailKey  = "email"

	accessCookie = "accessToken"
)

// Auth verifies the access token and injects its claims into the context.
// The token is taken from the Authorization header, falling back to the
// accessToken cookie.
func Auth(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearer(c)
			if err != nil {
				return err
			}

			claims, err := issuer.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(UserIDKey, claims.Subject)
			c.Set(RoleKey, claims.Role)
			c.Set(EmailKey, claims.Email)

			return next(c)
		}
	}
}

func bearer(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		if ck, err := c.Cookie(accessCookie); err == nil && ck.Value != "" {
			return ck.Value, nil
		}
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
