package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-service/internal/core/domain"
)

func TestRBAC(t *testing.T) {
	cases := []struct {
		name   string
		role   any
		setIt  bool
		status int
	}{
		{"hr allowed", domain.RoleHR, true, http.StatusOK},
		{"admin allowed", domain.RoleAdmin, true, http.StatusOK},
		{"unknown role", "guest", true, http.StatusForbidden},
		{"empty role", "", true, http.StatusForbidden},
		{"missing role", nil, false, http.StatusForbidden},
		{"non-string role", 42, true, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.setIt {
				c.Set(RoleKey, tc.role)
			}

			called := false
			handler := RBAC(domain.RoleHR, domain.RoleAdmin)(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if called != (tc.status == http.StatusOK) {
				t.Fatalf("next handler called=%v for status %d", called, tc.status)
			}
		})
	}
}

func TestRBAC_NoRolesForbidsEveryone(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(RoleKey, domain.RoleAdmin)

	handler := RBAC()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
