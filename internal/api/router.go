package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/peoplehub/hr-service/docs"
	"github.com/peoplehub/hr-service/internal/api/handler"
	"github.com/peoplehub/hr-service/internal/api/middleware"
	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/pkg/token"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Users      *handler.UserHandler
	Employees  *handler.EmployeeHandler
	Leaves     *handler.LeaveHandler
	Candidates *handler.CandidateHandler
	Health     *handler.HealthHandler
}

// RouterConfig holds the transport settings of the router.
type RouterConfig struct {
	CORSOrigin string
	BodyLimit  string
	// AuthRate is the sustained requests per second allowed per client on
	// login and register.
	AuthRate rate.Limit
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig, h Handlers, access *token.Issuer, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))
	if cfg.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(cfg.BodyLimit))
	}
	e.Use(echoprometheus.NewMiddleware("hr"))

	// --- Unauthenticated surface ---
	e.GET("/health", h.Health.Liveness)
	e.GET("/health/ready", h.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")
	auth := middleware.Auth(access)
	staff := middleware.RBAC(domain.RoleHR, domain.RoleAdmin)

	// --- Users ---
	limiter := echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(cfg.AuthRate))
	users := v1.Group("/users")
	users.POST("/register", h.Users.Register, limiter)
	users.POST("/login", h.Users.Login, limiter)
	users.POST("/refresh-token", h.Users.Refresh)
	users.POST("/logout", h.Users.Logout, auth)
	users.GET("/me", h.Users.Me, auth)

	// --- Employees and attendance ---
	employees := v1.Group("/employees", auth, staff)
	employees.POST("", h.Employees.Create)
	employees.GET("", h.Employees.List)
	employees.GET("/:id", h.Employees.Get)
	employees.PUT("/:id", h.Employees.Update)
	employees.DELETE("/:id", h.Employees.Delete)
	employees.POST("/:id/attendance", h.Employees.MarkAttendance)
	employees.GET("/:id/attendance", h.Employees.GetAttendance)

	// --- Leaves ---
	leaves := v1.Group("/leaves", auth, staff)
	leaves.POST("", h.Leaves.Apply)
	leaves.GET("", h.Leaves.List)
	leaves.GET("/employee/:employeeId", h.Leaves.ListByEmployee)
	leaves.GET("/:id", h.Leaves.Get)
	leaves.GET("/:id/document", h.Leaves.Document)
	leaves.PATCH("/:id/status", h.Leaves.UpdateStatus)
	leaves.DELETE("/:id", h.Leaves.Delete)

	// --- Candidates ---
	candidates := v1.Group("/candidates", auth, staff)
	candidates.POST("", h.Candidates.Add)
	candidates.GET("", h.Candidates.List)
	candidates.PUT("/:id", h.Candidates.Update)
	candidates.DELETE("/:id", h.Candidates.Delete)
	candidates.PUT("/:id/status", h.Candidates.UpdateStatus)
	candidates.GET("/:id/resume", h.Candidates.Resume)
	candidates.POST("/:id/hire", h.Candidates.Hire)

	return e
}
