package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-service/internal/core/ports"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

type UserHandler struct {
	auth          ports.AuthService
	secureCookies bool
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewUserHandler(auth ports.AuthService, secureCookies bool, accessTTL, refreshTTL time.Duration) *UserHandler {
	return &UserHandler{auth: auth, secureCookies: secureCookies, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Register creates a new HR or admin account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  Envelope{data=domain.User}
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return created(c, user, "User registered successfully")
}

// Login authenticates a user and issues an access/refresh token pair, both
// returned in the body and set as HTTP-only cookies.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Envelope{data=loginResponse}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setCookies(c, pair)
	return ok(c, loginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User logged in successfully")
}

// Refresh rotates the refresh token. The token is read from the body or the
// refreshToken cookie.
//
// @Summary      Refresh access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token (optional when the cookie is set)"
// @Success      200   {object}  Envelope{data=tokenResponse}
// @Failure      401   {object}  Envelope
// @Router       /users/refresh-token [post]
func (h *UserHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	_ = c.Bind(&req)
	if req.RefreshToken == "" {
		if ck, err := c.Cookie(refreshCookie); err == nil {
			req.RefreshToken = ck.Value
		}
	}

	pair, err := h.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	h.setCookies(c, pair)
	return ok(c, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, "Access token refreshed")
}

// Logout ends the caller's refresh session and clears the auth cookies.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /users/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.Request().Context(), actor); err != nil {
		return err
	}
	h.clearCookies(c)
	return ok(c, map[string]any{}, "User logged out")
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=domain.User}
// @Failure      401  {object}  Envelope
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Me(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return ok(c, user, "Current user fetched successfully")
}

func (h *UserHandler) setCookies(c echo.Context, pair *ports.TokenPair) {
	c.SetCookie(h.cookie(accessCookie, pair.AccessToken, h.accessTTL))
	c.SetCookie(h.cookie(refreshCookie, pair.RefreshToken, h.refreshTTL))
}

func (h *UserHandler) clearCookies(c echo.Context) {
	c.SetCookie(h.cookie(accessCookie, "", -1))
	c.SetCookie(h.cookie(refreshCookie, "", -1))
}

func (h *UserHandler) cookie(name, value string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}
