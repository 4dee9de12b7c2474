package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*ports.TokenPair, error)
	logoutFn   func(ctx context.Context, actor domain.Actor) error
	meFn       func(ctx context.Context, actor domain.Actor) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(ctx context.Context, actor domain.Actor) error {
	return s.logoutFn(ctx, actor)
}

func (s *stubAuthService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.meFn(ctx, actor)
}

func newUserHandler(stub *stubAuthService) *UserHandler {
	return NewUserHandler(stub, true, 15*time.Minute, time.Hour)
}

func TestUserHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Name != "Alice" || in.Email != "alice@example.com" || in.Role != "admin" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Name: in.Name, Email: in.Email, Role: in.Role}, nil
		},
	}

	req := jsonRequest(http.MethodPost, "/users/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret1","role":"admin"}`)
	rec := httptest.NewRecorder()
	if err := newUserHandler(stub).Register(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	env, data := decodeEnvelope(t, rec)
	if !env.Success || env.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if data["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", data)
	}
	if _, leaked := data["passwordHash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestUserHandler_Register_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing name":   `{"email":"a@example.com","password":"secret1"}`,
		"bad email":      `{"name":"A","email":"nope","password":"secret1"}`,
		"short password": `{"name":"A","email":"a@example.com","password":"123"}`,
		"unknown role":   `{"name":"A","email":"a@example.com","password":"secret1","role":"root"}`,
		"malformed":      `{"name":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubAuthService{
				registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
					t.Fatalf("service must not be called")
					return nil, nil
				},
			}
			rec := httptest.NewRecorder()
			err := newUserHandler(stub).Register(e.NewContext(jsonRequest(http.MethodPost, "/", body), rec))
			assertKind(t, err, domain.KindInvalidArgument)
		})
	}
}

func TestUserHandler_Register_UserExists(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	req := jsonRequest(http.MethodPost, "/", `{"name":"A","email":"a@example.com","password":"secret1"}`)
	err := newUserHandler(stub).Register(e.NewContext(req, httptest.NewRecorder()))
	assertKind(t, err, domain.KindConflict)
}

func TestUserHandler_Login_SetsCookies(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
			return &ports.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
				&domain.User{ID: "u1", Email: email, Role: domain.RoleHR}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPost, "/users/login", `{"email":"a@example.com","password":"secret1"}`)
	if err := newUserHandler(stub).Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	_, data := decodeEnvelope(t, rec)
	if data["accessToken"] != "acc" || data["refreshToken"] != "ref" {
		t.Fatalf("tokens missing from body: %+v", data)
	}

	cookies := map[string]*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		cookies[ck.Name] = ck
	}
	for _, name := range []string{"accessToken", "refreshToken"} {
		ck, ok := cookies[name]
		if !ok {
			t.Fatalf("cookie %s not set", name)
		}
		if !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteStrictMode {
			t.Fatalf("cookie %s has weak attributes: %+v", name, ck)
		}
	}
	if cookies["refreshToken"].MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("unexpected refresh cookie max-age %d", cookies["refreshToken"].MaxAge)
	}
}

func TestUserHandler_Refresh_FromCookie(t *testing.T) {
	e := newTestEcho()
	var got string
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, raw string) (*ports.TokenPair, error) {
			got = raw
			return &ports.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "from-cookie"})
	rec := httptest.NewRecorder()
	if err := newUserHandler(stub).Refresh(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "from-cookie" {
		t.Fatalf("expected cookie token, got %q", got)
	}
}

func TestUserHandler_Refresh_Rejected(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		refreshFn: func(context.Context, string) (*ports.TokenPair, error) {
			return nil, domain.ErrInvalidRefreshToken
		},
	}
	req := jsonRequest(http.MethodPost, "/", `{"refreshToken":"stale"}`)
	err := newUserHandler(stub).Refresh(e.NewContext(req, httptest.NewRecorder()))
	assertKind(t, err, domain.KindUnauthorized)
}

func TestUserHandler_Logout_ClearsCookies(t *testing.T) {
	e := newTestEcho()
	var loggedOut domain.Actor
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, actor domain.Actor) error {
			loggedOut = actor
			return nil
		},
	}

	rec := httptest.NewRecorder()
	c := withActor(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec), "u1", domain.RoleHR)
	if err := newUserHandler(stub).Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if loggedOut.ID != "u1" {
		t.Fatalf("expected logout of u1, got %+v", loggedOut)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Value != "" || ck.MaxAge >= 0 {
			t.Fatalf("cookie %s not cleared: %+v", ck.Name, ck)
		}
	}
}

func TestUserHandler_Me_RequiresActor(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{}
	err := newUserHandler(stub).Me(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()))
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}
