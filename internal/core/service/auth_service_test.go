package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
	"github.com/peoplehub/hr-service/internal/pkg/token"
)

func newTestAuthService() (*AuthService, *stubUserRepo, *stubSessions) {
	users := newStubUserRepo()
	sessions := newStubSessions()
	svc := NewAuthService(
		users,
		sessions,
		token.NewIssuer("access-secret", 15*time.Minute),
		token.NewIssuer("refresh-secret", 24*time.Hour),
		zerolog.Nop(),
	)
	return svc, users, sessions
}

func register(t *testing.T, svc *AuthService, email, role string) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Alice", Email: email, Password: "pass123", Role: role,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return u
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _ := newTestAuthService()

	user := register(t, svc, "  Alice@Example.com ", "")
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if user.Role != domain.RoleHR {
		t.Fatalf("expected default role hr, got %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService()

	cases := map[string]ports.RegisterInput{
		"missing name":   {Email: "a@b.c", Password: "pass123"},
		"short password": {Name: "A", Email: "a@b.c", Password: "123"},
		"unknown role":   {Name: "A", Email: "a@b.c", Password: "pass123", Role: "root"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), in)
			if domain.KindOf(err) != domain.KindInvalidArgument {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newTestAuthService()
	register(t, svc, "alice@example.com", domain.RoleAdmin)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "B", Email: "alice@example.com", Password: "pass123"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected conflict kind, got %s", domain.KindOf(err))
	}
}

func TestAuthService_Login_IssuesTokensWithRole(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	created := register(t, svc, "alice@example.com", domain.RoleAdmin)

	pair, user, err := svc.Login(context.Background(), "ALICE@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("unexpected user %s", user.ID)
	}

	claims, err := svc.access.Parse(pair.AccessToken)
	if err != nil {
		t.Fatalf("access token does not parse: %v", err)
	}
	if claims.Subject != created.ID || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: sub=%s role=%s", claims.Subject, claims.Role)
	}
	if sessions.current[created.ID] == "" {
		t.Fatalf("expected a live session after login")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()
	register(t, svc, "alice@example.com", "")

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pass123")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	svc, _, _ := newTestAuthService()
	register(t, svc, "alice@example.com", "")
	first, _, err := svc.Login(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("expected a new refresh token")
	}

	// The superseded token must no longer be accepted.
	if _, err := svc.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for reused token, got %v", err)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	register(t, svc, "alice@example.com", "")
	pair, _, _ := svc.Login(context.Background(), "alice@example.com", "pass123")

	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthService_Logout_EndsSession(t *testing.T) {
	svc, _, _ := newTestAuthService()
	user := register(t, svc, "alice@example.com", "")
	pair, _, _ := svc.Login(context.Background(), "alice@example.com", "pass123")

	if err := svc.Logout(context.Background(), domain.Actor{ID: user.ID, Role: user.Role}); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected refresh to fail after logout, got %v", err)
	}
}

func TestAuthService_SessionStoreDown(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	register(t, svc, "alice@example.com", "")
	sessions.err = errStoreDown

	_, _, err := svc.Login(context.Background(), "alice@example.com", "pass123")
	if domain.KindOf(err) != domain.KindDependencyFailure {
		t.Fatalf("expected dependency failure, got %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, _, _ := newTestAuthService()
	user := register(t, svc, "alice@example.com", "")

	got, err := svc.Me(context.Background(), domain.Actor{ID: user.ID})
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("unexpected user %+v", got)
	}
}
