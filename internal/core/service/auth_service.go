package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
	"github.com/peoplehub/hr-service/internal/pkg/token"
)

const minPasswordLength = 6

// AuthService implements registration, login and refresh-token rotation.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	access   *token.Issuer
	refresh  *token.Issuer
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, access, refresh *token.Issuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, access: access, refresh: refresh, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, invalid("name, email and password are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleHR
	}
	if !domain.ValidRole(role) {
		return nil, invalid("role must be one of: hr admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, storeErr("register user", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, invalid("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, storeErr("login", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return pair, user, nil
}

// Refresh exchanges the user's current refresh token for a new pair. Any
// token other than the most recently issued one is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidRefreshToken
	}
	claims, err := s.refresh.Parse(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, storeErr("refresh token", err)
	}

	pair, sessionID, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	ok, err := s.sessions.Rotate(ctx, user.ID, claims.ID, sessionID, s.refresh.TTL())
	if err != nil {
		return nil, domain.Wrap(domain.KindDependencyFailure, "session store failure", err)
	}
	if !ok {
		s.log.Warn().Str("user_id", user.ID).Msg("stale refresh token presented")
		return nil, domain.ErrInvalidRefreshToken
	}
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, actor domain.Actor) error {
	if err := s.sessions.Delete(ctx, actor.ID); err != nil {
		return domain.Wrap(domain.KindDependencyFailure, "session store failure", err)
	}
	s.log.Info().Str("user_id", actor.ID).Msg("user logged out")
	return nil
}

func (s *AuthService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, storeErr("current user", err)
	}
	return user, nil
}

// issue mints an access/refresh pair and makes the refresh token the user's
// only live session.
func (s *AuthService) issue(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	pair, sessionID, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, user.ID, sessionID, s.refresh.TTL()); err != nil {
		return nil, domain.Wrap(domain.KindDependencyFailure, "session store failure", err)
	}
	return pair, nil
}

func (s *AuthService) mint(user *domain.User) (*ports.TokenPair, string, error) {
	access, _, err := s.access.Issue(user.ID, user.Role, user.Email)
	if err != nil {
		return nil, "", err
	}
	refresh, sessionID, err := s.refresh.Issue(user.ID, user.Role, user.Email)
	if err != nil {
		return nil, "", err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, sessionID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
