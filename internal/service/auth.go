// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/campusmart/campusmart/internal/auth"
	"github.com/campusmart/campusmart/internal/cache"
	"github.com/campusmart/campusmart/internal/metrics"
	"github.com/campusmart/campusmart/internal/model"
	"github.com/campusmart/campusmart/internal/repository"
)

// Auth service errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrMissingCredentials = errors.New("email and password are required")
)

// AuthService owns signup, login, logout and session resolution.
// Sessions live in Redis under the hashed token; signup never starts a
// session (account creation and session start are decoupled).
type AuthService struct {
	repo       *repository.Repository
	cache      *cache.Cache
	sessionTTL time.Duration
	metrics    metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.Repository, cache *cache.Cache, sessionTTL time.Duration, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		repo:       repo,
		cache:      cache,
		sessionTTL: sessionTTL,
		metrics:    recorder,
	}
}

// SignUpInput defines input for creating an account.
// Username and Bio are optional profile metadata.
type SignUpInput struct {
	Email    string
	Password string
	Username string
	Bio      string
}

// SignUp creates a new account. It does not log the user in.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*model.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Username:     strings.TrimSpace(input.Username),
		Bio:          strings.TrimSpace(input.Bio),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserSignedUp()

	return user, nil
}

// SignIn verifies credentials and starts a server session.
// Returns the identity and the plaintext session token for the cookie.
// On any failure, no session state is created or changed.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*model.Identity, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailed()
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}
	if !match {
		s.metrics.IncLoginFailed()
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, "", err
	}

	identity := &model.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	}

	if err := s.cache.SetSession(ctx, auth.QuickHash(token), identity, s.sessionTTL); err != nil {
		return nil, "", fmt.Errorf("start session: %w", err)
	}

	s.metrics.IncLoginSucceeded()

	return identity, token, nil
}

// SignOut terminates the server session for the given token.
// Callers revert to the guest view regardless of the returned error; the
// error exists only so the failure can be logged.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if err := auth.ValidateSessionToken(token); err != nil {
		// Nothing to revoke for a malformed cookie.
		return nil
	}
	return s.cache.DeleteSession(ctx, auth.QuickHash(token))
}

// SessionFromToken resolves an existing session, the page-load equivalent
// of getSession. A missing, malformed or expired token yields (nil, nil):
// the request is simply a guest.
func (s *AuthService) SessionFromToken(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, nil
	}
	if err := auth.ValidateSessionToken(token); err != nil {
		return nil, nil
	}
	return s.cache.GetSession(ctx, auth.QuickHash(token))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
