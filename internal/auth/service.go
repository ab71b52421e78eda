package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// Password length limits in bytes. bcrypt ignores input past 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// Service implements signup, login, and token authentication.
type Service struct {
	store   *Store
	tokens  *TokenIssuer
	limiter *rate.Limiter
	logger  *slog.Logger
	cost    int

	// dummyHash is compared against when a login names an unknown user so
	// both failure paths pay for one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash []byte
}

// NewService creates a Service. Logins are limited to loginRate per second
// with bursts of loginBurst.
func NewService(store *Store, tokens *TokenIssuer, loginRate float64, loginBurst int, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(loginRate), loginBurst),
		logger:  logger,
		cost:    bcrypt.DefaultCost,
	}
}

// Signup registers a new user.
func (s *Service) Signup(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return nil, fmt.Errorf("%w: username is required and password needs %d to %d bytes",
			ErrInvalidCredentials, MinPasswordLength, MaxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login checks credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if !s.limiter.Allow() {
		return "", ErrRateLimited
	}

	u, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.unknownUserHash(), []byte(password))
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login failed", "username", u.Username)
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(u)
}

func (s *Service) unknownUserHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("flood-risk-unknown-user"), s.cost)
		if err != nil {
			s.logger.Error("generate placeholder hash", "error", err)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// Authenticate verifies a bearer token.
func (s *Service) Authenticate(token string) (*Claims, error) {
	return s.tokens.Parse(token)
}
