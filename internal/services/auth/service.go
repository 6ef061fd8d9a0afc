package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pickupgames/internal/dependencies/clock"
	"github.com/mcoot/pickupgames/internal/dependencies/ids"
	"github.com/mcoot/pickupgames/internal/metrics"
	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/store"
	"github.com/mcoot/pickupgames/internal/validation"
	"github.com/mcoot/pickupgames/internal/views"
)

// Service handles registration and the single process-wide session
type Service struct {
	store   *store.Store
	clock   clock.Clock
	ids     ids.Generator
	metrics *metrics.Metrics
	logger  *slog.Logger

	bcryptCost int
}

// Config holds configuration for the auth service
type Config struct {
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(
	st *store.Store,
	clock clock.Clock,
	ids ids.Generator,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		store:      st,
		clock:      clock,
		ids:        ids,
		metrics:    m,
		logger:     logger.With(slog.String("component", "auth")),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a user and signs them in
func (s *Service) Register(ctx context.Context, username, password string) (user model.User, err error) {
	defer func() { s.metrics.RecordOperation("register", err, model.IsDomainError) }()

	if err := validation.Account(ctx, validation.Credentials{Username: username, Password: password}); err != nil {
		return model.User{}, err
	}

	// Hash outside the store lock
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return model.User{}, err
	}

	user = model.User{
		ID:           model.UserID(s.ids.NewID()),
		Username:     username,
		CreatedAt:    s.clock.Now(),
		PasswordHash: string(hash),
	}

	err = s.store.Update(ctx, func(tx *store.Tx) error {
		if _, taken := views.UserByUsername(tx.Snapshot(), username); taken {
			return model.ErrUsernameTaken
		}
		tx.PutUser(user)
		tx.SetAuth(model.AuthenticatedAs(user.ID))
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			s.logger.Warn("registration rejected: username taken", "username", username)
		}
		return model.User{}, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login signs in an existing user
func (s *Service) Login(ctx context.Context, username, password string) (user model.User, err error) {
	defer func() { s.metrics.RecordOperation("login", err, model.IsDomainError) }()

	if err := validation.Account(ctx, validation.Credentials{Username: username, Password: password}); err != nil {
		return model.User{}, model.ErrInvalidCredentials
	}

	user, ok := views.UserByUsername(s.store.Snapshot(), username)
	if !ok {
		s.logger.Warn("login rejected: unknown username", "username", username)
		return model.User{}, model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login rejected: password mismatch", "username", username)
		return model.User{}, model.ErrInvalidCredentials
	}

	err = s.store.Update(ctx, func(tx *store.Tx) error {
		if _, ok := tx.Snapshot().Users[user.ID]; !ok {
			return model.ErrInvalidCredentials
		}
		tx.SetAuth(model.AuthenticatedAs(user.ID))
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// Logout clears the session. Logging out while signed out is a no-op.
func (s *Service) Logout(ctx context.Context) (err error) {
	defer func() { s.metrics.RecordOperation("logout", err, model.IsDomainError) }()

	return s.store.Update(ctx, func(tx *store.Tx) error {
		if !tx.Snapshot().Auth.IsAuthenticated {
			return nil
		}
		tx.SetAuth(model.Unauthenticated())
		return nil
	})
}

// CurrentUser returns the signed-in user
func (s *Service) CurrentUser() (model.User, error) {
	u, ok := views.CurrentUser(s.store.Snapshot())
	if !ok {
		return model.User{}, model.ErrNotAuthenticated
	}
	return u, nil
}
