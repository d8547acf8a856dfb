package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/credential-api/internal/auth"
	"github.com/isdelr/credential-api/internal/database"
	"github.com/isdelr/credential-api/internal/models"
	"github.com/rs/zerolog/log"
)

// UserRepository is the storage the user service needs.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	CreateUser(ctx context.Context, username, password string) (models.User, error)
	AuthenticateUser(ctx context.Context, username, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	repo      UserRepository
	events    EventServiceProvider
	params    auth.HashParams
	timeout   time.Duration
	dummyHash string
	now       func() time.Time
}

// NewUserService creates a new UserService. Every storage call is bounded by timeout.
func NewUserService(repo UserRepository, events EventServiceProvider, params auth.HashParams, timeout time.Duration) (*UserService, error) {
	// Used to spend the same hashing work on unknown usernames as on known ones.
	dummy, err := auth.HashPassword(uuid.NewString(), params)
	if err != nil {
		return nil, err
	}
	return &UserService{
		repo:      repo,
		events:    events,
		params:    params,
		timeout:   timeout,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// GetUserByUsername looks up a user by exact username. It returns nil without
// error when no user matches.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, NewValidationError("username", "is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.repo.FindByUsername(ctx, username)
}

// GetUserByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, ErrUserNotFound
	}
	return user.Public(), nil
}

// CreateUser creates a new user, hashing their password. The returned user
// carries no password hash.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	if username == "" {
		return models.User{}, NewValidationError("username", "is required")
	}
	if password == "" {
		return models.User{}, NewValidationError("password", "is required")
	}

	hash, err := auth.HashPassword(password, s.params)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.Insert(dbCtx, &user); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}

	s.recordEvent(ctx, "user.registered", "info", "User registered", username)
	return user.Public(), nil
}

// AuthenticateUser verifies a user's credentials. Unknown usernames and wrong
// passwords both yield ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (models.User, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.FindByUsername(dbCtx, username)
	if err != nil {
		return models.User{}, err
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	ok, err := auth.VerifyPassword(hash, password)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Stored password hash could not be decoded")
		ok = false
	}
	if user == nil || !ok {
		s.recordEvent(ctx, "auth.login_failed", "warn", "Failed login attempt", username)
		return models.User{}, ErrInvalidCredentials
	}

	s.recordEvent(ctx, "auth.login", "info", "User logged in", username)
	return user.Public(), nil
}

// recordEvent writes an audit event; failures are logged, never returned.
func (s *UserService) recordEvent(ctx context.Context, eventType, level, message, username string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(ctx, eventType, level, message, username); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}
