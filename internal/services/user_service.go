package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/hrdesk-be/internal/auth"
	"github.com/isdelr/hrdesk-be/internal/database"
	"github.com/isdelr/hrdesk-be/internal/models"
	"github.com/rs/zerolog/log"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, password, email string) (models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	ResolveToken(ctx context.Context, token string) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UserService registers principals, authenticates them and issues and resolves
// their access tokens.
type UserService struct {
	db     *sql.DB
	hasher auth.PasswordHasher
	codec  *auth.TokenCodec
	events EventServiceProvider

	// Verified against when the username is unknown, so a miss costs the
	// same bcrypt work as a wrong password.
	dummyDigest string
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, hasher auth.PasswordHasher, codec *auth.TokenCodec, events EventServiceProvider) *UserService {
	s := &UserService{
		db:     db,
		hasher: hasher,
		codec:  codec,
		events: events,
	}
	digest, err := hasher.Hash("hrdesk-timing-equalizer")
	if err != nil {
		log.Error().Err(err).Msg("Failed to prepare dummy password digest")
	}
	s.dummyDigest = digest
	return s
}

// GetUserByUsername retrieves a single user by their username, including the password hash.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// Register creates a new user, hashing their password. A taken username yields
// ErrDuplicateUsername, whether caught by the lookup or by the UNIQUE index when
// two registrations race.
func (s *UserService) Register(ctx context.Context, username, password, email string) (models.User, error) {
	if _, err := s.GetUserByUsername(ctx, username); err == nil {
		s.recordEvent(ctx, "user.register.fail", "warn", "", fmt.Sprintf("Registration rejected: username %s already exists", username))
		return models.User{}, ErrDuplicateUsername
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{Username: username, Email: email, CreatedAt: time.Now().UTC()}
	err = s.db.QueryRowContext(ctx,
		"INSERT INTO users(username, email, password_hash, created_at) VALUES(?, ?, ?, ?) RETURNING id",
		user.Username, user.Email, digest, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.recordEvent(ctx, "user.register", "info", username, fmt.Sprintf("Created new user %s", username))
	return user, nil
}

// Authenticate checks a username and password. It reports false for both an
// unknown username and a wrong password, and spends a hash verification in
// either case so the two cannot be told apart by timing.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, bool, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		s.hasher.Verify(password, s.dummyDigest)
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return models.User{}, false, nil
	}
	return user, true, nil
}

// IssueToken signs an access token for user with the default lifetime.
func (s *UserService) IssueToken(user models.User) (string, error) {
	token, err := s.codec.Encode(auth.Claims{Subject: user.Username}, 0)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Login authenticates the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		s.recordEvent(ctx, "auth.login.fail", "warn", "", "Failed login attempt")
		return "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", err
	}
	s.recordEvent(ctx, "auth.login", "info", user.Username, fmt.Sprintf("Successful login: %s", user.Username))
	return token, nil
}

// ResolveToken returns the user named by a valid token. Any decode failure, a
// missing subject or a since-deleted user yields ErrUnauthenticated; storage
// faults are returned as they are.
func (s *UserService) ResolveToken(ctx context.Context, token string) (models.User, error) {
	claims, err := s.codec.Decode(token)
	if err != nil || claims.Subject == "" {
		return models.User{}, ErrUnauthenticated
	}

	user, err := s.GetUserByUsername(ctx, claims.Subject)
	if errors.Is(err, ErrNotFound) {
		return models.User{}, ErrUnauthenticated
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// AuthenticateRequest resolves the bearer token of an inbound request.
func (s *UserService) AuthenticateRequest(ctx context.Context, bearer string) (models.User, error) {
	return s.ResolveToken(ctx, bearer)
}

// DeleteUser removes a user. Tokens already issued to them stop resolving.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) recordEvent(ctx context.Context, eventType, level, actor, message string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(ctx, eventType, level, actor, message); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to record event")
	}
}
