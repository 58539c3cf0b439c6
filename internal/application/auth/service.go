// Package auth provides the application layer for accounts and sessions
package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/questkitchen/backend/internal/domain/session"
	"github.com/questkitchen/backend/internal/domain/user"
	"github.com/questkitchen/backend/internal/ports/inbound"
	"github.com/questkitchen/backend/internal/ports/outbound"
	errs "github.com/questkitchen/backend/pkg/errors"
)

// dummyHash is a valid bcrypt hash compared against when the username is
// unknown, so login latency does not reveal whether an account exists.
var dummyHash = []byte("$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi")

// AuthService implements registration, login and session use cases
type AuthService struct {
	users      outbound.UserRepository
	sessions   outbound.SessionStore
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users outbound.UserRepository,
	sessions outbound.SessionStore,
	sessionTTL time.Duration,
	logger *zap.Logger,
) inbound.AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger.Named("auth-service"),
	}
}

// Register creates a new account and opens a session for it
func (s *AuthService) Register(ctx context.Context, cmd inbound.RegisterCommand) (*inbound.AuthResult, error) {
	newUser, err := user.NewUser(cmd.Username, cmd.Password)
	if err != nil {
		return nil, errs.NewValidationError(err.Error())
	}

	taken, err := s.users.ExistsByUsername(ctx, newUser.Username())
	if err != nil {
		return nil, errs.Wrap(err, "failed to check username")
	}
	if taken {
		return nil, errs.NewUsernameTakenError()
	}

	if err := s.users.Create(ctx, newUser); err != nil {
		// A concurrent registration may win between the check and the insert
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, errs.NewUsernameTakenError()
		}
		return nil, errs.Wrap(err, "failed to create user")
	}

	result, err := s.openSession(ctx, newUser)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", newUser.ID().String()),
		zap.String("username", newUser.Username()),
	)

	return result, nil
}

// Login verifies credentials and opens a new session. Unknown usernames and
// wrong passwords are indistinguishable in both the response and its timing.
func (s *AuthService) Login(ctx context.Context, cmd inbound.LoginCommand) (*inbound.AuthResult, error) {
	if cmd.Username == "" || cmd.Password == "" {
		return nil, errs.NewValidationError("username and password are required")
	}

	userEntity, err := s.users.FindByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(cmd.Password))
			return nil, errs.NewInvalidCredentialsError()
		}
		return nil, errs.Wrap(err, "failed to look up user")
	}

	if err := userEntity.CheckPassword(cmd.Password); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("username", cmd.Username))
		return nil, errs.NewInvalidCredentialsError()
	}

	result, err := s.openSession(ctx, userEntity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.String("user_id", userEntity.ID().String()),
		zap.String("username", userEntity.Username()),
	)

	return result, nil
}

// Logout destroys the session. Unknown or empty session IDs succeed too,
// so repeated logouts stay idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return errs.Wrap(err, "failed to delete session")
	}

	return nil
}

// ResolveSession returns the live session for an identifier, or
// session.ErrNotFound when it is absent or expired. Callers treat that
// sentinel as an anonymous request rather than a failure.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, session.ErrNotFound
	}

	return s.sessions.Find(ctx, sessionID)
}

// CSRFToken returns the session's CSRF token, minting one if the stored
// record predates token issuance.
func (s *AuthService) CSRFToken(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.ResolveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", errs.NewUnauthorizedError("")
		}
		return "", errs.Wrap(err, "failed to resolve session")
	}

	if sess.CSRFToken == "" {
		token, err := session.NewToken()
		if err != nil {
			return "", errs.Wrap(err, "failed to generate CSRF token")
		}
		sess.CSRFToken = token
		if err := s.sessions.Save(ctx, sess); err != nil {
			return "", errs.Wrap(err, "failed to save session")
		}
	}

	return sess.CSRFToken, nil
}

// openSession creates and stores a fresh session for the user
func (s *AuthService) openSession(ctx context.Context, u *user.User) (*inbound.AuthResult, error) {
	sess, err := session.New(u.ID(), u.Username(), s.sessionTTL)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create session")
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, errs.Wrap(err, "failed to save session")
	}

	return &inbound.AuthResult{
		User: inbound.UserDTO{
			ID:       u.ID(),
			Username: u.Username(),
		},
		Session: sess,
	}, nil
}
