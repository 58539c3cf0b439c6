// Package user defines the user domain entity
package user

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// usernamePattern restricts usernames to letters, digits and underscores.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// User represents a registered account. The username is immutable and the
// password is only ever held as a bcrypt hash.
type User struct {
	id           uuid.UUID
	username     string
	passwordHash string
	createdAt    time.Time
}

// NewUser creates a new user with validation, hashing the password
func NewUser(username, password string) (*User, error) {
	username = strings.TrimSpace(username)

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	return &User{
		id:           uuid.New(),
		username:     username,
		passwordHash: string(hashedPassword),
		createdAt:    time.Now(),
	}, nil
}

// Reconstitute rebuilds a user from persisted state. It performs no
// validation; the stored record is the source of truth.
func Reconstitute(id uuid.UUID, username, passwordHash string, createdAt time.Time) *User {
	return &User{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		createdAt:    createdAt,
	}
}

// ID returns the user's ID
func (u *User) ID() uuid.UUID {
	return u.id
}

// Username returns the user's username
func (u *User) Username() string {
	return u.username
}

// PasswordHash returns the stored bcrypt hash
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// CheckPassword verifies if the provided password matches
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password))
}

// ValidateUsername validates a username against the registration rules
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return ErrUsernameTooShort
	}
	if len(username) > 50 {
		return ErrUsernameTooLong
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

// ValidatePassword validates a password against the registration rules
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if len(password) > 128 {
		return ErrPasswordTooLong
	}
	return nil
}
