package user

import "errors"

// Domain errors for user operations

var (
	// Registration validation errors
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrUsernameTooLong  = errors.New("username must not exceed 50 characters")
	ErrUsernameInvalid  = errors.New("username may only contain letters, digits and underscores")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must not exceed 128 characters")

	// Persistence errors
	ErrUsernameTaken = errors.New("username is already taken")
	ErrUserNotFound  = errors.New("user not found")
)
