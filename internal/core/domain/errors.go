package domain

import "errors"

var (
	ErrPollNotFound    = errors.New("poll not found")
	ErrPollExpired     = errors.New("poll has expired")
	ErrInvalidOption   = errors.New("invalid option for this poll")
	ErrAlreadyVoted    = errors.New("you have already voted on this poll")
	ErrForbidden       = errors.New("you don't have permission to modify this poll")
	ErrUnauthenticated = errors.New("user not authenticated")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")

	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries a user-facing message and matches ErrInvalidInput.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
