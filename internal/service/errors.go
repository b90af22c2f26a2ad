package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for vote and poll management rejections. Handlers map
// these to HTTP status codes; every rejection carries a user-facing reason.
var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrPollExpired   = errors.New("poll has expired")
	ErrPollInactive  = errors.New("poll is not live")
	ErrAuthRequired  = errors.New("authentication required for this poll")
	ErrNotCreator    = errors.New("only the poll creator may perform this action")
	ErrInvalidToken  = errors.New("invalid or unknown vote token")
	ErrDuplicateVote = errors.New("you have already voted in this poll")
	ErrConflict      = errors.New("operation conflicts with the poll's current state")
)

// ValidationError is a malformed-submission rejection with a specific reason
// (unknown question/option, required question unanswered, etc).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validationf builds a ValidationError with a formatted reason.
func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
