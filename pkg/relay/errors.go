package relay

import (
	"errors"

	errors2 "github.com/LingByte/LingMeetX/pkg/errors"
)

var (
	ErrDuplicateConnection = errors.New("duplicate connection")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotInRoom           = errors.New("not in a room")
	ErrInvalidMessage      = errors.New("invalid message")
)

// ToAppError converts a relay error to an AppError
func ToAppError(err error) *errors2.AppError {
	switch {
	case errors.Is(err, ErrDuplicateConnection):
		return errors2.NewAppError(errors2.ErrCodeDuplicateConnection, "Duplicate connection")
	case errors.Is(err, ErrUnauthorized):
		return errors2.NewAppError(errors2.ErrCodeUnauthorized, "Unauthorized")
	case errors.Is(err, ErrNotInRoom):
		return errors2.NewAppError(errors2.ErrCodeNotInRoom, "Not in a room")
	case errors.Is(err, ErrInvalidMessage):
		return errors2.NewAppError(errors2.ErrCodeInvalidMessage, "Invalid message")
	default:
		return errors2.WrapError(errors2.ErrCodeInternal, err)
	}
}
