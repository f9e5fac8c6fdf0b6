package apperror

import (
	"errors"
	"sort"
	"strings"
)

// not found.
var (
	ErrNotFound        = errors.New("not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrGameNotFound    = errors.New("game not found")
	ErrSessionNotFound = errors.New("session not found")
)

// authentication.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// matchmaking.
var (
	ErrExistingUser     = errors.New("user already exists")
	ErrSelfJoin         = errors.New("can't join your own room")
	ErrRoomFull         = errors.New("room already has a second player")
	ErrRoomNotWaiting   = errors.New("room is not waiting for players")
	ErrNotRoomOwner     = errors.New("only the room creator can do this")
	ErrPlacementMissing = errors.New("room creator has not placed ships yet")
)

// gameplay.
var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotInGame        = errors.New("player is not part of this game")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrAlreadyTargeted  = errors.New("cell was already targeted")
	ErrOutOfBounds      = errors.New("coordinate is out of bounds")
	ErrInvalidLayout    = errors.New("invalid ship layout")
)

// persistence.
var (
	ErrTurnConflict = errors.New("turn number already recorded with a different shot")
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (that *ValidationError) Error() string {
	keys := make([]string, 0, len(that.Fields))
	for k := range that.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+that.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is or wraps a *ValidationError or ErrInvalidLayout.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidLayout)
}
