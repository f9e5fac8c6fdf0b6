package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
)

type errorKind struct {
	target error
	status int
	code   string
}

var errorKinds = []errorKind{
	{apperror.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{apperror.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{apperror.ErrTokenRevoked, http.StatusUnauthorized, "TOKEN_REVOKED"},

	{apperror.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{apperror.ErrRoomNotFound, http.StatusNotFound, "ROOM_NOT_FOUND"},
	{apperror.ErrGameNotFound, http.StatusNotFound, "GAME_NOT_FOUND"},
	{apperror.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},

	{apperror.ErrExistingUser, http.StatusConflict, "EXISTING_USER"},
	{apperror.ErrAlreadyTargeted, http.StatusConflict, "ALREADY_TARGETED"},
	{apperror.ErrNotYourTurn, http.StatusConflict, "NOT_YOUR_TURN"},
	{apperror.ErrGameFinished, http.StatusConflict, "GAME_FINISHED"},
	{apperror.ErrGameIsNotStarted, http.StatusConflict, "GAME_NOT_STARTED"},
	{apperror.ErrPlacementMissing, http.StatusConflict, "PLACEMENT_MISSING"},
	{apperror.ErrRoomNotWaiting, http.StatusConflict, "ROOM_NOT_WAITING"},

	{apperror.ErrSelfJoin, http.StatusForbidden, "SELF_JOIN"},
	{apperror.ErrRoomFull, http.StatusForbidden, "ROOM_FULL"},
	{apperror.ErrNotInGame, http.StatusForbidden, "NOT_IN_GAME"},
	{apperror.ErrNotRoomOwner, http.StatusForbidden, "NOT_ROOM_OWNER"},

	{apperror.ErrOutOfBounds, http.StatusBadRequest, "OUT_OF_BOUNDS"},
}

// respondError writes the HTTP form of err. Errors outside the taxonomy are logged and hidden.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	respondErrorWithStatus(c, logger, err, http.StatusBadRequest)
}

// respondErrorWithStatus is respondError with a custom status for validation failures.
func respondErrorWithStatus(c *gin.Context, logger *slog.Logger, err error, validationStatus int) {
	var verr *apperror.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(validationStatus, gin.H{"message": "Invalid data.", "errors": verr.Fields})
		return
	case errors.Is(err, apperror.ErrInvalidLayout):
		c.AbortWithStatusJSON(validationStatus, gin.H{"message": "Invalid data.", "errors": gin.H{"ships": err.Error()}})
		return
	}

	for _, kind := range errorKinds {
		if errors.Is(err, kind.target) {
			c.AbortWithStatusJSON(kind.status, gin.H{"message": kind.target.Error(), "error": kind.code})
			return
		}
	}

	logger.Error("unexpected error", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

// respondBindError reports malformed or invalid request bodies.
func respondBindError(c *gin.Context, err error, status int) {
	c.AbortWithStatusJSON(status, gin.H{"message": "Invalid data.", "errors": fieldMessages(err)})
}
