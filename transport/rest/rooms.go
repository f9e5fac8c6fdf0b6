package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
)

func (that *Server) ListAvailable(c *gin.Context) {
	rooms, err := that.matchmaking.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// CreateRoom opens a room for the token user, or for player1Id on anonymous requests.
func (that *Server) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, http.StatusBadRequest)
		return
	}

	creatorID := int64(req.Player1ID)
	if user := UserFromContext(c); user != nil {
		if creatorID != 0 && creatorID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"message": "player1Id must be the authenticated user", "error": "FORBIDDEN"})
			return
		}
		creatorID = user.ID
	}

	if creatorID <= 0 {
		respondError(c, that.logger, apperror.NewValidationError("player1Id", "The player1Id field is required"))
		return
	}

	room, err := that.matchmaking.CreateRoom(c.Request.Context(), creatorID, req.Name, req.Ships)
	if err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

func (that *Server) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, http.StatusBadRequest)
		return
	}

	user := UserFromContext(c)

	room, err := that.matchmaking.JoinRoom(c.Request.Context(), int64(req.IDGame), user.ID, req.Ships)
	if err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Joined the game successfully",
		"game": gin.H{
			"id":     room.ID,
			"name":   room.Name,
			"status": room.Status,
		},
	})
}

func (that *Server) SubmitPlacement(c *gin.Context) {
	roomID, ok := pathID(c, "roomId")
	if !ok {
		return
	}

	var req placementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, http.StatusBadRequest)
		return
	}

	user := UserFromContext(c)

	if err := that.matchmaking.SubmitPlacement(c.Request.Context(), roomID, user.ID, req.Ships); err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Placement saved"})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": "Invalid data.",
			"errors":  gin.H{name: "The " + name + " parameter must be a positive integer"},
		})
		return 0, false
	}

	return id, true
}
