package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

func (that *Server) GameState(c *gin.Context) {
	roomID, ok := pathID(c, "roomId")
	if !ok {
		return
	}

	state, err := that.gameplay.State(c.Request.Context(), roomID, UserFromContext(c).ID)
	if err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (that *Server) Shoot(c *gin.Context) {
	roomID, ok := pathID(c, "roomId")
	if !ok {
		return
	}

	var req shotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, http.StatusBadRequest)
		return
	}

	target := entity.Coordinate{X: *req.X, Y: *req.Y}

	outcome, err := that.gameplay.Shoot(c.Request.Context(), roomID, UserFromContext(c).ID, target)
	if err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  outcome.Result.String(),
		"outcome": outcome,
	})
}
