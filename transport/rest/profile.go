package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/usecase"
)

func (that *Server) ShowProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": UserFromContext(c)})
}

func (that *Server) UpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, http.StatusBadRequest)
		return
	}

	user, err := that.account.UpdateProfile(c.Request.Context(), UserFromContext(c).ID, usecase.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user.Player(),
	})
}

func (that *Server) DeleteProfile(c *gin.Context) {
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password is required"})
		return
	}

	err := that.account.DeleteAccount(c.Request.Context(), UserFromContext(c).ID, req.Password, claimsFromContext(c))
	if errors.Is(err, apperror.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Incorrect password"})
		return
	}
	if err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (that *Server) ProfileStats(c *gin.Context) {
	stats, err := that.stats.Stats(c.Request.Context(), UserFromContext(c).ID)
	if err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
