package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

const (
	contextUser   = "user"
	contextClaims = "claims"

	statusInvalidRegistration = 420
)

type sessionResponse struct {
	User  entity.Player `json:"user"`
	Token *entity.Token `json:"token"`
}

func (that *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, statusInvalidRegistration)
		return
	}

	user, token, err := that.account.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if errors.Is(err, apperror.ErrExistingUser) {
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists", "error": "EXISTING_USER"})
		return
	}
	if err != nil {
		respondErrorWithStatus(c, that.logger, err, statusInvalidRegistration)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered successfully",
		"data":    sessionResponse{User: user.Player(), Token: token},
	})
}

func (that *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials", "errors": fieldMessages(err)})
		return
	}

	user, token, err := that.account.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, apperror.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successful login",
		"data":    sessionResponse{User: user.Player(), Token: token},
	})
}

func (that *Server) Logout(c *gin.Context) {
	if err := that.account.Logout(c.Request.Context(), claimsFromContext(c)); err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// requireAuth rejects requests without a valid, unrevoked token of an existing user.
func (that *Server) requireAuth(allowQueryToken bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c, allowQueryToken)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized", "error": "UNAUTHORIZED"})
			return
		}

		that.authenticate(c, token)
	}
}

// optionalAuth authenticates when a token is sent and lets anonymous requests through.
func (that *Server) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c, false); token != "" {
			that.authenticate(c, token)
			return
		}

		c.Next()
	}
}

func (that *Server) authenticate(c *gin.Context, token string) {
	user, claims, err := that.account.Authenticate(c.Request.Context(), token)
	if err != nil {
		respondError(c, that.logger, err)
		return
	}

	c.Set(contextUser, user)
	c.Set(contextClaims, claims)
	c.Next()
}

func bearerToken(c *gin.Context, allowQuery bool) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, entity.TokenTypeBearer) {
		return strings.TrimSpace(token)
	}

	if allowQuery {
		return c.Query("token")
	}

	return ""
}

// UserFromContext returns the authenticated user, or nil on anonymous requests.
func UserFromContext(c *gin.Context) *entity.User {
	value, ok := c.Get(contextUser)
	if !ok {
		return nil
	}

	user, _ := value.(*entity.User)

	return user
}

func claimsFromContext(c *gin.Context) *entity.Claims {
	value, ok := c.Get(contextClaims)
	if !ok {
		return nil
	}

	claims, _ := value.(*entity.Claims)

	return claims
}
