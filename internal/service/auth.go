package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

type AuthService interface {
	GenerateToken(userID int64) (*entity.Token, error)
	ParseToken(ctx context.Context, tokenString string) (*entity.Claims, error)
	RevokeToken(ctx context.Context, claims *entity.Claims) error

	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) error
}

type tokenRepo interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type authServiceImpl struct {
	secretKey []byte
	tokenTTL  time.Duration
	tokens    tokenRepo
	now       func() time.Time
}

func NewAuthService(secretKey string, tokenTTL time.Duration, tokens tokenRepo) AuthService {
	return &authServiceImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
		tokens:    tokens,
		now:       time.Now,
	}
}

func (that *authServiceImpl) GenerateToken(userID int64) (*entity.Token, error) {
	now := that.now()
	expiresAt := now.Add(that.tokenTTL)

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(that.secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &entity.Token{
		Type:      entity.TokenTypeBearer,
		Value:     tokenString,
		ExpiresAt: expiresAt.UTC(),
	}, nil
}

// ParseToken verifies signature, expiry and revocation.
func (that *authServiceImpl) ParseToken(ctx context.Context, tokenString string) (*entity.Claims, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return that.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(that.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrUnauthorized, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return nil, fmt.Errorf("%w: malformed claims", apperror.ErrUnauthorized)
	}

	revoked, err := that.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, apperror.ErrTokenRevoked
	}

	return &entity.Claims{
		UserID:    userID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// RevokeToken denylists the token for the rest of its lifetime.
func (that *authServiceImpl) RevokeToken(ctx context.Context, claims *entity.Claims) error {
	if err := that.tokens.Revoke(ctx, claims.TokenID, claims.ExpiresAt.Sub(that.now())); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

func (that *authServiceImpl) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

func (that *authServiceImpl) ComparePassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperror.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}

	return nil
}
