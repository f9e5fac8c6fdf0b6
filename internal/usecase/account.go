package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

type AccountUseCase interface {
	Register(ctx context.Context, fullName, email, password string) (*entity.User, *entity.Token, error)
	Login(ctx context.Context, email, password string) (*entity.User, *entity.Token, error)
	Logout(ctx context.Context, claims *entity.Claims) error
	Authenticate(ctx context.Context, token string) (*entity.User, *entity.Claims, error)

	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*entity.User, error)
	DeleteAccount(ctx context.Context, userID int64, password string, claims *entity.Claims) error
}

// ProfileUpdate holds the fields to change; nil fields are left as they are.
type ProfileUpdate struct {
	FullName *string
	Email    *string
	Password *string
}

type userService interface {
	CreateUser(ctx context.Context, user *entity.User) error
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateUser(ctx context.Context, user *entity.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type authService interface {
	GenerateToken(userID int64) (*entity.Token, error)
	ParseToken(ctx context.Context, tokenString string) (*entity.Claims, error)
	RevokeToken(ctx context.Context, claims *entity.Claims) error
	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) error
}

type accountUseCase struct {
	logger *slog.Logger
	users  userService
	auth   authService
}

func NewAccountUseCase(logger *slog.Logger, users userService, auth authService) AccountUseCase {
	return &accountUseCase{
		logger: logger.With("component", "account"),
		users:  users,
		auth:   auth,
	}
}

func (that *accountUseCase) Register(ctx context.Context, fullName, email, password string) (*entity.User, *entity.Token, error) {
	_, err := that.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, nil, apperror.ErrExistingUser
	}
	if !errors.Is(err, apperror.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := that.auth.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := &entity.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
	}

	if err = that.users.CreateUser(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := that.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

// Login does not tell unknown emails and wrong passwords apart.
func (that *accountUseCase) Login(ctx context.Context, email, password string) (*entity.User, *entity.Token, error) {
	user, err := that.users.GetUserByEmail(ctx, email)
	if errors.Is(err, apperror.ErrUserNotFound) {
		return nil, nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err = that.auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, err
	}

	token, err := that.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

func (that *accountUseCase) Logout(ctx context.Context, claims *entity.Claims) error {
	return that.auth.RevokeToken(ctx, claims)
}

// Authenticate resolves a bearer token to a live user. Tokens of deleted users are rejected.
func (that *accountUseCase) Authenticate(ctx context.Context, token string) (*entity.User, *entity.Claims, error) {
	claims, err := that.auth.ParseToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	user, err := that.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, apperror.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("%w: user no longer exists", apperror.ErrUnauthorized)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load token user: %w", err)
	}

	return user, claims, nil
}

func (that *accountUseCase) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*entity.User, error) {
	user, err := that.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if update.FullName != nil {
		user.FullName = *update.FullName
	}

	if update.Email != nil && !strings.EqualFold(strings.TrimSpace(*update.Email), user.Email) {
		existing, err := that.users.GetUserByEmail(ctx, *update.Email)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, apperror.ErrExistingUser
		case err != nil && !errors.Is(err, apperror.ErrUserNotFound):
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = *update.Email
	}

	if update.Password != nil {
		if user.PasswordHash, err = that.auth.HashPassword(*update.Password); err != nil {
			return nil, err
		}
	}

	if err = that.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// DeleteAccount removes the user and everything they played after re-checking the password,
// then revokes the token used for the request.
func (that *accountUseCase) DeleteAccount(ctx context.Context, userID int64, password string, claims *entity.Claims) error {
	user, err := that.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err = that.auth.ComparePassword(user.PasswordHash, password); err != nil {
		return err
	}

	if err = that.users.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if claims != nil {
		if err = that.auth.RevokeToken(ctx, claims); err != nil {
			that.logger.Error("failed to revoke token of deleted user", "method", "DeleteAccount", "userID", userID, "error", err)
		}
	}

	return nil
}
