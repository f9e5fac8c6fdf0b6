package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

type UserService interface {
	CreateUser(ctx context.Context, user *entity.User) error
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateUser(ctx context.Context, user *entity.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type userRepo interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	userRepo userRepo
}

func NewUserService(userRepo userRepo) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (that *userService) CreateUser(ctx context.Context, user *entity.User) error {
	user.Email = NormalizeEmail(user.Email)
	user.FullName = strings.TrimSpace(user.FullName)

	if err := that.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("could not save user: %w", err)
	}

	return nil
}

func (that *userService) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := that.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	return user, nil
}

func (that *userService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := that.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}

	return user, nil
}

func (that *userService) UpdateUser(ctx context.Context, user *entity.User) error {
	user.Email = NormalizeEmail(user.Email)
	user.FullName = strings.TrimSpace(user.FullName)

	if err := that.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("could not update user: %w", err)
	}

	return nil
}

func (that *userService) DeleteUser(ctx context.Context, id int64) error {
	if err := that.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}

	return nil
}
