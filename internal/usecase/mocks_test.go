package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

type mockUserService struct {
	mock.Mock
}

func (that *mockUserService) CreateUser(ctx context.Context, user *entity.User) error {
	return that.Called(ctx, user).Error(0)
}

func (that *mockUserService) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	args := that.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (that *mockUserService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := that.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (that *mockUserService) UpdateUser(ctx context.Context, user *entity.User) error {
	return that.Called(ctx, user).Error(0)
}

func (that *mockUserService) DeleteUser(ctx context.Context, id int64) error {
	return that.Called(ctx, id).Error(0)
}

type mockAuthService struct {
	mock.Mock
}

func (that *mockAuthService) GenerateToken(userID int64) (*entity.Token, error) {
	args := that.Called(userID)
	token, _ := args.Get(0).(*entity.Token)
	return token, args.Error(1)
}

func (that *mockAuthService) ParseToken(ctx context.Context, tokenString string) (*entity.Claims, error) {
	args := that.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*entity.Claims)
	return claims, args.Error(1)
}

func (that *mockAuthService) RevokeToken(ctx context.Context, claims *entity.Claims) error {
	return that.Called(ctx, claims).Error(0)
}

func (that *mockAuthService) HashPassword(password string) (string, error) {
	args := that.Called(password)
	return args.String(0), args.Error(1)
}

func (that *mockAuthService) ComparePassword(hash, password string) error {
	return that.Called(hash, password).Error(0)
}
