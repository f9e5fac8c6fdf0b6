package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
	"github.com/Oz-CR/BattleShip-Back/internal/repository/storage"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *storage.Storage
}

func NewUserRepository(db *storage.Storage) UserRepository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, full_name, email, password_hash, created_at, updated_at`

func (that *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := that.db.Rebind(`INSERT INTO users (full_name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)

	now := time.Now().UTC()

	err := that.db.Connection.QueryRowContext(ctx, query, user.FullName, user.Email, user.PasswordHash, now, now).Scan(&user.ID)
	if storage.IsUniqueViolation(err) {
		return apperror.ErrExistingUser
	}
	if err != nil {
		return fmt.Errorf("can't save user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	return nil
}

func (that *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := that.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)

	return that.scanOne(that.db.Connection.QueryRowContext(ctx, query, id))
}

func (that *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := that.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)

	return that.scanOne(that.db.Connection.QueryRowContext(ctx, query, email))
}

func (that *userRepository) scanOne(row *sql.Row) (*entity.User, error) {
	var user entity.User

	err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	return &user, nil
}

func (that *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := that.db.Rebind(`UPDATE users SET full_name = ?, email = ?, password_hash = ?, updated_at = ? WHERE id = ?`)

	now := time.Now().UTC()

	res, err := that.db.Connection.ExecContext(ctx, query, user.FullName, user.Email, user.PasswordHash, now, user.ID)
	if storage.IsUniqueViolation(err) {
		return apperror.ErrExistingUser
	}
	if err != nil {
		return fmt.Errorf("can't update user: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrUserNotFound
	}

	user.UpdatedAt = now

	return nil
}

// Delete removes the user; rooms, games and turns go with it through cascading foreign keys.
func (that *userRepository) Delete(ctx context.Context, id int64) error {
	query := that.db.Rebind(`DELETE FROM users WHERE id = ?`)

	res, err := that.db.Connection.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("can't delete user: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrUserNotFound
	}

	return nil
}
