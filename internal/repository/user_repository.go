package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт учётную запись. Для занятого логина возвращает ErrLoginTaken.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, display_name, login, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.QueryRow(ctx, query, user.ID, user.DisplayName, user.Login, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrLoginTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByLogin получает пользователя по полному логину
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	query := `
		SELECT id, display_name, login, password_hash, created_at
		FROM users
		WHERE login = $1
	`

	var user model.User
	err := r.QueryRow(ctx, query, login).Scan(
		&user.ID,
		&user.DisplayName,
		&user.Login,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Пользователь не найден
		}
		return nil, fmt.Errorf("get user by login: %w", err)
	}

	return &user, nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, display_name, login, password_hash, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&user.Login,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}
