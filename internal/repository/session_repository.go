package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository хранит, какой мастер вошёл в каком чате
type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

// Save запоминает вход пользователя в чате
func (r *SessionRepository) Save(ctx context.Context, chatID int64, userID string) error {
	query := `
		INSERT INTO bot_sessions (chat_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (chat_id) DO UPDATE SET user_id = EXCLUDED.user_id, updated_at = NOW()
	`

	if _, err := r.ExecAffected(ctx, query, chatID, userID); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// Get возвращает пользователя, вошедшего в чате, или nil
func (r *SessionRepository) Get(ctx context.Context, chatID int64) (*model.User, error) {
	query := `
		SELECT u.id, u.display_name, u.login, u.password_hash, u.created_at
		FROM bot_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.chat_id = $1
	`

	var user model.User
	err := r.QueryRow(ctx, query, chatID).Scan(
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
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &user, nil
}

// Delete забывает вход в чате
func (r *SessionRepository) Delete(ctx context.Context, chatID int64) error {
	if _, err := r.ExecAffected(ctx, `DELETE FROM bot_sessions WHERE chat_id = $1`, chatID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
