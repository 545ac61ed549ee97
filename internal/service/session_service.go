package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/session"
	"go.uber.org/zap"
)

// SessionStore таблица входов по чатам
type SessionStore interface {
	Save(ctx context.Context, chatID int64, userID string) error
	Get(ctx context.Context, chatID int64) (*model.User, error)
	Delete(ctx context.Context, chatID int64) error
}

// SessionService запоминает, кто вошёл в каком чате
type SessionService struct {
	sessions SessionStore
	logger   *zap.Logger
}

func NewSessionService(sessions SessionStore, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		logger:   logger,
	}
}

// Load возвращает сохранённый вход или nil
func (s *SessionService) Load(ctx context.Context, chatID int64) (*session.Identity, error) {
	user, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	identity := toIdentity(user)
	return &identity, nil
}

// Save запоминает вход
func (s *SessionService) Save(ctx context.Context, chatID int64, identity session.Identity) error {
	if err := s.sessions.Save(ctx, chatID, identity.ID); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.logger.Debug("Session saved",
		zap.Int64("chat_id", chatID),
		zap.String("user_id", identity.ID),
	)
	return nil
}

// Clear забывает вход
func (s *SessionService) Clear(ctx context.Context, chatID int64) error {
	if err := s.sessions.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
