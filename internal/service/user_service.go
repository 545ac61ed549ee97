package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/repository"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore таблица пользователей
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByLogin(ctx context.Context, login string) (*model.User, error)
}

// UserService провайдер идентификации поверх таблицы users.
// Пароли хранятся только в виде bcrypt-хэша.
type UserService struct {
	users      UserStore
	logger     *zap.Logger
	bcryptCost int
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Authenticate проверяет логин и пароль
func (s *UserService) Authenticate(ctx context.Context, login, secret string) (session.Identity, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return session.Identity{}, fmt.Errorf("get user: %w", err)
	}

	if user == nil {
		return session.Identity{}, session.NewAuthError(session.UserNotFound)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return session.Identity{}, session.NewAuthError(session.InvalidCredential)
		}
		return session.Identity{}, fmt.Errorf("compare password: %w", err)
	}

	return toIdentity(user), nil
}

// Register создаёт пользователя
func (s *UserService) Register(ctx context.Context, displayName, login, secret string) (session.Identity, error) {
	if len(secret) < session.MinSecretLength {
		return session.Identity{}, session.NewAuthError(session.WeakSecret)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.bcryptCost)
	if err != nil {
		return session.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		DisplayName:  displayName,
		Login:        login,
		PasswordHash: string(hash),
	}

	err = s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrLoginTaken) {
			return session.Identity{}, &session.AuthError{Kind: session.HandleInUse, Err: err}
		}
		return session.Identity{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.String("user_id", user.ID),
		zap.String("login", login),
	)

	return toIdentity(user), nil
}

func toIdentity(user *model.User) session.Identity {
	return session.NewIdentity(user.ID, user.DisplayName, user.Login)
}
