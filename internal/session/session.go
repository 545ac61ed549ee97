// Package session ведёт вход мастеров: логин, регистрацию, выход и
// подписку на текущую личность. Учётные записи хранит провайдер
// идентификации (Directory), вход в каждом клиенте запоминает Persister.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Freeeeeet/service_plan/internal/watch"
	"go.uber.org/zap"
)

// Directory провайдер идентификации. login всегда полный, с доменом.
type Directory interface {
	Authenticate(ctx context.Context, login, secret string) (Identity, error)
	Register(ctx context.Context, displayName, login, secret string) (Identity, error)
}

// Persister запоминает вход между перезапусками, ключ это клиент (чат)
type Persister interface {
	Load(ctx context.Context, key int64) (*Identity, error)
	Save(ctx context.Context, key int64, identity Identity) error
	Clear(ctx context.Context, key int64) error
}

// Session вход одного клиента. Каждая смена личности, включая
// восстановленную при старте, публикуется подписчикам; nil если не вошёл.
type Session struct {
	key     int64
	dir     Directory
	persist Persister
	domain  string
	logger  *zap.Logger

	mu      sync.Mutex
	current *Identity
	hub     *watch.Hub[*Identity]
}

// New создаёт сессию клиента key. persist может быть nil.
func New(key int64, dir Directory, persist Persister, domain string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		key:     key,
		dir:     dir,
		persist: persist,
		domain:  domain,
		logger:  logger.With(zap.Int64("client", key)),
		hub:     watch.NewHub[*Identity](),
	}
	s.hub.Publish(nil)
	return s
}

// Restore поднимает сохранённый вход. Возвращает true, если вход найден.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	if s.persist == nil {
		return false, nil
	}

	identity, err := s.persist.Load(ctx, s.key)
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	if identity == nil {
		return false, nil
	}

	s.set(identity)
	s.logger.Info("Session restored", zap.String("user_id", identity.ID))

	return true, nil
}

// Login входит по логину и паролю. Логин без домена дополняется внутренним.
func (s *Session) Login(ctx context.Context, handle, secret string) (Identity, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || secret == "" {
		return Identity{}, NewAuthError(MissingFields)
	}

	identity, err := s.dir.Authenticate(ctx, NormalizeHandle(handle, s.domain), secret)
	if err != nil {
		s.logger.Info("Login rejected", zap.String("handle", handle), zap.Error(err))
		return Identity{}, err
	}

	s.signIn(ctx, identity)
	s.logger.Info("User logged in", zap.String("user_id", identity.ID))

	return identity, nil
}

// Register создаёт учётную запись и сразу входит в неё
func (s *Session) Register(ctx context.Context, displayName, handle, secret string) (Identity, error) {
	displayName = strings.TrimSpace(displayName)
	handle = strings.TrimSpace(handle)
	if displayName == "" || handle == "" || secret == "" {
		return Identity{}, NewAuthError(MissingFields)
	}
	if utf8.RuneCountInString(secret) < MinSecretLength {
		return Identity{}, NewAuthError(WeakSecret)
	}

	identity, err := s.dir.Register(ctx, displayName, NormalizeHandle(handle, s.domain), secret)
	if err != nil {
		s.logger.Info("Registration rejected", zap.String("handle", handle), zap.Error(err))
		return Identity{}, err
	}

	s.signIn(ctx, identity)
	s.logger.Info("User registered", zap.String("user_id", identity.ID))

	return identity, nil
}

// Logout выходит. Ошибка сохранения не мешает выходу в этом процессе.
func (s *Session) Logout(ctx context.Context) error {
	s.set(nil)

	if s.persist != nil {
		if err := s.persist.Clear(ctx, s.key); err != nil {
			s.logger.Error("Failed to clear persisted session", zap.Error(err))
			return fmt.Errorf("clear session: %w", err)
		}
	}

	s.logger.Info("User logged out")
	return nil
}

// Current текущая личность
func (s *Session) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Identity{}, false
	}
	return *s.current, true
}

// Subscribe доставляет текущую личность сразу и затем каждую смену
func (s *Session) Subscribe(fn func(*Identity)) *watch.Subscription {
	return s.hub.Subscribe(fn)
}

// Close отписывает всех
func (s *Session) Close() {
	s.hub.Close()
}

func (s *Session) signIn(ctx context.Context, identity Identity) {
	s.set(&identity)

	if s.persist != nil {
		if err := s.persist.Save(ctx, s.key, identity); err != nil {
			s.logger.Error("Failed to persist session", zap.Error(err))
		}
	}
}

// set меняет личность и публикует её под s.mu, чтобы порядок смен сохранялся
func (s *Session) set(identity *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	var published *Identity
	if identity != nil {
		current, shared := *identity, *identity
		s.current = &current
		published = &shared
	}
	s.hub.Publish(published)
}
