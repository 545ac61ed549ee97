package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/repository"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	mu      sync.Mutex
	byLogin map[string]model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byLogin: make(map[string]model.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byLogin[user.Login]; ok {
		return repository.ErrLoginTaken
	}
	f.byLogin[user.Login] = *user
	return nil
}

func (f *fakeUsers) GetByLogin(_ context.Context, login string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byLogin[login]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type fakeSessions struct {
	users *fakeUsers
	saved map[int64]string
}

func (f *fakeSessions) Save(_ context.Context, chatID int64, userID string) error {
	f.saved[chatID] = userID
	return nil
}

func (f *fakeSessions) Get(_ context.Context, chatID int64) (*model.User, error) {
	id, ok := f.saved[chatID]
	if !ok {
		return nil, nil
	}
	for _, u := range f.users.byLogin {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeSessions) Delete(_ context.Context, chatID int64) error {
	delete(f.saved, chatID)
	return nil
}

func newTestUserService(users UserStore) *UserService {
	s := NewUserService(users, zap.NewNop())
	s.bcryptCost = bcrypt.MinCost
	return s
}

func TestUserService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := newFakeUsers()
	svc := newTestUserService(users)

	identity, err := svc.Register(ctx, "Иван", "ivan@serviceplan.local", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ivan", identity.LoginHandle)
	assert.Equal(t, "И", identity.AvatarInitial)

	stored, _ := users.GetByLogin(ctx, "ivan@serviceplan.local")
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	tests := []struct {
		name string
		run  func() error
		kind session.AuthErrorKind
	}{
		{"duplicate login", func() error {
			_, err := svc.Register(ctx, "Другой", "ivan@serviceplan.local", "secret2")
			return err
		}, session.HandleInUse},
		{"weak secret", func() error {
			_, err := svc.Register(ctx, "Пётр", "petr@serviceplan.local", "123")
			return err
		}, session.WeakSecret},
		{"wrong password", func() error {
			_, err := svc.Authenticate(ctx, "ivan@serviceplan.local", "wrong!")
			return err
		}, session.InvalidCredential},
		{"unknown login", func() error {
			_, err := svc.Authenticate(ctx, "ghost@serviceplan.local", "secret1")
			return err
		}, session.UserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var authErr *session.AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.kind, authErr.Kind)
		})
	}

	got, err := svc.Authenticate(ctx, "ivan@serviceplan.local", "secret1")
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestSessionServiceRestoresAcrossSessions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := newFakeUsers()
	dir := newTestUserService(users)
	persist := NewSessionService(&fakeSessions{users: users, saved: map[int64]string{}}, zap.NewNop())

	first := session.New(99, dir, persist, "serviceplan.local", zap.NewNop())
	identity, err := first.Register(ctx, "Иван", "ivan", "secret1")
	require.NoError(t, err)

	second := session.New(99, dir, persist, "serviceplan.local", zap.NewNop())
	ok, err := second.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	current, _ := second.Current()
	assert.Equal(t, identity, current)
}
