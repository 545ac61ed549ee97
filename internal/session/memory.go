package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	identity Identity
	hash     []byte
}

// MemoryDirectory провайдер идентификации в памяти процесса
type MemoryDirectory struct {
	mu       sync.RWMutex
	accounts map[string]account
	cost     int
}

// NewMemoryDirectory создаёт пустой каталог
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		accounts: make(map[string]account),
		cost:     bcrypt.MinCost,
	}
}

// Authenticate проверяет пароль
func (d *MemoryDirectory) Authenticate(_ context.Context, login, secret string) (Identity, error) {
	d.mu.RLock()
	acc, ok := d.accounts[login]
	d.mu.RUnlock()

	if !ok {
		return Identity{}, NewAuthError(UserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Identity{}, NewAuthError(InvalidCredential)
		}
		return Identity{}, fmt.Errorf("compare password: %w", err)
	}

	return acc.identity, nil
}

// Register заводит учётную запись
func (d *MemoryDirectory) Register(_ context.Context, displayName, login, secret string) (Identity, error) {
	if len(secret) < MinSecretLength {
		return Identity{}, NewAuthError(WeakSecret)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), d.cost)
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.accounts[login]; exists {
		return Identity{}, NewAuthError(HandleInUse)
	}

	identity := NewIdentity(uuid.NewString(), displayName, login)
	d.accounts[login] = account{identity: identity, hash: hash}

	return identity, nil
}

// MemoryPersister хранит входы в памяти процесса
type MemoryPersister struct {
	mu    sync.Mutex
	saved map[int64]Identity
}

// NewMemoryPersister создаёт пустое хранилище входов
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{saved: make(map[int64]Identity)}
}

func (p *MemoryPersister) Load(_ context.Context, key int64) (*Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	identity, ok := p.saved[key]
	if !ok {
		return nil, nil
	}
	return &identity, nil
}

func (p *MemoryPersister) Save(_ context.Context, key int64, identity Identity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved[key] = identity
	return nil
}

func (p *MemoryPersister) Clear(_ context.Context, key int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.saved, key)
	return nil
}
