package store

import (
	"context"
	"sync"

	"github.com/Freeeeeet/service_plan/internal/clock"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/watch"
	"github.com/google/uuid"
)

// Memory хранилище в памяти процесса. Снимок идёт в порядке создания.
type Memory struct {
	mu    sync.Mutex
	clock clock.Clock
	order []string
	docs  map[string]model.Booking
	hub   *watch.Hub[[]model.Booking]
}

// NewMemory создаёт пустое хранилище
func NewMemory(c clock.Clock) *Memory {
	if c == nil {
		c = clock.NewSystem()
	}
	m := &Memory{
		clock: c,
		docs:  make(map[string]model.Booking),
		hub:   watch.NewHub[[]model.Booking](),
	}
	m.hub.Publish([]model.Booking{})
	return m
}

// Subscribe подписывает на снимки. Ошибок у хранилища в памяти не бывает.
func (m *Memory) Subscribe(ctx context.Context, onSnapshot func([]model.Booking), _ func(error)) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SubscriptionError{Err: err}
	}
	return m.hub.Subscribe(func(snapshot []model.Booking) {
		onSnapshot(cloneBookings(snapshot))
	}), nil
}

// Create добавляет запись в конец снимка
func (m *Memory) Create(ctx context.Context, nb model.NewBooking) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &WriteError{Op: OpCreate, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	b := nb.Booking(id)
	now := m.clock.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	m.docs[id] = b
	m.order = append(m.order, id)
	m.publishLocked()

	return id, nil
}

// Update перезаписывает поля формы, позиция в снимке сохраняется
func (m *Memory) Update(ctx context.Context, id string, form model.BookingForm) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{Op: OpUpdate, ID: id, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.docs[id]
	if !ok {
		return &WriteError{Op: OpUpdate, ID: id, Err: ErrNotFound}
	}
	b.Apply(form)
	b.UpdatedAt = m.clock.Now()
	m.docs[id] = b
	m.publishLocked()

	return nil
}

// Delete удаляет запись
func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{Op: OpDelete, ID: id, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return &WriteError{Op: OpDelete, ID: id, Err: ErrNotFound}
	}
	delete(m.docs, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	m.publishLocked()

	return nil
}

// Snapshot текущее содержимое (для тестов и отладки)
func (m *Memory) Snapshot() []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Seed добавляет готовые записи как есть, сохраняя их ID
func (m *Memory) Seed(bookings ...model.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range bookings {
		if _, exists := m.docs[b.ID]; !exists {
			m.order = append(m.order, b.ID)
		}
		m.docs[b.ID] = b
	}
	m.publishLocked()
}

func (m *Memory) snapshotLocked() []model.Booking {
	out := make([]model.Booking, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.docs[id])
	}
	return out
}

// publishLocked публикует снимок под m.mu, поэтому порядок снимков совпадает с порядком записей
func (m *Memory) publishLocked() {
	m.hub.Publish(m.snapshotLocked())
}
