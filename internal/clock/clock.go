package clock

import (
	"sync"
	"time"
)

// Clock источник текущего времени для сервисов и тестов
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem часы на time.Now
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

type fixedClock struct {
	now time.Time
}

// NewFixed часы, которые всегда возвращают один и тот же момент
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// Manual часы, которые двигаются только вручную
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual создаёт ручные часы, стоящие на t
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance переводит часы вперёд на d
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
