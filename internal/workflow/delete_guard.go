package workflow

import (
	"sync"
	"time"

	"github.com/Freeeeeet/service_plan/internal/clock"
)

// DefaultDeleteWindow сколько ждёт повторного нажатия кнопка удаления
const DefaultDeleteWindow = 3 * time.Second

// DeleteGuard двухшаговое подтверждение удаления.
// Первое нажатие взводит флаг, второе в пределах окна подтверждает.
// По истечении окна флаг сбрасывается таймером и вызывается OnDisarm.
type DeleteGuard struct {
	mu       sync.Mutex
	clock    clock.Clock
	window   time.Duration
	onDisarm func()

	armed   bool
	armedAt time.Time
	gen     uint64
	timer   *time.Timer
}

// NewDeleteGuard создаёт выключенный guard
func NewDeleteGuard(c clock.Clock, window time.Duration) *DeleteGuard {
	if c == nil {
		c = clock.NewSystem()
	}
	if window <= 0 {
		window = DefaultDeleteWindow
	}
	return &DeleteGuard{clock: c, window: window}
}

// OnDisarm задаёт колбэк, который вызывается когда флаг сбрасывается по таймеру.
// Колбэк выполняется в горутине таймера.
func (g *DeleteGuard) OnDisarm(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onDisarm = fn
}

// Click обрабатывает нажатие. Возвращает true, если удаление подтверждено.
func (g *DeleteGuard) Click() bool {
	now := g.clock.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.armed && now.Sub(g.armedAt) < g.window {
		g.disarmLocked()
		return true
	}

	g.stopTimerLocked()
	g.armed = true
	g.armedAt = now
	g.gen++
	gen := g.gen
	g.timer = time.AfterFunc(g.window, func() { g.expire(gen) })

	return false
}

// Armed взведён ли флаг прямо сейчас
func (g *DeleteGuard) Armed() bool {
	now := g.clock.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.armed && now.Sub(g.armedAt) < g.window
}

// Reset сбрасывает флаг без вызова OnDisarm (закрытие или переоткрытие окна)
func (g *DeleteGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disarmLocked()
}

func (g *DeleteGuard) expire(gen uint64) {
	g.mu.Lock()
	if !g.armed || gen != g.gen {
		g.mu.Unlock()
		return
	}
	g.armed = false
	g.timer = nil
	cb := g.onDisarm
	g.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (g *DeleteGuard) disarmLocked() {
	g.stopTimerLocked()
	g.armed = false
	g.gen++
}

func (g *DeleteGuard) stopTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
