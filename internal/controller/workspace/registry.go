package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/service_plan/internal/board"
	"github.com/Freeeeeet/service_plan/internal/clock"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/Freeeeeet/service_plan/internal/store"
	"github.com/Freeeeeet/service_plan/internal/topology"
	"github.com/Freeeeeet/service_plan/internal/watch"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Попытки входа: не больше loginBurst подряд, затем одна в loginEvery
const (
	loginEvery = 10 * time.Second
	loginBurst = 5
)

// Deps зависимости рабочих мест
type Deps struct {
	Store       store.Store
	Directory   session.Directory
	Persister   session.Persister
	Topology    topology.Topology
	LoginDomain string
	Location    *time.Location
	Clock       clock.Clock
	Logger      *zap.Logger
}

// Registry создаёт рабочие места лениво, при первом сообщении из чата
type Registry struct {
	deps   Deps
	ctx    context.Context
	draw   func(ctx context.Context, w *Workspace)
	logger *zap.Logger

	mu    sync.Mutex
	items map[int64]*Workspace
}

// NewRegistry создаёт реестр. draw вызывается в отдельной горутине
// каждого чата, когда экран нужно перерисовать.
func NewRegistry(ctx context.Context, deps Deps, draw func(ctx context.Context, w *Workspace)) *Registry {
	if deps.Clock == nil {
		deps.Clock = clock.NewSystem()
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Registry{
		deps:   deps,
		ctx:    ctx,
		draw:   draw,
		logger: deps.Logger,
		items:  make(map[int64]*Workspace),
	}
}

// Get возвращает рабочее место чата, создавая его и поднимая сохранённый вход.
// Вход поднимается без блокировки реестра, при гонке за один чат
// лишний экземпляр закрывается.
func (r *Registry) Get(ctx context.Context, chatID int64) (*Workspace, error) {
	if w, ok := r.lookup(chatID); ok {
		return w, nil
	}

	w := r.newWorkspace(chatID)
	if _, err := w.Session.Restore(ctx); err != nil {
		w.close()
		return nil, fmt.Errorf("restore workspace %d: %w", chatID, err)
	}

	r.mu.Lock()
	if existing, ok := r.items[chatID]; ok {
		r.mu.Unlock()
		w.close()
		existing.Touch(r.deps.Clock.Now())
		return existing, nil
	}
	r.items[chatID] = w
	r.mu.Unlock()

	r.attach(w)
	r.logger.Info("Workspace created", zap.Int64("chat_id", chatID))

	return w, nil
}

func (r *Registry) lookup(chatID int64) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.items[chatID]
	if ok {
		w.Touch(r.deps.Clock.Now())
	}
	return w, ok
}

// Len количество рабочих мест
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Evict закрывает рабочие места без активности дольше idle
func (r *Registry) Evict(idle time.Duration) int {
	now := r.deps.Clock.Now()

	r.mu.Lock()
	var stale []*Workspace
	for id, w := range r.items {
		if now.Sub(w.LastSeen()) > idle {
			stale = append(stale, w)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, w := range stale {
		w.close()
	}
	return len(stale)
}

// Close закрывает все рабочие места
func (r *Registry) Close() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[int64]*Workspace)
	r.mu.Unlock()

	for _, w := range items {
		w.close()
	}
}

func (r *Registry) newWorkspace(chatID int64) *Workspace {
	logger := r.logger.With(zap.Int64("chat_id", chatID))

	sess := session.New(chatID, r.deps.Directory, r.deps.Persister, r.deps.LoginDomain, logger)

	w := &Workspace{
		ChatID:   chatID,
		Session:  sess,
		limiter:  rate.NewLimiter(rate.Every(loginEvery), loginBurst),
		refresh:  watch.NewHub[uint64](),
		lastSeen: r.deps.Clock.Now(),
	}

	w.Board = board.New(r.deps.Store, sess, r.deps.Topology,
		board.WithClock(r.deps.Clock),
		board.WithLocation(r.deps.Location),
		board.WithLogger(logger),
		board.WithNotifier(func(n board.Notice) {
			w.AddNotice(n.Text)
		}),
	)
	w.Board.OnChange(w.Refresh)
	w.Board.Start(r.ctx)

	return w
}

// attach подключает отрисовку. Хаб отдаёт последнее обновление сразу,
// так что изменения до подключения не теряются.
func (r *Registry) attach(w *Workspace) {
	if r.draw == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.sub = w.refresh.Subscribe(func(uint64) {
		r.draw(r.ctx, w)
	})
}
