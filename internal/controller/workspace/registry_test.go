package workspace

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/service_plan/internal/clock"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/Freeeeeet/service_plan/internal/store"
	"github.com/Freeeeeet/service_plan/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDeps(c clock.Clock) Deps {
	return Deps{
		Store:       store.NewMemory(c),
		Directory:   session.NewMemoryDirectory(),
		Persister:   session.NewMemoryPersister(),
		Topology:    topology.Default(),
		LoginDomain: "serviceplan.local",
		Location:    time.UTC,
		Clock:       c,
		Logger:      zap.NewNop(),
	}
}

func TestRegistryCreatesOneWorkspacePerChat(t *testing.T) {
	t.Parallel()

	c := clock.NewManual(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	r := NewRegistry(context.Background(), newDeps(c), nil)
	defer r.Close()

	a, err := r.Get(context.Background(), 1)
	require.NoError(t, err)
	again, err := r.Get(context.Background(), 1)
	require.NoError(t, err)
	b, err := r.Get(context.Background(), 2)
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "2025-03-10", a.Board.Date())
}

func TestRegistryRestoresPersistedLogin(t *testing.T) {
	t.Parallel()

	c := clock.NewSystem()
	deps := newDeps(c)
	ctx := context.Background()

	first := NewRegistry(ctx, deps, nil)
	w, err := first.Get(ctx, 7)
	require.NoError(t, err)
	identity, err := w.Session.Register(ctx, "Иван", "ivan", "secret1")
	require.NoError(t, err)
	first.Close()

	// перезапуск процесса с тем же хранилищем входов
	second := NewRegistry(ctx, deps, nil)
	defer second.Close()
	w, err = second.Get(ctx, 7)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, ok := w.Board.Identity()
		return ok && got.ID == identity.ID
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRegistryDrawsOnChange(t *testing.T) {
	t.Parallel()

	var draws atomic.Int32
	r := NewRegistry(context.Background(), newDeps(clock.NewSystem()), func(context.Context, *Workspace) {
		draws.Add(1)
	})
	defer r.Close()

	w, err := r.Get(context.Background(), 3)
	require.NoError(t, err)

	require.NoError(t, w.Board.ShiftDate(1))
	require.Eventually(t, func() bool { return draws.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestRegistryEvictsIdle(t *testing.T) {
	t.Parallel()

	c := clock.NewManual(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	r := NewRegistry(context.Background(), newDeps(c), nil)
	defer r.Close()

	_, err := r.Get(context.Background(), 1)
	require.NoError(t, err)
	c.Advance(time.Hour)
	_, err = r.Get(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, r.Evict(30*time.Minute))
	assert.Equal(t, 1, r.Len())
}

func TestLoginAttemptsAreThrottled(t *testing.T) {
	t.Parallel()

	r := NewRegistry(context.Background(), newDeps(clock.NewSystem()), nil)
	defer r.Close()
	w, err := r.Get(context.Background(), 1)
	require.NoError(t, err)

	allowed := 0
	for i := 0; i < loginBurst+3; i++ {
		if w.AllowLogin() {
			allowed++
		}
	}
	assert.Equal(t, loginBurst, allowed)
}

func TestWorkspaceViewAndNotices(t *testing.T) {
	t.Parallel()

	r := NewRegistry(context.Background(), newDeps(clock.NewSystem()), nil)
	defer r.Close()
	w, err := r.Get(context.Background(), 1)
	require.NoError(t, err)

	v, _ := w.View()
	assert.Equal(t, ViewBoard, v)

	w.SetView(ViewSlots, "pit-2")
	v, arg := w.View()
	assert.Equal(t, ViewSlots, v)
	assert.Equal(t, "pit-2", arg)
	assert.False(t, v.ModalView())
	assert.True(t, ViewTime.ModalView())

	w.AddNotice("a")
	w.AddNotice("b")
	assert.Equal(t, []string{"a", "b"}, w.TakeNotices())
	assert.Empty(t, w.TakeNotices())

	w.RequestFresh()
	assert.True(t, w.TakeFresh())
	assert.False(t, w.TakeFresh())
}

// gatedPersister держит Load для chat до release
type gatedPersister struct {
	*session.MemoryPersister
	chat    int64
	entered chan struct{}
	release chan struct{}
}

func (p *gatedPersister) Load(ctx context.Context, key int64) (*session.Identity, error) {
	if key == p.chat {
		close(p.entered)
		<-p.release
	}
	return p.MemoryPersister.Load(ctx, key)
}

func TestSlowRestoreDoesNotBlockOtherChats(t *testing.T) {
	t.Parallel()

	deps := newDeps(clock.NewSystem())
	persister := &gatedPersister{
		MemoryPersister: session.NewMemoryPersister(),
		chat:            1,
		entered:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	deps.Persister = persister
	r := NewRegistry(context.Background(), deps, nil)
	defer r.Close()

	slow := make(chan error, 1)
	go func() {
		_, err := r.Get(context.Background(), 1)
		slow <- err
	}()
	<-persister.entered

	other := make(chan error, 1)
	go func() {
		_, err := r.Get(context.Background(), 2)
		other <- err
	}()

	select {
	case err := <-other:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("second chat waited for the first restore")
	}

	close(persister.release)
	require.NoError(t, <-slow)
	assert.Equal(t, 2, r.Len())
}

func TestConcurrentFirstContactSharesWorkspace(t *testing.T) {
	t.Parallel()

	var draws atomic.Int32
	r := NewRegistry(context.Background(), newDeps(clock.NewSystem()), func(context.Context, *Workspace) {
		draws.Add(1)
	})
	defer r.Close()

	const callers = 8
	got := make([]*Workspace, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, err := r.Get(context.Background(), 5)
			if err == nil {
				got[i] = w
			}
		}(i)
	}
	wg.Wait()

	require.NotNil(t, got[0])
	for _, w := range got {
		assert.Same(t, got[0], w)
	}
	assert.Equal(t, 1, r.Len())

	got[0].Refresh()
	require.Eventually(t, func() bool { return draws.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)
}
