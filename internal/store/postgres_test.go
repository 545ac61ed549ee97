package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	mu       sync.Mutex
	rows     []model.Booking
	listErr  error
	writeErr error
	lists    int
}

func (r *fakeRepo) List(_ context.Context) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return cloneBookings(r.rows), nil
}

func (r *fakeRepo) Create(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.rows = append(r.rows, *b)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, id string, form model.BookingForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Apply(form)
			return nil
		}
	}
	return repository.ErrBookingNotFound
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrBookingNotFound
}

func (r *fakeRepo) setListErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listErr = err
}

func (r *fakeRepo) listCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists
}

// fakeNotifier отдаёт уведомления из канала
type fakeNotifier struct {
	events chan string
	fail   chan error
	ready  chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		events: make(chan string),
		fail:   make(chan error),
		ready:  make(chan struct{}, 8),
	}
}

func (n *fakeNotifier) Listen(ctx context.Context, onReady func(), fn func(string)) error {
	onReady()
	n.ready <- struct{}{}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-n.fail:
			return err
		case payload := <-n.events:
			fn(payload)
		}
	}
}

func TestPostgresSubscribeLoadsInitialSnapshot(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{rows: []model.Booking{{ID: "a", StationID: "lift-1", Date: "2025-03-10"}}}
	p := NewPostgres(repo, nil, zap.NewNop())

	rec := &snapshots{}
	sub, err := p.Subscribe(context.Background(), rec.on, nil)
	require.NoError(t, err)
	defer sub.Cancel()

	require.Eventually(t, func() bool {
		last, _ := rec.get()
		return len(last) == 1 && last[0].ID == "a"
	}, time.Second, 5*time.Millisecond)
}

func TestPostgresSubscribeFailsWhenSnapshotUnavailable(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{listErr: errors.New("connection refused")}
	p := NewPostgres(repo, nil, zap.NewNop())

	_, err := p.Subscribe(context.Background(), func([]model.Booking) {}, nil)

	var serr *SubscriptionError
	require.ErrorAs(t, err, &serr)
}

func TestPostgresWritesWithoutNotifierResync(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	p := NewPostgres(repo, nil, zap.NewNop())
	ctx := context.Background()

	rec := &snapshots{}
	sub, err := p.Subscribe(ctx, rec.on, nil)
	require.NoError(t, err)
	defer sub.Cancel()

	id, err := p.Create(ctx, newBooking("pit-2", 14))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		last, _ := rec.get()
		return len(last) == 1 && last[0].ID == id && last[0].MasterID == "m-1"
	}, time.Second, 5*time.Millisecond)

	form := newBooking("lift-3", 10).Form
	require.NoError(t, p.Update(ctx, id, form))
	require.Eventually(t, func() bool {
		last, _ := rec.get()
		return len(last) == 1 && last[0].StationID == "lift-3"
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, p.Delete(ctx, id))
	require.Eventually(t, func() bool {
		last, _ := rec.get()
		return len(last) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestPostgresWriteErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing booking maps to ErrNotFound", func(t *testing.T) {
		p := NewPostgres(&fakeRepo{}, nil, zap.NewNop())

		err := p.Update(ctx, "ghost", model.BookingForm{})
		var werr *WriteError
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, OpUpdate, werr.Op)
		assert.Equal(t, "ghost", werr.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		err = p.Delete(ctx, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create failure is a write error", func(t *testing.T) {
		boom := errors.New("disk full")
		p := NewPostgres(&fakeRepo{writeErr: boom}, nil, zap.NewNop())

		id, err := p.Create(ctx, newBooking("lift-1", 9))
		assert.Empty(t, id)
		var werr *WriteError
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, OpCreate, werr.Op)
		assert.ErrorIs(t, err, boom)
	})
}

func TestPostgresNotificationTriggersSnapshot(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	n := newFakeNotifier()
	p := NewPostgres(repo, n, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &snapshots{}
	sub, err := p.Subscribe(ctx, rec.on, nil)
	require.NoError(t, err)
	defer sub.Cancel()

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	<-n.ready

	// запись другого клиента видна только после уведомления
	repo.mu.Lock()
	repo.rows = append(repo.rows, model.Booking{ID: "remote", StationID: "wash"})
	repo.mu.Unlock()

	n.events <- "INSERT"

	require.Eventually(t, func() bool {
		last, _ := rec.get()
		return len(last) == 1 && last[0].ID == "remote"
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestPostgresListenerReconnectsAndReportsErrors(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	n := newFakeNotifier()
	p := NewPostgres(repo, n, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		errs []error
	)
	sub, err := p.Subscribe(ctx, func([]model.Booking) {}, func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Cancel()

	go func() { _ = p.Run(ctx) }()
	<-n.ready
	before := repo.listCount()

	n.fail <- errors.New("connection reset")

	// после переподключения снимок перечитывается
	select {
	case <-n.ready:
	case <-time.After(3 * time.Second):
		t.Fatal("listener did not reconnect")
	}
	assert.Greater(t, repo.listCount(), before)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errs, 1)
	var serr *SubscriptionError
	assert.ErrorAs(t, errs[0], &serr)
}

func TestPostgresResyncErrorKeepsLastSnapshot(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{rows: []model.Booking{{ID: "a"}}}
	p := NewPostgres(repo, nil, zap.NewNop())
	ctx := context.Background()

	var (
		mu     sync.Mutex
		gotErr error
	)
	rec := &snapshots{}
	sub, err := p.Subscribe(ctx, rec.on, func(err error) {
		mu.Lock()
		gotErr = err
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Cancel()

	require.Eventually(t, func() bool {
		_, n := rec.get()
		return n == 1
	}, time.Second, 5*time.Millisecond)

	repo.setListErr(errors.New("timeout"))
	require.Error(t, p.Resync(ctx))

	mu.Lock()
	assert.Error(t, gotErr)
	mu.Unlock()

	last, n := rec.get()
	assert.Equal(t, 1, n)
	assert.Equal(t, "a", last[0].ID)
}
