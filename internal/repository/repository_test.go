package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/repository"
	"github.com/Freeeeeet/service_plan/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)
	return ctx, pool
}

func sampleBooking(station string, start model.TimeOfDay) *model.Booking {
	return &model.Booking{
		ID:              uuid.NewString(),
		StationID:       station,
		Date:            "2025-03-10",
		StartTime:       start,
		DurationMinutes: 90,
		CarModel:        "Skoda Octavia",
		VIN:             "TMBJJ7NE8J0123456",
		Description:     "Замена колодок",
		ClientName:      "Пётр",
		ClientPhone:     "+375291234567",
		MasterID:        "master-1",
		Status:          model.StatusInProgress,
	}
}

func TestBookingRepository(t *testing.T) {
	ctx, pool := setup(t)
	repo := repository.NewBookingRepository(pool)

	first := sampleBooking("lift-1", model.NewTimeOfDay(9, 30))
	require.NoError(t, repo.Create(ctx, first))
	assert.False(t, first.CreatedAt.IsZero())

	second := sampleBooking("pit-2", model.NewTimeOfDay(14, 0))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("list in creation order", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID)
		assert.Equal(t, "2025-03-10", list[0].Date)
		assert.Equal(t, "09:30", list[0].StartTime.String())
		assert.Equal(t, second.ID, list[1].ID)
	})

	t.Run("update keeps id date and master", func(t *testing.T) {
		form := first.Form()
		form.StationID = "wash"
		form.Status = model.StatusReady
		form.DurationMinutes = 30
		require.NoError(t, repo.Update(ctx, first.ID, form))

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "wash", got.StationID)
		assert.Equal(t, model.StatusReady, got.Status)
		assert.Equal(t, 30, got.DurationMinutes)
		assert.Equal(t, "master-1", got.MasterID)
		assert.Equal(t, "2025-03-10", got.Date)
	})

	t.Run("missing rows", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.ErrorIs(t, repo.Update(ctx, "nope", first.Form()), repository.ErrBookingNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "nope"), repository.ErrBookingNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, second.ID))
		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestUserAndSessionRepositories(t *testing.T) {
	ctx, pool := setup(t)
	users := repository.NewUserRepository(pool)
	sessions := repository.NewSessionRepository(pool)

	user := &model.User{
		ID:           uuid.NewString(),
		DisplayName:  "Иван",
		Login:        "ivan@serviceplan.local",
		PasswordHash: "hash",
	}
	require.NoError(t, users.Create(ctx, user))

	dup := *user
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, users.Create(ctx, &dup), repository.ErrLoginTaken)

	got, err := users.GetByLogin(ctx, "ivan@serviceplan.local")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	missing, err := users.GetByLogin(ctx, "nobody@serviceplan.local")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byID, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Иван", byID.DisplayName)

	require.NoError(t, sessions.Save(ctx, 42, user.ID))
	require.NoError(t, sessions.Save(ctx, 42, user.ID))

	restored, err := sessions.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, user.Login, restored.Login)

	require.NoError(t, sessions.Delete(ctx, 42))
	restored, err = sessions.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestListenerReceivesBookingChanges(t *testing.T) {
	ctx, pool := setup(t)
	repo := repository.NewBookingRepository(pool)
	listener := repository.NewListener(pool, repository.BookingsChannel)

	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ready := make(chan struct{})
	payloads := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- listener.Listen(listenCtx, func() { close(ready) }, func(p string) { payloads <- p })
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("listener not ready")
	}

	require.NoError(t, repo.Create(ctx, sampleBooking("lift-2", model.NewTimeOfDay(8, 0))))

	select {
	case p := <-payloads:
		assert.Equal(t, "INSERT", p)
	case <-time.After(5 * time.Second):
		t.Fatal("no notification")
	}

	cancel()
	assert.NoError(t, <-done)
}
