package callbacks

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/service_plan/internal/clock"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common"
	"github.com/Freeeeeet/service_plan/internal/controller/state"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/Freeeeeet/service_plan/internal/store"
	"github.com/Freeeeeet/service_plan/internal/testutil"
	"github.com/Freeeeeet/service_plan/internal/topology"
	"github.com/Freeeeeet/service_plan/internal/workflow"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const chatID int64 = 42

type routerFixture struct {
	mem     *store.Memory
	w       *workspace.Workspace
	handler *Handler
	states  *state.Manager
	sender  *testutil.FakeSender
}

func newRouterFixture(t *testing.T, signIn bool) routerFixture {
	t.Helper()

	c := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	mem := store.NewMemory(c)
	reg := workspace.NewRegistry(context.Background(), workspace.Deps{
		Store:       mem,
		Directory:   session.NewMemoryDirectory(),
		Persister:   session.NewMemoryPersister(),
		Topology:    topology.Default(),
		LoginDomain: "serviceplan.local",
		Location:    time.UTC,
		Clock:       c,
		Logger:      zap.NewNop(),
	}, nil)
	t.Cleanup(reg.Close)

	w, err := reg.Get(context.Background(), chatID)
	require.NoError(t, err)

	if signIn {
		_, err := w.Session.Register(context.Background(), "Мастер Пётр", "petr", "secret1")
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			_, ok := w.Board.Identity()
			return ok
		}, 2*time.Second, 5*time.Millisecond)
	}

	states := state.NewManager()
	return routerFixture{
		mem:     mem,
		w:       w,
		handler: NewHandler(reg, states, zap.NewNop()),
		states:  states,
		sender:  testutil.NewFakeSender(),
	}
}

func (f routerFixture) press(data string) {
	f.handler.Handle(context.Background(), f.sender, &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb-" + data,
			From: models.User{ID: chatID},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{ID: 7, Chat: models.Chat{ID: chatID}},
			},
		},
	})
}

func (f routerFixture) lastAnswer(t *testing.T) string {
	t.Helper()
	answers := f.sender.Answers()
	require.NotEmpty(t, answers)
	return answers[len(answers)-1].Text
}

func TestCreateBookingThroughButtons(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, true)

	f.press(common.OpenStation + "pit-2")
	view, arg := f.w.View()
	assert.Equal(t, workspace.ViewSlots, view)
	assert.Equal(t, "pit-2", arg)

	f.press(common.CellData("pit-2", model.NewTimeOfDay(14, 30)))
	view, _ = f.w.View()
	assert.Equal(t, workspace.ViewModal, view)

	f.press(common.ModalDuration)
	view, _ = f.w.View()
	assert.Equal(t, workspace.ViewDuration, view)

	f.press(common.PickData(common.ModalDuration, "90"))
	view, _ = f.w.View()
	assert.Equal(t, workspace.ViewModal, view)

	f.press(common.PickData(common.ModalStatus, string(model.StatusInProgress)))
	f.press(common.ModalSave)
	assert.Equal(t, "✅ Сохранено", f.lastAnswer(t))

	snapshot := f.mem.Snapshot()
	require.Len(t, snapshot, 1)
	got := snapshot[0]
	assert.Equal(t, "pit-2", got.StationID)
	assert.Equal(t, "2025-03-10", got.Date)
	assert.Equal(t, model.NewTimeOfDay(14, 30), got.StartTime)
	assert.Equal(t, 90, got.DurationMinutes)
	assert.Equal(t, model.StatusInProgress, got.Status)

	identity, _ := f.w.Board.Identity()
	assert.Equal(t, identity.ID, got.MasterID)

	view, _ = f.w.View()
	assert.Equal(t, workspace.ViewBoard, view)
	assert.Equal(t, workflow.ModeClosed, f.w.Board.Editor().Mode)
}

func TestTwoStepDeleteThroughButtons(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, true)
	f.mem.Seed(model.Booking{ID: "b1", StationID: "lift-1", Date: "2025-03-10", StartTime: model.NewTimeOfDay(9, 0), DurationMinutes: 60, Status: model.StatusReady})
	require.Eventually(t, func() bool { return len(f.w.Board.Bookings()) == 1 }, 2*time.Second, 5*time.Millisecond)

	f.press(common.OpenBooking + "b1")
	assert.Equal(t, workflow.ModeEditing, f.w.Board.Editor().Mode)

	f.press(common.ModalDelete)
	assert.Equal(t, "Нажмите ещё раз для удаления", f.lastAnswer(t))
	assert.True(t, f.w.Board.Editor().DeleteArmed)
	assert.Len(t, f.mem.Snapshot(), 1)

	f.press(common.ModalDelete)
	assert.Equal(t, "🗑 Запись удалена", f.lastAnswer(t))
	assert.Empty(t, f.mem.Snapshot())
}

func TestNavigationShiftsDate(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, true)

	f.press(common.NavNext)
	assert.Equal(t, "2025-03-11", f.w.Board.Date())
	f.press(common.NavPrev)
	f.press(common.NavPrev)
	assert.Equal(t, "2025-03-09", f.w.Board.Date())
	f.press(common.NavToday)
	assert.Equal(t, "2025-03-10", f.w.Board.Date())
}

func TestSignedOutButtonsAreRejected(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, false)

	f.press(common.OpenStation + "lift-1")
	answers := f.sender.Answers()
	require.Len(t, answers, 1)
	assert.True(t, answers[0].ShowAlert)
	assert.Equal(t, "🔒 Сначала войдите: /login", answers[0].Text)
}

func TestModalButtonsNeedOpenForm(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, true)
	f.w.SetView(workspace.ViewStatus, "")

	f.press(common.PickData(common.ModalStatus, "ready"))
	assert.Equal(t, "❌ Форма уже закрыта", f.lastAnswer(t))

	view, _ := f.w.View()
	assert.Equal(t, workspace.ViewBoard, view)
}

func TestFieldButtonStartsInput(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, true)
	f.press(common.CellData("lift-1", model.NewTimeOfDay(9, 0)))

	f.press(common.FieldData(workflow.FieldCarModel))

	assert.Equal(t, state.StateFieldInput, f.states.GetState(chatID))
	assert.Equal(t, string(workflow.FieldCarModel), f.states.GetString(chatID, state.KeyField))

	prompt, ok := f.sender.LastSent()
	require.True(t, ok)
	assert.Contains(t, prompt.Text, "🚗 Авто")
}

func TestAuthButtonStartsLogin(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, false)
	f.press(common.AuthLogin)

	assert.Equal(t, state.StateLoginHandle, f.states.GetState(chatID))
	prompt, ok := f.sender.LastSent()
	require.True(t, ok)
	assert.Contains(t, prompt.Text, "введите логин")
}

func TestLogoutButton(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, true)
	f.press(common.Logout)

	require.Eventually(t, func() bool {
		_, ok := f.w.Board.Identity()
		return !ok
	}, 2*time.Second, 5*time.Millisecond)
}

func TestUnknownCallback(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t, true)
	f.press("something:else")

	assert.Equal(t, "❌ Неизвестная команда", f.lastAnswer(t))
}
