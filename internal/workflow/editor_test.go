package workflow

import (
	"testing"
	"time"

	"github.com/Freeeeeet/service_plan/internal/clock"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func existing() model.Booking {
	return model.Booking{
		ID:              "b-1",
		StationID:       "lift-2",
		Date:            "2025-03-10",
		StartTime:       model.NewTimeOfDay(11, 0),
		DurationMinutes: 120,
		CarModel:        "Geely Emgrand",
		VIN:             "XW8ZZZ",
		Description:     "ТО-2",
		ClientName:      "Иван",
		ClientPhone:     "+375291112233",
		MasterID:        "m-1",
		Status:          model.StatusWaiting,
	}
}

func TestOpenCreatePrefillsCell(t *testing.T) {
	t.Parallel()

	e := NewEditor(topology.Default())
	require.NoError(t, e.OpenCreate("pit-2", model.NewTimeOfDay(14, 30)))

	assert.Equal(t, ModeCreating, e.Mode())
	draft := e.Draft()
	assert.Equal(t, "pit-2", draft.StationID)
	assert.Equal(t, "14:30", draft.StartTime.String())
	assert.Equal(t, 60, draft.DurationMinutes)
	assert.Equal(t, model.StatusReady, draft.Status)
	assert.Empty(t, draft.CarModel)

	_, ok := e.Original()
	assert.False(t, ok)
}

func TestOpenCreateRejectsCellsOutsideTopology(t *testing.T) {
	t.Parallel()

	e := NewEditor(topology.Default())
	assert.ErrorIs(t, e.OpenCreate("lift-9", model.NewTimeOfDay(9, 0)), ErrUnknownStation)
	assert.ErrorIs(t, e.OpenCreate("lift-1", model.NewTimeOfDay(7, 30)), ErrOutsideWindow)
	assert.Equal(t, ModeClosed, e.Mode())
}

func TestOpenEditPrefillsAllFields(t *testing.T) {
	t.Parallel()

	e := NewEditor(topology.Default())
	b := existing()
	e.OpenEdit(b)

	assert.Equal(t, ModeEditing, e.Mode())
	assert.Equal(t, b.Form(), e.Draft())

	orig, ok := e.Original()
	require.True(t, ok)
	assert.Equal(t, "b-1", orig.ID)
}

func TestSettersAssignOntoDraft(t *testing.T) {
	t.Parallel()

	e := NewEditor(topology.Default())
	require.NoError(t, e.OpenCreate("lift-1", model.NewTimeOfDay(9, 0)))

	require.NoError(t, e.SetStation("wash"))
	require.NoError(t, e.SetStart(model.NewTimeOfDay(18, 30)))
	require.NoError(t, e.SetDuration(480))
	require.NoError(t, e.SetStatus(model.StatusProblem))
	for _, f := range TextFields() {
		require.NoError(t, e.SetText(f, string(f)+"-value"))
	}

	d := e.Draft()
	assert.Equal(t, "wash", d.StationID)
	assert.Equal(t, "18:30", d.StartTime.String())
	assert.Equal(t, 480, d.DurationMinutes)
	assert.Equal(t, model.StatusProblem, d.Status)
	for _, f := range TextFields() {
		assert.Equal(t, string(f)+"-value", FieldValue(d, f))
	}
}

func TestSettersValidateAgainstTopology(t *testing.T) {
	t.Parallel()

	e := NewEditor(topology.Default())
	require.NoError(t, e.OpenCreate("lift-1", model.NewTimeOfDay(9, 0)))

	assert.ErrorIs(t, e.SetStation("nope"), ErrUnknownStation)
	assert.ErrorIs(t, e.SetStart(model.NewTimeOfDay(9, 10)), ErrOutsideWindow)
	assert.ErrorIs(t, e.SetDuration(45), ErrInvalidDuration)
	assert.ErrorIs(t, e.SetStatus("bg-red-400"), ErrInvalidStatus)
	assert.ErrorIs(t, e.SetText("mileage", "100"), ErrUnknownField)

	d := e.Draft()
	assert.Equal(t, "lift-1", d.StationID)
	assert.Equal(t, 60, d.DurationMinutes)
}

func TestClosedEditorRejectsEdits(t *testing.T) {
	t.Parallel()

	e := NewEditor(topology.Default())
	assert.ErrorIs(t, e.SetDuration(60), ErrClosed)
	assert.ErrorIs(t, e.SetText(FieldVIN, "x"), ErrClosed)

	_, err := e.Save()
	assert.ErrorIs(t, err, ErrClosed)

	_, err = e.ClickDelete()
	assert.ErrorIs(t, err, ErrNotEditing)
}

func TestSaveBuildsRequests(t *testing.T) {
	t.Parallel()

	t.Run("create", func(t *testing.T) {
		e := NewEditor(topology.Default())
		require.NoError(t, e.OpenCreate("pit-1", model.NewTimeOfDay(10, 0)))
		require.NoError(t, e.SetText(FieldCarModel, "Lada Vesta"))

		req, err := e.Save()
		require.NoError(t, err)
		assert.Equal(t, RequestCreate, req.Kind)
		assert.Empty(t, req.BookingID)
		assert.Equal(t, "Lada Vesta", req.Form.CarModel)
		assert.Equal(t, ModeCreating, e.Mode(), "save does not close by itself")
	})

	t.Run("update sends the whole form", func(t *testing.T) {
		e := NewEditor(topology.Default())
		b := existing()
		e.OpenEdit(b)
		require.NoError(t, e.SetDuration(30))

		req, err := e.Save()
		require.NoError(t, err)
		assert.Equal(t, RequestUpdate, req.Kind)
		assert.Equal(t, "b-1", req.BookingID)

		want := b.Form()
		want.DurationMinutes = 30
		assert.Equal(t, want, req.Form)
	})
}

func TestDeleteRequiresTwoClicks(t *testing.T) {
	t.Parallel()

	c := clock.NewManual(epoch)
	e := NewEditor(topology.Default(), WithClock(c))
	e.OpenEdit(existing())

	first, err := e.ClickDelete()
	require.NoError(t, err)
	assert.False(t, first.Confirmed)
	assert.True(t, e.DeleteArmed())

	c.Advance(time.Second)
	second, err := e.ClickDelete()
	require.NoError(t, err)
	assert.True(t, second.Confirmed)
	assert.Equal(t, "b-1", second.BookingID)
}

func TestDeleteArmResetOnCloseAndReopen(t *testing.T) {
	t.Parallel()

	c := clock.NewManual(epoch)
	e := NewEditor(topology.Default(), WithClock(c))
	e.OpenEdit(existing())

	_, err := e.ClickDelete()
	require.NoError(t, err)

	e.Close()
	e.OpenEdit(existing())
	assert.False(t, e.DeleteArmed())

	d, err := e.ClickDelete()
	require.NoError(t, err)
	assert.False(t, d.Confirmed, "arm from the previous opening must not carry over")

	e.OpenEdit(existing())
	d, err = e.ClickDelete()
	require.NoError(t, err)
	assert.False(t, d.Confirmed, "reopen resets the arm")
}

func TestDeleteAfterWindowIsFirstClick(t *testing.T) {
	t.Parallel()

	c := clock.NewManual(epoch)
	e := NewEditor(topology.Default(), WithClock(c), WithDeleteWindow(3*time.Second))
	e.OpenEdit(existing())

	_, err := e.ClickDelete()
	require.NoError(t, err)
	c.Advance(3 * time.Second)

	d, err := e.ClickDelete()
	require.NoError(t, err)
	assert.False(t, d.Confirmed)
	assert.True(t, e.DeleteArmed())
}

func TestCloseDiscardsDraft(t *testing.T) {
	t.Parallel()

	e := NewEditor(topology.Default())
	require.NoError(t, e.OpenCreate("lift-1", model.NewTimeOfDay(9, 0)))
	require.NoError(t, e.SetText(FieldCarModel, "draft only"))
	e.Close()

	assert.Equal(t, ModeClosed, e.Mode())
	assert.Equal(t, model.BookingForm{}, e.Draft())
}
