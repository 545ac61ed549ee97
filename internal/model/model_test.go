package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: NewTimeOfDay(9, 0)},
		{in: "14:30", want: NewTimeOfDay(14, 30)},
		{in: " 8:05 ", want: NewTimeOfDay(8, 5)},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "1230", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "09:00", NewTimeOfDay(9, 0).String())
	assert.Equal(t, "19:00", NewTimeOfDay(18, 30).Add(30).String())
}

func TestShiftDate(t *testing.T) {
	t.Parallel()

	next, err := ShiftDate("2025-12-31", 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", next)

	_, err = ShiftDate("31.12.2025", 1)
	assert.Error(t, err)
}

func TestBookingFormRoundTrip(t *testing.T) {
	t.Parallel()

	n := NewBooking{
		Form: BookingForm{
			StationID:       "lift-1",
			StartTime:       NewTimeOfDay(9, 0),
			DurationMinutes: 60,
			CarModel:        "Geely Emgrand",
			Status:          StatusInProgress,
		},
		Date:     "2025-03-10",
		MasterID: "master-1",
	}

	b := n.Booking("b-1")
	assert.Equal(t, "b-1", b.ID)
	assert.Equal(t, "2025-03-10", b.Date)
	assert.Equal(t, "master-1", b.MasterID)
	assert.Equal(t, n.Form, b.Form())
	assert.Equal(t, NewTimeOfDay(10, 0), b.EndTime())
}

func TestStatusValid(t *testing.T) {
	t.Parallel()

	for _, s := range Statuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("bg-green-400").Valid())
}
