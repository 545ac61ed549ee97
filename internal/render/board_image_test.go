package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/service_plan/internal/grid"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardImage(t *testing.T) {
	t.Parallel()

	topo := topology.Default()
	bookings := []model.Booking{
		{ID: "1", StationID: "lift-1", Date: "2025-03-10", StartTime: model.NewTimeOfDay(9, 0), DurationMinutes: 60,
			CarModel: "Lada Vesta", Description: "ТО-2", ClientName: "Олег", ClientPhone: "+375291112233", Status: model.StatusReady},
		{ID: "2", StationID: "lift-1", Date: "2025-03-10", StartTime: model.NewTimeOfDay(9, 30), DurationMinutes: 30,
			CarModel: "Renault Logan", Status: model.StatusProblem},
		{ID: "3", StationID: "wash", Date: "2025-03-10", StartTime: model.NewTimeOfDay(18, 30), DurationMinutes: 120,
			CarModel: "BMW X5", Status: model.StatusWaiting},
		{ID: "4", StationID: "lift-9", Date: "2025-03-10", StartTime: model.NewTimeOfDay(10, 0), DurationMinutes: 60},
	}
	board := grid.Layout("2025-03-10", topo, bookings)

	data, err := BoardImage(board, topo, Options{
		Now:   time.Date(2025, 3, 10, 12, 15, 0, 0, time.UTC),
		Title: "Иван",
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestBoardImageEmptyDay(t *testing.T) {
	t.Parallel()

	topo := topology.Default()
	data, err := BoardImage(grid.Layout("2025-03-11", topo, nil), topo, Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestStatusPalette(t *testing.T) {
	t.Parallel()

	for _, s := range model.Statuses() {
		assert.NotEmpty(t, StatusLabel(s), s)
		assert.NotEqual(t, uint8(0), StatusColor(s).A, s)
	}
	assert.Equal(t, "В работе", StatusLabel(model.StatusInProgress))
	assert.Equal(t, StatusLabel(model.StatusNeutral), StatusLabel("unknown"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Шкода", truncate("Шкода", 10))
	assert.Equal(t, "Шко…", truncate("Шкода Октавия", 4))
}
