package formatting

import (
	"testing"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestPluralizeBookings(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		0:   "записей",
		1:   "запись",
		3:   "записи",
		5:   "записей",
		11:  "записей",
		21:  "запись",
		24:  "записи",
		112: "записей",
	}
	for count, want := range tests {
		assert.Equal(t, want, PluralizeBookings(count), count)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "30 мин", FormatDuration(30))
	assert.Equal(t, "1 ч", FormatDuration(60))
	assert.Equal(t, "2 ч 30 мин", FormatDuration(150))
}

func TestFormatDay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Пн, 10.03.2025", FormatDay("2025-03-10"))
	assert.Equal(t, "10.03.2025", FormatDotted("2025-03-10"))
	assert.Equal(t, "Понедельник, 10 марта", FormatDayLong("2025-03-10"))
	assert.Equal(t, "garbage", FormatDay("garbage"))
}

func TestFormatTimeRange(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "09:30–11:00", FormatTimeRange(model.NewTimeOfDay(9, 30), 90))
}
