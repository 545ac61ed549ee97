package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout формат календарного дня записи
const DateLayout = "2006-01-02"

// TimeOfDay время суток в минутах от полуночи
type TimeOfDay int

// NewTimeOfDay собирает время из часов и минут
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay разбирает строку вида "HH:MM"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}

	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}

	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	return NewTimeOfDay(hour, minute), nil
}

// Hour часы
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute минуты
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Minutes минуты от полуночи
func (t TimeOfDay) Minutes() int { return int(t) }

// Add сдвигает время на d минут
func (t TimeOfDay) Add(minutes int) TimeOfDay { return t + TimeOfDay(minutes) }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// ParseDate проверяет и разбирает день в формате DateLayout
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate форматирует день в DateLayout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ShiftDate сдвигает день на days календарных дней
func ShiftDate(date string, days int) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(d.AddDate(0, 0, days)), nil
}
