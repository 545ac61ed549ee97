package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/service_plan/internal/model"
)

// FormatDay форматирует день доски: "Пн, 10.03.2025"
func FormatDay(date string) string {
	t, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s, %s", GetWeekdayShortName(int(t.Weekday())), t.Format("02.01.2006"))
}

// FormatDotted "10.03.2025"
func FormatDotted(date string) string {
	t, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("02.01.2006")
}

// FormatDayLong форматирует день полностью: "Понедельник, 10 марта"
func FormatDayLong(date string) string {
	t, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s, %d %s", GetWeekdayName(int(t.Weekday())), t.Day(), GetMonthGenitive(t.Month()))
}

// FormatTimeRange форматирует интервал записи
func FormatTimeRange(start model.TimeOfDay, minutes int) string {
	return fmt.Sprintf("%s–%s", start, start.Add(minutes))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday int) string {
	names := []string{
		"Воскресенье",
		"Понедельник",
		"Вторник",
		"Среда",
		"Четверг",
		"Пятница",
		"Суббота",
	}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "Неизвестно"
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday int) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}

// GetMonthGenitive название месяца в родительном падеже
func GetMonthGenitive(month time.Month) string {
	names := map[time.Month]string{
		time.January:   "января",
		time.February:  "февраля",
		time.March:     "марта",
		time.April:     "апреля",
		time.May:       "мая",
		time.June:      "июня",
		time.July:      "июля",
		time.August:    "августа",
		time.September: "сентября",
		time.October:   "октября",
		time.November:  "ноября",
		time.December:  "декабря",
	}
	return names[month]
}
