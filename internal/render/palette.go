package render

import (
	"image/color"

	"github.com/Freeeeeet/service_plan/internal/model"
)

type statusStyle struct {
	label string
	fill  color.RGBA
}

// Цвета блоков по статусу записи
var statusStyles = map[model.Status]statusStyle{
	model.StatusReady:      {"Готово/Ок", color.RGBA{187, 247, 208, 255}},
	model.StatusInProgress: {"В работе", color.RGBA{254, 240, 138, 255}},
	model.StatusWaiting:    {"Ожидание", color.RGBA{254, 215, 170, 255}},
	model.StatusProblem:    {"Проблема", color.RGBA{254, 202, 202, 255}},
	model.StatusScheduled:  {"Запись", color.RGBA{191, 219, 254, 255}},
	model.StatusNeutral:    {"Без статуса", color.RGBA{229, 231, 235, 255}},
}

// StatusLabel подпись статуса для пользователя
func StatusLabel(s model.Status) string {
	if st, ok := statusStyles[s]; ok {
		return st.label
	}
	return statusStyles[model.StatusNeutral].label
}

// StatusColor цвет заливки блока
func StatusColor(s model.Status) color.RGBA {
	if st, ok := statusStyles[s]; ok {
		return st.fill
	}
	return statusStyles[model.StatusNeutral].fill
}

// StatusEmoji значок статуса для текстовых кнопок
func StatusEmoji(s model.Status) string {
	switch s {
	case model.StatusReady:
		return "🟢"
	case model.StatusInProgress:
		return "🟡"
	case model.StatusWaiting:
		return "🟠"
	case model.StatusProblem:
		return "🔴"
	case model.StatusScheduled:
		return "🔵"
	default:
		return "⚪"
	}
}
