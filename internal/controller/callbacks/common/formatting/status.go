package formatting

import (
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/render"
)

// StatusDisplay представляет отображение статуса записи
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetStatusDisplay возвращает emoji и текст статуса. Подписи общие с картинкой доски.
func GetStatusDisplay(status model.Status) StatusDisplay {
	return StatusDisplay{
		Emoji: render.StatusEmoji(status),
		Text:  render.StatusLabel(status),
	}
}

// String "🟢 Готово/Ок"
func (d StatusDisplay) String() string {
	return d.Emoji + " " + d.Text
}
