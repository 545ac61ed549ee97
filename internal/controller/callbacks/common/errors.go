package common

import (
	"errors"

	"github.com/Freeeeeet/service_plan/internal/board"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/Freeeeeet/service_plan/internal/store"
	"github.com/Freeeeeet/service_plan/internal/workflow"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var authErr *session.AuthError
	if errors.As(err, &authErr) {
		return "❌ " + authErr.Message()
	}

	switch {
	case errors.Is(err, session.ErrNotSignedIn):
		return "🔒 Сначала войдите: /login"
	case errors.Is(err, board.ErrBookingGone), errors.Is(err, store.ErrNotFound):
		return "❌ Запись уже удалена"
	case errors.Is(err, workflow.ErrClosed):
		return "❌ Форма уже закрыта"
	case errors.Is(err, workflow.ErrNotEditing):
		return "❌ Удалить можно только сохранённую запись"
	case errors.Is(err, workflow.ErrUnknownStation):
		return "❌ Такого поста нет"
	case errors.Is(err, workflow.ErrOutsideWindow):
		return "❌ Время вне рабочей смены"
	case errors.Is(err, workflow.ErrInvalidDuration):
		return "❌ Недопустимая длительность"
	case errors.Is(err, workflow.ErrInvalidStatus):
		return "❌ Неизвестный статус"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка"
	}
}
