package common

import (
	"context"

	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// WithWorkspace создаёт HandlerContext и загружает рабочее место чата.
// При ошибке сам отвечает пользователю.
func WithWorkspace(
	ctx context.Context,
	s callbacktypes.Sender,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, s, callback, h)

	if err := hc.LoadWorkspace(); err != nil {
		h.Logger.Error("Failed to load workspace",
			zap.Int64("chat_id", hc.ChatID),
			zap.Error(err))
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}

// WithSignedIn то же, что WithWorkspace, но требует выполненного входа
func WithSignedIn(
	ctx context.Context,
	s callbacktypes.Sender,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	WithWorkspace(ctx, s, callback, h, func(hc *HandlerContext) {
		if _, err := hc.RequireSignedIn(); err != nil {
			hc.AnswerAlert(ErrorMessage(err))
			hc.Workspace.Refresh()
			return
		}
		handler(hc)
	})
}

// HandleError обрабатывает ошибку и отправляет ответ пользователю
func HandleError(hc *HandlerContext, err error, operation string) {
	hc.Handler.Logger.Warn("Operation failed",
		zap.String("operation", operation),
		zap.Int64("chat_id", hc.ChatID),
		zap.Error(err))
	hc.AnswerAlert(ErrorMessage(err))
}
