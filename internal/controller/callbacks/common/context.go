package common

import (
	"context"

	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/go-telegram/bot/models"
)

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx       context.Context
	Sender    callbacktypes.Sender
	Callback  *models.CallbackQuery
	Handler   *callbacktypes.Handler
	Message   *models.Message
	Workspace *workspace.Workspace
	ChatID    int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	s callbacktypes.Sender,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	return &HandlerContext{
		Ctx:      ctx,
		Sender:   s,
		Callback: callback,
		Handler:  h,
		Message:  GetMessageFromCallback(callback),
		ChatID:   ChatIDFromCallback(callback),
	}
}

// LoadWorkspace загружает рабочее место чата в контекст
func (hc *HandlerContext) LoadWorkspace() error {
	w, err := hc.Handler.Workspaces.Get(hc.Ctx, hc.ChatID)
	if err != nil {
		return err
	}
	hc.Workspace = w
	return nil
}

// RequireSignedIn проверяет что в чате выполнен вход
func (hc *HandlerContext) RequireSignedIn() (session.Identity, error) {
	if hc.Workspace == nil {
		if err := hc.LoadWorkspace(); err != nil {
			return session.Identity{}, err
		}
	}
	identity, ok := hc.Workspace.Board.Identity()
	if !ok {
		return session.Identity{}, session.ErrNotSignedIn
	}
	return identity, nil
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Sender, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Sender, hc.Callback.ID, text)
}

// Show переключает экран и просит перерисовку
func (hc *HandlerContext) Show(view workspace.View, arg string) {
	hc.Workspace.SetView(view, arg)
	hc.Workspace.Refresh()
}

// ClearState очищает состояние диалога чата
func (hc *HandlerContext) ClearState() {
	hc.Handler.StateManager.ClearState(hc.ChatID)
}
