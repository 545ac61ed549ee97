package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common"
	"github.com/Freeeeeet/service_plan/internal/controller/state"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/Freeeeeet/service_plan/internal/workflow"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const clearFieldMarker = "-"

// handleDialog обрабатывает текст в зависимости от шага диалога
func (h *Handlers) handleDialog(ctx context.Context, s callbacktypes.Sender, update *models.Update) {
	chatID := update.Message.Chat.ID
	current := h.stateManager.GetState(chatID)

	if current.Secret() {
		// пароль не должен оставаться в истории чата
		h.prompter(s).DeleteMessage(ctx, chatID, update.Message.ID)
	}

	switch current {
	case state.StateLoginHandle:
		h.handleLoginHandleStep(ctx, s, update)
	case state.StateLoginSecret:
		h.handleLoginSecretStep(ctx, s, update)
	case state.StateRegisterName:
		h.handleRegisterNameStep(ctx, s, update)
	case state.StateRegisterHandle:
		h.handleRegisterHandleStep(ctx, s, update)
	case state.StateRegisterSecret:
		h.handleRegisterSecretStep(ctx, s, update)
	case state.StateFieldInput:
		h.handleFieldInputStep(ctx, s, update)
	case state.StateDateInput:
		h.handleDateInputStep(ctx, s, update)
	default:
		h.sendMessage(ctx, s, chatID, "Используйте кнопки на доске или /help")
	}
}

func (h *Handlers) handleLoginHandleStep(ctx context.Context, s callbacktypes.Sender, update *models.Update) {
	chatID := update.Message.Chat.ID
	handle := strings.TrimSpace(update.Message.Text)

	if handle == "" {
		h.prompter(s).Ask(ctx, chatID, "❌ "+session.NewAuthError(session.MissingFields).Message()+"\n\nВведите логин:")
		return
	}

	h.stateManager.SetData(chatID, state.KeyHandle, handle)
	h.stateManager.SetState(chatID, state.StateLoginSecret)
	h.prompter(s).Ask(ctx, chatID, fmt.Sprintf(
		"🔑 Логин: <b>%s</b>\n\nШаг 2 из 2: введите пароль. Сообщение с паролем будет удалено.",
		html.EscapeString(handle)))
}

func (h *Handlers) handleLoginSecretStep(ctx context.Context, s callbacktypes.Sender, update *models.Update) {
	w, ok := h.requireWorkspace(ctx, s, update)
	if !ok {
		return
	}

	if !w.AllowLogin() {
		h.logger.Warn("Login throttled", zap.Int64("chat_id", w.ChatID))
		h.prompter(s).Ask(ctx, w.ChatID, "⏳ Слишком много попыток. Подождите немного и введите пароль ещё раз.")
		return
	}

	handle := h.stateManager.GetString(w.ChatID, state.KeyHandle)
	identity, err := w.Session.Login(ctx, handle, update.Message.Text)
	if err != nil {
		h.prompter(s).Ask(ctx, w.ChatID, "❌ "+session.UserMessage(err)+"\n\nВведите пароль ещё раз или /cancel")
		return
	}

	h.finishAuth(ctx, s, w, identity)
}

func (h *Handlers) handleRegisterNameStep(ctx context.Context, s callbacktypes.Sender, update *models.Update) {
	chatID := update.Message.Chat.ID
	name := strings.TrimSpace(update.Message.Text)

	if name == "" {
		h.prompter(s).Ask(ctx, chatID, "❌ "+session.NewAuthError(session.MissingFields).Message()+"\n\nКак вас зовут?")
		return
	}

	h.stateManager.SetData(chatID, state.KeyName, name)
	h.stateManager.SetState(chatID, state.StateRegisterHandle)
	h.prompter(s).Ask(ctx, chatID, "📝 Шаг 2 из 3: придумайте логин (латиница, без пробелов).")
}

func (h *Handlers) handleRegisterHandleStep(ctx context.Context, s callbacktypes.Sender, update *models.Update) {
	chatID := update.Message.Chat.ID
	handle := strings.TrimSpace(update.Message.Text)

	if handle == "" || strings.ContainsAny(handle, " \t\n") {
		h.prompter(s).Ask(ctx, chatID, "❌ Логин не должен быть пустым или содержать пробелы.\n\nПридумайте логин:")
		return
	}

	h.stateManager.SetData(chatID, state.KeyHandle, handle)
	h.stateManager.SetState(chatID, state.StateRegisterSecret)
	h.prompter(s).Ask(ctx, chatID, fmt.Sprintf(
		"📝 Шаг 3 из 3: придумайте пароль, не короче %d символов. Сообщение с паролем будет удалено.",
		session.MinSecretLength))
}

func (h *Handlers) handleRegisterSecretStep(ctx context.Context, s callbacktypes.Sender, update *models.Update) {
	w, ok := h.requireWorkspace(ctx, s, update)
	if !ok {
		return
	}

	if !w.AllowLogin() {
		h.logger.Warn("Registration throttled", zap.Int64("chat_id", w.ChatID))
		h.prompter(s).Ask(ctx, w.ChatID, "⏳ Слишком много попыток. Подождите немного и введите пароль ещё раз.")
		return
	}

	name := h.stateManager.GetString(w.ChatID, state.KeyName)
	handle := h.stateManager.GetString(w.ChatID, state.KeyHandle)

	identity, err := w.Session.Register(ctx, name, handle, update.Message.Text)
	if err != nil {
		h.prompter(s).Ask(ctx, w.ChatID, "❌ "+session.UserMessage(err)+"\n\nВведите пароль ещё раз или /cancel")
		return
	}

	h.finishAuth(ctx, s, w, identity)
}

func (h *Handlers) finishAuth(ctx context.Context, s callbacktypes.Sender, w *workspace.Workspace, identity session.Identity) {
	h.prompter(s).Finish(ctx, w.ChatID)
	h.sendMessage(ctx, s, w.ChatID, fmt.Sprintf("✅ Добро пожаловать, <b>%s</b>!", html.EscapeString(identity.DisplayName)))
	showBoard(w)
}

func (h *Handlers) handleFieldInputStep(ctx context.Context, s callbacktypes.Sender, update *models.Update) {
	w, ok := h.requireSignedIn(ctx, s, update)
	if !ok {
		return
	}

	p := h.prompter(s)
	field := workflow.Field(h.stateManager.GetString(w.ChatID, state.KeyField))

	value := strings.TrimSpace(update.Message.Text)
	if value == clearFieldMarker {
		value = ""
	}

	err := w.Board.Edit(func(e *workflow.Editor) error {
		return e.SetText(field, value)
	})

	p.DeleteMessage(ctx, w.ChatID, update.Message.ID)
	p.Finish(ctx, w.ChatID)

	if err != nil {
		h.logger.Warn("Failed to set field", zap.String("field", string(field)), zap.Error(err))
		h.sendMessage(ctx, s, w.ChatID, common.ErrorMessage(err))
		showBoard(w)
		return
	}

	w.SetView(workspace.ViewModal, "")
	w.Refresh()
}

func (h *Handlers) handleDateInputStep(ctx context.Context, s callbacktypes.Sender, update *models.Update) {
	w, ok := h.requireSignedIn(ctx, s, update)
	if !ok {
		return
	}

	if h.openDay(ctx, s, w, update.Message.Text) {
		h.prompter(s).Finish(ctx, w.ChatID)
	}
}
