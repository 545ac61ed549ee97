package handlers

import (
	"context"

	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireWorkspace рабочее место чата сообщения
func (h *Handlers) requireWorkspace(ctx context.Context, s callbacktypes.Sender, update *models.Update) (*workspace.Workspace, bool) {
	chatID := update.Message.Chat.ID

	w, err := h.workspaces.Get(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to get workspace", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendMessage(ctx, s, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}
	return w, true
}

// requireSignedIn то же, что requireWorkspace, но требует входа
func (h *Handlers) requireSignedIn(ctx context.Context, s callbacktypes.Sender, update *models.Update) (*workspace.Workspace, bool) {
	w, ok := h.requireWorkspace(ctx, s, update)
	if !ok {
		return nil, false
	}

	if _, signedIn := w.Board.Identity(); !signedIn {
		h.sendMessage(ctx, s, update.Message.Chat.ID, "🔒 Сначала войдите: /login\n\nНет аккаунта? /register")
		return nil, false
	}
	return w, true
}
