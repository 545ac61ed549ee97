package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, s callbacktypes.Sender, chatID int64, text string) {
	_, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

func (h *Handlers) prompter(s callbacktypes.Sender) common.Prompter {
	return common.Prompter{Sender: s, StateManager: h.stateManager, Logger: h.logger}
}

// splitCommand "/day@service_bot 2025-03-10" -> "/day", "2025-03-10"
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	cmd, arg, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

// parseDay принимает YYYY-MM-DD и DD.MM.YYYY
func parseDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("02.01.2006", s); err == nil {
		return model.FormatDate(t), nil
	}
	t, err := model.ParseDate(s)
	if err != nil {
		return "", err
	}
	return model.FormatDate(t), nil
}
