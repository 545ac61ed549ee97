package common

import (
	"context"
	"strings"

	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Helper functions для всех callback handlers

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, s callbacktypes.Sender, callbackID string, text string) {
	s.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, s callbacktypes.Sender, callbackID string, text string) {
	s.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ChatIDFromCallback чат, в котором нажата кнопка
func ChatIDFromCallback(callback *models.CallbackQuery) int64 {
	if msg := GetMessageFromCallback(callback); msg != nil {
		return msg.Chat.ID
	}
	if callback.Message.InaccessibleMessage != nil {
		return callback.Message.InaccessibleMessage.Chat.ID
	}
	return callback.From.ID
}

// IsMessageNotModifiedError Telegram отвечает так, если содержимое не изменилось
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
