package common

import (
	"context"

	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Prompter начинает диалоги ввода: отправляет вопрос и переводит чат в нужный шаг
type Prompter struct {
	Sender       callbacktypes.Sender
	StateManager *state.Manager
	Logger       *zap.Logger
}

// Ask отправляет вопрос шага и запоминает его, чтобы потом убрать из чата
func (p Prompter) Ask(ctx context.Context, chatID int64, text string) {
	p.DropPrompt(ctx, chatID)

	msg, err := p.Sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		p.Logger.Error("Failed to send prompt", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	p.StateManager.SetData(chatID, state.KeyPrompt, msg.ID)
}

// DropPrompt удаляет последний вопрос диалога, если он был
func (p Prompter) DropPrompt(ctx context.Context, chatID int64) {
	raw, ok := p.StateManager.GetData(chatID, state.KeyPrompt)
	if !ok {
		return
	}
	messageID, ok := raw.(int)
	if !ok || messageID == 0 {
		return
	}
	p.StateManager.SetData(chatID, state.KeyPrompt, 0)
	p.DeleteMessage(ctx, chatID, messageID)
}

// DeleteMessage удаляет сообщение, ошибки только логируются
func (p Prompter) DeleteMessage(ctx context.Context, chatID int64, messageID int) {
	if _, err := p.Sender.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID}); err != nil {
		p.Logger.Debug("Failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err))
	}
}

// Finish завершает диалог и убирает его вопрос
func (p Prompter) Finish(ctx context.Context, chatID int64) {
	p.DropPrompt(ctx, chatID)
	p.StateManager.ClearState(chatID)
}

// StartLogin первый шаг входа
func (p Prompter) StartLogin(ctx context.Context, chatID int64) {
	p.DropPrompt(ctx, chatID)
	p.StateManager.Begin(chatID, state.StateLoginHandle)
	p.Ask(ctx, chatID, "🔑 <b>Вход</b>\n\nШаг 1 из 2: введите логин.\n\nДля отмены используйте /cancel")
}

// StartRegister первый шаг регистрации
func (p Prompter) StartRegister(ctx context.Context, chatID int64) {
	p.DropPrompt(ctx, chatID)
	p.StateManager.Begin(chatID, state.StateRegisterName)
	p.Ask(ctx, chatID, "📝 <b>Регистрация</b>\n\nШаг 1 из 3: как вас зовут?\n\nДля отмены используйте /cancel")
}
