package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/service_plan/internal/controller/state"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type commandFunc func(ctx context.Context, s callbacktypes.Sender, update *models.Update, arg string)

func (h *Handlers) commands() map[string]commandFunc {
	return map[string]commandFunc{
		"/start":    h.handleStart,
		"/help":     h.handleHelp,
		"/login":    h.handleLogin,
		"/register": h.handleRegister,
		"/logout":   h.handleLogout,
		"/today":    h.handleToday,
		"/day":      h.handleDay,
		"/cancel":   h.handleCancel,
	}
}

// HandleText единая точка входа для текстовых сообщений. Команды
// разбираются здесь же, остальной текст уходит в активный диалог.
func (h *Handlers) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.Handle(ctx, b, update)
}

// Handle то же, что HandleText, через произвольный Sender
func (h *Handlers) Handle(ctx context.Context, s callbacktypes.Sender, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := update.Message.Text
	if strings.HasPrefix(text, "/") {
		cmd, arg := splitCommand(text)
		if fn, ok := h.commands()[cmd]; ok {
			h.logger.Info("Command received",
				zap.String("command", cmd),
				zap.Int64("chat_id", update.Message.Chat.ID))
			fn(ctx, s, update, arg)
			return
		}
	}

	h.handleDialog(ctx, s, update)
}

// handleStart показывает доску или приглашение войти
func (h *Handlers) handleStart(ctx context.Context, s callbacktypes.Sender, update *models.Update, _ string) {
	w, ok := h.requireWorkspace(ctx, s, update)
	if !ok {
		return
	}

	h.prompter(s).Finish(ctx, w.ChatID)
	showBoard(w)
}

// handleHelp обрабатывает команду /help
func (h *Handlers) handleHelp(ctx context.Context, s callbacktypes.Sender, update *models.Update, _ string) {
	helpText := "📚 <b>Справка по командам</b>\n\n" +
		"/start - Показать доску\n" +
		"/today - Вернуться к сегодняшнему дню\n" +
		"/day ДАТА - Открыть день (2025-03-10 или 10.03.2025)\n" +
		"/login - Войти\n" +
		"/register - Создать аккаунт мастера\n" +
		"/logout - Выйти\n" +
		"/cancel - Отменить ввод или закрыть форму\n" +
		"/help - Показать эту справку\n\n" +
		"На доске нажмите на пост, чтобы выбрать свободное время, " +
		"или откройте список записей, чтобы изменить существующую."

	h.sendMessage(ctx, s, update.Message.Chat.ID, helpText)
}

// handleLogin начинает вход
func (h *Handlers) handleLogin(ctx context.Context, s callbacktypes.Sender, update *models.Update, _ string) {
	w, ok := h.requireWorkspace(ctx, s, update)
	if !ok {
		return
	}

	if identity, signedIn := w.Board.Identity(); signedIn {
		h.sendMessage(ctx, s, w.ChatID, fmt.Sprintf(
			"Вы уже вошли как <b>%s</b>.\n\nЧтобы сменить аккаунт, используйте /logout",
			html.EscapeString(identity.DisplayName)))
		return
	}

	h.prompter(s).StartLogin(ctx, w.ChatID)
}

// handleRegister начинает регистрацию
func (h *Handlers) handleRegister(ctx context.Context, s callbacktypes.Sender, update *models.Update, _ string) {
	w, ok := h.requireWorkspace(ctx, s, update)
	if !ok {
		return
	}

	if _, signedIn := w.Board.Identity(); signedIn {
		h.sendMessage(ctx, s, w.ChatID, "Вы уже вошли.\n\nЧтобы создать другой аккаунт, сначала используйте /logout")
		return
	}

	h.prompter(s).StartRegister(ctx, w.ChatID)
}

// handleLogout выходит из аккаунта
func (h *Handlers) handleLogout(ctx context.Context, s callbacktypes.Sender, update *models.Update, _ string) {
	w, ok := h.requireWorkspace(ctx, s, update)
	if !ok {
		return
	}

	h.prompter(s).Finish(ctx, w.ChatID)

	if _, signedIn := w.Board.Identity(); !signedIn {
		h.sendMessage(ctx, s, w.ChatID, "Вы не вошли в аккаунт.")
		return
	}

	if err := w.Session.Logout(ctx); err != nil {
		h.logger.Error("Failed to logout", zap.Int64("chat_id", w.ChatID), zap.Error(err))
	}
	h.sendMessage(ctx, s, w.ChatID, "👋 Вы вышли из аккаунта.")
}

// handleToday возвращает доску к сегодняшнему дню
func (h *Handlers) handleToday(ctx context.Context, s callbacktypes.Sender, update *models.Update, _ string) {
	w, ok := h.requireSignedIn(ctx, s, update)
	if !ok {
		return
	}

	w.Board.Today()
	showBoard(w)
}

// handleDay открывает указанный день или спрашивает дату
func (h *Handlers) handleDay(ctx context.Context, s callbacktypes.Sender, update *models.Update, arg string) {
	w, ok := h.requireSignedIn(ctx, s, update)
	if !ok {
		return
	}

	if arg == "" {
		p := h.prompter(s)
		p.DropPrompt(ctx, w.ChatID)
		h.stateManager.Begin(w.ChatID, state.StateDateInput)
		p.Ask(ctx, w.ChatID, fmt.Sprintf(
			"📅 Введите дату (например, %s или %s).\n\nДля отмены используйте /cancel",
			w.Board.Date(), formatting.FormatDotted(w.Board.Date())))
		return
	}

	h.openDay(ctx, s, w, arg)
}

func (h *Handlers) openDay(ctx context.Context, s callbacktypes.Sender, w *workspace.Workspace, arg string) bool {
	date, err := parseDay(arg)
	if err != nil {
		h.sendMessage(ctx, s, w.ChatID, "❌ Не понял дату. Формат: 2025-03-10 или 10.03.2025")
		return false
	}
	if err := w.Board.SetDate(date); err != nil {
		h.sendMessage(ctx, s, w.ChatID, "❌ Не понял дату. Формат: 2025-03-10 или 10.03.2025")
		return false
	}

	showBoard(w)
	return true
}

// handleCancel отменяет ввод или закрывает форму
func (h *Handlers) handleCancel(ctx context.Context, s callbacktypes.Sender, update *models.Update, _ string) {
	chatID := update.Message.Chat.ID
	current := h.stateManager.GetState(chatID)

	if current != state.StateNone {
		h.prompter(s).Finish(ctx, chatID)
		h.logger.Info("Dialog cancelled", zap.Int64("chat_id", chatID), zap.String("state", string(current)))
		h.sendMessage(ctx, s, chatID, "❌ Ввод отменён.")
		return
	}

	w, ok := h.requireWorkspace(ctx, s, update)
	if !ok {
		return
	}

	view, _ := w.View()
	if view.ModalView() {
		w.SetView(workspace.ViewBoard, "")
		w.Board.Cancel()
		h.sendMessage(ctx, s, chatID, "❌ Форма закрыта без сохранения.")
		return
	}

	h.sendMessage(ctx, s, chatID, "Нечего отменять.")
}

// showBoard показывает доску новым сообщением внизу чата
func showBoard(w *workspace.Workspace) {
	w.SetView(workspace.ViewBoard, "")
	w.RequestFresh()
	w.Refresh()
}
