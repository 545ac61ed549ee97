package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/service_plan/internal/clock"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common"
	"github.com/Freeeeeet/service_plan/internal/controller/handlers"
	"github.com/Freeeeeet/service_plan/internal/controller/state"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Рабочие места без активности дольше idleTimeout закрываются
const (
	idleTimeout   = 24 * time.Hour
	evictInterval = time.Hour
)

type BotController struct {
	bot             *bot.Bot
	registry        *workspace.Registry
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

// NewBotController связывает бота с рабочими местами чатов. ctx живёт,
// пока работает бот: на нём держатся подписки досок.
func NewBotController(
	ctx context.Context,
	botInstance *bot.Bot,
	deps workspace.Deps,
	logger *zap.Logger,
) *BotController {
	c := deps.Clock
	if c == nil {
		c = clock.NewSystem()
		deps.Clock = c
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	deps.Logger = logger

	// Перерисовка экрана идёт в горутине рабочего места
	registry := workspace.NewRegistry(ctx, deps, func(ctx context.Context, w *workspace.Workspace) {
		common.Draw(ctx, botInstance, w, c.Now().In(deps.Location), logger)
	})

	// Создаём менеджер состояний
	stateManager := state.NewManager()

	return &BotController{
		bot:             botInstance,
		registry:        registry,
		handlers:        handlers.NewHandlers(registry, stateManager, logger),
		callbackHandler: callbacks.NewHandler(registry, stateManager, logger),
		logger:          logger,
	}
}

// RegisterHandlers регистрирует обработчики сообщений и кнопок
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды и ответы в диалогах
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleText)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Показать доску"},
		{Command: "today", Description: "📅 Сегодня"},
		{Command: "day", Description: "🗓 Открыть день"},
		{Command: "login", Description: "🔑 Войти"},
		{Command: "register", Description: "📝 Создать аккаунт"},
		{Command: "logout", Description: "🚪 Выйти"},
		{Command: "cancel", Description: "❌ Отменить ввод"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")

	go c.evictLoop(ctx)

	c.bot.Start(ctx)
	c.registry.Close()

	c.logger.Info("Bot stopped")
	return nil
}

func (c *BotController) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.registry.Evict(idleTimeout); n > 0 {
				c.logger.Info("Idle workspaces closed", zap.Int("count", n))
			}
		}
	}
}
