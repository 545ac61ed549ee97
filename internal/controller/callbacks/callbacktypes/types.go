package callbacktypes

import (
	"context"

	"github.com/Freeeeeet/service_plan/internal/controller/state"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Sender методы Telegram API, которыми пользуется контроллер. *bot.Bot его реализует.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	EditMessageMedia(ctx context.Context, params *bot.EditMessageMediaParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// Workspaces выдаёт рабочее место чата
type Workspaces interface {
	Get(ctx context.Context, chatID int64) (*workspace.Workspace, error)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Workspaces   Workspaces
	StateManager *state.Manager
	Logger       *zap.Logger
}
