package handlers

import (
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/state"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд и текста
type Handlers struct {
	workspaces   callbacktypes.Workspaces
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	workspaces callbacktypes.Workspaces,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		workspaces:   workspaces,
		stateManager: stateManager,
		logger:       logger,
	}
}
