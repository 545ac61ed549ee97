// Package day обрабатывает кнопки экрана дня: навигацию, посты, список записей.
package day

import (
	"context"
	"strings"

	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleNavigate листает дни и возвращает к сегодняшнему
func HandleNavigate(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSignedIn(ctx, s, callback, h, func(hc *common.HandlerContext) {
		b := hc.Workspace.Board
		hc.Workspace.SetView(workspace.ViewBoard, "")

		var err error
		switch callback.Data {
		case common.NavPrev:
			err = b.ShiftDate(-1)
		case common.NavNext:
			err = b.ShiftDate(1)
		case common.NavToday:
			b.Today()
		case common.NavRefresh:
			hc.Workspace.Refresh()
		}
		if err != nil {
			common.HandleError(hc, err, "navigate")
			return
		}

		hc.Answer("")
	})
}

// HandleOpenStation показывает ячейки поста
func HandleOpenStation(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	stationID := strings.TrimPrefix(callback.Data, common.OpenStation)

	common.WithSignedIn(ctx, s, callback, h, func(hc *common.HandlerContext) {
		if _, ok := hc.Workspace.Board.Topology().Station(stationID); !ok {
			common.HandleError(hc, common.ErrInvalidFormat, "open_station")
			return
		}
		hc.Show(workspace.ViewSlots, stationID)
		hc.Answer("")
	})
}

// HandleList показывает список записей дня
func HandleList(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSignedIn(ctx, s, callback, h, func(hc *common.HandlerContext) {
		hc.Show(workspace.ViewBookings, "")
		hc.Answer("")
	})
}

// HandleBack возвращает к картинке дня
func HandleBack(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithWorkspace(ctx, s, callback, h, func(hc *common.HandlerContext) {
		hc.Show(workspace.ViewBoard, "")
		hc.Answer("")
	})
}

// HandleLogout выходит из аккаунта в этом чате
func HandleLogout(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithWorkspace(ctx, s, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		if err := hc.Workspace.Session.Logout(ctx); err != nil {
			common.HandleError(hc, err, "logout")
			return
		}
		h.Logger.Info("Signed out", zap.Int64("chat_id", hc.ChatID))
		hc.Answer("👋 Вы вышли")
	})
}

// HandleAuth начинает вход или регистрацию с кнопки
func HandleAuth(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, s, callback, h)
	p := common.Prompter{Sender: s, StateManager: h.StateManager, Logger: h.Logger}

	if callback.Data == common.AuthRegister {
		p.StartRegister(ctx, hc.ChatID)
	} else {
		p.StartLogin(ctx, hc.ChatID)
	}
	hc.Answer("")
}
