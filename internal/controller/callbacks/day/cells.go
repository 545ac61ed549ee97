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

// HandleOpenCell открывает форму новой записи в пустой ячейке
func HandleOpenCell(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	stationID, start, err := common.ParseCell(callback.Data)
	if err != nil {
		h.Logger.Warn("Bad cell callback", zap.String("data", callback.Data), zap.Error(err))
		common.AnswerCallbackAlert(ctx, s, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithSignedIn(ctx, s, callback, h, func(hc *common.HandlerContext) {
		hc.Workspace.SetView(workspace.ViewModal, "")
		if err := hc.Workspace.Board.SelectCell(stationID, start); err != nil {
			hc.Show(workspace.ViewBoard, "")
			common.HandleError(hc, err, "select_cell")
			return
		}
		hc.Answer("")
	})
}

// HandleOpenBooking открывает форму существующей записи
func HandleOpenBooking(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	id := strings.TrimPrefix(callback.Data, common.OpenBooking)

	common.WithSignedIn(ctx, s, callback, h, func(hc *common.HandlerContext) {
		hc.Workspace.SetView(workspace.ViewModal, "")
		if err := hc.Workspace.Board.SelectBooking(id); err != nil {
			hc.Show(workspace.ViewBoard, "")
			common.HandleError(hc, err, "select_booking")
			return
		}
		hc.Answer("")
	})
}
