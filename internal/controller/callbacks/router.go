package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/day"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/modal"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	switch {
	case data == common.Noop:
		common.AnswerCallback(ctx, s, callback.ID, "")

	// ===== Auth =====
	case data == common.AuthLogin, data == common.AuthRegister:
		day.HandleAuth(ctx, s, callback, h)
	case data == common.Logout:
		day.HandleLogout(ctx, s, callback, h)

	// ===== Day board =====
	case strings.HasPrefix(data, "nav:"):
		day.HandleNavigate(ctx, s, callback, h)
	case strings.HasPrefix(data, common.OpenStation):
		day.HandleOpenStation(ctx, s, callback, h)
	case strings.HasPrefix(data, common.OpenCell):
		day.HandleOpenCell(ctx, s, callback, h)
	case strings.HasPrefix(data, common.OpenBooking):
		day.HandleOpenBooking(ctx, s, callback, h)
	case data == common.ListDay:
		day.HandleList(ctx, s, callback, h)
	case data == common.BackToBoard:
		day.HandleBack(ctx, s, callback, h)

	// ===== Booking modal =====
	case strings.HasPrefix(data, common.ModalField):
		modal.HandleField(ctx, s, callback, h)
	case isPicker(data):
		modal.HandleOpenPicker(ctx, s, callback, h)
	case isPick(data):
		modal.HandlePick(ctx, s, callback, h)
	case data == common.ModalSave:
		modal.HandleSave(ctx, s, callback, h)
	case data == common.ModalCancel:
		modal.HandleCancel(ctx, s, callback, h)
	case data == common.ModalDelete:
		modal.HandleDelete(ctx, s, callback, h)
	case data == common.ModalBack:
		modal.HandleBack(ctx, s, callback, h)

	// ===== Unknown Callback =====
	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, s, callback.ID, "❌ Неизвестная команда")
	}
}

var pickers = []string{common.ModalDuration, common.ModalStatus, common.ModalStation, common.ModalTime}

func isPicker(data string) bool {
	for _, p := range pickers {
		if data == p {
			return true
		}
	}
	return false
}

func isPick(data string) bool {
	for _, p := range pickers {
		if _, ok := common.ParsePick(data, p); ok {
			return true
		}
	}
	return false
}
