package modal

import (
	"context"
	"errors"

	"github.com/Freeeeeet/service_plan/internal/board"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/Freeeeeet/service_plan/internal/workflow"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// withOpenEditor пропускает нажатие только при открытой форме
func withOpenEditor(
	ctx context.Context,
	s callbacktypes.Sender,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*common.HandlerContext, board.EditorState),
) {
	common.WithSignedIn(ctx, s, callback, h, func(hc *common.HandlerContext) {
		st := hc.Workspace.Board.Editor()
		if st.Mode == workflow.ModeClosed {
			hc.Show(workspace.ViewBoard, "")
			common.HandleError(hc, workflow.ErrClosed, "modal")
			return
		}
		handler(hc, st)
	})
}

// HandleSave сохраняет черновик. При ошибке форма остаётся открытой.
func HandleSave(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withOpenEditor(ctx, s, callback, h, func(hc *common.HandlerContext, _ board.EditorState) {
		hc.Workspace.SetView(workspace.ViewModal, "")

		if err := hc.Workspace.Board.Save(ctx); err != nil {
			if errors.Is(err, workflow.ErrClosed) || errors.Is(err, session.ErrNotSignedIn) {
				common.HandleError(hc, err, "save")
				return
			}
			// уведомление уже показано в форме
			hc.Answer("❌ Не сохранено")
			return
		}

		h.Logger.Info("Booking saved from chat", zap.Int64("chat_id", hc.ChatID))
		hc.Workspace.SetView(workspace.ViewBoard, "")
		hc.Answer("✅ Сохранено")
	})
}

// HandleCancel закрывает форму без сохранения
func HandleCancel(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSignedIn(ctx, s, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		hc.Workspace.SetView(workspace.ViewBoard, "")
		hc.Workspace.Board.Cancel()
		hc.Answer("")
	})
}

// HandleDelete первое нажатие просит подтверждения, второе удаляет
func HandleDelete(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withOpenEditor(ctx, s, callback, h, func(hc *common.HandlerContext, _ board.EditorState) {
		deleted, err := hc.Workspace.Board.Delete(ctx)
		if err != nil {
			if errors.Is(err, workflow.ErrNotEditing) || errors.Is(err, session.ErrNotSignedIn) {
				common.HandleError(hc, err, "delete")
				return
			}
			hc.Answer("❌ Не удалено")
			return
		}

		if !deleted {
			hc.Answer("Нажмите ещё раз для удаления")
			return
		}

		hc.Workspace.SetView(workspace.ViewBoard, "")
		hc.Answer("🗑 Запись удалена")
	})
}
