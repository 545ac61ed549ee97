// Package modal обрабатывает кнопки формы записи.
package modal

import (
	"context"
	"fmt"
	"html"
	"strconv"

	"github.com/Freeeeeet/service_plan/internal/board"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common"
	"github.com/Freeeeeet/service_plan/internal/controller/state"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/workflow"
	"github.com/go-telegram/bot/models"
)

// HandleField просит ввести значение текстового поля
func HandleField(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	field, err := common.ParseField(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, s, callback.ID, common.ErrorMessage(err))
		return
	}

	withOpenEditor(ctx, s, callback, h, func(hc *common.HandlerContext, st board.EditorState) {
		current := workflow.FieldValue(st.Draft, field)

		text := fmt.Sprintf("%s\n\nОтправьте новое значение.", common.FieldTitle(field))
		if current != "" {
			text += fmt.Sprintf("\nСейчас: <code>%s</code>\nОтправьте «-», чтобы очистить.", html.EscapeString(current))
		}
		text += "\n\nДля отмены используйте /cancel"

		p := common.Prompter{Sender: s, StateManager: h.StateManager, Logger: h.Logger}
		p.DropPrompt(ctx, hc.ChatID)
		h.StateManager.Begin(hc.ChatID, state.StateFieldInput)
		h.StateManager.SetData(hc.ChatID, state.KeyField, string(field))
		p.Ask(ctx, hc.ChatID, text)

		hc.Answer("")
	})
}

// HandleOpenPicker открывает выбор длительности, статуса, поста или времени
func HandleOpenPicker(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	view, ok := pickerViews[callback.Data]
	if !ok {
		common.AnswerCallbackAlert(ctx, s, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	withOpenEditor(ctx, s, callback, h, func(hc *common.HandlerContext, _ board.EditorState) {
		hc.Show(view, "")
		hc.Answer("")
	})
}

var pickerViews = map[string]workspace.View{
	common.ModalDuration: workspace.ViewDuration,
	common.ModalStatus:   workspace.ViewStatus,
	common.ModalStation:  workspace.ViewStation,
	common.ModalTime:     workspace.ViewTime,
}

// HandlePick применяет выбранное в пикере значение и возвращает к форме
func HandlePick(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	apply, err := parsePick(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, s, callback.ID, common.ErrorMessage(err))
		return
	}

	withOpenEditor(ctx, s, callback, h, func(hc *common.HandlerContext, _ board.EditorState) {
		hc.Workspace.SetView(workspace.ViewModal, "")
		if err := hc.Workspace.Board.Edit(apply); err != nil {
			common.HandleError(hc, err, "pick")
			hc.Workspace.Refresh()
			return
		}
		hc.Answer("")
	})
}

// parsePick превращает m:<picker>:<value> в изменение черновика
func parsePick(data string) (func(*workflow.Editor) error, error) {
	if v, ok := common.ParsePick(data, common.ModalDuration); ok {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return nil, common.ErrInvalidFormat
		}
		return func(e *workflow.Editor) error { return e.SetDuration(minutes) }, nil
	}
	if v, ok := common.ParsePick(data, common.ModalStation); ok {
		return func(e *workflow.Editor) error { return e.SetStation(v) }, nil
	}
	if v, ok := common.ParsePick(data, common.ModalStatus); ok {
		return func(e *workflow.Editor) error { return e.SetStatus(model.Status(v)) }, nil
	}
	if v, ok := common.ParsePick(data, common.ModalTime); ok {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return nil, common.ErrInvalidFormat
		}
		return func(e *workflow.Editor) error { return e.SetStart(model.TimeOfDay(minutes)) }, nil
	}
	return nil, common.ErrInvalidFormat
}

// HandleBack возвращает из пикера к форме
func HandleBack(ctx context.Context, s callbacktypes.Sender, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withOpenEditor(ctx, s, callback, h, func(hc *common.HandlerContext, _ board.EditorState) {
		hc.Show(workspace.ViewModal, "")
		hc.Answer("")
	})
}
