package common

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/service_plan/internal/controller/workspace"
	"github.com/Freeeeeet/service_plan/internal/workflow"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const boardFilename = "board.png"

// Screen готовый к отправке экран. Если Photo не пусто, Text идёт подписью.
type Screen struct {
	Text     string
	Photo    []byte
	Keyboard *models.InlineKeyboardMarkup
}

// BuildScreen собирает экран по текущему состоянию рабочего места
func BuildScreen(w *workspace.Workspace, now time.Time, notices []string) (Screen, error) {
	identity, ok := w.Board.Identity()
	if !ok {
		w.SetView(workspace.ViewBoard, "")
		return withNotices(BuildLoginScreen(), notices), nil
	}

	view, arg := w.View()
	if view.ModalView() && w.Board.Editor().Mode == workflow.ModeClosed {
		// форма закрылась (сохранение, удаление, смена личности)
		view, arg = workspace.ViewBoard, ""
		w.SetView(view, arg)
	}

	var (
		screen Screen
		err    error
	)
	switch view {
	case workspace.ViewSlots:
		screen = BuildSlotsScreen(w.Board, arg)
	case workspace.ViewBookings:
		screen = BuildBookingsScreen(w.Board)
	case workspace.ViewModal:
		screen = BuildModalScreen(w.Board)
	case workspace.ViewDuration:
		screen = BuildDurationPicker(w.Board)
	case workspace.ViewStatus:
		screen = BuildStatusPicker(w.Board)
	case workspace.ViewStation:
		screen = BuildStationPicker(w.Board)
	case workspace.ViewTime:
		screen = BuildTimePicker(w.Board)
	default:
		screen, err = BuildBoardScreen(w.Board, identity, now)
	}
	if err != nil {
		return Screen{}, err
	}

	return withNotices(screen, notices), nil
}

func withNotices(s Screen, notices []string) Screen {
	if len(notices) == 0 {
		return s
	}
	var sb strings.Builder
	sb.WriteString(s.Text)
	sb.WriteString("\n")
	for _, n := range notices {
		sb.WriteString("\n⚠️ ")
		sb.WriteString(html.EscapeString(n))
	}
	s.Text = sb.String()
	return s
}

// Draw показывает текущий экран рабочего места. Сообщение правится на месте,
// если вид совпадает (фото или текст), иначе старое удаляется и отправляется новое.
func Draw(ctx context.Context, s callbacktypes.Sender, w *workspace.Workspace, now time.Time, logger *zap.Logger) {
	notices := w.TakeNotices()

	screen, err := BuildScreen(w, now, notices)
	if err != nil {
		logger.Error("Failed to build screen", zap.Int64("chat_id", w.ChatID), zap.Error(err))
		return
	}

	prev := w.Screen()
	fresh := w.TakeFresh()
	photo := screen.Photo != nil

	if !fresh && prev.MessageID != 0 && prev.Photo == photo {
		err := editScreen(ctx, s, w.ChatID, prev.MessageID, screen)
		if err == nil || IsMessageNotModifiedError(err) {
			return
		}
		logger.Warn("Failed to edit screen, sending a new one",
			zap.Int64("chat_id", w.ChatID),
			zap.Int("message_id", prev.MessageID),
			zap.Error(err))
	}

	if prev.MessageID != 0 {
		if _, err := s.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: w.ChatID, MessageID: prev.MessageID}); err != nil {
			logger.Debug("Failed to delete previous screen", zap.Int64("chat_id", w.ChatID), zap.Error(err))
		}
	}

	msg, err := sendScreen(ctx, s, w.ChatID, screen)
	if err != nil {
		logger.Error("Failed to send screen", zap.Int64("chat_id", w.ChatID), zap.Error(err))
		w.SetScreen(workspace.Screen{})
		return
	}
	w.SetScreen(workspace.Screen{MessageID: msg.ID, Photo: photo})
}

func editScreen(ctx context.Context, s callbacktypes.Sender, chatID int64, messageID int, screen Screen) error {
	if screen.Photo != nil {
		_, err := s.EditMessageMedia(ctx, &bot.EditMessageMediaParams{
			ChatID:    chatID,
			MessageID: messageID,
			Media: &models.InputMediaPhoto{
				Media:           "attach://" + boardFilename,
				Caption:         screen.Text,
				ParseMode:       models.ParseModeHTML,
				MediaAttachment: bytes.NewReader(screen.Photo),
			},
			ReplyMarkup: screen.Keyboard,
		})
		return err
	}

	_, err := s.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        screen.Text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: screen.Keyboard,
	})
	return err
}

func sendScreen(ctx context.Context, s callbacktypes.Sender, chatID int64, screen Screen) (*models.Message, error) {
	if screen.Photo != nil {
		msg, err := s.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID: chatID,
			Photo: &models.InputFileUpload{
				Filename: boardFilename,
				Data:     bytes.NewReader(screen.Photo),
			},
			Caption:     screen.Text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: screen.Keyboard,
		})
		if err != nil {
			return nil, fmt.Errorf("send board photo: %w", err)
		}
		return msg, nil
	}

	msg, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        screen.Text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: screen.Keyboard,
	})
	if err != nil {
		return nil, fmt.Errorf("send screen: %w", err)
	}
	return msg, nil
}
