package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Sent отправленное или изменённое сообщение
type Sent struct {
	ChatID    any
	MessageID int
	Text      string
	Photo     bool
	Keyboard  *models.InlineKeyboardMarkup
}

// Buttons callback data всех кнопок сообщения по порядку
func (s Sent) Buttons() []string {
	if s.Keyboard == nil {
		return nil
	}
	var out []string
	for _, row := range s.Keyboard.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.CallbackData)
		}
	}
	return out
}

// Labels подписи всех кнопок сообщения по порядку
func (s Sent) Labels() []string {
	if s.Keyboard == nil {
		return nil
	}
	var out []string
	for _, row := range s.Keyboard.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.Text)
		}
	}
	return out
}

// FakeSender записывает вызовы Telegram API вместо отправки
type FakeSender struct {
	mu      sync.Mutex
	nextID  int
	sent    []Sent
	edited  []Sent
	deleted []int
	answers []bot.AnswerCallbackQueryParams

	// FailEdits заставляет правки сообщений возвращать ошибку
	FailEdits bool
}

// NewFakeSender создаёт пустой FakeSender
func NewFakeSender() *FakeSender {
	return &FakeSender{nextID: 100}
}

func (f *FakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	return f.record(Sent{ChatID: params.ChatID, Text: params.Text, Keyboard: inline(params.ReplyMarkup)}), nil
}

func (f *FakeSender) SendPhoto(_ context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	return f.record(Sent{ChatID: params.ChatID, Text: params.Caption, Photo: true, Keyboard: inline(params.ReplyMarkup)}), nil
}

func (f *FakeSender) EditMessageText(_ context.Context, params *bot.EditMessageTextParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailEdits {
		return nil, errors.New("bad request: message to edit not found")
	}
	f.edited = append(f.edited, Sent{ChatID: params.ChatID, MessageID: params.MessageID, Text: params.Text, Keyboard: inline(params.ReplyMarkup)})
	return &models.Message{ID: params.MessageID}, nil
}

func (f *FakeSender) EditMessageMedia(_ context.Context, params *bot.EditMessageMediaParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailEdits {
		return nil, errors.New("bad request: message to edit not found")
	}
	caption := ""
	if photo, ok := params.Media.(*models.InputMediaPhoto); ok {
		caption = photo.Caption
	}
	f.edited = append(f.edited, Sent{ChatID: params.ChatID, MessageID: params.MessageID, Text: caption, Photo: true, Keyboard: inline(params.ReplyMarkup)})
	return &models.Message{ID: params.MessageID}, nil
}

func (f *FakeSender) DeleteMessage(_ context.Context, params *bot.DeleteMessageParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, params.MessageID)
	return true, nil
}

func (f *FakeSender) AnswerCallbackQuery(_ context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, *params)
	return true, nil
}

// Sent отправленные сообщения
func (f *FakeSender) Sent() []Sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Sent(nil), f.sent...)
}

// LastSent последнее отправленное сообщение
func (f *FakeSender) LastSent() (Sent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return Sent{}, false
	}
	return f.sent[len(f.sent)-1], true
}

// Edited изменённые сообщения
func (f *FakeSender) Edited() []Sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Sent(nil), f.edited...)
}

// Deleted ID удалённых сообщений
func (f *FakeSender) Deleted() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.deleted...)
}

// Answers ответы на нажатия кнопок
func (f *FakeSender) Answers() []bot.AnswerCallbackQueryParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bot.AnswerCallbackQueryParams(nil), f.answers...)
}

func (f *FakeSender) record(s Sent) *models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.MessageID = f.nextID
	f.sent = append(f.sent, s)
	return &models.Message{ID: s.MessageID}
}

func inline(markup models.ReplyMarkup) *models.InlineKeyboardMarkup {
	kb, _ := markup.(*models.InlineKeyboardMarkup)
	return kb
}
