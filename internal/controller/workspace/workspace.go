// Package workspace держит по одному рабочему месту на чат: сессию,
// доску и то, какой экран сейчас показан.
package workspace

import (
	"sync"
	"time"

	"github.com/Freeeeeet/service_plan/internal/board"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/Freeeeeet/service_plan/internal/watch"
	"golang.org/x/time/rate"
)

// View экран, который видит пользователь
type View int

const (
	ViewBoard    View = iota // картинка дня
	ViewSlots                // выбор ячейки на посту
	ViewBookings             // список записей дня
	ViewModal                // форма записи
	ViewDuration             // выбор длительности
	ViewStatus               // выбор статуса
	ViewStation              // выбор поста в форме
	ViewTime                 // выбор времени в форме
)

// ModalView экран формы или её выбора
func (v View) ModalView() bool {
	return v >= ViewModal
}

// Screen сообщение бота, в котором рисуется текущий экран
type Screen struct {
	MessageID int
	Photo     bool
}

// Workspace состояние одного чата
type Workspace struct {
	ChatID  int64
	Board   *board.Board
	Session *session.Session

	limiter *rate.Limiter
	refresh *watch.Hub[uint64]

	mu       sync.Mutex
	sub      *watch.Subscription
	closed   bool
	view     View
	viewArg  string
	screen   Screen
	fresh    bool
	notices  []string
	seq      uint64
	lastSeen time.Time
}

// View текущий экран и его аргумент (например, пост для выбора ячейки)
func (w *Workspace) View() (View, string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view, w.viewArg
}

// SetView переключает экран
func (w *Workspace) SetView(v View, arg string) {
	w.mu.Lock()
	w.view = v
	w.viewArg = arg
	w.mu.Unlock()
}

// Screen сообщение текущего экрана
func (w *Workspace) Screen() Screen {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.screen
}

// SetScreen запоминает сообщение текущего экрана
func (w *Workspace) SetScreen(s Screen) {
	w.mu.Lock()
	w.screen = s
	w.mu.Unlock()
}

// RequestFresh следующий экран будет отправлен новым сообщением внизу чата
func (w *Workspace) RequestFresh() {
	w.mu.Lock()
	w.fresh = true
	w.mu.Unlock()
}

// TakeFresh возвращает и сбрасывает флаг RequestFresh
func (w *Workspace) TakeFresh() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	fresh := w.fresh
	w.fresh = false
	return fresh
}

// AddNotice добавляет уведомление к следующей отрисовке
func (w *Workspace) AddNotice(text string) {
	w.mu.Lock()
	w.notices = append(w.notices, text)
	w.mu.Unlock()
}

// TakeNotices забирает накопленные уведомления
func (w *Workspace) TakeNotices() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	notices := w.notices
	w.notices = nil
	return notices
}

// AllowLogin ограничивает частоту попыток входа в чате
func (w *Workspace) AllowLogin() bool {
	return w.limiter.Allow()
}

// Refresh просит перерисовать экран. Частые запросы схлопываются.
func (w *Workspace) Refresh() {
	w.mu.Lock()
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	w.refresh.Publish(seq)
}

// Touch отмечает активность в чате
func (w *Workspace) Touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

// LastSeen время последней активности
func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) close() {
	w.mu.Lock()
	w.closed = true
	sub := w.sub
	w.sub = nil
	w.mu.Unlock()

	sub.Cancel()
	w.refresh.Close()
	w.Board.Close()
	w.Session.Close()
}
