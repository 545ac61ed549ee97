// Package board владеет состоянием одного клиента: личностью, снимком
// записей, выбранной датой и модальным окном. При смене личности
// подписка на записи пересоздаётся, данные прошлой личности не сохраняются.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/service_plan/internal/clock"
	"github.com/Freeeeeet/service_plan/internal/grid"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/Freeeeeet/service_plan/internal/store"
	"github.com/Freeeeeet/service_plan/internal/topology"
	"github.com/Freeeeeet/service_plan/internal/watch"
	"github.com/Freeeeeet/service_plan/internal/workflow"
	"go.uber.org/zap"
)

// ErrBookingGone выбранная запись отсутствует в текущем снимке
var ErrBookingGone = errors.New("booking is not in the current snapshot")

// NoticeLevel важность уведомления
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice короткое сообщение для пользователя
type Notice struct {
	Level NoticeLevel
	Text  string
	Err   error
}

// Notifier получает уведомления доски
type Notifier func(Notice)

// EditorState копия состояния модального окна
type EditorState struct {
	Mode        workflow.Mode
	Draft       model.BookingForm
	Original    model.Booking // только в режиме редактирования
	DeleteArmed bool
}

// Option настройка Board
type Option func(*Board)

// WithClock часы для "сегодня" и окна удаления
func WithClock(c clock.Clock) Option {
	return func(b *Board) { b.clock = c }
}

// WithLocation часовой пояс, в котором считается "сегодня"
func WithLocation(loc *time.Location) Option {
	return func(b *Board) { b.loc = loc }
}

// WithLogger логгер доски
func WithLogger(l *zap.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// WithNotifier получатель уведомлений
func WithNotifier(n Notifier) Option {
	return func(b *Board) { b.notify = n }
}

// WithDeleteWindow окно подтверждения удаления
func WithDeleteWindow(d time.Duration) Option {
	return func(b *Board) { b.deleteWindow = d }
}

// Board состояние клиента. Все методы потокобезопасны.
type Board struct {
	store   store.Store
	session *session.Session
	topo    topology.Topology

	clock        clock.Clock
	loc          *time.Location
	logger       *zap.Logger
	notify       Notifier
	deleteWindow time.Duration

	mu       sync.Mutex
	ctx      context.Context
	identity *session.Identity
	bookings []model.Booking
	date     string
	editor   *workflow.Editor
	editSeq  uint64 // растёт при каждом открытии и закрытии окна
	gen      uint64
	storeSub store.Subscription
	identSub *watch.Subscription
	closed   bool

	changeMu sync.Mutex
	onChange []func()
}

// New создаёт доску. Данные появятся после Start и входа.
func New(st store.Store, sess *session.Session, topo topology.Topology, opts ...Option) *Board {
	b := &Board{
		store:        st,
		session:      sess,
		topo:         topo,
		clock:        clock.NewSystem(),
		loc:          time.Local,
		logger:       zap.NewNop(),
		deleteWindow: workflow.DefaultDeleteWindow,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.date = model.FormatDate(b.clock.Now().In(b.loc))
	b.editor = workflow.NewEditor(topo,
		workflow.WithClock(b.clock),
		workflow.WithDeleteWindow(b.deleteWindow),
	)
	b.editor.Guard().OnDisarm(b.changed)

	return b
}

// OnChange регистрирует колбэк на любое изменение состояния.
// Колбэки вызываются без блокировок доски.
func (b *Board) OnChange(fn func()) {
	b.changeMu.Lock()
	defer b.changeMu.Unlock()
	b.onChange = append(b.onChange, fn)
}

// Start подписывается на смену личности. ctx живёт до Close.
func (b *Board) Start(ctx context.Context) {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	sub := b.session.Subscribe(b.identityChanged)

	b.mu.Lock()
	b.identSub = sub
	b.mu.Unlock()
}

// Close отписывается от всего
func (b *Board) Close() {
	b.mu.Lock()
	b.closed = true
	b.gen++
	identSub, storeSub := b.identSub, b.storeSub
	b.identSub, b.storeSub = nil, nil
	b.closeEditorLocked()
	b.mu.Unlock()

	identSub.Cancel()
	if storeSub != nil {
		storeSub.Cancel()
	}
}

func (b *Board) identityChanged(identity *session.Identity) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if sameIdentity(b.identity, identity) {
		b.mu.Unlock()
		return
	}

	b.gen++
	gen := b.gen
	if b.storeSub != nil {
		b.storeSub.Cancel()
		b.storeSub = nil
	}
	b.bookings = nil
	b.identity = identity
	b.closeEditorLocked()

	if identity == nil {
		b.logger.Info("Board signed out")
		b.mu.Unlock()
		b.changed()
		return
	}

	ctx := b.ctx
	b.mu.Unlock()
	b.changed()

	sub, err := b.store.Subscribe(ctx,
		func(snapshot []model.Booking) { b.applySnapshot(gen, snapshot) },
		func(err error) { b.subscriptionFailed(gen, err) },
	)
	if err != nil {
		b.subscriptionFailed(gen, err)
		return
	}

	b.mu.Lock()
	if b.gen != gen {
		// личность сменилась, пока открывалась подписка
		b.mu.Unlock()
		sub.Cancel()
		return
	}
	b.storeSub = sub
	b.mu.Unlock()

	b.logger.Info("Board subscribed to bookings", zap.String("user_id", identity.ID))
}

func (b *Board) applySnapshot(gen uint64, snapshot []model.Booking) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.bookings = snapshot
	b.mu.Unlock()

	b.changed()
}

func (b *Board) subscriptionFailed(gen uint64, err error) {
	b.mu.Lock()
	stale := gen != b.gen
	b.mu.Unlock()
	if stale {
		return
	}

	b.logger.Warn("Booking subscription error", zap.Error(err))
	b.emit(Notice{Level: NoticeError, Text: "Нет связи с базой, показаны последние данные", Err: err})
}

// Identity текущая личность
func (b *Board) Identity() (session.Identity, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.identity == nil {
		return session.Identity{}, false
	}
	return *b.identity, true
}

// Bookings копия текущего снимка
func (b *Board) Bookings() []model.Booking {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Booking, len(b.bookings))
	copy(out, b.bookings)
	return out
}

// Booking ищет запись в текущем снимке
func (b *Board) Booking(id string) (model.Booking, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findLocked(id)
}

// Topology топология доски
func (b *Board) Topology() topology.Topology {
	return b.topo
}

// Date выбранный день
func (b *Board) Date() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.date
}

// SetDate выбирает день в формате YYYY-MM-DD
func (b *Board) SetDate(date string) error {
	t, err := model.ParseDate(date)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.date = model.FormatDate(t)
	b.mu.Unlock()

	b.changed()
	return nil
}

// ShiftDate сдвигает выбранный день на days
func (b *Board) ShiftDate(days int) error {
	b.mu.Lock()
	date, err := model.ShiftDate(b.date, days)
	if err == nil {
		b.date = date
	}
	b.mu.Unlock()

	if err != nil {
		return err
	}
	b.changed()
	return nil
}

// Today возвращает доску к сегодняшнему дню
func (b *Board) Today() {
	b.mu.Lock()
	b.date = model.FormatDate(b.clock.Now().In(b.loc))
	b.mu.Unlock()

	b.changed()
}

// Layout раскладка выбранного дня
func (b *Board) Layout() grid.Board {
	b.mu.Lock()
	defer b.mu.Unlock()
	return grid.Layout(b.date, b.topo, b.bookings)
}

// SelectCell открывает создание записи в пустой ячейке
func (b *Board) SelectCell(stationID string, start model.TimeOfDay) error {
	b.mu.Lock()
	if b.identity == nil {
		b.mu.Unlock()
		return session.ErrNotSignedIn
	}
	err := b.editor.OpenCreate(stationID, start)
	if err == nil {
		b.editSeq++
	}
	b.mu.Unlock()

	if err != nil {
		return err
	}
	b.changed()
	return nil
}

// SelectBooking открывает редактирование записи из снимка
func (b *Board) SelectBooking(id string) error {
	b.mu.Lock()
	if b.identity == nil {
		b.mu.Unlock()
		return session.ErrNotSignedIn
	}
	booking, ok := b.findLocked(id)
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrBookingGone, id)
	}
	b.editor.OpenEdit(booking)
	b.editSeq++
	b.mu.Unlock()

	b.changed()
	return nil
}

// Editor копия состояния модального окна
func (b *Board) Editor() EditorState {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := EditorState{
		Mode:        b.editor.Mode(),
		Draft:       b.editor.Draft(),
		DeleteArmed: b.editor.DeleteArmed(),
	}
	if original, ok := b.editor.Original(); ok {
		state.Original = original
	}
	return state
}

// Edit меняет черновик под блокировкой доски
func (b *Board) Edit(fn func(e *workflow.Editor) error) error {
	b.mu.Lock()
	err := fn(b.editor)
	b.mu.Unlock()

	if err != nil {
		return err
	}
	b.changed()
	return nil
}

// Cancel закрывает окно без сохранения
func (b *Board) Cancel() {
	b.mu.Lock()
	b.closeEditorLocked()
	b.mu.Unlock()

	b.changed()
}

// Save отправляет черновик в хранилище и ждёт ответа. При успехе окно
// закрывается, при ошибке остаётся открытым с тем же черновиком.
// Запись идёт без блокировки доски: хранилище может синхронно
// доставить снимок или ошибку подписки.
func (b *Board) Save(ctx context.Context) error {
	b.mu.Lock()
	if b.identity == nil {
		b.mu.Unlock()
		return session.ErrNotSignedIn
	}

	req, err := b.editor.Save()
	if err != nil {
		b.mu.Unlock()
		return err
	}
	date, masterID, seq := b.date, b.identity.ID, b.editSeq
	b.mu.Unlock()

	switch req.Kind {
	case workflow.RequestCreate:
		var id string
		id, err = b.store.Create(ctx, model.NewBooking{
			Form:     req.Form,
			Date:     date,
			MasterID: masterID,
		})
		if err == nil {
			b.logger.Info("Booking saved", zap.String("booking_id", id), zap.String("op", "create"))
		}
	case workflow.RequestUpdate:
		err = b.store.Update(ctx, req.BookingID, req.Form)
		if err == nil {
			b.logger.Info("Booking saved", zap.String("booking_id", req.BookingID), zap.String("op", "update"))
		}
	}

	if err != nil {
		b.logger.Error("Failed to save booking", zap.Error(err))
		b.emit(Notice{Level: NoticeError, Text: "Ошибка при сохранении. Проверьте интернет.", Err: err})
		b.changed()
		return err
	}

	b.finishWrite(seq)
	return nil
}

// Delete нажатие «Удалить». Первое нажатие только взводит подтверждение,
// второе в пределах окна удаляет. Возвращает true, если запись удалена.
func (b *Board) Delete(ctx context.Context) (bool, error) {
	b.mu.Lock()
	if b.identity == nil {
		b.mu.Unlock()
		return false, session.ErrNotSignedIn
	}

	decision, err := b.editor.ClickDelete()
	seq := b.editSeq
	b.mu.Unlock()

	if err != nil {
		return false, err
	}
	if !decision.Confirmed {
		b.changed()
		return false, nil
	}

	if err := b.store.Delete(ctx, decision.BookingID); err != nil {
		b.logger.Error("Failed to delete booking", zap.String("booking_id", decision.BookingID), zap.Error(err))
		b.emit(Notice{Level: NoticeError, Text: "Ошибка при удалении. Проверьте интернет.", Err: err})
		b.changed()
		return false, err
	}

	b.logger.Info("Booking deleted", zap.String("booking_id", decision.BookingID))
	b.finishWrite(seq)

	return true, nil
}

// finishWrite закрывает окно после успешной записи, если пока шла
// запись его не закрыли и не открыли заново
func (b *Board) finishWrite(seq uint64) {
	b.mu.Lock()
	if b.editSeq == seq {
		b.closeEditorLocked()
	}
	b.mu.Unlock()

	b.changed()
}

func (b *Board) closeEditorLocked() {
	b.editor.Close()
	b.editSeq++
}

func (b *Board) findLocked(id string) (model.Booking, bool) {
	for _, booking := range b.bookings {
		if booking.ID == id {
			return booking, true
		}
	}
	return model.Booking{}, false
}

func (b *Board) changed() {
	b.changeMu.Lock()
	handlers := append([]func(){}, b.onChange...)
	b.changeMu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

func (b *Board) emit(n Notice) {
	if b.notify != nil {
		b.notify(n)
	}
}

func sameIdentity(a, c *session.Identity) bool {
	if a == nil || c == nil {
		return a == nil && c == nil
	}
	return a.ID == c.ID
}
