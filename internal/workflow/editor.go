// Package workflow содержит локальный автомат модального окна записи:
// создание в пустой ячейке, редактирование существующей записи и
// двухшаговое удаление.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/service_plan/internal/clock"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/topology"
)

var (
	ErrClosed          = errors.New("editor is closed")
	ErrNotEditing      = errors.New("no existing booking is being edited")
	ErrUnknownStation  = errors.New("unknown station")
	ErrOutsideWindow   = errors.New("start time is not a slot of the working window")
	ErrInvalidDuration = errors.New("duration is not one of the allowed values")
	ErrInvalidStatus   = errors.New("unknown status")
	ErrUnknownField    = errors.New("unknown text field")
)

// DefaultStart время начала в форме, открытой без выбранной ячейки
var DefaultStart = model.NewTimeOfDay(9, 0)

// Mode состояние модального окна
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreating
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "closed"
	}
}

// Field свободное текстовое поле формы
type Field string

const (
	FieldCarModel    Field = "car_model"
	FieldVIN         Field = "vin"
	FieldDescription Field = "description"
	FieldClientName  Field = "client_name"
	FieldClientPhone Field = "client_phone"
)

// TextFields текстовые поля в порядке отображения
func TextFields() []Field {
	return []Field{FieldCarModel, FieldVIN, FieldClientName, FieldClientPhone, FieldDescription}
}

// RequestKind вид запроса на запись в хранилище
type RequestKind int

const (
	RequestCreate RequestKind = iota
	RequestUpdate
)

// Request запрос, который формирует Save
type Request struct {
	Kind      RequestKind
	BookingID string // только для RequestUpdate
	Form      model.BookingForm
}

// DeleteDecision результат нажатия кнопки удаления
type DeleteDecision struct {
	Confirmed bool
	BookingID string
}

// Option настройка Editor
type Option func(*options)

type options struct {
	clock        clock.Clock
	deleteWindow time.Duration
}

// WithClock подменяет часы guard'а удаления
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithDeleteWindow задаёт окно подтверждения удаления
func WithDeleteWindow(d time.Duration) Option {
	return func(o *options) { o.deleteWindow = d }
}

// Editor автомат модального окна. Не потокобезопасен: вызовы сериализует владелец.
type Editor struct {
	topo     topology.Topology
	mode     Mode
	original model.Booking
	draft    model.BookingForm
	guard    *DeleteGuard
}

// NewEditor создаёт закрытый редактор
func NewEditor(topo topology.Topology, opts ...Option) *Editor {
	o := options{clock: clock.NewSystem(), deleteWindow: DefaultDeleteWindow}
	for _, opt := range opts {
		opt(&o)
	}
	return &Editor{
		topo:  topo,
		guard: NewDeleteGuard(o.clock, o.deleteWindow),
	}
}

// DefaultForm черновик новой записи
func DefaultForm(topo topology.Topology) model.BookingForm {
	form := model.BookingForm{
		StartTime:       DefaultStart,
		DurationMinutes: topology.DefaultDuration,
		Status:          model.StatusReady,
	}
	if len(topo.Stations) > 0 {
		form.StationID = topo.Stations[0].ID
	}
	return form
}

// Mode текущее состояние
func (e *Editor) Mode() Mode { return e.mode }

// Draft копия черновика
func (e *Editor) Draft() model.BookingForm { return e.draft }

// Original редактируемая запись, если окно открыто на существующей
func (e *Editor) Original() (model.Booking, bool) {
	if e.mode != ModeEditing {
		return model.Booking{}, false
	}
	return e.original, true
}

// Guard guard удаления (для подписки на сброс)
func (e *Editor) Guard() *DeleteGuard { return e.guard }

// OpenCreate открывает окно новой записи в ячейке stationID/start
func (e *Editor) OpenCreate(stationID string, start model.TimeOfDay) error {
	if _, ok := e.topo.Station(stationID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStation, stationID)
	}
	if !e.topo.ValidStart(start) {
		return fmt.Errorf("%w: %s", ErrOutsideWindow, start)
	}

	e.guard.Reset()
	e.mode = ModeCreating
	e.original = model.Booking{}
	e.draft = DefaultForm(e.topo)
	e.draft.StationID = stationID
	e.draft.StartTime = start
	return nil
}

// OpenEdit открывает окно существующей записи, поля берутся из неё
func (e *Editor) OpenEdit(b model.Booking) {
	e.guard.Reset()
	e.mode = ModeEditing
	e.original = b
	e.draft = b.Form()
}

// Close закрывает окно и выбрасывает черновик
func (e *Editor) Close() {
	e.guard.Reset()
	e.mode = ModeClosed
	e.original = model.Booking{}
	e.draft = model.BookingForm{}
}

// SetStation меняет пост
func (e *Editor) SetStation(stationID string) error {
	if err := e.requireOpen(); err != nil {
		return err
	}
	if _, ok := e.topo.Station(stationID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStation, stationID)
	}
	e.draft.StationID = stationID
	return nil
}

// SetStart меняет время начала
func (e *Editor) SetStart(start model.TimeOfDay) error {
	if err := e.requireOpen(); err != nil {
		return err
	}
	if !e.topo.ValidStart(start) {
		return fmt.Errorf("%w: %s", ErrOutsideWindow, start)
	}
	e.draft.StartTime = start
	return nil
}

// SetDuration меняет длительность
func (e *Editor) SetDuration(minutes int) error {
	if err := e.requireOpen(); err != nil {
		return err
	}
	if !topology.ValidDuration(minutes) {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, minutes)
	}
	e.draft.DurationMinutes = minutes
	return nil
}

// SetStatus меняет статус
func (e *Editor) SetStatus(status model.Status) error {
	if err := e.requireOpen(); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	e.draft.Status = status
	return nil
}

// SetText присваивает значение свободному текстовому полю
func (e *Editor) SetText(field Field, value string) error {
	if err := e.requireOpen(); err != nil {
		return err
	}

	switch field {
	case FieldCarModel:
		e.draft.CarModel = value
	case FieldVIN:
		e.draft.VIN = value
	case FieldDescription:
		e.draft.Description = value
	case FieldClientName:
		e.draft.ClientName = value
	case FieldClientPhone:
		e.draft.ClientPhone = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Save формирует запрос на запись. Окно остаётся открытым до Close.
func (e *Editor) Save() (Request, error) {
	switch e.mode {
	case ModeCreating:
		return Request{Kind: RequestCreate, Form: e.draft}, nil
	case ModeEditing:
		return Request{Kind: RequestUpdate, BookingID: e.original.ID, Form: e.draft}, nil
	default:
		return Request{}, ErrClosed
	}
}

// ClickDelete обрабатывает нажатие «Удалить»
func (e *Editor) ClickDelete() (DeleteDecision, error) {
	if e.mode != ModeEditing {
		return DeleteDecision{}, ErrNotEditing
	}
	return DeleteDecision{
		Confirmed: e.guard.Click(),
		BookingID: e.original.ID,
	}, nil
}

// DeleteArmed ждёт ли кнопка удаления подтверждения
func (e *Editor) DeleteArmed() bool {
	return e.mode == ModeEditing && e.guard.Armed()
}

// FieldValue текущее значение текстового поля
func FieldValue(form model.BookingForm, field Field) string {
	switch field {
	case FieldCarModel:
		return form.CarModel
	case FieldVIN:
		return form.VIN
	case FieldDescription:
		return form.Description
	case FieldClientName:
		return form.ClientName
	case FieldClientPhone:
		return form.ClientPhone
	default:
		return ""
	}
}

func (e *Editor) requireOpen() error {
	if e.mode == ModeClosed {
		return ErrClosed
	}
	return nil
}
