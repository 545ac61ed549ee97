package topology

import (
	"github.com/Freeeeeet/service_plan/internal/model"
)

// DefaultSlotMinutes шаг сетки
const DefaultSlotMinutes = 30

// Durations допустимые длительности записи в минутах
var Durations = []int{30, 60, 90, 120, 150, 180, 240, 300, 360, 480}

// DefaultDuration длительность новой записи
const DefaultDuration = 60

// Window рабочие часы смены. EndHour это время закрытия (граница включена в сетку).
type Window struct {
	StartHour int
	EndHour   int
}

// Topology посты и часы работы сервиса
type Topology struct {
	Stations    []model.Station
	Window      Window
	SlotMinutes int
}

// Default возвращает посты и рабочие часы сервиса
func Default() Topology {
	return Topology{
		Stations: []model.Station{
			{ID: "lift-1", Name: "Подъемник 1", Kind: model.StationKindLift},
			{ID: "lift-2", Name: "Подъемник 2", Kind: model.StationKindLift},
			{ID: "lift-3", Name: "Подъемник 3", Kind: model.StationKindLift},
			{ID: "lift-4", Name: "Подъемник 4", Kind: model.StationKindLift},
			{ID: "pit-1", Name: "Яма 1 (Электрик)", Kind: model.StationKindPit},
			{ID: "pit-2", Name: "Яма 2", Kind: model.StationKindPit},
			{ID: "wash", Name: "Мойка / Развал", Kind: model.StationKindOther},
		},
		Window:      Window{StartHour: 8, EndHour: 19},
		SlotMinutes: DefaultSlotMinutes,
	}
}

// StartMinutes начало смены в минутах от полуночи
func (t Topology) StartMinutes() int {
	return t.Window.StartHour * 60
}

// EndMinutes конец смены в минутах от полуночи
func (t Topology) EndMinutes() int {
	return t.Window.EndHour * 60
}

// TotalMinutes длина смены
func (t Topology) TotalMinutes() int {
	return t.EndMinutes() - t.StartMinutes()
}

// Slots границы слотов от начала до конца смены включительно
func (t Topology) Slots() []model.TimeOfDay {
	step := t.slotMinutes()
	slots := make([]model.TimeOfDay, 0, t.TotalMinutes()/step+1)
	for m := t.StartMinutes(); m <= t.EndMinutes(); m += step {
		slots = append(slots, model.TimeOfDay(m))
	}
	return slots
}

// Cells начала ячеек сетки (без закрывающей границы)
func (t Topology) Cells() []model.TimeOfDay {
	slots := t.Slots()
	if len(slots) == 0 {
		return nil
	}
	return slots[:len(slots)-1]
}

// SlotFraction доля одного слота от высоты смены
func (t Topology) SlotFraction() float64 {
	total := t.TotalMinutes()
	if total <= 0 {
		return 0
	}
	return float64(t.slotMinutes()) / float64(total)
}

// Station ищет пост по ID
func (t Topology) Station(id string) (model.Station, bool) {
	for _, s := range t.Stations {
		if s.ID == id {
			return s, true
		}
	}
	return model.Station{}, false
}

// ValidStart проверяет что время совпадает с границей слота внутри смены
func (t Topology) ValidStart(start model.TimeOfDay) bool {
	for _, s := range t.Slots() {
		if s == start {
			return true
		}
	}
	return false
}

// ValidDuration проверяет что длительность из фиксированного списка
func ValidDuration(minutes int) bool {
	for _, d := range Durations {
		if d == minutes {
			return true
		}
	}
	return false
}

// SlotLength длина слота в минутах
func (t Topology) SlotLength() int {
	return t.slotMinutes()
}

func (t Topology) slotMinutes() int {
	if t.SlotMinutes <= 0 {
		return DefaultSlotMinutes
	}
	return t.SlotMinutes
}
