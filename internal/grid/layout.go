// Package grid раскладывает записи дня по колонкам постов.
//
// Позиции считаются долями высоты смены: Top это отступ от начала смены,
// Height это длительность. Пересечения не разрешаются: блоки одного поста
// кладутся друг на друга в порядке поступления из снимка.
package grid

import (
	"math"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/topology"
)

// compactFactor блок ниже 1.5 слота показывается одной строкой
const compactFactor = 1.5

// Block позиционированная запись
type Block struct {
	Booking model.Booking
	Top     float64 // доля от высоты смены
	Height  float64 // доля от высоты смены
	Compact bool
	Clipped bool // запись выходит за рабочие часы
	Layer   int  // порядок наложения, больший слой рисуется выше
}

// TopPercent отступ в процентах
func (b Block) TopPercent() float64 { return b.Top * 100 }

// HeightPercent высота в процентах
func (b Block) HeightPercent() float64 { return b.Height * 100 }

// Bottom нижняя граница блока
func (b Block) Bottom() float64 { return b.Top + b.Height }

// VisibleSpan видимая часть блока, обрезанная по границам смены
func (b Block) VisibleSpan() (top, bottom float64) {
	top = clamp01(b.Top)
	bottom = clamp01(b.Top + b.Height)
	if bottom < top {
		bottom = top
	}
	return top, bottom
}

// Column колонка одного поста
type Column struct {
	Station model.Station
	Blocks  []Block
}

// Board раскладка дня
type Board struct {
	Date    string
	Columns []Column
	// Unplaced записи дня, чей пост отсутствует в топологии
	Unplaced []model.Booking
}

// Column возвращает колонку поста
func (b Board) Column(stationID string) (Column, bool) {
	for _, c := range b.Columns {
		if c.Station.ID == stationID {
			return c, true
		}
	}
	return Column{}, false
}

// BlockCount количество блоков на доске
func (b Board) BlockCount() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Blocks)
	}
	return n
}

// Layout раскладывает записи date по колонкам topo.
// Функция чистая: одинаковые входы дают одинаковый результат.
func Layout(date string, topo topology.Topology, bookings []model.Booking) Board {
	board := Board{
		Date:    date,
		Columns: make([]Column, len(topo.Stations)),
	}

	index := make(map[string]int, len(topo.Stations))
	for i, st := range topo.Stations {
		board.Columns[i] = Column{Station: st}
		index[st.ID] = i
	}

	total := float64(topo.TotalMinutes())
	compactBelow := compactFactor * float64(topo.SlotLength())
	windowStart := topo.StartMinutes()
	windowEnd := topo.EndMinutes()

	for _, b := range bookings {
		if b.Date != date {
			continue
		}

		col, ok := index[b.StationID]
		if !ok {
			board.Unplaced = append(board.Unplaced, b)
			continue
		}

		offset := b.StartTime.Minutes() - windowStart
		block := Block{
			Booking: b,
			Top:     fraction(offset, total),
			Height:  fraction(b.DurationMinutes, total),
			Clipped: offset < 0 || b.StartTime.Minutes()+b.DurationMinutes > windowEnd,
			Layer:   len(board.Columns[col].Blocks),
		}
		block.Compact = float64(b.DurationMinutes) < compactBelow

		board.Columns[col].Blocks = append(board.Columns[col].Blocks, block)
	}

	return board
}

// fraction делит минуты на длину смены; при пустой смене возвращает 0
func fraction(minutes int, total float64) float64 {
	if total <= 0 {
		return 0
	}
	f := float64(minutes) / total
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
