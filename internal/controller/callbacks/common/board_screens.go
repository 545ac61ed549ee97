package common

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/service_plan/internal/board"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/service_plan/internal/grid"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/render"
	"github.com/Freeeeeet/service_plan/internal/session"
	"github.com/go-telegram/bot/models"
)

const maxButtonText = 48

// BuildLoginScreen экран для чата без входа
func BuildLoginScreen() Screen {
	text := "🔧 <b>Планировщик постов автосервиса</b>\n\n" +
		"Чтобы видеть доску записей, войдите в аккаунт мастера.\n\n" +
		"/login - Войти\n" +
		"/register - Создать аккаунт"

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("🔑 Войти", AuthLogin),
			keyboard.Button("📝 Регистрация", AuthRegister),
		).
		Build()

	return Screen{Text: text, Keyboard: kb}
}

// BuildBoardScreen картинка дня с навигацией и кнопками постов
func BuildBoardScreen(b *board.Board, identity session.Identity, now time.Time) (Screen, error) {
	layout := b.Layout()
	topo := b.Topology()

	png, err := render.BoardImage(layout, topo, render.Options{
		Now:   now,
		Title: identity.DisplayName,
	})
	if err != nil {
		return Screen{}, fmt.Errorf("render board: %w", err)
	}

	count := layout.BlockCount() + len(layout.Unplaced)

	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 <b>%s</b> (%s)\n", html.EscapeString(identity.DisplayName), html.EscapeString(identity.LoginHandle))
	fmt.Fprintf(&sb, "📅 %s\n", formatting.FormatDayLong(layout.Date))
	fmt.Fprintf(&sb, "📋 %d %s", count, formatting.PluralizeBookings(count))
	if len(layout.Unplaced) > 0 {
		fmt.Fprintf(&sb, "\n❗ Вне сетки: %d (см. список)", len(layout.Unplaced))
	}

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("◀️", NavPrev),
			keyboard.Button("Сегодня", NavToday),
			keyboard.Button("▶️", NavNext),
		)

	stations := make([]models.InlineKeyboardButton, 0, len(topo.Stations))
	for _, st := range topo.Stations {
		stations = append(stations, keyboard.Button("➕ "+st.Name, OpenStation+st.ID))
	}
	kb.Grid(stations, 2)

	kb.Row(
		keyboard.Button(fmt.Sprintf("📋 Записи (%d)", count), ListDay),
		keyboard.Button("🔄 Обновить", NavRefresh),
	)
	kb.Row(keyboard.Button("🚪 Выйти", Logout))

	return Screen{Text: sb.String(), Photo: png, Keyboard: kb.Build()}, nil
}

// BuildSlotsScreen выбор ячейки на посту. Занятые ячейки открывают запись.
func BuildSlotsScreen(b *board.Board, stationID string) Screen {
	topo := b.Topology()
	layout := b.Layout()

	station, ok := topo.Station(stationID)
	if !ok {
		return Screen{
			Text:     "❌ Такого поста нет",
			Keyboard: keyboard.NewBuilder().Row(keyboard.Button("⬅️ К доске", BackToBoard)).Build(),
		}
	}

	var blocks []grid.Block
	if col, ok := layout.Column(stationID); ok {
		blocks = col.Blocks
	}

	cells := topo.Cells()
	buttons := make([]models.InlineKeyboardButton, 0, len(cells))
	free := 0
	for _, cell := range cells {
		if booking, busy := occupant(blocks, cell); busy {
			buttons = append(buttons, keyboard.Button("🔒 "+cell.String(), OpenBooking+booking.ID))
			continue
		}
		free++
		buttons = append(buttons, keyboard.Button(cell.String(), CellData(stationID, cell)))
	}

	text := fmt.Sprintf(
		"📍 <b>%s</b>\n📅 %s\n\nСвободных ячеек: %d из %d\nВыберите время начала новой записи, 🔒 откроет существующую.",
		html.EscapeString(station.Name),
		formatting.FormatDay(layout.Date),
		free,
		len(cells),
	)

	kb := keyboard.NewBuilder().
		Grid(buttons, 4).
		Row(keyboard.Button("⬅️ К доске", BackToBoard))

	return Screen{Text: text, Keyboard: kb.Build()}
}

// occupant запись, которая занимает ячейку cell
func occupant(blocks []grid.Block, cell model.TimeOfDay) (model.Booking, bool) {
	for _, block := range blocks {
		bk := block.Booking
		if bk.StartTime <= cell && cell < bk.EndTime() {
			return bk, true
		}
	}
	return model.Booking{}, false
}

// BuildBookingsScreen список записей дня
func BuildBookingsScreen(b *board.Board) Screen {
	topo := b.Topology()
	layout := b.Layout()

	type row struct {
		booking model.Booking
		station string
		order   int
	}

	var rows []row
	for i, col := range layout.Columns {
		for _, block := range col.Blocks {
			rows = append(rows, row{booking: block.Booking, station: col.Station.Name, order: i})
		}
	}
	for _, bk := range layout.Unplaced {
		rows = append(rows, row{booking: bk, station: "❗ " + bk.StationID, order: len(topo.Stations)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].booking.StartTime != rows[j].booking.StartTime {
			return rows[i].booking.StartTime < rows[j].booking.StartTime
		}
		return rows[i].order < rows[j].order
	})

	kb := keyboard.NewBuilder()

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 <b>Записи</b> · %s\n", formatting.FormatDay(layout.Date))
	if len(rows) == 0 {
		sb.WriteString("\nНа этот день записей нет.")
	}
	for _, r := range rows {
		bk := r.booking
		status := formatting.GetStatusDisplay(bk.Status)
		fmt.Fprintf(&sb, "\n%s %s · %s · %s",
			status.Emoji,
			formatting.FormatTimeRange(bk.StartTime, bk.DurationMinutes),
			html.EscapeString(r.station),
			html.EscapeString(carTitle(bk)),
		)

		label := fmt.Sprintf("%s %s %s", status.Emoji, bk.StartTime, carTitle(bk))
		kb.Row(keyboard.Button(truncate(label, maxButtonText), OpenBooking+bk.ID))
	}

	kb.Row(keyboard.Button("⬅️ К доске", BackToBoard))

	return Screen{Text: sb.String(), Keyboard: kb.Build()}
}

func carTitle(b model.Booking) string {
	if strings.TrimSpace(b.CarModel) == "" {
		return "Без названия"
	}
	return b.CarModel
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
