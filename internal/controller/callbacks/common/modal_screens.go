package common

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Freeeeeet/service_plan/internal/board"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/service_plan/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/topology"
	"github.com/Freeeeeet/service_plan/internal/workflow"
	"github.com/go-telegram/bot/models"
)

// FieldTitle подпись текстового поля формы
func FieldTitle(field workflow.Field) string {
	switch field {
	case workflow.FieldCarModel:
		return "🚗 Авто"
	case workflow.FieldVIN:
		return "🔢 VIN"
	case workflow.FieldDescription:
		return "📝 Описание"
	case workflow.FieldClientName:
		return "👤 Клиент"
	case workflow.FieldClientPhone:
		return "📞 Телефон"
	default:
		return string(field)
	}
}

// DeleteLabel подпись кнопки удаления
func DeleteLabel(armed bool) string {
	if armed {
		return "⚠️ Подтвердить удаление?"
	}
	return "🗑 Удалить"
}

// BuildModalScreen форма записи
func BuildModalScreen(b *board.Board) Screen {
	state := b.Editor()
	topo := b.Topology()
	draft := state.Draft

	title := "➕ <b>Новая запись</b>"
	if state.Mode == workflow.ModeEditing {
		title = "✏️ <b>Редактирование записи</b>"
	}

	date := b.Date()
	if state.Mode == workflow.ModeEditing {
		date = state.Original.Date
	}

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "📅 %s\n", formatting.FormatDay(date))
	fmt.Fprintf(&sb, "📍 Пост: %s\n", html.EscapeString(stationName(topo, draft.StationID)))
	fmt.Fprintf(&sb, "🕘 Время: %s (%s)\n",
		formatting.FormatTimeRange(draft.StartTime, draft.DurationMinutes),
		formatting.FormatDuration(draft.DurationMinutes))
	fmt.Fprintf(&sb, "📊 Статус: %s\n\n", formatting.GetStatusDisplay(draft.Status))

	for _, field := range workflow.TextFields() {
		value := strings.TrimSpace(workflow.FieldValue(draft, field))
		if value == "" {
			value = "<i>не указано</i>"
		} else {
			value = html.EscapeString(value)
		}
		fmt.Fprintf(&sb, "%s: %s\n", FieldTitle(field), value)
	}

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("📍 Пост", ModalStation),
			keyboard.Button("🕘 Время", ModalTime),
			keyboard.Button("⏱ Длительность", ModalDuration),
		).
		Row(keyboard.Button("📊 Статус", ModalStatus))

	fields := make([]models.InlineKeyboardButton, 0, len(workflow.TextFields()))
	for _, field := range workflow.TextFields() {
		fields = append(fields, keyboard.Button(FieldTitle(field), FieldData(field)))
	}
	kb.Grid(fields, 2)

	kb.Row(
		keyboard.Button("💾 Сохранить", ModalSave),
		keyboard.Button("✖️ Отмена", ModalCancel),
	)
	if state.Mode == workflow.ModeEditing {
		kb.Row(keyboard.Button(DeleteLabel(state.DeleteArmed), ModalDelete))
	}

	return Screen{Text: sb.String(), Keyboard: kb.Build()}
}

// BuildDurationPicker выбор длительности
func BuildDurationPicker(b *board.Board) Screen {
	current := b.Editor().Draft.DurationMinutes

	buttons := make([]models.InlineKeyboardButton, 0, len(topology.Durations))
	for _, d := range topology.Durations {
		buttons = append(buttons, keyboard.Button(
			keyboard.Marked(formatting.FormatDuration(d), d == current),
			PickData(ModalDuration, strconv.Itoa(d)),
		))
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, 3).
		Row(keyboard.Button("⬅️ Назад", ModalBack))

	return Screen{Text: "⏱ <b>Длительность работ</b>", Keyboard: kb.Build()}
}

// BuildStatusPicker выбор статуса
func BuildStatusPicker(b *board.Board) Screen {
	current := b.Editor().Draft.Status

	kb := keyboard.NewBuilder()
	for _, s := range model.Statuses() {
		kb.Row(keyboard.Button(
			keyboard.Marked(formatting.GetStatusDisplay(s).String(), s == current),
			PickData(ModalStatus, string(s)),
		))
	}
	kb.Row(keyboard.Button("⬅️ Назад", ModalBack))

	return Screen{Text: "📊 <b>Статус записи</b>", Keyboard: kb.Build()}
}

// BuildStationPicker выбор поста
func BuildStationPicker(b *board.Board) Screen {
	topo := b.Topology()
	current := b.Editor().Draft.StationID

	buttons := make([]models.InlineKeyboardButton, 0, len(topo.Stations))
	for _, st := range topo.Stations {
		buttons = append(buttons, keyboard.Button(
			keyboard.Marked(st.Name, st.ID == current),
			PickData(ModalStation, st.ID),
		))
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, 2).
		Row(keyboard.Button("⬅️ Назад", ModalBack))

	return Screen{Text: "📍 <b>Пост</b>", Keyboard: kb.Build()}
}

// BuildTimePicker выбор времени начала, включая время закрытия
func BuildTimePicker(b *board.Board) Screen {
	topo := b.Topology()
	current := b.Editor().Draft.StartTime

	slots := topo.Slots()
	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, slot := range slots {
		buttons = append(buttons, keyboard.Button(
			keyboard.Marked(slot.String(), slot == current),
			PickData(ModalTime, strconv.Itoa(slot.Minutes())),
		))
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, 4).
		Row(keyboard.Button("⬅️ Назад", ModalBack))

	return Screen{Text: "🕘 <b>Время начала</b>", Keyboard: kb.Build()}
}

func stationName(topo topology.Topology, id string) string {
	if st, ok := topo.Station(id); ok {
		return st.Name
	}
	return id
}
