package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/workflow"
)

// Callback data. Telegram ограничивает её 64 байтами, поэтому префиксы короткие.
const (
	Noop   = "noop"
	Logout = "logout"

	NavPrev    = "nav:prev"
	NavNext    = "nav:next"
	NavToday   = "nav:today"
	NavRefresh = "nav:refresh"

	AuthLogin    = "auth:login"
	AuthRegister = "auth:register"

	OpenStation = "st:"   // st:lift-1
	OpenCell    = "cell:" // cell:lift-1:540 (минуты от полуночи)
	ListDay     = "list"
	OpenBooking = "bk:" // bk:<uuid>
	BackToBoard = "back"

	ModalField    = "m:f:" // m:f:car_model
	ModalDuration = "m:dur"
	ModalStatus   = "m:st"
	ModalStation  = "m:stn"
	ModalTime     = "m:tm"
	ModalSave     = "m:save"
	ModalCancel   = "m:cancel"
	ModalDelete   = "m:del"
	ModalBack     = "m:back"
)

// CellData кнопка пустой ячейки
func CellData(stationID string, start model.TimeOfDay) string {
	return fmt.Sprintf("%s%s:%d", OpenCell, stationID, start.Minutes())
}

// ParseCell разбирает cell:<station>:<minutes>
func ParseCell(data string) (string, model.TimeOfDay, error) {
	rest, ok := strings.CutPrefix(data, OpenCell)
	if !ok {
		return "", 0, ErrInvalidFormat
	}
	idx := strings.LastIndex(rest, ":")
	if idx <= 0 {
		return "", 0, ErrInvalidFormat
	}
	minutes, err := strconv.Atoi(rest[idx+1:])
	if err != nil {
		return "", 0, ErrInvalidFormat
	}
	return rest[:idx], model.TimeOfDay(minutes), nil
}

// PickData кнопка выбора значения в пикере: m:dur:60, m:st:ready
func PickData(picker, value string) string {
	return picker + ":" + value
}

// ParsePick возвращает значение из m:<picker>:<value>. Без значения ok=false.
func ParsePick(data, picker string) (string, bool) {
	value, ok := strings.CutPrefix(data, picker+":")
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// FieldData кнопка текстового поля формы
func FieldData(field workflow.Field) string {
	return ModalField + string(field)
}

// ParseField разбирает m:f:<field>
func ParseField(data string) (workflow.Field, error) {
	value, ok := strings.CutPrefix(data, ModalField)
	if !ok {
		return "", ErrInvalidFormat
	}
	field := workflow.Field(value)
	for _, known := range workflow.TextFields() {
		if field == known {
			return field, nil
		}
	}
	return "", ErrInvalidFormat
}
