package model

// Status смысловой статус записи. Цвет блока на доске выбирает слой отображения.
type Status string

const (
	StatusReady      Status = "ready"       // Готово / Ок
	StatusInProgress Status = "in_progress" // В работе
	StatusWaiting    Status = "waiting"     // Ожидание
	StatusProblem    Status = "problem"     // Проблема
	StatusScheduled  Status = "scheduled"   // Запись
	StatusNeutral    Status = "neutral"     // Без статуса
)

// Statuses возвращает статусы в порядке отображения в форме
func Statuses() []Status {
	return []Status{
		StatusReady,
		StatusInProgress,
		StatusWaiting,
		StatusProblem,
		StatusScheduled,
		StatusNeutral,
	}
}

// Valid проверяет что статус входит в перечисление
func (s Status) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}
