package state

// UserState текущий шаг диалога в чате
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Вход
	StateLoginHandle UserState = "login_handle"
	StateLoginSecret UserState = "login_secret"

	// Регистрация
	StateRegisterName   UserState = "register_name"
	StateRegisterHandle UserState = "register_handle"
	StateRegisterSecret UserState = "register_secret"

	// Ввод текстового поля записи
	StateFieldInput UserState = "field_input"

	// Ввод даты для перехода
	StateDateInput UserState = "date_input"
)

// Ключи данных диалога
const (
	KeyHandle = "handle"
	KeyName   = "name"
	KeyField  = "field"
	KeyPrompt = "prompt_message_id"
)

// Secret ждёт ли шаг пароль (такие сообщения удаляются из чата)
func (s UserState) Secret() bool {
	return s == StateLoginSecret || s == StateRegisterSecret
}

// UserData хранит временные данные чата во время диалога
type UserData struct {
	State UserState
	Data  map[string]any
}
