package session

import (
	"errors"
	"fmt"
)

// ErrNotSignedIn операция требует вошедшего пользователя
var ErrNotSignedIn = errors.New("not signed in")

// MinSecretLength минимальная длина пароля
const MinSecretLength = 6

// AuthErrorKind причина отказа во входе или регистрации
type AuthErrorKind int

const (
	MissingFields AuthErrorKind = iota + 1
	InvalidCredential
	UserNotFound
	WeakSecret
	HandleInUse
)

func (k AuthErrorKind) String() string {
	switch k {
	case MissingFields:
		return "missing_fields"
	case InvalidCredential:
		return "invalid_credential"
	case UserNotFound:
		return "user_not_found"
	case WeakSecret:
		return "weak_secret"
	case HandleInUse:
		return "handle_in_use"
	default:
		return fmt.Sprintf("auth_error(%d)", int(k))
	}
}

// AuthError отказ провайдера идентификации
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

// NewAuthError создаёт ошибку заданного вида
func NewAuthError(kind AuthErrorKind) *AuthError {
	return &AuthError{Kind: kind}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
	}
	return "auth: " + e.Kind.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is сравнивает по виду ошибки
func (e *AuthError) Is(target error) bool {
	var t *AuthError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Message текст для пользователя.
// Неизвестный пользователь и неверный пароль не различаются.
func (e *AuthError) Message() string {
	switch e.Kind {
	case MissingFields:
		return "Пожалуйста, заполните все поля"
	case WeakSecret:
		return fmt.Sprintf("Пароль слишком простой (минимум %d символов)", MinSecretLength)
	case HandleInUse:
		return "Пользователь с таким логином уже существует"
	case InvalidCredential, UserNotFound:
		return "Неверный логин или пароль"
	default:
		return "Ошибка авторизации"
	}
}

// UserMessage текст ошибки для пользователя, для не-AuthError общий
func UserMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Message()
	}
	return "Ошибка авторизации"
}
