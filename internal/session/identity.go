package session

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	defaultDisplayName   = "Мастер"
	defaultAvatarInitial = "U"
)

// Identity вошедший мастер
type Identity struct {
	ID            string
	DisplayName   string
	LoginHandle   string // логин без домена
	AvatarInitial string
}

// NewIdentity строит Identity из учётной записи провайдера
func NewIdentity(id, displayName, login string) Identity {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = defaultDisplayName
	}

	return Identity{
		ID:            id,
		DisplayName:   name,
		LoginHandle:   LocalPart(login),
		AvatarInitial: avatarInitial(displayName),
	}
}

// avatarInitial первая буква имени, "U" если имени нет
func avatarInitial(displayName string) string {
	name := strings.TrimSpace(displayName)
	r, _ := utf8.DecodeRuneInString(name)
	if name == "" || r == utf8.RuneError {
		return defaultAvatarInitial
	}
	return string(unicode.ToUpper(r))
}
