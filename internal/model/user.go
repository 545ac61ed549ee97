package model

import "time"

// User учётная запись мастера у провайдера идентификации
type User struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	Login        string    `json:"login"` // полная форма, например ivan@serviceplan.local
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
