// Package store описывает хранилище записей: подписку на полный снимок
// коллекции и запись по ID. Согласованность и разрешение конфликтов
// остаются на стороне хранилища, последняя запись выигрывает.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/service_plan/internal/model"
)

// ErrNotFound запись с таким ID отсутствует
var ErrNotFound = errors.New("booking not found")

// Subscription отменяемая подписка на снимки
type Subscription interface {
	Cancel()
}

// Store хранилище записей
type Store interface {
	// Subscribe доставляет полный список записей при каждом изменении,
	// первый снимок приходит сразу после подписки.
	Subscribe(ctx context.Context, onSnapshot func([]model.Booking), onError func(error)) (Subscription, error)
	// Create сохраняет запись, ID назначает хранилище
	Create(ctx context.Context, b model.NewBooking) (string, error)
	// Update перезаписывает редактируемые поля записи
	Update(ctx context.Context, id string, form model.BookingForm) error
	// Delete удаляет запись безвозвратно
	Delete(ctx context.Context, id string) error
}

// Op операция записи
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// WriteError ошибка create/update/delete. Не фатальна, повторов нет.
type WriteError struct {
	Op  Op
	ID  string
	Err error
}

func (e *WriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s booking: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s booking %s: %v", e.Op, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// SubscriptionError сбой потока снимков. Последний снимок остаётся в силе.
type SubscriptionError struct {
	Err error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("booking subscription: %v", e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }

// cloneBookings копия снимка, чтобы подписчики не делили срез
func cloneBookings(src []model.Booking) []model.Booking {
	out := make([]model.Booking, len(src))
	copy(out, src)
	return out
}
