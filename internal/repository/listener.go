package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingsChannel канал NOTIFY, в который пишет триггер таблицы bookings
const BookingsChannel = "bookings_changed"

// Listener слушает LISTEN/NOTIFY на отдельном соединении пула
type Listener struct {
	pool    *pgxpool.Pool
	channel string
}

func NewListener(pool *pgxpool.Pool, channel string) *Listener {
	return &Listener{pool: pool, channel: channel}
}

// Listen вызывает fn на каждое уведомление. Возвращает nil при отмене ctx.
// onReady вызывается после успешного LISTEN, до первого ожидания.
func (l *Listener) Listen(ctx context.Context, onReady func(), fn func(payload string)) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}

	if onReady != nil {
		onReady()
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("wait notification: %w", err)
		}
		fn(n.Payload)
	}
}
