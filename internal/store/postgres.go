package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/repository"
	"github.com/Freeeeeet/service_plan/internal/watch"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	listenBackoffBase = 500 * time.Millisecond
	listenBackoffCap  = 30 * time.Second
)

// BookingRepository таблица записей
type BookingRepository interface {
	List(ctx context.Context) ([]model.Booking, error)
	Create(ctx context.Context, booking *model.Booking) error
	Update(ctx context.Context, id string, form model.BookingForm) error
	Delete(ctx context.Context, id string) error
}

// Notifier источник уведомлений об изменении таблицы.
// Listen блокируется до отмены ctx или обрыва соединения.
type Notifier interface {
	Listen(ctx context.Context, onReady func(), fn func(payload string)) error
}

// Postgres хранилище поверх таблицы bookings. Каждое уведомление
// перечитывает коллекцию целиком и рассылает снимок подписчикам.
type Postgres struct {
	repo     BookingRepository
	notifier Notifier
	logger   *zap.Logger
	hub      *watch.Hub[[]model.Booking]

	syncMu sync.Mutex

	errMu   sync.Mutex
	errSubs map[uint64]func(error)
	nextErr uint64
}

// NewPostgres создаёт хранилище. notifier может быть nil, тогда
// снимок перечитывается после каждой собственной записи и по Resync.
func NewPostgres(repo BookingRepository, notifier Notifier, logger *zap.Logger) *Postgres {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Postgres{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		hub:      watch.NewHub[[]model.Booking](),
		errSubs:  make(map[uint64]func(error)),
	}
}

// Subscribe подписывает на снимки. Первый снимок читается из базы,
// если его ещё нет.
func (p *Postgres) Subscribe(ctx context.Context, onSnapshot func([]model.Booking), onError func(error)) (Subscription, error) {
	if _, ok := p.hub.Last(); !ok {
		if err := p.Resync(ctx); err != nil {
			return nil, err
		}
	}

	var errID uint64
	if onError != nil {
		p.errMu.Lock()
		errID = p.nextErr
		p.nextErr++
		p.errSubs[errID] = onError
		p.errMu.Unlock()
	}

	sub := p.hub.Subscribe(func(snapshot []model.Booking) {
		onSnapshot(cloneBookings(snapshot))
	})

	return watch.NewSubscription(func() {
		sub.Cancel()
		if onError != nil {
			p.errMu.Lock()
			delete(p.errSubs, errID)
			p.errMu.Unlock()
		}
	}), nil
}

// Resync перечитывает все записи и публикует снимок. При ошибке
// подписчики получают SubscriptionError, последний снимок остаётся.
func (p *Postgres) Resync(ctx context.Context) error {
	p.syncMu.Lock()
	defer p.syncMu.Unlock()

	bookings, err := p.repo.List(ctx)
	if err != nil {
		serr := &SubscriptionError{Err: err}
		p.logger.Warn("Failed to load bookings snapshot", zap.Error(err))
		p.reportError(serr)
		return serr
	}

	p.hub.Publish(bookings)
	p.logger.Debug("Bookings snapshot published", zap.Int("count", len(bookings)))

	return nil
}

// Run слушает уведомления до отмены ctx, переподключаясь с растущей паузой.
// После каждого (пере)подключения снимок перечитывается, чтобы не потерять
// изменения, случившиеся без соединения.
func (p *Postgres) Run(ctx context.Context) error {
	if p.notifier == nil {
		<-ctx.Done()
		return nil
	}

	backoff := retry.WithCappedDuration(listenBackoffCap, retry.NewExponential(listenBackoffBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := p.notifier.Listen(ctx, func() {
			p.logger.Info("Listening for booking changes")
			_ = p.Resync(ctx)
		}, func(payload string) {
			p.logger.Debug("Booking change notification", zap.String("op", payload))
			_ = p.Resync(ctx)
		})
		if err == nil || ctx.Err() != nil {
			return nil
		}

		p.logger.Warn("Booking listener dropped", zap.Error(err))
		p.reportError(&SubscriptionError{Err: err})
		return retry.RetryableError(err)
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("listen bookings: %w", err)
	}
	return nil
}

// Close отписывает всех подписчиков
func (p *Postgres) Close() {
	p.hub.Close()
	p.errMu.Lock()
	p.errSubs = make(map[uint64]func(error))
	p.errMu.Unlock()
}

// Create сохраняет новую запись и возвращает её ID
func (p *Postgres) Create(ctx context.Context, nb model.NewBooking) (string, error) {
	booking := nb.Booking(uuid.NewString())

	if err := p.repo.Create(ctx, &booking); err != nil {
		p.logger.Error("Failed to create booking",
			zap.String("station_id", booking.StationID),
			zap.String("date", booking.Date),
			zap.Error(err),
		)
		return "", &WriteError{Op: OpCreate, Err: mapRepoError(err)}
	}

	p.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("station_id", booking.StationID),
		zap.String("date", booking.Date),
		zap.String("start", booking.StartTime.String()),
		zap.String("master_id", booking.MasterID),
	)
	p.afterWrite(ctx)

	return booking.ID, nil
}

// Update перезаписывает редактируемые поля
func (p *Postgres) Update(ctx context.Context, id string, form model.BookingForm) error {
	if err := p.repo.Update(ctx, id, form); err != nil {
		p.logger.Error("Failed to update booking", zap.String("booking_id", id), zap.Error(err))
		return &WriteError{Op: OpUpdate, ID: id, Err: mapRepoError(err)}
	}

	p.logger.Info("Booking updated",
		zap.String("booking_id", id),
		zap.String("station_id", form.StationID),
		zap.String("status", string(form.Status)),
	)
	p.afterWrite(ctx)

	return nil
}

// Delete удаляет запись
func (p *Postgres) Delete(ctx context.Context, id string) error {
	if err := p.repo.Delete(ctx, id); err != nil {
		p.logger.Error("Failed to delete booking", zap.String("booking_id", id), zap.Error(err))
		return &WriteError{Op: OpDelete, ID: id, Err: mapRepoError(err)}
	}

	p.logger.Info("Booking deleted", zap.String("booking_id", id))
	p.afterWrite(ctx)

	return nil
}

// afterWrite без уведомлений база сама не сообщит об изменении
func (p *Postgres) afterWrite(ctx context.Context) {
	if p.notifier == nil {
		_ = p.Resync(ctx)
	}
}

func (p *Postgres) reportError(err error) {
	p.errMu.Lock()
	handlers := make([]func(error), 0, len(p.errSubs))
	for _, fn := range p.errSubs {
		handlers = append(handlers, fn)
	}
	p.errMu.Unlock()

	for _, fn := range handlers {
		fn(err)
	}
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrBookingNotFound) {
		return ErrNotFound
	}
	return err
}
