package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const microsPerMinute = int64(time.Minute / time.Microsecond)

const bookingColumns = `id, station_id, date, start_time, duration_minutes, car_model, vin,
	description, client_name, client_phone, master_id, status, created_at, updated_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет запись с уже назначенным ID
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	date, err := model.ParseDate(booking.Date)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	query := `
		INSERT INTO bookings (id, station_id, date, start_time, duration_minutes, car_model, vin,
			description, client_name, client_phone, master_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err = r.QueryRow(
		ctx, query,
		booking.ID,
		booking.StationID,
		date,
		toPgTime(booking.StartTime),
		booking.DurationMinutes,
		booking.CarModel,
		booking.VIN,
		booking.Description,
		booking.ClientName,
		booking.ClientPhone,
		booking.MasterID,
		booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// List возвращает все записи в порядке создания
func (r *BookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at, id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return bookings, nil
}

// Update перезаписывает редактируемые поля записи
func (r *BookingRepository) Update(ctx context.Context, id string, form model.BookingForm) error {
	query := `
		UPDATE bookings
		SET station_id = $1, start_time = $2, duration_minutes = $3, car_model = $4, vin = $5,
			description = $6, client_name = $7, client_phone = $8, status = $9, updated_at = NOW()
		WHERE id = $10
	`

	affected, err := r.ExecAffected(
		ctx, query,
		form.StationID,
		toPgTime(form.StartTime),
		form.DurationMinutes,
		form.CarModel,
		form.VIN,
		form.Description,
		form.ClientName,
		form.ClientPhone,
		form.Status,
		id,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}

	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete удаляет запись
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var (
		booking model.Booking
		date    time.Time
		start   pgtype.Time
	)

	err := row.Scan(
		&booking.ID,
		&booking.StationID,
		&date,
		&start,
		&booking.DurationMinutes,
		&booking.CarModel,
		&booking.VIN,
		&booking.Description,
		&booking.ClientName,
		&booking.ClientPhone,
		&booking.MasterID,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Date = model.FormatDate(date)
	booking.StartTime = fromPgTime(start)

	return &booking, nil
}

func toPgTime(t model.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t.Minutes()) * microsPerMinute, Valid: true}
}

func fromPgTime(t pgtype.Time) model.TimeOfDay {
	if !t.Valid {
		return 0
	}
	return model.TimeOfDay(t.Microseconds / microsPerMinute)
}
