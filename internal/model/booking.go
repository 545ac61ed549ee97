package model

import "time"

// Booking запись на пост. Хранилище выдаёт ID, остальное задаёт мастер.
type Booking struct {
	ID              string    `json:"id"`
	StationID       string    `json:"station_id"`
	Date            string    `json:"date"` // YYYY-MM-DD
	StartTime       TimeOfDay `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	CarModel        string    `json:"car_model"`
	VIN             string    `json:"vin"`
	Description     string    `json:"description"`
	ClientName      string    `json:"client_name"`
	ClientPhone     string    `json:"client_phone"`
	MasterID        string    `json:"master_id"` // кто создал запись
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EndTime время окончания работ
func (b Booking) EndTime() TimeOfDay {
	return b.StartTime.Add(b.DurationMinutes)
}

// Form возвращает редактируемые поля записи
func (b Booking) Form() BookingForm {
	return BookingForm{
		StationID:       b.StationID,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
		CarModel:        b.CarModel,
		VIN:             b.VIN,
		Description:     b.Description,
		ClientName:      b.ClientName,
		ClientPhone:     b.ClientPhone,
		Status:          b.Status,
	}
}

// Apply переносит поля формы в запись. ID, Date и MasterID не меняются.
func (b *Booking) Apply(f BookingForm) {
	b.StationID = f.StationID
	b.StartTime = f.StartTime
	b.DurationMinutes = f.DurationMinutes
	b.CarModel = f.CarModel
	b.VIN = f.VIN
	b.Description = f.Description
	b.ClientName = f.ClientName
	b.ClientPhone = f.ClientPhone
	b.Status = f.Status
}

// BookingForm черновик записи в модальном окне
type BookingForm struct {
	StationID       string
	StartTime       TimeOfDay
	DurationMinutes int
	CarModel        string
	VIN             string
	Description     string
	ClientName      string
	ClientPhone     string
	Status          Status
}

// NewBooking запрос на создание записи: хранилище назначит ID
type NewBooking struct {
	Form     BookingForm
	Date     string
	MasterID string
}

// Booking собирает запись с указанным ID
func (n NewBooking) Booking(id string) Booking {
	b := Booking{
		ID:       id,
		Date:     n.Date,
		MasterID: n.MasterID,
	}
	b.Apply(n.Form)
	return b
}
