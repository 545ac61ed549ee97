package repository

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrLoginTaken      = errors.New("login already taken")
)
