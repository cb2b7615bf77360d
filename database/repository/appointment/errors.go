package appointmentRepo

import "errors"

var (
	// ErrNotFound is returned when no record carries the requested id.
	ErrNotFound = errors.New("appointment not found")
	// ErrDuplicateSlot is returned when a live record already holds (doctor, date, time).
	ErrDuplicateSlot = errors.New("appointment slot already booked")
	// ErrInvalidRecord is returned when a stored record lost a required field.
	ErrInvalidRecord = errors.New("stored appointment failed validation")
)
