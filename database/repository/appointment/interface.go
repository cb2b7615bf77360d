package appointmentRepo

import (
	"context"

	"medicare/models"
)

// AppointmentRepository persists appointments. Slot uniqueness for live
// appointments is enforced by the store itself, not by callers.
type AppointmentRepository interface {
	// Insert assigns id and timestamps and stores the record, or fails with ErrDuplicateSlot.
	Insert(ctx context.Context, appt *models.Appointment) error
	// FindByID returns one record or ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	// FindByEmail returns the projected records of one requester sorted by date, time.
	FindByEmail(ctx context.Context, email string) ([]models.AppointmentSummary, error)
	// ListAll returns every record sorted by date, time.
	ListAll(ctx context.Context) ([]models.Appointment, error)
	// UpdateStatus re-checks the stored shape and sets status atomically.
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error)
	// Delete removes the record and returns what was removed, or ErrNotFound.
	Delete(ctx context.Context, id string) (*models.Appointment, error)
	// ExistsLive reports whether a non-cancelled record occupies the slot.
	ExistsLive(ctx context.Context, doctor, date, time string) (bool, error)
	// BookedTimes lists times held by live records on a date; an empty doctor means any doctor.
	BookedTimes(ctx context.Context, doctor, date string) ([]string, error)
	EnsureIndexes(ctx context.Context) error
}
