package appointment

import (
	"context"

	appointmentRepo "medicare/database/repository/appointment"
	"medicare/models"

	"go.uber.org/zap"
)

// AppointmentService is the booking API behind the HTTP handlers.
type AppointmentService interface {
	CreateAppointment(ctx context.Context, req models.AppointmentRequest) (*models.Appointment, error)
	ListByEmail(ctx context.Context, email string) ([]models.AppointmentSummary, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]models.Appointment, error)
	Availability(ctx context.Context, doctor, date string) (*models.Availability, error)
}

// ReminderScheduler queues a reminder for a freshly booked appointment.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt models.Appointment) error
}

// DefaultAppointmentService implements AppointmentService.
// Cache and Reminders are optional.
type DefaultAppointmentService struct {
	Repo      appointmentRepo.AppointmentRepository
	Checker   *AvailabilityChecker
	Validator *Validator
	Cache     BookedSlotCache
	Reminders ReminderScheduler
	Catalog   []string
	Logger    *zap.Logger
}

func (s *DefaultAppointmentService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultAppointmentService) catalog() []string {
	if len(s.Catalog) == 0 {
		return models.DefaultSlotCatalog
	}
	return s.Catalog
}
