package appointment

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "medicare/database/repository/appointment"
	"medicare/models"

	"go.uber.org/zap"
)

// CreateAppointment validates, pre-checks and inserts a booking. A conflict
// caught by the pre-check and one caught by the store look the same to callers.
func (s *DefaultAppointmentService) CreateAppointment(ctx context.Context, req models.AppointmentRequest) (*models.Appointment, error) {
	log := s.logger()
	req = s.Validator.Normalize(req)
	log.Info("create appointment received",
		zap.String("email", req.Email),
		zap.String("doctor", req.Doctor),
		zap.String("date", req.Date),
		zap.String("time", req.Time))

	if err := s.Validator.Validate(req); err != nil {
		log.Info("create appointment rejected", zap.Error(err))
		return nil, err
	}

	available, err := s.Checker.IsAvailable(ctx, req.Doctor, req.Date, req.Time)
	switch {
	case err != nil:
		// The unique index still guards the insert below.
		log.Warn("availability pre-check failed", zap.Error(err))
	case !available:
		log.Info("create appointment conflict", zap.String("stage", "pre-check"))
		return nil, ErrConflict
	}

	status := models.AppointmentStatus(req.Status)
	if status == "" {
		status = models.DefaultAppointmentStatus
	}
	appt := &models.Appointment{
		PatientName:   req.Name,
		PatientEmail:  req.Email,
		ContactNumber: req.ContactNumber,
		Date:          req.Date,
		Time:          req.Time,
		DoctorID:      req.Doctor,
		ServiceType:   req.Service,
		Notes:         req.Notes,
		Status:        status,
	}

	if err := s.Repo.Insert(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrDuplicateSlot) {
			log.Info("create appointment conflict", zap.String("stage", "store"))
			return nil, ErrConflict
		}
		log.Error("create appointment failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.invalidate(ctx, appt.DoctorID, appt.Date)
	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, *appt); err != nil {
			log.Warn("failed to schedule reminder", zap.String("id", appt.ID), zap.Error(err))
		}
	}

	log.Info("appointment created", zap.String("id", appt.ID))
	return appt, nil
}

func (s *DefaultAppointmentService) ListByEmail(ctx context.Context, email string) ([]models.AppointmentSummary, error) {
	summaries, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return summaries, nil
}

func (s *DefaultAppointmentService) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return appt, nil
}

// UpdateStatus is the only way an appointment's status changes.
func (s *DefaultAppointmentService) UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error) {
	log := s.logger().With(zap.String("id", id), zap.String("status", status))
	log.Info("status update received")

	next := models.AppointmentStatus(status)
	if !next.Valid() {
		log.Info("status update rejected")
		return nil, invalid("invalid status")
	}

	appt, err := s.Repo.UpdateStatus(ctx, id, next)
	if err != nil {
		err = translateRepoError(err)
		log.Info("status update failed", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, appt.DoctorID, appt.Date)
	log.Info("status updated")
	return appt, nil
}

func (s *DefaultAppointmentService) DeleteAppointment(ctx context.Context, id string) error {
	log := s.logger().With(zap.String("id", id))
	log.Info("delete appointment received")

	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		err = translateRepoError(err)
		log.Info("delete appointment failed", zap.Error(err))
		return err
	}

	s.invalidate(ctx, deleted.DoctorID, deleted.Date)
	log.Info("appointment deleted")
	return nil
}

func (s *DefaultAppointmentService) ListAll(ctx context.Context) ([]models.Appointment, error) {
	appts, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// Availability returns the advisory slot picture for a date. Times already
// past or outside clinic hours are never offered.
func (s *DefaultAppointmentService) Availability(ctx context.Context, doctor, date string) (*models.Availability, error) {
	if date == "" {
		return nil, missingField("date")
	}
	if _, err := s.Validator.Timestamp(date, "00:00"); err != nil {
		return nil, err
	}

	booked, err := s.bookedTimes(ctx, doctor, date)
	if err != nil {
		return nil, err
	}

	available := []string{}
	for _, t := range models.FilterSlots(s.catalog(), booked) {
		at, err := s.Validator.Timestamp(date, t)
		if err != nil || !at.After(s.Validator.now()) || !s.Validator.WithinHours(at.Hour()) {
			continue
		}
		available = append(available, t)
	}

	return &models.Availability{
		Date:      date,
		Doctor:    doctor,
		Catalog:   s.catalog(),
		Booked:    booked,
		Available: available,
	}, nil
}

func (s *DefaultAppointmentService) bookedTimes(ctx context.Context, doctor, date string) ([]string, error) {
	if s.Cache != nil {
		times, ok, err := s.Cache.Get(ctx, doctor, date)
		if err != nil {
			s.logger().Warn("booked slots cache read failed", zap.Error(err))
		} else if ok {
			return times, nil
		}
	}

	times, err := s.Repo.BookedTimes(ctx, doctor, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked times: %w", err)
	}
	if times == nil {
		times = []string{}
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, doctor, date, times); err != nil {
			s.logger().Warn("booked slots cache write failed", zap.Error(err))
		}
	}
	return times, nil
}

func (s *DefaultAppointmentService) invalidate(ctx context.Context, doctor, date string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, doctor, date); err != nil {
		s.logger().Warn("booked slots cache invalidation failed", zap.Error(err))
	}
}

func translateRepoError(err error) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, appointmentRepo.ErrDuplicateSlot):
		return ErrConflict
	case errors.Is(err, appointmentRepo.ErrInvalidRecord):
		return invalid(appointmentRepo.ErrInvalidRecord.Error())
	default:
		return err
	}
}
