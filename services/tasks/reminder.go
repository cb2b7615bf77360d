package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medicare/models"

	"github.com/hibiken/asynq"
)

const TypeAppointmentReminder = "appointment:reminder"

// ReminderTaskID is stable per appointment so a retry never queues a second reminder.
func ReminderTaskID(appointmentID string) string {
	return "reminder:" + appointmentID
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload.AppointmentID)),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues a reminder Lead before each appointment.
type ReminderScheduler struct {
	Queue    Enqueuer
	Lead     time.Duration
	Location *time.Location
	Now      func() time.Time
}

func NewReminderScheduler(queue Enqueuer, lead time.Duration, loc *time.Location) *ReminderScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderScheduler{Queue: queue, Lead: lead, Location: loc, Now: time.Now}
}

// FireAt returns when the reminder for appt should run. Bookings made inside
// the lead window are reminded right away.
func (s *ReminderScheduler) FireAt(appt models.Appointment) (time.Time, error) {
	at, err := time.ParseInLocation(models.DateLayout+" "+models.TimeLayout, appt.Date+" "+appt.Time, s.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid appointment time %q %q: %w", appt.Date, appt.Time, err)
	}
	fireAt := at.Add(-s.Lead)
	if now := s.now(); fireAt.Before(now) {
		fireAt = now
	}
	return fireAt, nil
}

func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, appt models.Appointment) error {
	fireAt, err := s.FireAt(appt)
	if err != nil {
		return err
	}
	task, opts, err := NewReminderTask(models.ReminderPayload{
		AppointmentID: appt.ID,
		Email:         appt.PatientEmail,
		Name:          appt.PatientName,
		Doctor:        appt.DoctorID,
		Date:          appt.Date,
		Time:          appt.Time,
	}, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.Queue.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

func (s *ReminderScheduler) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
