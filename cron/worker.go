package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"medicare/config"
	appointmentRepo "medicare/database/repository/appointment"
	"medicare/models"
	"medicare/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Notifier delivers a reminder to the patient.
type Notifier interface {
	Notify(ctx context.Context, appt models.Appointment) error
}

// LogNotifier records reminders in the application log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(_ context.Context, appt models.Appointment) error {
	n.Logger.Info("appointment reminder",
		zap.String("id", appt.ID),
		zap.String("email", appt.PatientEmail),
		zap.String("doctor", appt.DoctorID),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time))
	return nil
}

// QueueRedisOpt is the asynq connection for the reminder queue DB.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// StartReminderWorker runs the reminder worker in the background. The caller
// owns the returned server and must Shutdown it.
func StartReminderWorker(repo appointmentRepo.AppointmentRepository, notifier Notifier, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(QueueRedisOpt(), asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"default": 1},
		Logger:      logger.Sugar(),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAppointmentReminder, NewReminderHandler(repo, notifier, logger))

	if err := srv.Start(mux); err != nil {
		logger.Error("reminder worker failed to start", zap.Error(err))
		return nil
	}
	logger.Info("reminder worker started")
	return srv
}

// NewReminderHandler re-reads the appointment before notifying, so cancelled
// or deleted bookings are skipped.
func NewReminderHandler(repo appointmentRepo.AppointmentRepository, notifier Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		appt, err := repo.FindByID(ctx, p.AppointmentID)
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			logger.Info("reminder skipped, appointment deleted", zap.String("id", p.AppointmentID))
			return nil
		}
		if err != nil {
			return err
		}
		if appt.Status == models.StatusCancelled || appt.Status == models.StatusCompleted {
			logger.Info("reminder skipped", zap.String("id", appt.ID), zap.String("status", string(appt.Status)))
			return nil
		}
		// A reschedule leaves a stale reminder behind; only the current slot is reminded.
		if appt.Date != p.Date || appt.Time != p.Time {
			logger.Info("reminder skipped, slot changed", zap.String("id", appt.ID))
			return nil
		}

		return notifier.Notify(ctx, *appt)
	}
}
