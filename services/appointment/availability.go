package appointment

import (
	"context"

	appointmentRepo "medicare/database/repository/appointment"
)

// AvailabilityChecker answers "is this exact slot free?" ahead of a write.
// The answer is advisory: a concurrent insert can take the slot right after a
// "free" result, and only the store's unique index settles that race.
type AvailabilityChecker struct {
	Repo appointmentRepo.AppointmentRepository
}

func NewAvailabilityChecker(repo appointmentRepo.AppointmentRepository) *AvailabilityChecker {
	return &AvailabilityChecker{Repo: repo}
}

// IsAvailable reports whether no live appointment holds (doctor, date, time).
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, doctor, date, time string) (bool, error) {
	taken, err := c.Repo.ExistsLive(ctx, doctor, date, time)
	if err != nil {
		return false, err
	}
	return !taken, nil
}
