package appointment

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	appointmentRepo "medicare/database/repository/appointment"
	"medicare/models"
)

// memRepo mirrors the Mongo repository, including the live-slot unique index.
type memRepo struct {
	mu     sync.Mutex
	seq    int
	byID   map[string]models.Appointment
	order  []string
	failOn map[string]error
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]models.Appointment{}, failOn: map[string]error{}}
}

func (m *memRepo) fail(op string) error {
	return m.failOn[op]
}

func (m *memRepo) liveTaken(doctor, date, clock, exceptID string) bool {
	for id, a := range m.byID {
		if id != exceptID && a.DoctorID == doctor && a.Date == date && a.Time == clock && a.Status.Live() {
			return true
		}
	}
	return false
}

func (m *memRepo) Insert(_ context.Context, appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("insert"); err != nil {
		return err
	}
	if appt.Status.Live() && m.liveTaken(appt.DoctorID, appt.Date, appt.Time, "") {
		return appointmentRepo.ErrDuplicateSlot
	}
	m.seq++
	appt.ID = "appt-" + strconv.Itoa(m.seq)
	m.byID[appt.ID] = *appt
	m.order = append(m.order, appt.ID)
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	return &a, nil
}

func (m *memRepo) FindByEmail(_ context.Context, email string) ([]models.AppointmentSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.AppointmentSummary{}
	for _, id := range m.order {
		if a, ok := m.byID[id]; ok && a.PatientEmail == email {
			out = append(out, a.Summary())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (m *memRepo) ListAll(_ context.Context) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for _, id := range m.order {
		if a, ok := m.byID[id]; ok {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	if a.PatientName == "" || a.PatientEmail == "" || a.DoctorID == "" {
		return nil, appointmentRepo.ErrInvalidRecord
	}
	if status.Live() && m.liveTaken(a.DoctorID, a.Date, a.Time, id) {
		return nil, appointmentRepo.ErrDuplicateSlot
	}
	a.Status = status
	m.byID[id] = a
	return &a, nil
}

func (m *memRepo) Delete(_ context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	delete(m.byID, id)
	return &a, nil
}

func (m *memRepo) ExistsLive(_ context.Context, doctor, date, clock string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("exists"); err != nil {
		return false, err
	}
	return m.liveTaken(doctor, date, clock, ""), nil
}

func (m *memRepo) BookedTimes(_ context.Context, doctor, date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("booked"); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, a := range m.byID {
		if a.Date != date || !a.Status.Live() || (doctor != "" && a.DoctorID != doctor) {
			continue
		}
		if !seen[a.Time] {
			seen[a.Time] = true
			out = append(out, a.Time)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memRepo) EnsureIndexes(context.Context) error { return nil }

// alwaysFreeRepo makes the pre-check blind so the store is the only guard.
type alwaysFreeRepo struct {
	*memRepo
}

func (alwaysFreeRepo) ExistsLive(context.Context, string, string, string) (bool, error) {
	return false, nil
}

var errStoreDown = errors.New("store unavailable")
