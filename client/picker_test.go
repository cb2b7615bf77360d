package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"medicare/models"
)

type fakeAPI struct {
	mu       sync.Mutex
	booked   map[string][]string
	availErr error
	createFn func(models.AppointmentRequest) (*models.Appointment, error)
	creates  int
	release  chan struct{}
	entered  chan struct{}
}

func (f *fakeAPI) CreateAppointment(_ context.Context, req models.AppointmentRequest) (*models.Appointment, error) {
	f.mu.Lock()
	f.creates++
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.createFn != nil {
		return f.createFn(req)
	}
	return &models.Appointment{ID: "a1", Date: req.Date, Time: req.Time, DoctorID: req.Doctor, Status: models.StatusScheduled}, nil
}

func (f *fakeAPI) Availability(_ context.Context, date, doctor string) (*models.Availability, error) {
	if f.availErr != nil {
		return nil, f.availErr
	}
	return &models.Availability{Date: date, Doctor: doctor, Booked: f.booked[date]}, nil
}

func (f *fakeAPI) ListByEmail(context.Context, string) ([]models.AppointmentSummary, error) {
	return nil, nil
}

func (f *fakeAPI) ListAll(context.Context) ([]models.Appointment, error) { return nil, nil }

func (f *fakeAPI) UpdateStatus(context.Context, string, string) (*models.Appointment, error) {
	return nil, nil
}

func (f *fakeAPI) Delete(context.Context, string) error { return nil }

func fillToDetails(t *testing.T, p *Picker) {
	t.Helper()
	ctx := context.Background()
	if err := p.SelectDate(ctx, "2030-01-11"); err != nil {
		t.Fatalf("select date: %v", err)
	}
	if err := p.SelectTime("10:30"); err != nil {
		t.Fatalf("select time: %v", err)
	}
	if err := p.Next(ctx); err != nil {
		t.Fatalf("next from slot: %v", err)
	}
	if err := p.SelectDoctor("Dr. Aisha Sharma"); err != nil {
		t.Fatalf("select doctor: %v", err)
	}
	if err := p.SelectService("General Checkup"); err != nil {
		t.Fatalf("select service: %v", err)
	}
	if err := p.Next(ctx); err != nil {
		t.Fatalf("next from service: %v", err)
	}
	if err := p.SetDetails("Jane Doe", "jane@example.com", "555-0100", ""); err != nil {
		t.Fatalf("set details: %v", err)
	}
}

func TestPickerFiltersBookedSlots(t *testing.T) {
	api := &fakeAPI{booked: map[string][]string{"2030-01-11": {"09:00", "14:00"}}}
	p := NewPicker(api)

	if err := p.SelectDate(context.Background(), "2030-01-11"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"10:30", "11:45", "15:15", "16:30"}
	got := p.Slots()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if err := p.SelectTime("09:00"); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected booked time to be refused, got %v", err)
	}
}

func TestPickerGuards(t *testing.T) {
	ctx := context.Background()
	p := NewPicker(&fakeAPI{})

	if err := p.Next(ctx); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected incomplete without date, got %v", err)
	}
	if err := p.SelectDoctor("Dr. Aisha Sharma"); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected wrong step, got %v", err)
	}
	if err := p.SelectDate(ctx, "2030-01-11"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Next(ctx); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected incomplete without time, got %v", err)
	}
	_ = p.SelectTime("10:30")
	if err := p.Next(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Next(ctx); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected incomplete without doctor and service, got %v", err)
	}
	_ = p.SelectDoctor("Dr. Rajiv Mehta")
	_ = p.SelectService("Specialist Consult")
	if err := p.Next(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_ = p.SetDetails("Jane", "jane@example", "555", "")
	if err := p.Next(ctx); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected bad email to block submit, got %v", err)
	}
	if p.Step() != StepEnteringDetails {
		t.Fatalf("expected to stay in details, got %s", p.Step())
	}
}

func TestPickerBackIsPure(t *testing.T) {
	api := &fakeAPI{}
	p := NewPicker(api)
	fillToDetails(t, p)

	before := p.Form()
	if err := p.Back(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Back(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Step() != StepSelectingSlot {
		t.Fatalf("expected first step, got %s", p.Step())
	}
	if p.Form() != before {
		t.Fatalf("expected form unchanged, got %+v", p.Form())
	}
	if api.creates != 0 {
		t.Fatal("back navigation must not submit")
	}
}

func TestPickerSubmitSuccessResets(t *testing.T) {
	var steps []Step
	api := &fakeAPI{}
	p := NewPicker(api, WithTransitionHook(func(_, to Step) { steps = append(steps, to) }))
	fillToDetails(t, p)

	if err := p.Next(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if p.Step() != StepSelectingSlot || p.Form() != (Form{}) {
		t.Fatalf("expected reset form, got %s %+v", p.Step(), p.Form())
	}
	out := p.LastOutcome()
	if out == nil || out.Appointment == nil || out.Appointment.ID != "a1" {
		t.Fatalf("expected success outcome, got %+v", out)
	}
	want := []Step{StepSelectingService, StepEnteringDetails, StepSubmitting, StepSucceeded, StepSelectingSlot}
	if len(steps) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, steps)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("expected transitions %v, got %v", want, steps)
		}
	}
}

func TestPickerConflictReturnsToDetails(t *testing.T) {
	api := &fakeAPI{createFn: func(models.AppointmentRequest) (*models.Appointment, error) {
		return nil, &APIError{Kind: KindConflict, StatusCode: 400, Message: "this time is no longer available"}
	}}
	p := NewPicker(api)
	fillToDetails(t, p)

	err := p.Next(context.Background())
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if p.Step() != StepEnteringDetails {
		t.Fatalf("expected details step, got %s", p.Step())
	}
	if p.Form().Name != "Jane Doe" {
		t.Fatal("expected entered details to be kept")
	}
	if p.Message() == "" {
		t.Fatal("expected a user-visible message")
	}
	for _, s := range p.Slots() {
		if s == "10:30" {
			t.Fatal("expected the lost slot to be dropped from the offer")
		}
	}
}

func TestPickerRefusesSecondSubmit(t *testing.T) {
	api := &fakeAPI{release: make(chan struct{}), entered: make(chan struct{})}
	p := NewPicker(api)
	fillToDetails(t, p)

	done := make(chan error, 1)
	go func() { done <- p.Next(context.Background()) }()
	<-api.entered

	if p.Step() != StepSubmitting {
		t.Fatalf("expected submitting, got %s", p.Step())
	}
	if err := p.Next(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected in-flight refusal, got %v", err)
	}
	if err := p.Back(); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected back to be refused while submitting, got %v", err)
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if api.creates != 1 {
		t.Fatalf("expected exactly one request, got %d", api.creates)
	}
}

func TestPickerFallsBackToCatalog(t *testing.T) {
	p := NewPicker(&fakeAPI{availErr: &APIError{Kind: KindTransport, Err: errors.New("dial tcp: refused")}})

	err := p.SelectDate(context.Background(), "2030-01-11")
	if err == nil {
		t.Fatal("expected the fetch error to be reported")
	}
	if len(p.Slots()) != len(models.DefaultSlotCatalog) {
		t.Fatalf("expected full catalog, got %v", p.Slots())
	}
	if p.Message() != slotsUnavailableMessage {
		t.Fatalf("expected fallback notice, got %q", p.Message())
	}
	if err := p.SelectTime("09:00"); err != nil {
		t.Fatalf("expected catalog time to be selectable, got %v", err)
	}
}
