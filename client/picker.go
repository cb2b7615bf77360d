package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"medicare/models"
)

// Step is a state of the booking form.
type Step int

const (
	StepSelectingSlot Step = iota
	StepSelectingService
	StepEnteringDetails
	StepSubmitting
	StepSucceeded
	StepFailed
)

func (s Step) String() string {
	switch s {
	case StepSelectingSlot:
		return "selecting slot"
	case StepSelectingService:
		return "selecting service"
	case StepEnteringDetails:
		return "entering details"
	case StepSubmitting:
		return "submitting"
	case StepSucceeded:
		return "succeeded"
	case StepFailed:
		return "failed"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	// ErrIncomplete means the current step's requirements are not met.
	ErrIncomplete = errors.New("step incomplete")
	// ErrWrongStep means the action does not belong to the current step.
	ErrWrongStep = errors.New("action not allowed in this step")
	// ErrSubmitInFlight means a submission is already waiting for the server.
	ErrSubmitInFlight = errors.New("submission already in progress")
)

// slotsUnavailableMessage is shown when booked times could not be fetched.
const slotsUnavailableMessage = "Could not load booked times; availability will be confirmed when you submit."

// Form is the data collected across the steps.
type Form struct {
	Date          string
	Time          string
	Doctor        string
	Service       string
	Name          string
	Email         string
	ContactNumber string
	Notes         string
}

func (f Form) request() models.AppointmentRequest {
	return models.AppointmentRequest{
		Name:          f.Name,
		Email:         f.Email,
		Date:          f.Date,
		Time:          f.Time,
		Doctor:        f.Doctor,
		Service:       f.Service,
		ContactNumber: f.ContactNumber,
		Notes:         f.Notes,
	}
}

// Outcome is the result of the last submission.
type Outcome struct {
	Appointment *models.Appointment
	Err         error
}

// Message is the text to show for this outcome.
func (o Outcome) Message() string {
	if o.Err != nil {
		return UserMessage(o.Err)
	}
	return "Appointment booked."
}

type transition struct {
	from, to Step
}

// Picker drives the multi-step booking form. Slot filtering is advisory; the
// server decides at submit time. Safe for concurrent use.
type Picker struct {
	mu sync.Mutex

	api      BookingAPI
	catalog  []string
	doctors  []string
	services []string

	step    Step
	form    Form
	slots   []string
	message string
	outcome *Outcome

	onTransition func(from, to Step)
	pending      []transition
}

type Option func(*Picker)

func WithCatalog(catalog []string) Option {
	return func(p *Picker) { p.catalog = append([]string(nil), catalog...) }
}

func WithDoctors(doctors []string) Option {
	return func(p *Picker) { p.doctors = append([]string(nil), doctors...) }
}

func WithServices(services []string) Option {
	return func(p *Picker) { p.services = append([]string(nil), services...) }
}

// WithTransitionHook observes every step change. The hook runs after the
// picker's lock is released and may call back into the picker.
func WithTransitionHook(hook func(from, to Step)) Option {
	return func(p *Picker) { p.onTransition = hook }
}

func NewPicker(api BookingAPI, opts ...Option) *Picker {
	p := &Picker{
		api:      api,
		catalog:  append([]string(nil), models.DefaultSlotCatalog...),
		doctors:  append([]string(nil), models.DefaultDoctors...),
		services: append([]string(nil), models.DefaultServices...),
		step:     StepSelectingSlot,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Picker) setStep(to Step) {
	if p.step == to {
		return
	}
	if p.onTransition != nil {
		p.pending = append(p.pending, transition{from: p.step, to: to})
	}
	p.step = to
}

// unlock releases the lock and then delivers queued transitions.
func (p *Picker) unlock() {
	pending := p.pending
	p.pending = nil
	hook := p.onTransition
	p.mu.Unlock()
	for _, t := range pending {
		hook(t.from, t.to)
	}
}

func (p *Picker) Step() Step {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.step
}

func (p *Picker) Form() Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

// Slots returns the times currently offered for the selected date.
func (p *Picker) Slots() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.slots...)
}

func (p *Picker) Doctors() []string  { return append([]string(nil), p.doctors...) }
func (p *Picker) Services() []string { return append([]string(nil), p.services...) }

// Message is the latest user-visible notice, if any.
func (p *Picker) Message() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.message
}

// LastOutcome returns the result of the most recent submission, or nil.
func (p *Picker) LastOutcome() *Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.outcome == nil {
		return nil
	}
	o := *p.outcome
	return &o
}

// SelectDate chooses the day and loads its open slots. A previously chosen time is cleared.
func (p *Picker) SelectDate(ctx context.Context, date string) error {
	date = strings.TrimSpace(date)
	p.mu.Lock()
	if p.step != StepSelectingSlot {
		p.unlock()
		return ErrWrongStep
	}
	if date == "" {
		p.unlock()
		return fmt.Errorf("%w: date is required", ErrIncomplete)
	}
	p.form.Date = date
	p.form.Time = ""
	p.slots = nil
	p.unlock()

	_, err := p.RefreshSlots(ctx)
	return err
}

// RefreshSlots re-fetches booked times for the selected date. If the fetch
// fails the whole catalog is offered with a notice, and the error is returned.
func (p *Picker) RefreshSlots(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	date, doctor := p.form.Date, p.form.Doctor
	p.unlock()
	if date == "" {
		return nil, fmt.Errorf("%w: date is required", ErrIncomplete)
	}

	av, err := p.api.Availability(ctx, date, doctor)

	p.mu.Lock()
	defer p.unlock()
	if p.form.Date != date {
		// The date changed while this request was in flight.
		return append([]string(nil), p.slots...), nil
	}
	if err != nil {
		p.slots = append([]string(nil), p.catalog...)
		p.message = slotsUnavailableMessage
		return append([]string(nil), p.slots...), err
	}
	p.slots = models.FilterSlots(p.catalog, av.Booked)
	p.message = ""
	if len(p.slots) == 0 {
		p.message = "No times left on this date."
	}
	if p.form.Time != "" && !contains(p.slots, p.form.Time) {
		p.form.Time = ""
	}
	return append([]string(nil), p.slots...), nil
}

// SelectTime picks one of the offered slots.
func (p *Picker) SelectTime(t string) error {
	p.mu.Lock()
	defer p.unlock()
	if p.step != StepSelectingSlot {
		return ErrWrongStep
	}
	if !contains(p.slots, t) {
		return fmt.Errorf("%w: %s is not an available time", ErrIncomplete, t)
	}
	p.form.Time = t
	return nil
}

func (p *Picker) SelectDoctor(doctor string) error {
	p.mu.Lock()
	defer p.unlock()
	if p.step != StepSelectingService {
		return ErrWrongStep
	}
	if len(p.doctors) > 0 && !contains(p.doctors, doctor) {
		return fmt.Errorf("%w: unknown doctor %q", ErrIncomplete, doctor)
	}
	p.form.Doctor = doctor
	return nil
}

func (p *Picker) SelectService(service string) error {
	p.mu.Lock()
	defer p.unlock()
	if p.step != StepSelectingService {
		return ErrWrongStep
	}
	if len(p.services) > 0 && !contains(p.services, service) {
		return fmt.Errorf("%w: unknown service %q", ErrIncomplete, service)
	}
	p.form.Service = service
	return nil
}

// SetDetails records the patient's identity.
func (p *Picker) SetDetails(name, email, contactNumber, notes string) error {
	p.mu.Lock()
	defer p.unlock()
	if p.step != StepEnteringDetails {
		return ErrWrongStep
	}
	p.form.Name = strings.TrimSpace(name)
	p.form.Email = strings.TrimSpace(email)
	p.form.ContactNumber = strings.TrimSpace(contactNumber)
	p.form.Notes = strings.TrimSpace(notes)
	return nil
}

// Next advances one step when the current step is complete. From
// EnteringDetails it submits the booking and blocks until the server answers;
// the returned error is the submission's failure, if any.
func (p *Picker) Next(ctx context.Context) error {
	p.mu.Lock()
	switch p.step {
	case StepSelectingSlot:
		defer p.unlock()
		if p.form.Date == "" {
			return fmt.Errorf("%w: date is required", ErrIncomplete)
		}
		if p.form.Time == "" || !contains(p.slots, p.form.Time) {
			return fmt.Errorf("%w: choose an available time", ErrIncomplete)
		}
		p.setStep(StepSelectingService)
		return nil

	case StepSelectingService:
		defer p.unlock()
		if p.form.Doctor == "" || p.form.Service == "" {
			return fmt.Errorf("%w: doctor and service are required", ErrIncomplete)
		}
		p.setStep(StepEnteringDetails)
		return nil

	case StepEnteringDetails:
		if err := p.detailsComplete(); err != nil {
			p.unlock()
			return err
		}
		return p.submit(ctx)

	case StepSubmitting:
		p.unlock()
		return ErrSubmitInFlight

	default:
		p.unlock()
		return ErrWrongStep
	}
}

func (p *Picker) detailsComplete() error {
	switch {
	case p.form.Name == "":
		return fmt.Errorf("%w: name is required", ErrIncomplete)
	case p.form.Email == "":
		return fmt.Errorf("%w: email is required", ErrIncomplete)
	case !models.ValidEmail(p.form.Email):
		return fmt.Errorf("%w: email address is not valid", ErrIncomplete)
	case p.form.ContactNumber == "":
		return fmt.Errorf("%w: contact number is required", ErrIncomplete)
	}
	return nil
}

// submit is entered with the lock held and releases it for the network call.
func (p *Picker) submit(ctx context.Context) error {
	p.setStep(StepSubmitting)
	p.message = ""
	req := p.form.request()
	p.unlock()

	appt, err := p.api.CreateAppointment(ctx, req)

	p.mu.Lock()
	defer p.unlock()
	if err != nil {
		p.outcome = &Outcome{Err: err}
		p.setStep(StepFailed)
		p.message = UserMessage(err)
		if IsConflict(err) {
			p.slots = remove(p.slots, req.Time)
		}
		p.setStep(StepEnteringDetails)
		return err
	}

	p.outcome = &Outcome{Appointment: appt}
	p.setStep(StepSucceeded)
	p.message = p.outcome.Message()
	p.form = Form{}
	p.slots = nil
	p.setStep(StepSelectingSlot)
	return nil
}

// Back returns to the previous step. It has no side effects and is refused
// only while a submission is in flight.
func (p *Picker) Back() error {
	p.mu.Lock()
	defer p.unlock()
	switch p.step {
	case StepSelectingService:
		p.setStep(StepSelectingSlot)
	case StepEnteringDetails:
		p.setStep(StepSelectingService)
	case StepSubmitting:
		return ErrSubmitInFlight
	}
	return nil
}

// Reset clears the form and returns to the first step.
func (p *Picker) Reset() error {
	p.mu.Lock()
	defer p.unlock()
	if p.step == StepSubmitting {
		return ErrSubmitInFlight
	}
	p.form = Form{}
	p.slots = nil
	p.message = ""
	p.setStep(StepSelectingSlot)
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
