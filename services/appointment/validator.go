package appointment

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"medicare/models"

	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength  = 100
	maxNotesLength = 500
)

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Validator rejects structurally or temporally invalid bookings. It reads the
// clock on every call, so a retry close to the appointment time may fail where
// the first attempt passed.
type Validator struct {
	OpenHour  int
	CloseHour int
	Location  *time.Location
	Now       func() time.Time

	fields *validator.Validate
}

// NewValidator builds a Validator for clinic hours [openHour, closeHour) in loc.
func NewValidator(openHour, closeHour int, loc *time.Location) *Validator {
	if loc == nil {
		loc = time.UTC
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{
		OpenHour:  openHour,
		CloseHour: closeHour,
		Location:  loc,
		Now:       time.Now,
		fields:    v,
	}
}

// Normalize trims every field and rewrites an RFC 3339 date to the clinic's calendar date.
func (v *Validator) Normalize(req models.AppointmentRequest) models.AppointmentRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Doctor = strings.TrimSpace(req.Doctor)
	req.Service = strings.TrimSpace(req.Service)
	req.ContactNumber = strings.TrimSpace(req.ContactNumber)
	req.Notes = strings.TrimSpace(req.Notes)
	req.Status = strings.TrimSpace(req.Status)

	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		if ts, err := time.Parse(time.RFC3339, req.Date); err == nil {
			req.Date = ts.In(v.Location).Format(models.DateLayout)
		}
	}
	return req
}

// Validate applies the booking rules in order and stops at the first failure.
func (v *Validator) Validate(req models.AppointmentRequest) error {
	if err := v.fields.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return missingField(fieldErrs[0].Field())
		}
		return invalid(err.Error())
	}

	if !models.ValidEmail(req.Email) {
		return invalid("invalid email")
	}

	at, err := v.Timestamp(req.Date, req.Time)
	if err != nil {
		return err
	}
	if !at.After(v.now()) {
		return invalid("appointment must be in the future")
	}

	if !v.WithinHours(at.Hour()) {
		return invalid("outside business hours")
	}

	if utf8.RuneCountInString(req.Name) > maxNameLength || utf8.RuneCountInString(req.Notes) > maxNotesLength {
		return invalid("field too long")
	}

	if req.Status != "" {
		status := models.AppointmentStatus(req.Status)
		if !status.Valid() || status == models.StatusCancelled || status == models.StatusCompleted {
			return invalid("invalid status")
		}
	}
	return nil
}

// Timestamp combines a YYYY-MM-DD date and HH:MM time in the clinic's location.
func (v *Validator) Timestamp(date, clock string) (time.Time, error) {
	day, err := time.ParseInLocation(models.DateLayout, date, v.Location)
	if err != nil {
		return time.Time{}, invalid("invalid date")
	}
	if !timePattern.MatchString(clock) {
		return time.Time{}, invalid("invalid time")
	}
	hm, _ := time.Parse(models.TimeLayout, clock)
	return time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, v.Location), nil
}

// WithinHours reports whether hour falls in [OpenHour, CloseHour).
func (v *Validator) WithinHours(hour int) bool {
	return hour >= v.OpenHour && hour < v.CloseHour
}

func (v *Validator) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}
