package models

import (
	"regexp"
	"time"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// DefaultAppointmentStatus is applied when a create request carries no status.
const DefaultAppointmentStatus = StatusScheduled

// AppointmentStatuses lists every allowed status value.
var AppointmentStatuses = []AppointmentStatus{
	StatusPending,
	StatusScheduled,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}

// Valid reports whether s is one of the allowed enum members.
func (s AppointmentStatus) Valid() bool {
	for _, v := range AppointmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Live reports whether an appointment in this status occupies its slot.
func (s AppointmentStatus) Live() bool {
	return s.Valid() && s != StatusCancelled
}

// LiveStatuses returns every status that occupies a slot.
func LiveStatuses() []AppointmentStatus {
	live := make([]AppointmentStatus, 0, len(AppointmentStatuses)-1)
	for _, s := range AppointmentStatuses {
		if s.Live() {
			live = append(live, s)
		}
	}
	return live
}

// Appointment is a persisted booking of one doctor slot.
type Appointment struct {
	ID            string            `bson:"id" json:"id"`
	PatientName   string            `bson:"name" json:"name"`
	PatientEmail  string            `bson:"email" json:"email"`
	ContactNumber string            `bson:"contactNumber" json:"contactNumber"`
	Date          string            `bson:"date" json:"date"` // YYYY-MM-DD
	Time          string            `bson:"time" json:"time"` // HH:MM, 24h
	DoctorID      string            `bson:"doctor" json:"doctor"`
	ServiceType   string            `bson:"service" json:"service"`
	Notes         string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Status        AppointmentStatus `bson:"status" json:"status"`
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// AppointmentSummary is the client-safe projection used by the "my appointments" listing.
type AppointmentSummary struct {
	ID          string            `bson:"id" json:"id"`
	DoctorID    string            `bson:"doctor" json:"doctor"`
	Date        string            `bson:"date" json:"date"`
	Time        string            `bson:"time" json:"time"`
	ServiceType string            `bson:"service" json:"service"`
	Status      AppointmentStatus `bson:"status" json:"status"`
}

// Summary projects an appointment to its listing shape.
func (a Appointment) Summary() AppointmentSummary {
	return AppointmentSummary{
		ID:          a.ID,
		DoctorID:    a.DoctorID,
		Date:        a.Date,
		Time:        a.Time,
		ServiceType: a.ServiceType,
		Status:      a.Status,
	}
}

// AppointmentRequest is the create payload. Field order matters: required-field
// checks report the first missing field in declaration order.
type AppointmentRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required"`
	Date          string `json:"date" validate:"required"`
	Time          string `json:"time" validate:"required"`
	Doctor        string `json:"doctor" validate:"required"`
	Service       string `json:"service" validate:"required"`
	ContactNumber string `json:"contactNumber" validate:"required"`
	Notes         string `json:"notes,omitempty"`
	Status        string `json:"status,omitempty"`
}

// RequiredAppointmentFields are the JSON names of the mandatory create fields.
var RequiredAppointmentFields = []string{"name", "email", "date", "time", "doctor", "service", "contactNumber"}

// StatusUpdateRequest is the body of the status update endpoint.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// Availability describes the advisory slot picture for one date (and optionally one doctor).
type Availability struct {
	Date      string   `json:"date"`
	Doctor    string   `json:"doctor,omitempty"`
	Catalog   []string `json:"catalog"`
	Booked    []string `json:"booked"`
	Available []string `json:"available"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail checks the simple local@domain.tld shape shared by server and client.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
