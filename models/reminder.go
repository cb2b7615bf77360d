package models

// ReminderPayload is the queued body of an appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Doctor        string `json:"doctor"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}
