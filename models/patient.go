package models

import "time"

// Patient is an intake record, independent of any appointment.
type Patient struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name" validate:"required,max=50"`
	Age            *int      `bson:"age" json:"age" validate:"required,min=0,max=120"`
	Symptoms       string    `bson:"symptoms" json:"symptoms" validate:"required,max=500"`
	ContactNumber  string    `bson:"contactNumber,omitempty" json:"contactNumber,omitempty" validate:"max=20"`
	Email          string    `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Address        string    `bson:"address,omitempty" json:"address,omitempty" validate:"max=200"`
	BloodGroup     string    `bson:"bloodGroup" json:"bloodGroup" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O- Unknown"`
	Gender         string    `bson:"gender" json:"gender" validate:"omitempty,oneof='Male' 'Female' 'Other' 'Prefer not to say'"`
	MedicalHistory string    `bson:"medicalHistory,omitempty" json:"medicalHistory,omitempty" validate:"max=1000"`
	IsAdmitted     bool      `bson:"isAdmitted" json:"isAdmitted"`
	AssignedDoctor string    `bson:"assignedDoctor" json:"assignedDoctor"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

const (
	DefaultBloodGroup     = "Unknown"
	DefaultGender         = "Prefer not to say"
	DefaultAssignedDoctor = "Not assigned"
)

// PatientUpdate carries the fields a partial patient update may change.
type PatientUpdate struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,max=50"`
	Age            *int    `json:"age,omitempty" validate:"omitempty,min=0,max=120"`
	Symptoms       *string `json:"symptoms,omitempty" validate:"omitempty,max=500"`
	ContactNumber  *string `json:"contactNumber,omitempty" validate:"omitempty,max=20"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Address        *string `json:"address,omitempty" validate:"omitempty,max=200"`
	BloodGroup     *string `json:"bloodGroup,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O- Unknown"`
	Gender         *string `json:"gender,omitempty" validate:"omitempty,oneof='Male' 'Female' 'Other' 'Prefer not to say'"`
	MedicalHistory *string `json:"medicalHistory,omitempty" validate:"omitempty,max=1000"`
	IsAdmitted     *bool   `json:"isAdmitted,omitempty"`
	AssignedDoctor *string `json:"assignedDoctor,omitempty"`
}
