package patient

import (
	"context"
	"errors"
	"strings"

	patientRepo "medicare/database/repository/patient"
	"medicare/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var ErrPatientNotFound = errors.New("patient not found")

// ValidationError carries every field message from a rejected payload.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// PatientService manages intake records.
type PatientService interface {
	CreatePatient(ctx context.Context, p models.Patient) (*models.Patient, error)
	GetPatient(ctx context.Context, id string) (*models.Patient, error)
	ListPatients(ctx context.Context) ([]models.Patient, error)
	UpdatePatient(ctx context.Context, id string, update models.PatientUpdate) (*models.Patient, error)
	DeletePatient(ctx context.Context, id string) error
	SearchPatients(ctx context.Context, query string) ([]models.Patient, error)
}

type DefaultPatientService struct {
	Repo     patientRepo.PatientRepository
	Logger   *zap.Logger
	validate *validator.Validate
}

func NewPatientService(repo patientRepo.PatientRepository, logger *zap.Logger) *DefaultPatientService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultPatientService{Repo: repo, Logger: logger, validate: validator.New()}
}

func (s *DefaultPatientService) CreatePatient(ctx context.Context, p models.Patient) (*models.Patient, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Symptoms = strings.TrimSpace(p.Symptoms)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.BloodGroup == "" {
		p.BloodGroup = models.DefaultBloodGroup
	}
	if p.Gender == "" {
		p.Gender = models.DefaultGender
	}
	if p.AssignedDoctor == "" {
		p.AssignedDoctor = models.DefaultAssignedDoctor
	}
	if err := s.check(p); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	s.Logger.Info("patient created", zap.String("patientID", p.ID))
	return &p, nil
}

func (s *DefaultPatientService) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	p, err := s.Repo.GetByID(ctx, id)
	return p, translate(err)
}

func (s *DefaultPatientService) ListPatients(ctx context.Context) ([]models.Patient, error) {
	return s.Repo.List(ctx)
}

// UpdatePatient applies only the fields present in update.
func (s *DefaultPatientService) UpdatePatient(ctx context.Context, id string, update models.PatientUpdate) (*models.Patient, error) {
	if err := s.check(update); err != nil {
		return nil, err
	}

	fields := bson.M{}
	setString := func(key string, v *string) {
		if v != nil {
			fields[key] = strings.TrimSpace(*v)
		}
	}
	setString("name", update.Name)
	setString("symptoms", update.Symptoms)
	setString("contactNumber", update.ContactNumber)
	setString("email", update.Email)
	setString("address", update.Address)
	setString("bloodGroup", update.BloodGroup)
	setString("gender", update.Gender)
	setString("medicalHistory", update.MedicalHistory)
	setString("assignedDoctor", update.AssignedDoctor)
	if update.Age != nil {
		fields["age"] = *update.Age
	}
	if update.IsAdmitted != nil {
		fields["isAdmitted"] = *update.IsAdmitted
	}
	if name, ok := fields["name"]; ok && name == "" {
		return nil, &ValidationError{Messages: []string{"name is required"}}
	}
	if symptoms, ok := fields["symptoms"]; ok && symptoms == "" {
		return nil, &ValidationError{Messages: []string{"symptoms is required"}}
	}

	if len(fields) == 0 {
		return s.GetPatient(ctx, id)
	}
	p, err := s.Repo.UpdateSetDocument(ctx, id, fields)
	if err != nil {
		return nil, translate(err)
	}
	s.Logger.Info("patient updated", zap.String("patientID", id))
	return p, nil
}

func (s *DefaultPatientService) DeletePatient(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.Logger.Info("patient deleted", zap.String("patientID", id))
	return nil
}

func (s *DefaultPatientService) SearchPatients(ctx context.Context, query string) ([]models.Patient, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Repo.List(ctx)
	}
	return s.Repo.Search(ctx, query)
}

func (s *DefaultPatientService) check(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &ValidationError{Messages: msgs}
}

func fieldMessage(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "max":
		return name + " must be at most " + fe.Param()
	case "min":
		return name + " must be at least " + fe.Param()
	case "email":
		return name + " must be a valid email"
	case "oneof":
		return name + " must be one of " + fe.Param()
	default:
		return name + " is invalid"
	}
}

func translate(err error) error {
	if errors.Is(err, patientRepo.ErrPatientNotFound) {
		return ErrPatientNotFound
	}
	return err
}
