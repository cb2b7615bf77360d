package patientRepo

import (
	"context"
	"errors"

	"medicare/models"

	"go.mongodb.org/mongo-driver/bson"
)

var ErrPatientNotFound = errors.New("patient not found")

// PatientRepository defines methods for patient data access.
type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	List(ctx context.Context) ([]models.Patient, error)
	// UpdateSetDocument applies a $set of the given fields and returns the updated record.
	UpdateSetDocument(ctx context.Context, id string, fields bson.M) (*models.Patient, error)
	Delete(ctx context.Context, id string) error
	// Search runs a text search over name, symptoms and medical history.
	Search(ctx context.Context, query string) ([]models.Patient, error)
	EnsureIndexes(ctx context.Context) error
}
