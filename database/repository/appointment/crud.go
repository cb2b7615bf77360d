package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medicare/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Insert relies on unique_live_slot for atomicity; there is no read before the write.
func (r *mongoAppointmentRepo) Insert(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	appt.ID = uuid.New().String()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		appt.ID = ""
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &appt, nil
}

// UpdateStatus only matches a document whose required fields are still present,
// so the shape check and the write are one atomic findAndModify.
func (r *mongoAppointmentRepo) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	for _, field := range requiredFields {
		filter[field] = bson.M{"$nin": bson.A{nil, ""}}
	}
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Appointment
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	switch {
	case err == nil:
		return &updated, nil
	case mongo.IsDuplicateKeyError(err):
		// Re-activating a cancelled record whose slot was taken meanwhile.
		return nil, ErrDuplicateSlot
	case errors.Is(err, mongo.ErrNoDocuments):
		n, countErr := r.coll.CountDocuments(ctx, bson.M{"id": id})
		if countErr != nil {
			return nil, fmt.Errorf("failed to check appointment %s: %w", id, countErr)
		}
		if n == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrInvalidRecord
	default:
		return nil, fmt.Errorf("failed to update status of appointment %s: %w", id, err)
	}
}

func (r *mongoAppointmentRepo) Delete(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var deleted models.Appointment
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&deleted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete appointment %s: %w", id, err)
	}
	return &deleted, nil
}
