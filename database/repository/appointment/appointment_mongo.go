package appointmentRepo

import (
	"context"
	"time"

	"medicare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "appointments"

// requiredFields are the stored keys that must stay non-empty for a record to be valid.
var requiredFields = []string{"name", "email", "date", "time", "doctor", "service", "contactNumber"}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a MongoDB AppointmentRepository on db.
func NewMongoAppointmentRepo(db *mongo.Database) AppointmentRepository {
	return &mongoAppointmentRepo{
		coll: db.Collection(collectionName),
	}
}

func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

// liveFilter matches records that occupy their slot.
func liveFilter() bson.M {
	return bson.M{"$in": liveStatusValues()}
}

func liveStatusValues() bson.A {
	values := bson.A{}
	for _, s := range models.LiveStatuses() {
		values = append(values, string(s))
	}
	return values
}

// dateTimeSort is the canonical listing order.
var dateTimeSort = bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}
