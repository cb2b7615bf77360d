package appointmentRepo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"medicare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoAppointmentRepo) FindByEmail(ctx context.Context, email string) ([]models.AppointmentSummary, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	projection := bson.M{"_id": 0, "id": 1, "doctor": 1, "date": 1, "time": 1, "service": 1, "status": 1}
	opts := options.Find().SetProjection(projection).SetSort(dateTimeSort)

	cursor, err := r.coll.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments for %s: %w", email, err)
	}
	defer cursor.Close(ctx)

	summaries := []models.AppointmentSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return summaries, nil
}

func (r *mongoAppointmentRepo) ListAll(ctx context.Context) ([]models.Appointment, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(dateTimeSort))
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) ExistsLive(ctx context.Context, doctor, date, slotTime string) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctor": doctor,
		"date":   date,
		"time":   slotTime,
		"status": liveFilter(),
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check slot %s %s %s: %w", doctor, date, slotTime, err)
	}
	return n > 0, nil
}

func (r *mongoAppointmentRepo) BookedTimes(ctx context.Context, doctor, date string) ([]string, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"date": date, "status": liveFilter()}
	if doctor != "" {
		filter["doctor"] = doctor
	}

	raw, err := r.coll.Distinct(ctx, "time", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booked times for %s: %w", date, err)
	}

	times := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			times = append(times, s)
		}
	}
	sort.Strings(times)
	return times, nil
}
