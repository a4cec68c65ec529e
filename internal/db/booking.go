package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/ambulance-dispatch/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingCollection implements BookingCollection for MongoDB.
type MongoBookingCollection struct {
	Collection *mongo.Collection
}

// InsertBooking inserts a booking record into the collection.
func (c *MongoBookingCollection) InsertBooking(ctx context.Context, booking models.Booking) (models.Booking, error) {
	if c.Collection == nil {
		return models.Booking{}, fmt.Errorf("mongo collection is nil")
	}
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	_, err := c.Collection.InsertOne(ctx, booking)
	return booking, err
}

// FindBookingByID finds a booking by its ID.
func (c *MongoBookingCollection) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var booking models.Booking
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindAllBookings returns every booking, newest first.
func (c *MongoBookingCollection) FindAllBookings(ctx context.Context) ([]models.Booking, error) {
	return c.findBookings(ctx, bson.M{})
}

// FindBookingsByPatient returns a patient's bookings, newest first.
func (c *MongoBookingCollection) FindBookingsByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Booking, error) {
	return c.findBookings(ctx, bson.M{"patient_id": patientID})
}

func (c *MongoBookingCollection) findBookings(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateBookingStatus sets a booking's status and refreshes updated_at.
// Estimate and distance are written only when non-empty; empty values leave
// the stored ones unchanged. Returns the updated booking, or ErrNotFound for
// an unknown id.
func (c *MongoBookingCollection) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, estimatedTime, distance string) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if estimatedTime != "" {
		set["estimated_time"] = estimatedTime
	}
	if distance != "" {
		set["distance"] = distance
	}

	var booking models.Booking
	err = c.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
