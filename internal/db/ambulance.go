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

// MongoAmbulanceCollection implements AmbulanceCollection for MongoDB.
type MongoAmbulanceCollection struct {
	Collection *mongo.Collection
}

// InsertAmbulance inserts an ambulance record into the collection.
func (c *MongoAmbulanceCollection) InsertAmbulance(ctx context.Context, ambulance models.Ambulance) (models.Ambulance, error) {
	if c.Collection == nil {
		return models.Ambulance{}, fmt.Errorf("mongo collection is nil")
	}
	if ambulance.ID.IsZero() {
		ambulance.ID = primitive.NewObjectID()
	}
	ambulance.CreatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, ambulance)
	return ambulance, err
}

// nearFilter matches documents whose location field is within radiusMeters of
// point, sorted nearest first by the 2dsphere index.
func nearFilter(field string, point models.GeoPoint, radiusMeters float64) bson.M {
	return bson.M{
		field: bson.M{
			"$near": bson.M{
				"$geometry":    point,
				"$maxDistance": radiusMeters,
			},
		},
	}
}

// ReserveNearest finds the nearest available ambulance within radiusMeters of
// point and flips it to unavailable in the same conditional update. Selection
// and flip are a single document operation, so two concurrent reservations can
// never both observe the same ambulance as available. Returns (nil, nil) when
// no ambulance matches.
func (c *MongoAmbulanceCollection) ReserveNearest(ctx context.Context, point models.GeoPoint, radiusMeters float64) (*models.Ambulance, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	filter := nearFilter("current_location", point, radiusMeters)
	filter["available"] = true

	var ambulance models.Ambulance
	err := c.Collection.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": bson.M{"available": false}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ambulance)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ambulance, nil
}

// Release marks an ambulance available again after its booking completed.
// The update is unconditional, so releasing twice is a no-op.
func (c *MongoAmbulanceCollection) Release(ctx context.Context, id primitive.ObjectID) error {
	return c.SetAvailability(ctx, id, true)
}

// SetAvailability sets the availability flag for an ambulance.
func (c *MongoAmbulanceCollection) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"available": available}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLocation overwrites an ambulance's current location and returns the
// updated record. No location history is kept.
func (c *MongoAmbulanceCollection) UpdateLocation(ctx context.Context, id string, point models.GeoPoint) (*models.Ambulance, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var ambulance models.Ambulance
	err = c.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"current_location": point}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ambulance)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ambulance, nil
}

// FindNearby returns available ambulances within radiusMeters of point,
// nearest first, capped at limit.
func (c *MongoAmbulanceCollection) FindNearby(ctx context.Context, point models.GeoPoint, radiusMeters float64, limit int64) ([]models.Ambulance, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	filter := nearFilter("current_location", point, radiusMeters)
	filter["available"] = true

	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ambulances []models.Ambulance
	if err := cursor.All(ctx, &ambulances); err != nil {
		return nil, err
	}
	return ambulances, nil
}

// FindAll returns every ambulance in the fleet.
func (c *MongoAmbulanceCollection) FindAll(ctx context.Context) ([]models.Ambulance, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ambulances []models.Ambulance
	if err := cursor.All(ctx, &ambulances); err != nil {
		return nil, err
	}
	return ambulances, nil
}
