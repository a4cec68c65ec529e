package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ambulance represents a fleet vehicle and its live availability.
type Ambulance struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DriverID        primitive.ObjectID `bson:"driver_id" json:"driver_id"`
	VehicleNumber   string             `bson:"vehicle_number" json:"vehicle_number"`
	DriverName      string             `bson:"driver_name" json:"driver_name"`
	DriverPhone     string             `bson:"driver_phone" json:"driver_phone"`
	CurrentLocation GeoPoint           `bson:"current_location" json:"current_location"`
	Available       bool               `bson:"available" json:"available"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}
