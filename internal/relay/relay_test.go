package relay

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	env := NewEnvelope(EventBookingCreated, map[string]string{"booking_id": "abc"})

	assert.Equal(t, EventBookingCreated, env.Event)
	assert.False(t, env.Timestamp.IsZero())

	_, err := uuid.Parse(env.ID)
	assert.NoError(t, err, "envelope id should be a uuid")

	second := NewEnvelope(EventBookingCreated, nil)
	assert.NotEqual(t, env.ID, second.ID, "event ids must be unique")
}

func TestEnvelope_JSONShape(t *testing.T) {
	env := NewEnvelope(EventAmbulanceLocationUpdate, map[string]float64{"lng": 77.59, "lat": 12.97})
	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, EventAmbulanceLocationUpdate, decoded["event"])
	assert.Contains(t, decoded, "payload")
	assert.Contains(t, decoded, "timestamp")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	// Must be safe for any payload, including nil.
	p.Publish(EventBookingStatusUpdate, nil)
	p.Publish("", struct{ X int }{1})
}
