// Package relay broadcasts dispatch state changes to interested clients.
// Publishing is best-effort: failures are logged and swallowed, never
// propagated to the operation that triggered the event.
package relay

import (
	"time"

	"github.com/google/uuid"
)

// Event names match the channels the tracking clients subscribe to.
const (
	EventBookingCreated          = "newBooking"
	EventBookingStatusUpdate     = "bookingStatusUpdate"
	EventAmbulanceLocationUpdate = "ambulanceLocationUpdate"
)

// Publisher is the capability the dispatch service depends on. Implementations
// must not block the caller and must not surface transport errors.
type Publisher interface {
	Publish(event string, payload interface{})
}

// Envelope wraps a payload with an event id so at-least-once consumers can
// deduplicate.
type Envelope struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEnvelope stamps a payload with a fresh event id.
func NewEnvelope(event string, payload interface{}) Envelope {
	return Envelope{
		ID:        uuid.NewString(),
		Event:     event,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(event string, payload interface{}) {}
