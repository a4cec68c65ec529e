package relay

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// MQTTPublisher publishes dispatch events to an MQTT broker, one topic per
// event name under the configured prefix.
type MQTTPublisher struct {
	client      mqtt.Client
	topicPrefix string
}

// NewMQTTPublisher connects to the broker and returns a publisher. The
// connection auto-reconnects; events published while disconnected are dropped,
// which is acceptable for a best-effort relay.
func NewMQTTPublisher(brokerURL, clientID, topicPrefix string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", token.Error())
	}

	return &MQTTPublisher{client: client, topicPrefix: topicPrefix}, nil
}

// Publish sends the event without waiting for broker acknowledgement. Errors
// are logged and swallowed.
func (p *MQTTPublisher) Publish(event string, payload interface{}) {
	envelope := NewEnvelope(event, payload)
	data, err := json.Marshal(envelope)
	if err != nil {
		log.WithError(err).WithField("event", event).Error("Failed to marshal relay event")
		return
	}

	token := p.client.Publish(p.topicPrefix+"/"+event, 0, false, data)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.WithError(err).WithField("event", event).Warn("Failed to publish relay event")
		}
	}()
}

// Close disconnects from the broker, allowing in-flight publishes to drain.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
