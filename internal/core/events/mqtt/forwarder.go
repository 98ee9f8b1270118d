package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/pos-identity/internal/core/events"
)

// MessagePublisher is the slice of Client the forwarder needs.
type MessagePublisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Forwarder relays identity events from the in-process bus to the broker.
type Forwarder struct {
	publisher MessagePublisher
	prefix    string
	qos       byte
	logger    *slog.Logger
}

func NewForwarder(publisher MessagePublisher, prefix string, qos byte, logger *slog.Logger) *Forwarder {
	return &Forwarder{
		publisher: publisher,
		prefix:    strings.TrimSuffix(prefix, "/"),
		qos:       qos,
		logger:    logger,
	}
}

// Topic maps "identity.role.created" to "<prefix>/identity/role/created".
func (f *Forwarder) Topic(eventType string) string {
	path := strings.ReplaceAll(eventType, ".", "/")
	if f.prefix == "" {
		return path
	}
	return f.prefix + "/" + path
}

func (f *Forwarder) Handle(_ context.Context, event events.Event) error {
	payload, err := json.Marshal(map[string]interface{}{
		"id":         event.EventID(),
		"type":       event.EventType(),
		"occurredAt": event.OccurredAt(),
		"data":       event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventID(), err)
	}

	topic := f.Topic(event.EventType())
	if err := f.publisher.Publish(topic, payload, f.qos, false); err != nil {
		return fmt.Errorf("forward event %s to %s: %w", event.EventID(), topic, err)
	}

	f.logger.Debug("event forwarded", "event_id", event.EventID(), "topic", topic)
	return nil
}

// Attach subscribes the forwarder to every identity event on bus.
func (f *Forwarder) Attach(bus *events.EventBus) {
	bus.SubscribeMany(events.IdentityEventTypes(), f.Handle)
}
