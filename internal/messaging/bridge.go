package messaging

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/appointment-service/internal/events"
)

const routingKeyPrefix = "appointments."

// Publisher sends a body to an exchange.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body any) error
}

// EventBridge forwards domain events to the broker.
type EventBridge struct {
	publisher Publisher
	exchange  string
	logger    *zap.Logger
}

func NewEventBridge(publisher Publisher, exchange string, logger *zap.Logger) *EventBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBridge{publisher: publisher, exchange: exchange, logger: logger}
}

// RoutingKey returns the routing key used for kind.
func RoutingKey(kind events.Kind) string {
	return routingKeyPrefix + string(kind)
}

// Register subscribes the bridge to every event kind.
func (b *EventBridge) Register(d events.Dispatcher) {
	events.SubscribeAll(d, b.Handle)
}

// Handle publishes event. Contact details and reset secrets are excluded by
// the event's JSON encoding.
func (b *EventBridge) Handle(ctx context.Context, event events.Event) error {
	if err := b.publisher.Publish(ctx, b.exchange, RoutingKey(event.Kind), event); err != nil {
		return fmt.Errorf("publish %s: %w", event.Kind, err)
	}
	return nil
}
