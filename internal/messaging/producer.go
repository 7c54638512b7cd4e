package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// brokerChannel is the part of *amqp091.Channel the producer uses.
type brokerChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	IsClosed() bool
	Close() error
}

type brokerConnection interface {
	Channel() (brokerChannel, error)
	IsClosed() bool
	Close() error
}

type amqpConnection struct {
	*amqp091.Connection
}

func (c amqpConnection) Channel() (brokerChannel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func dialAMQP(rawURL string) (brokerConnection, error) {
	conn, err := amqp091.Dial(rawURL)
	if err != nil {
		return nil, err
	}
	return amqpConnection{conn}, nil
}

// EventProducer publishes JSON messages to a RabbitMQ topic exchange. A
// closed channel or connection is reopened on the next publish.
type EventProducer struct {
	mu       sync.Mutex
	url      string
	dial     func(string) (brokerConnection, error)
	conn     brokerConnection
	channel  brokerChannel
	declared map[string]bool
	logger   *zap.Logger
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewEventProducer dials the broker and opens a channel.
func NewEventProducer(amqpURL string, logger *zap.Logger) (*EventProducer, error) {
	return newEventProducer(amqpURL, dialAMQP, logger)
}

func newEventProducer(amqpURL string, dial func(string) (brokerConnection, error), logger *zap.Logger) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &EventProducer{url: cleanURL, dial: dial, logger: logger}
	if err := p.ensureChannel(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// Publish marshals body and sends it to exchange with routingKey. The
// exchange is declared durable on first use of each channel. A publish that
// fails on a closed channel is retried once on a fresh one.
func (p *EventProducer) Publish(ctx context.Context, exchange, routingKey string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.publish(ctx, exchange, routingKey, payload)
	if errors.Is(err, amqp091.ErrClosed) {
		p.logger.Warn("amqp channel closed; reconnecting", zap.String("exchange", exchange))
		p.dropChannel()
		err = p.publish(ctx, exchange, routingKey, payload)
	}
	if err != nil {
		return err
	}

	p.logger.Debug("published message", zap.String("exchange", exchange), zap.String("routing_key", routingKey))
	return nil
}

func (p *EventProducer) publish(ctx context.Context, exchange, routingKey string, payload []byte) error {
	if err := p.ensureChannel(); err != nil {
		return err
	}
	if !p.declared[exchange] {
		if err := p.channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
			return err
		}
		p.declared[exchange] = true
	}
	return p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         payload,
	})
}

// ensureChannel reopens the channel, redialing first when the connection is
// gone. Callers hold p.mu.
func (p *EventProducer) ensureChannel() error {
	if p.channel != nil && !p.channel.IsClosed() {
		return nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := p.dial(p.url)
		if err != nil {
			return fmt.Errorf("dial amqp broker: %w", err)
		}
		p.conn = conn
	}
	channel, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open amqp channel: %w", err)
	}
	p.channel = channel
	p.declared = make(map[string]bool)
	return nil
}

func (p *EventProducer) dropChannel() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	p.channel = nil
}

// Close closes the channel and connection.
func (p *EventProducer) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropChannel()
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
