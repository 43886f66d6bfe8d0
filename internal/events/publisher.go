// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange receives every domain event.
const DefaultExchange = "skillsdesk.events"

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes JSON events to a topic exchange with retries.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  Channel
	exchange string
	executor failsafe.Executor[any]
	logger   *slog.Logger

	declareOnce sync.Once
	declareErr  error
	mu          sync.Mutex
}

// Config tunes the AMQP publisher.
type Config struct {
	Exchange   string
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func (c Config) normalize() Config {
	if c.Exchange == "" {
		c.Exchange = DefaultExchange
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 2 * time.Second
	}
	return c
}

// Dial connects to the broker and opens a channel.
func Dial(rawURL string, cfg Config, logger *slog.Logger) (*AMQPPublisher, error) {
	clean, err := sanitizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	conn, err := amqp.DialConfig(clean, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p := NewAMQPPublisher(ch, cfg, logger)
	p.conn = conn
	return p, nil
}

// NewAMQPPublisher wraps an open channel.
func NewAMQPPublisher(ch Channel, cfg Config, logger *slog.Logger) *AMQPPublisher {
	cfg = cfg.normalize()
	if logger == nil {
		logger = slog.Default()
	}
	retry := retrypolicy.NewBuilder[any]().
		WithBackoff(cfg.BaseDelay, cfg.MaxDelay).
		WithMaxRetries(cfg.MaxRetries).
		Build()
	return &AMQPPublisher{
		channel:  ch,
		exchange: cfg.Exchange,
		executor: failsafe.With[any](retry),
		logger:   logger,
	}
}

// Publish marshals body and sends it with the routing key.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, body any) error {
	if p == nil || p.channel == nil {
		return errors.New("events: publisher not configured")
	}
	p.declareOnce.Do(func() {
		p.declareErr = p.channel.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil)
	})
	if p.declareErr != nil {
		return p.declareErr
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	}
	err = p.executor.WithContext(ctx).Run(func() error {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	})
	if err != nil {
		return err
	}
	p.logger.Debug("event published", slog.String("exchange", p.exchange), slog.String("routing_key", routingKey))
	return nil
}

// Close releases channel and connection resources.
func (p *AMQPPublisher) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

// LogPublisher records events in the structured log when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher builds a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, routingKey string, body any) error {
	p.logger.InfoContext(ctx, "domain event", slog.String("routing_key", routingKey), slog.Any("body", body))
	return nil
}

func sanitizeURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	parsed, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
		return "", errors.New("events: AMQP scheme must be amqp:// or amqps://")
	}
	return clean, nil
}
