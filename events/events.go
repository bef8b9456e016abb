// Package events publica eventos de domínio (cadastro, ativação e cancelamento de tiers).
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"coursehub/config"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	UserRegistered      = "user.registered"
	MembershipActivated = "membership.activated"
	MembershipCancelled = "membership.cancelled"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close()
}

type MembershipEvent struct {
	UserID                int64     `json:"user_id"`
	Username              string    `json:"username"`
	MembershipType        string    `json:"membership_type,omitempty"`
	BillingSubscriptionID string    `json:"billing_subscription_id,omitempty"`
	OccurredAt            time.Time `json:"occurred_at"`
}

// New conecta no RabbitMQ quando events.amqp_url está setado. Se a conexão
// falhar a aplicação segue com o LogPublisher.
func New(conf config.Configuration, logger zerolog.Logger) Publisher {
	if strings.TrimSpace(conf.Events.AmqpURL) == "" {
		return &LogPublisher{Logger: logger}
	}
	p, err := NewAMQPPublisher(conf.Events.AmqpURL, conf.Events.Exchange)
	if err != nil {
		logger.Warn().Err(err).Msg("RabbitMQ indisponível, eventos só serão logados")
		return &LogPublisher{Logger: logger}
	}
	return p
}

type AMQPPublisher struct {
	exchange string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	if !strings.HasSuffix(clean, "/") {
		clean += "/"
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewAMQPPublisher abre conexão e canal e declara o exchange (topic, durável).
func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{exchange: exchange, conn: conn, channel: channel}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	// amqp091.Channel não é seguro para uso concorrente
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         jsonBody,
		})
}

func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

type LogPublisher struct {
	Logger zerolog.Logger
}

func (p *LogPublisher) Publish(_ context.Context, routingKey string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	p.Logger.Info().Str("routing_key", routingKey).RawJSON("payload", raw).Msg("event")
	return nil
}

func (p *LogPublisher) Close() {}
