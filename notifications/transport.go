package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// LogTransport writes deliveries to the process log. It is the default
// when no broker is configured, keeping local development dependency-free.
type LogTransport struct{}

func (LogTransport) Send(msg Message) error {
	body := msg.Body
	if body == "" {
		body = RenderTemplate(msg.Template, msg.Variables)
	}
	log.Printf("notify [%s] to=%s delivery_id=%s: %s", msg.Channel, msg.Recipient, msg.DeliveryID, body)
	return nil
}

// AMQPTransport publishes notifications to a fanout exchange so delivery
// workers (SMS/email gateways) consume them with their own retry policy.
type AMQPTransport struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

// NewAMQPTransport connects to the broker and declares the notifications
// fanout exchange.
func NewAMQPTransport(url, exchange string) (*AMQPTransport, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPTransport{conn: conn, channel: ch, exchange: exchange}, nil
}

func (t *AMQPTransport) Send(msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = t.channel.PublishWithContext(ctx,
		t.exchange,
		"", // fanout: routing key ignored
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

func (t *AMQPTransport) Close() error {
	if err := t.channel.Close(); err != nil {
		return err
	}
	return t.conn.Close()
}
