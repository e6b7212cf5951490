package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	exchangeName = "parcours.events"

	// RoutingKeyAttemptFinalized is emitted once per attempt, on its first
	// successful finalization.
	RoutingKeyAttemptFinalized = "attempt.finalized"
)

// AttemptFinalized is the event body published when an attempt reaches a
// terminal graded state.
type AttemptFinalized struct {
	AttemptID         string    `json:"attempt_id"`
	AssessmentID      string    `json:"assessment_id"`
	LearnerID         int       `json:"learner_id"`
	Score             int       `json:"score"`
	Passed            bool      `json:"passed"`
	ValidationsEarned int       `json:"validations_earned"`
	ElapsedSeconds    int       `json:"elapsed_seconds"`
	FinalizedAt       time.Time `json:"finalized_at"`
}

// Publisher emits domain events to a RabbitMQ topic exchange. A nil
// Publisher is valid and drops every event, so the broker stays optional.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     zerolog.Logger
}

// NewPublisher connects to the broker and declares the topic exchange.
func NewPublisher(url string, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{
		conn:    conn,
		channel: channel,
		log:     log.With().Str("component", "event_publisher").Logger(),
	}, nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// PublishAttemptFinalized emits an attempt.finalized event.
func (p *Publisher) PublishAttemptFinalized(ctx context.Context, event AttemptFinalized) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.channel.PublishWithContext(
		ctx,
		exchangeName,
		RoutingKeyAttemptFinalized,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.log.Debug().
		Str("attempt_id", event.AttemptID).
		Str("routing_key", RoutingKeyAttemptFinalized).
		Msg("Event published")
	return nil
}
