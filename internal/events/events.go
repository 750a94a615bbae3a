// Package events publishes submission lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event types.
const (
	TypeSubmissionCreated = "submission.created"
	TypeSubmissionGraded  = "submission.graded"
	TypeSubmissionStatus  = "submission.status_changed"
)

// Event is the payload published for every submission mutation.
type Event struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	SubmissionID     string    `json:"submission_id"`
	AssignmentID     string    `json:"assignment_id"`
	StudentID        string    `json:"student_id"`
	SubmissionNumber int       `json:"submission_number"`
	Status           string    `json:"status"`
	IsLate           bool      `json:"is_late"`
	FinalScore       *float64  `json:"final_score,omitempty"`
	CorrelationID    string    `json:"correlation_id,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Publisher delivers events to subscribers. Publishing is best effort: callers log
// failures and never roll back a committed mutation because of them.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// NATSPublisher publishes events on "<prefix>.<type>" subjects.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

// NewPublisher returns a NATS publisher, or a NopPublisher when conn is nil.
func NewPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) Publisher {
	if conn == nil {
		return NopPublisher{}
	}
	return &NATSPublisher{
		conn:   conn,
		prefix: strings.Trim(prefix, "."),
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

// Subject returns the NATS subject an event type is published on.
func Subject(prefix, eventType string) string {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	event = stamp(event)
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	subject := Subject(p.prefix, event.Type)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug().Str("subject", subject).Str("submission_id", event.SubmissionID).Msg("event published")
	return nil
}

func stamp(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return event
}
