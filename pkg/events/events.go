package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cthayes8/tlco-waitlist/pkg/logger"
	"github.com/nats-io/nats.go"
)

// Subjects published by the waitlist service.
const (
	SignupCreated = "waitlist.signup.created"
	SubscribeSent = "waitlist.subscribe.sent"
)

// SignupCreatedEvent is emitted after a waitlist row has been durably
// inserted. Consumers use it for analytics; delivery is best-effort.
type SignupCreatedEvent struct {
	EntryID   int64     `json:"entry_id"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.WithContext(ctx).Debug("Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	n.conn.Close()
	return nil
}

// NoopPublisher is used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
