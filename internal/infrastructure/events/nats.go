package events

import (
	"context"
	"fmt"
	"github.com/nats-io/nats.go"
	"time"
)

// NATSPublisher publishes events on subject "<stream>.<eventType>".
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSConn(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name(name), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return nc, nil
}

func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

func (p *NATSPublisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	eventJSON, err := encode(eventType, data)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(Subject(stream, eventType), eventJSON); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

func Subject(stream, eventType string) string {
	return stream + "." + eventType
}
