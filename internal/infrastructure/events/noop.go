package events

import "context"

// NoopPublisher drops every event. Used when EVENTS_DRIVER=none.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, any) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
