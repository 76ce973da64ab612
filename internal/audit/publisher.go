package audit

import (
	"context"
	"time"
)

// Store is the audit sink contract. Append-only; nothing in the system
// rewrites history.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher is what domain services emit through. Implementations must not
// let audit latency block the request path beyond a channel send.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// StorePublisher appends straight to a store. Used in tests and when no
// worker is wired.
type StorePublisher struct {
	store Store
}

func NewStorePublisher(store Store) *StorePublisher {
	return &StorePublisher{store: store}
}

func (p *StorePublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

// ChannelPublisher hands events to a background worker over a buffered
// channel so sink latency (Kafka, Postgres) stays off the request path.
type ChannelPublisher struct {
	inbox chan<- Event
}

func NewChannelPublisher(inbox chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox}
}

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
