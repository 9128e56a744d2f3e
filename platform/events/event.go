// Package events provides the in-process event bus the case and lead
// modules communicate over. It knows nothing about cases or leads; the
// event payloads live in internal/events.
package events

import (
	"context"
	"time"
)

// Event is implemented by every payload published on the bus. EventName is
// the subscription key.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the timestamp shared by all payloads; embed it and the
// Event interface is half satisfied.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a payload with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events of one type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes payloads to subscribed handlers. Publish is fire-and-forget
// and runs handlers asynchronously; PublishSync waits for every handler and
// surfaces the first error. Subscribe keys on Event.EventName.
type Bus interface {
	Publish(ctx context.Context, event Event)
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
