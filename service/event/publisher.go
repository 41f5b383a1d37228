package event

import (
	"context"

	"github.com/viant/remotely/service/messaging"
)

// Publisher publishes typed events to a queue
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

// Publish publishes an event
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	return p.queue.Publish(ctx, event)
}

// Next returns the next unsettled message, the caller must Ack or Nack it
func (p *Publisher[T]) Next(ctx context.Context) (messaging.Message[Event[T]], error) {
	return p.queue.Consume(ctx)
}

// Consume returns the next acknowledged event
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	message, err := p.queue.Consume(ctx)
	if err != nil || message == nil {
		return nil, err
	}
	if err = message.Ack(); err != nil {
		return nil, err
	}
	return message.T(), nil
}

// Pending returns number of events waiting for delivery
func (p *Publisher[T]) Pending() int {
	return p.queue.Size()
}

// NewPublisher creates a publisher
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}
