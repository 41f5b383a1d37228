package messaging

import "context"

// Queue is a message queue for any payload type
type Queue[T any] interface {
	// Publish adds a message with payload t
	Publish(ctx context.Context, t *T) error
	// Consume blocks until a message is available or ctx is done
	Consume(ctx context.Context) (Message[T], error)
	// Size returns number of messages waiting for delivery
	Size() int
}

// Message is a consumed queue message
type Message[T any] interface {
	// T returns the payload
	T() *T
	// Ack marks the message as processed
	Ack() error
	// Nack marks the message as failed, the queue may redeliver it
	Nack(err error) error
}
