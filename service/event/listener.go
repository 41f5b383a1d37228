package event

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/viant/remotely/service/messaging"
)

// drainWait bounds a single wait for a pending event while stopping
const drainWait = 50 * time.Millisecond

// Handler processes an event; an error nacks the event so the queue can redeliver it
type Handler[T any] func(event *Event[T]) error

// Listener consumes events in a background goroutine and passes them to a handler
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   Handler[T]
	logger    logr.Logger
	cancel    context.CancelFunc
	done      chan struct{}
	once      sync.Once
}

// Start starts consuming until Stop is called
func (l *Listener[T]) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	go func() {
		defer close(l.done)
		for {
			message, err := l.publisher.Next(ctx)
			if err != nil {
				if ctx.Err() != nil {
					l.drain()
					return
				}
				l.logger.Error(err, "failed to consume event")
				continue
			}
			l.handle(message)
		}
	}()
}

// drain handles events still queued or waiting for a retry
func (l *Listener[T]) drain() {
	for l.publisher.Pending() > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), drainWait)
		message, err := l.publisher.Next(ctx)
		cancel()
		if err != nil {
			continue
		}
		l.handle(message)
	}
}

func (l *Listener[T]) handle(message messaging.Message[Event[T]]) {
	event := message.T()
	if err := l.handler(event); err != nil {
		l.logger.Error(err, "failed to handle event", "type", event.Context.EventType, "index", event.Context.Index)
		if err = message.Nack(err); err != nil {
			l.logger.Error(err, "failed to nack event")
		}
		return
	}
	if err := message.Ack(); err != nil {
		l.logger.Error(err, "failed to ack event")
	}
}

// Stop stops consuming, handles pending events and waits for the handler goroutine to exit
func (l *Listener[T]) Stop() {
	l.once.Do(func() {
		if l.cancel == nil {
			close(l.done)
			return
		}
		l.cancel()
	})
	<-l.done
}

// NewListener creates a listener
func NewListener[T any](publisher *Publisher[T], handler Handler[T], logger logr.Logger) *Listener[T] {
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logger,
		done:      make(chan struct{}),
	}
}
