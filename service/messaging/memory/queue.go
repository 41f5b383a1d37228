package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/remotely/internal/idgen"
	"github.com/viant/remotely/service/messaging"
)

// Config represents memory queue config
type Config struct {
	MaxRetries  int           `json:"maxRetries" yaml:"maxRetries"`
	RetryDelay  time.Duration `json:"retryDelay" yaml:"retryDelay"`
	DeadLetter  bool          `json:"deadLetter" yaml:"deadLetter"`
	QueueBuffer int           `json:"queueBuffer" yaml:"queueBuffer"`
}

// DefaultConfig returns default memory queue config
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  100 * time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 100,
	}
}

// Message represents an in-memory message
type Message[T any] struct {
	ID       string
	payload  T
	queue    *Queue[T]
	attempts int
	mux      sync.Mutex
	settled  bool
	lastErr  error
}

func (m *Message[T]) T() *T {
	return &m.payload
}

func (m *Message[T]) Ack() error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.settled {
		return fmt.Errorf("message %v already settled", m.ID)
	}
	m.settled = true
	return nil
}

// Nack redelivers the message after RetryDelay until MaxRetries is exceeded,
// then moves it to the dead letter list when enabled.
func (m *Message[T]) Nack(err error) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.settled {
		return fmt.Errorf("message %v already settled", m.ID)
	}
	m.settled = true
	m.lastErr = err
	m.attempts++
	if m.attempts <= m.queue.config.MaxRetries {
		retry := &Message[T]{ID: m.ID, payload: m.payload, queue: m.queue, attempts: m.attempts}
		m.queue.scheduled.Add(1)
		time.AfterFunc(m.queue.config.RetryDelay, func() {
			m.queue.messages <- retry
			m.queue.scheduled.Add(-1)
		})
		return nil
	}
	if m.queue.config.DeadLetter {
		m.queue.deadLetterMux.Lock()
		m.queue.deadLetter = append(m.queue.deadLetter, m)
		m.queue.deadLetterMux.Unlock()
	}
	return nil
}

// Queue represents an in-memory queue
type Queue[T any] struct {
	messages      chan *Message[T]
	config        Config
	deadLetter    []*Message[T]
	deadLetterMux sync.Mutex
	scheduled     atomic.Int32
}

// Publish adds a message, it blocks when the buffer is full
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	message := &Message[T]{ID: idgen.New(), payload: *t, queue: q}
	select {
	case q.messages <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume returns the next message
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case message := <-q.messages:
		return message, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns number of buffered messages, including retries waiting for redelivery
func (q *Queue[T]) Size() int {
	return len(q.messages) + int(q.scheduled.Load())
}

// DeadLetterSize returns number of dead messages
func (q *Queue[T]) DeadLetterSize() int {
	q.deadLetterMux.Lock()
	defer q.deadLetterMux.Unlock()
	return len(q.deadLetter)
}

// DeadLetterErrors returns the last error of each dead message
func (q *Queue[T]) DeadLetterErrors() []error {
	q.deadLetterMux.Lock()
	defer q.deadLetterMux.Unlock()
	ret := make([]error, 0, len(q.deadLetter))
	for _, message := range q.deadLetter {
		ret = append(ret, message.lastErr)
	}
	return ret
}

// NewQueue creates a memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
