package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/remotely/internal/clock"
)

// Delta is an incremental change of batch counters, fields may be negative
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Running   int
	Pending   int
}

// Snapshot is a point in time copy of batch counters
type Snapshot struct {
	Title     string
	StartedAt time.Time

	TotalCommands     int
	CompletedCommands int
	FailedCommands    int
	RunningCommands   int
	PendingCommands   int
}

// Done returns true when every command has been completed or failed
func (s Snapshot) Done() bool {
	return s.TotalCommands > 0 && s.CompletedCommands+s.FailedCommands >= s.TotalCommands
}

// Progress keeps command counters of a single batch run. It is safe for concurrent use.
type Progress struct {
	mux      sync.Mutex
	state    Snapshot
	onChange func(Snapshot)
}

// Update applies delta; the onChange callback receives a snapshot outside the lock.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.state.TotalCommands += d.Total
	p.state.CompletedCommands += d.Completed
	p.state.FailedCommands += d.Failed
	p.state.RunningCommands += d.Running
	p.state.PendingCommands += d.Pending
	snapshot := p.state
	cb := p.onChange
	p.mux.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters
func (p *Progress) Snapshot() Snapshot {
	if p == nil {
		return Snapshot{}
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.state
}

// Done returns true when every command has been completed or failed
func (p *Progress) Done() bool {
	return p.Snapshot().Done()
}

// OnChange registers a callback invoked after every Update, nil disables it
func (p *Progress) OnChange(cb func(Snapshot)) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.onChange = cb
	p.mux.Unlock()
}

// New creates a tracker
func New(title string, onChange func(Snapshot)) *Progress {
	return &Progress{state: Snapshot{Title: title, StartedAt: clock.Now()}, onChange: onChange}
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker embeds a new tracker in a derived context
func WithNewTracker(ctx context.Context, title string, onChange func(Snapshot)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tracker := New(title, onChange)
	return context.WithValue(ctx, trackerKey, tracker), tracker
}

// FromContext returns the tracker carried by ctx
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tracker, ok := ctx.Value(trackerKey).(*Progress)
	return tracker, ok
}

// UpdateCtx applies delta to the tracker carried by ctx, if any
func UpdateCtx(ctx context.Context, d Delta) {
	if tracker, ok := FromContext(ctx); ok {
		tracker.Update(d)
	}
}
