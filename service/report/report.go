package report

import (
	"time"

	"github.com/viant/remotely/internal/clock"
	"github.com/viant/remotely/model"
)

// Entry holds the outcome of one executed command
type Entry struct {
	Command model.Command `json:"command"`
	Status  model.Status  `json:"status"`
}

// Report accumulates entries of a batch run in execution order.
// It is only appended to while the runner owns it and is read-only afterwards.
type Report struct {
	title   string
	date    time.Time
	entries []Entry
}

// New creates a report stamped with the current UTC time
func New(title string) *Report {
	return NewAt(title, clock.Now())
}

// NewAt creates a report with an explicit creation time
func NewAt(title string, date time.Time) *Report {
	return &Report{title: title, date: date.UTC()}
}

// Append adds an entry to the end of the report
func (r *Report) Append(entry Entry) {
	r.entries = append(r.entries, entry)
}

// Title returns report title
func (r *Report) Title() string {
	return r.title
}

// Date returns report creation time in UTC
func (r *Report) Date() time.Time {
	return r.date
}

// Entries returns report entries in execution order
func (r *Report) Entries() []Entry {
	return r.entries
}

// Len returns number of entries
func (r *Report) Len() int {
	return len(r.entries)
}

// Succeeded returns number of entries with a success status
func (r *Report) Succeeded() int {
	count := 0
	for _, entry := range r.entries {
		if model.IsSuccess(entry.Status) {
			count++
		}
	}
	return count
}
