// Package progress tracks command counters of a batch run. The tracker
// travels in the context, so the runner updates it without holding a
// reference and observers get notified through an OnChange callback.
package progress
