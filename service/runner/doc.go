// Package runner executes a model.Batch against a remote.Service and
// accumulates a report.Report.
//
// Commands run strictly in order with at most one remote call in flight.
// Remote outcomes such as a non-zero exit code or a failed upgrade are
// recorded as data; only a call that cannot be made aborts the batch.
package runner
