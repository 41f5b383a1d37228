// Package report holds the outcome of a batch run and renders it as YAML or
// XML. Field order of both formats is stable and consumed by external tools.
package report
