// Package tracing wraps OpenTelemetry so that the runner and the gRPC server
// can open spans without importing the SDK. Spans are no-ops until Init or
// InitWithExporter installs a provider.
package tracing
