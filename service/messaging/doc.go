// Package messaging defines the queue abstraction used to publish report
// entry events; package memory provides the in-process implementation.
package messaging
