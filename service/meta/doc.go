// Package meta loads configuration and batch documents through afs, so that
// file://, mem:// and cloud storage locations are handled alike.
package meta
