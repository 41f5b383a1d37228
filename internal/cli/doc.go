// Package cli implements the remotely command line: run, serve and parse.
package cli
