// Package idgen generates opaque unique identifiers used in report titles.
// Tests replace NewFunc to obtain deterministic values.
package idgen
