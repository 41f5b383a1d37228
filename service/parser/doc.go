// Package parser turns batch text into a model.Batch.
//
// Two forms are accepted. The single line form separates commands with ';':
//
//	EXECUTE: date -u; UPGRADE
//
// The multi-line form has one command per line; blank lines and lines
// starting with '#' are ignored:
//
//	# nightly maintenance
//	INSPECT
//	EXECUTE: uptime
//	UPGRADE
//
// Parsing is all or nothing: the first malformed command aborts with a
// *SyntaxError wrapping ErrEmptyString, ErrMissingArgument or ErrUnknownCommand.
package parser
