package runner

import (
	"fmt"

	"github.com/viant/remotely/model"
)

// TransportError reports a remote call that could not be completed; it aborts the batch
type TransportError struct {
	// Index is the 0-based position of the command in the batch
	Index   int
	Command model.Command
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("command #%d '%v' failed: %v", e.Index+1, e.Command, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
