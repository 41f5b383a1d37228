package model

// Status is the outcome of a command, either Success or Failure.
type Status interface {
	status()
	String() string
}

// Success reports a completed command; Output is nil when the command produced none.
type Success struct {
	Output Output
}

// Failure reports a command the remote side could not complete
type Failure struct{}

func (Success) status() {}
func (Failure) status() {}

func (Success) String() string { return "success" }
func (Failure) String() string { return "failure" }

// NewSuccess returns a success status carrying output
func NewSuccess(output Output) Status {
	return Success{Output: output}
}

// IsSuccess returns true if status is a Success
func IsSuccess(status Status) bool {
	_, ok := status.(Success)
	return ok
}
