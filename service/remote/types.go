package remote

import "fmt"

// Empty is a request without parameters
type Empty struct{}

// MachineInfo describes the remote machine
type MachineInfo struct {
	KernelVersion string `json:"kernelVersion"`
	// SystemUptime is expressed in seconds
	SystemUptime uint64 `json:"systemUptime"`
}

// ExecuteRequest carries a shell command
type ExecuteRequest struct {
	Command string `json:"command"`
}

// ExecuteReply carries the result of a shell command
type ExecuteReply struct {
	Code   int32  `json:"code"`
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// ProgressStatus is the state carried by an upgrade progress message
type ProgressStatus int32

const (
	ProgressRunning ProgressStatus = iota
	ProgressSuccess
	ProgressFailure
)

func (s ProgressStatus) String() string {
	switch s {
	case ProgressRunning:
		return "Running"
	case ProgressSuccess:
		return "Success"
	case ProgressFailure:
		return "Failure"
	}
	return fmt.Sprintf("ProgressStatus(%d)", int32(s))
}

// Progress is a single upgrade progress message, Position is a percentage in 0..100.
type Progress struct {
	Status   ProgressStatus `json:"status"`
	Position int32          `json:"position"`
}

// Terminal returns true for the last message of an upgrade
func (p *Progress) Terminal() bool {
	return p.Status != ProgressRunning
}
