package remote

import "context"

// Service represents the remote side of the batch protocol
type Service interface {
	// Inspect returns machine information
	Inspect(ctx context.Context) (*MachineInfo, error)
	// Execute runs an opaque shell command, a non-zero exit code is reported in the reply, not as an error
	Execute(ctx context.Context, command string) (*ExecuteReply, error)
	// Upgrade starts an upgrade and returns its progress stream
	Upgrade(ctx context.Context) (UpgradeStream, error)
}

// UpgradeStream is a pull based stream of upgrade progress messages.
// Recv returns io.EOF once the stream ends normally.
type UpgradeStream interface {
	Recv() (*Progress, error)
}
