// Package remotely runs batches of remote commands against an agent and
// renders the outcome as a YAML or XML report.
//
// A batch is either a single line of `;` separated commands or a document
// with one command per line:
//
//	INSPECT
//	EXECUTE: date -u
//	UPGRADE
//
// Typical usage:
//
//	srv, _ := remotely.New()
//	defer srv.Close()
//	rep, err := srv.RunText(ctx, "INSPECT; EXECUTE: uptime")
//	_ = srv.Render(os.Stdout, rep)
//
// The agent side is started with Service.Serve; see the sub-packages for
// the parser, runner, report renderers and gRPC transport.
package remotely

// Version is reported to tracing backends
const Version = "0.1.0"
