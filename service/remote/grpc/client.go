package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"

	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/viant/remotely/service/remote"
)

// Client implements remote.Service over a gRPC connection
type Client struct {
	conn        *ggrpc.ClientConn
	callOptions []ggrpc.CallOption
}

// Inspect returns remote machine information
func (c *Client) Inspect(ctx context.Context) (*remote.MachineInfo, error) {
	out := &remote.MachineInfo{}
	if err := c.conn.Invoke(ctx, inspectMethod, &remote.Empty{}, out, c.callOptions...); err != nil {
		return nil, err
	}
	return out, nil
}

// Execute runs command on the remote machine
func (c *Client) Execute(ctx context.Context, command string) (*remote.ExecuteReply, error) {
	out := &remote.ExecuteReply{}
	if err := c.conn.Invoke(ctx, executeMethod, &remote.ExecuteRequest{Command: command}, out, c.callOptions...); err != nil {
		return nil, err
	}
	return out, nil
}

// Upgrade starts a remote upgrade. The returned error is set only when the
// stream could not be established; later failures surface from Recv.
func (c *Client) Upgrade(ctx context.Context) (remote.UpgradeStream, error) {
	stream, err := c.conn.NewStream(ctx, &serviceDesc.Streams[0], upgradeMethod, c.callOptions...)
	if err != nil {
		return nil, err
	}
	// io.EOF from SendMsg means the stream is already finished, the status is read below
	if err = stream.SendMsg(&remote.Empty{}); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err = stream.CloseSend(); err != nil {
		return nil, err
	}
	header, err := stream.Header()
	if err != nil {
		return nil, err
	}
	ret := &upgradeStream{stream: stream}
	if header != nil {
		return ret, nil
	}
	// terminated without headers: either an error status or an empty stream
	progress := &remote.Progress{}
	switch err = stream.RecvMsg(progress); {
	case errors.Is(err, io.EOF):
		ret.done = true
		return ret, nil
	case err != nil:
		return nil, err
	}
	ret.pending = progress
	return ret, nil
}

// Close closes underlying connection
func (c *Client) Close() error {
	return c.conn.Close()
}

type upgradeStream struct {
	stream  ggrpc.ClientStream
	pending *remote.Progress
	done    bool
}

func (s *upgradeStream) Recv() (*remote.Progress, error) {
	if s.pending != nil {
		progress := s.pending
		s.pending = nil
		return progress, nil
	}
	if s.done {
		return nil, io.EOF
	}
	progress := &remote.Progress{}
	if err := s.stream.RecvMsg(progress); err != nil {
		if errors.Is(err, io.EOF) {
			s.done = true
		}
		return nil, err
	}
	return progress, nil
}

// NewClient creates a client for an existing connection
func NewClient(conn *ggrpc.ClientConn) *Client {
	return &Client{conn: conn, callOptions: []ggrpc.CallOption{ggrpc.CallContentSubtype(CodecName)}}
}

// Dial creates a client for target (host:port), plain text transport is used unless opts override it.
func Dial(target string, opts ...ggrpc.DialOption) (*Client, error) {
	options := append([]ggrpc.DialOption{ggrpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := ggrpc.NewClient(target, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %v: %w", target, err)
	}
	return NewClient(conn), nil
}

var _ remote.Service = (*Client)(nil)
