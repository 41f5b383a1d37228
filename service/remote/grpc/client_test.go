package grpc

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/viant/remotely/service/remote"
)

type fakeService struct {
	info       *remote.MachineInfo
	replies    map[string]*remote.ExecuteReply
	executeErr error
	progress   []*remote.Progress
	streamErr  error
	upgradeErr error
}

func (f *fakeService) Inspect(ctx context.Context) (*remote.MachineInfo, error) {
	return f.info, nil
}

func (f *fakeService) Execute(ctx context.Context, command string) (*remote.ExecuteReply, error) {
	if f.executeErr != nil {
		return nil, f.executeErr
	}
	return f.replies[command], nil
}

func (f *fakeService) Upgrade(ctx context.Context) (remote.UpgradeStream, error) {
	if f.upgradeErr != nil {
		return nil, f.upgradeErr
	}
	return remote.NewSliceStream(f.progress, f.streamErr), nil
}

func newTestClient(t *testing.T, service remote.Service) *Client {
	listener := bufconn.Listen(1024 * 1024)
	server := NewServer(service)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	client, err := Dial("passthrough:///bufnet", ggrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return listener.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func drain(t *testing.T, stream remote.UpgradeStream) ([]*remote.Progress, error) {
	var result []*remote.Progress
	for {
		progress, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return result, nil
			}
			return result, err
		}
		result = append(result, progress)
	}
}

func TestClient_Inspect(t *testing.T) {
	client := newTestClient(t, &fakeService{info: &remote.MachineInfo{KernelVersion: "6.1.0", SystemUptime: 3600}})
	info, err := client.Inspect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &remote.MachineInfo{KernelVersion: "6.1.0", SystemUptime: 3600}, info)
}

func TestClient_Execute(t *testing.T) {
	testCases := []struct {
		description string
		service     *fakeService
		command     string
		expected    *remote.ExecuteReply
		expectCode  codes.Code
	}{
		{
			description: "success",
			service:     &fakeService{replies: map[string]*remote.ExecuteReply{"date -u": {Stdout: "Sun May  7 09:17:58 UTC 2023\n"}}},
			command:     "date -u",
			expected:    &remote.ExecuteReply{Stdout: "Sun May  7 09:17:58 UTC 2023\n"},
		},
		{
			description: "non zero exit code is data",
			service:     &fakeService{replies: map[string]*remote.ExecuteReply{"false": {Code: 1, Stderr: "boom"}}},
			command:     "false",
			expected:    &remote.ExecuteReply{Code: 1, Stderr: "boom"},
		},
		{
			description: "service error",
			service:     &fakeService{executeErr: status.Error(codes.Unavailable, "agent busy")},
			command:     "uptime",
			expectCode:  codes.Unavailable,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			client := newTestClient(t, tc.service)
			reply, err := client.Execute(context.Background(), tc.command)
			if tc.expectCode != codes.OK {
				require.Error(t, err)
				assert.Equal(t, tc.expectCode, status.Code(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, reply)
		})
	}
}

func TestClient_Upgrade(t *testing.T) {
	progress := []*remote.Progress{
		{Status: remote.ProgressRunning, Position: 12},
		{Status: remote.ProgressRunning, Position: 57},
		{Status: remote.ProgressSuccess, Position: 100},
	}
	testCases := []struct {
		description   string
		service       *fakeService
		expected      []*remote.Progress
		establishErr  bool
		inStreamError bool
	}{
		{
			description: "complete stream",
			service:     &fakeService{progress: progress},
			expected:    progress,
		},
		{
			description: "empty stream",
			service:     &fakeService{},
		},
		{
			description:  "establishment error",
			service:      &fakeService{upgradeErr: status.Error(codes.FailedPrecondition, "upgrade in progress")},
			establishErr: true,
		},
		{
			description:   "in stream error",
			service:       &fakeService{progress: progress[:2], streamErr: errors.New("connection reset")},
			expected:      progress[:2],
			inStreamError: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			client := newTestClient(t, tc.service)
			stream, err := client.Upgrade(context.Background())
			if tc.establishErr {
				require.Error(t, err)
				assert.Equal(t, codes.FailedPrecondition, status.Code(err))
				return
			}
			require.NoError(t, err)
			actual, err := drain(t, stream)
			if tc.inStreamError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, actual)
		})
	}
}
