package agent

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/gosh/runner"

	"github.com/viant/remotely/service/remote"
)

type result struct {
	stdout string
	code   int
	err    error
}

type fakeShell struct {
	results map[string]result
	runs    []string
	closed  bool
}

func (f *fakeShell) Run(ctx context.Context, command string, options ...runner.Option) (string, int, error) {
	f.runs = append(f.runs, command)
	r, ok := f.results[command]
	if !ok {
		return "command not found", 127, nil
	}
	return r.stdout, r.code, r.err
}

func (f *fakeShell) Close() error {
	f.closed = true
	return nil
}

func newTestService(t *testing.T, shell *fakeShell) *Service {
	service, err := New(&Config{UpgradeDelay: time.Millisecond}, WithShell(shell), WithSeed(7))
	require.NoError(t, err)
	return service
}

func TestService_Inspect(t *testing.T) {
	testCases := []struct {
		description string
		results     map[string]result
		expected    *remote.MachineInfo
		expectErr   bool
	}{
		{
			description: "kernel and uptime",
			results: map[string]result{
				"uname -r":         {stdout: "6.1.0-13-amd64\n"},
				"cat /proc/uptime": {stdout: "93784.52 371234.11\n"},
			},
			expected: &remote.MachineInfo{KernelVersion: "6.1.0-13-amd64", SystemUptime: 93784},
		},
		{
			description: "uptime not available",
			results: map[string]result{
				"uname -r": {stdout: "6.1.0\n"},
			},
			expectErr: true,
		},
		{
			description: "malformed uptime",
			results: map[string]result{
				"uname -r":         {stdout: "6.1.0\n"},
				"cat /proc/uptime": {stdout: "abc"},
			},
			expectErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			service := newTestService(t, &fakeShell{results: tc.results})
			info, err := service.Inspect(context.Background())
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, info)
		})
	}
}

func TestService_Execute(t *testing.T) {
	shell := &fakeShell{results: map[string]result{
		"date -u": {stdout: "Sun May  7 09:17:58 UTC 2023\n"},
		"false":   {code: 1},
		"sleep 5": {err: errors.New("timeout")},
	}}
	service := newTestService(t, shell)
	ctx := context.Background()

	reply, err := service.Execute(ctx, "date -u")
	require.NoError(t, err)
	assert.Equal(t, &remote.ExecuteReply{Stdout: "Sun May  7 09:17:58 UTC 2023\n"}, reply)

	reply, err = service.Execute(ctx, "false")
	require.NoError(t, err)
	assert.Equal(t, int32(1), reply.Code)

	reply, err = service.Execute(ctx, "sleep 5")
	require.NoError(t, err)
	assert.Equal(t, int32(-1), reply.Code)
	assert.Equal(t, "timeout", reply.Stderr)

	_, err = service.Execute(ctx, "  ")
	assert.Error(t, err)

	assert.Equal(t, []string{"date -u", "false", "sleep 5"}, shell.runs)
	require.NoError(t, service.Close())
	assert.True(t, shell.closed)
}

func TestService_Upgrade(t *testing.T) {
	service := newTestService(t, &fakeShell{})
	stream, err := service.Upgrade(context.Background())
	require.NoError(t, err)

	var messages []*remote.Progress
	for {
		progress, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		messages = append(messages, progress)
	}
	require.GreaterOrEqual(t, len(messages), 3)
	require.LessOrEqual(t, len(messages), 11)
	last := messages[len(messages)-1]
	assert.Equal(t, &remote.Progress{Status: remote.ProgressSuccess, Position: 100}, last)
	previous := int32(0)
	for _, message := range messages[:len(messages)-1] {
		assert.Equal(t, remote.ProgressRunning, message.Status)
		assert.GreaterOrEqual(t, message.Position, previous)
		previous = message.Position
	}
	assert.Equal(t, int32(100), messages[len(messages)-2].Position)

	// the agent is released once the stream ends
	_, err = service.Execute(context.Background(), "true")
	assert.NoError(t, err)
}

func TestService_UpgradeCancelled(t *testing.T) {
	service := newTestService(t, &fakeShell{})
	ctx, cancel := context.WithCancel(context.Background())
	stream, err := service.Upgrade(ctx)
	require.NoError(t, err)
	_, err = stream.Recv()
	require.NoError(t, err)
	cancel()

	_, err = stream.Recv()
	assert.ErrorIs(t, err, context.Canceled)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	_, err = service.Execute(waitCtx, "true")
	assert.NoError(t, err)
}

func TestRandomProgression(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		positions := randomProgression(rnd)
		require.GreaterOrEqual(t, len(positions), 2)
		require.LessOrEqual(t, len(positions), 10)
		assert.Equal(t, int32(100), positions[len(positions)-1])
		for j, position := range positions[:len(positions)-1] {
			assert.True(t, position >= 1 && position <= 98, position)
			if j > 0 {
				assert.GreaterOrEqual(t, position, positions[j-1])
			}
		}
	}
}

func TestConfig(t *testing.T) {
	config := &Config{}
	config.Init()
	assert.Equal(t, LocalHostURL, config.HostURL)
	assert.True(t, config.IsLocal())
	assert.NoError(t, config.Validate())

	remoteConfig := &Config{HostURL: "ssh://10.0.0.5:2222"}
	assert.False(t, remoteConfig.IsLocal())
	assert.NoError(t, remoteConfig.Validate())

	assert.Error(t, (&Config{UpgradeDelay: -time.Second}).Validate())
}
