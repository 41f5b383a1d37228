package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/gosh/runner"

	"github.com/viant/remotely"
	"github.com/viant/remotely/model"
	"github.com/viant/remotely/service/agent"
	"github.com/viant/remotely/service/event"
	"github.com/viant/remotely/service/report"
)

type echoShell struct{}

func (echoShell) Run(ctx context.Context, command string, options ...runner.Option) (string, int, error) {
	switch command {
	case "uname -r":
		return "6.1.0-cli\n", 0, nil
	case "cat /proc/uptime":
		return "120.00 1.00\n", 0, nil
	case "exit 3":
		return "", 3, nil
	}
	return strings.TrimPrefix(command, "echo ") + "\n", 0, nil
}

func (echoShell) Close() error { return nil }

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	cmd := New()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// startAgent serves an agent backed by echoShell on a random local port
func startAgent(t *testing.T) string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	config := remotely.DefaultConfig()
	config.Agent.UpgradeDelay = time.Millisecond
	srv, err := remotely.New(remotely.WithConfig(config), remotely.WithAgentOptions(agent.WithShell(echoShell{})))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- srv.ServeListener(ctx, listener) }()
	t.Cleanup(func() {
		cancel()
		<-served
	})
	return listener.Addr().String()
}

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		description string
		stdin       string
		expected    string
		expectErr   string
	}{
		{
			description: "single line",
			stdin:       "INSPECT;EXECUTE:  ls -l ; UPGRADE",
			expected:    "INSPECT\nEXECUTE: ls -l\nUPGRADE\n",
		},
		{
			description: "multi line",
			stdin:       "# deploy\nUPGRADE\n\nEXECUTE: systemctl restart app\n",
			expected:    "UPGRADE\nEXECUTE: systemctl restart app\n",
		},
		{
			description: "unknown command",
			stdin:       "INSPECT\nREBOOT\n",
			expectErr:   `line 2: unknown command: "REBOOT"`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			output, err := execute(t, tc.stdin, "parse", "-")
			if tc.expectErr != "" {
				assert.EqualError(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, output)
		})
	}
}

func TestParseCommand_File(t *testing.T) {
	location := filepath.Join(t.TempDir(), "batch.txt")
	require.NoError(t, os.WriteFile(location, []byte("INSPECT; EXECUTE: uptime\n"), 0o644))
	output, err := execute(t, "", "parse", location)
	require.NoError(t, err)
	assert.Equal(t, "INSPECT\nEXECUTE: uptime\n", output)
}

func TestRunCommand(t *testing.T) {
	address := startAgent(t)

	testCases := []struct {
		description string
		stdin       string
		args        []string
		contains    []string
	}{
		{
			description: "yaml from stdin",
			stdin:       "INSPECT; EXECUTE: echo hello",
			args:        []string{"run", "--url", address, "-"},
			contains: []string{
				"# Remotely batch report\ntitle   : Report - ",
				"- command: 'INSPECT'\n  status : success\n  output : |\n    kernel version: 6.1.0-cli\n    system uptime: 2m\n",
				"- command: 'EXECUTE: echo hello'\n  status : success\n  output : |\n    hello\n",
			},
		},
		{
			description: "xml with exit code policy",
			stdin:       "EXECUTE: exit 3\nUPGRADE\n",
			args:        []string{"run", "--url", address, "--markup", "xml", "--fail-on-nonzero-exit", "-"},
			contains: []string{
				"<report>",
				"<input><![CDATA[EXECUTE: exit 3]]></input>\n      <status>failure</status>",
				"Upgrade progress: Success, 100%",
			},
		},
		{
			description: "default batch",
			args:        []string{"run", "--url", address},
			contains:    []string{"- command: 'EXECUTE: date -u'", "- command: 'UPGRADE'", "- command: 'EXECUTE: uptime'"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			output, err := execute(t, tc.stdin, tc.args...)
			require.NoError(t, err)
			for _, fragment := range tc.contains {
				assert.Contains(t, output, fragment)
			}
		})
	}
}

func TestRunCommand_Output(t *testing.T) {
	address := startAgent(t)
	location := filepath.Join(t.TempDir(), "report.yaml")
	output, err := execute(t, "EXECUTE: echo saved", "run", "--url", address, "--output", location, "-")
	require.NoError(t, err)
	assert.Empty(t, output)
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Contains(t, string(data), "    saved\n")
}

func TestRunCommand_InvalidBatch(t *testing.T) {
	_, err := execute(t, "EXECUTE", "run", "--url", "127.0.0.1:1", "-")
	assert.EqualError(t, err, `missing argument: "EXECUTE", expected EXECUTE: <command>`)
}

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		description string
		level       string
		format      string
		expectErr   bool
	}{
		{description: "console info", level: "info", format: "console"},
		{description: "json debug", level: "DEBUG", format: "json"},
		{description: "default format", level: "warn"},
		{description: "invalid level", level: "verbose", format: "json", expectErr: true},
		{description: "invalid format", level: "info", format: "xml", expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			logger, sync, err := newLogger(tc.level, tc.format)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger.GetSink())
			sync()
		})
	}
}

func TestRunCommand_Events(t *testing.T) {
	address := startAgent(t)
	location := filepath.Join(t.TempDir(), "events.jsonl")
	_, err := execute(t, "INSPECT; EXECUTE: echo hi", "run", "--url", address, "--events", location, "-")
	require.NoError(t, err)

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	var records []eventRecord
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		record := eventRecord{}
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		records = append(records, record)
	}
	require.Len(t, records, 4)
	assert.Equal(t, event.TypeBatchStarted, records[0].Type)
	assert.EqualValues(t, 2, records[0].Metadata["commands"])
	assert.Equal(t, eventRecord{Batch: records[0].Batch, Type: event.TypeEntryAppended, Index: 1, TimeTakenMs: records[2].TimeTakenMs, Command: "EXECUTE: echo hi", Status: "success"}, records[2])
	assert.Equal(t, event.TypeBatchFinished, records[3].Type)
	assert.EqualValues(t, 2, records[3].Metadata["succeeded"])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEventSink_Handle(t *testing.T) {
	testCases := []struct {
		description string
		writer      io.Writer
		expectErr   string
	}{
		{description: "log only"},
		{description: "json line", writer: &bytes.Buffer{}},
		{description: "write failure", writer: failingWriter{}, expectErr: "failed to write entryAppended event: disk full"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			sink := newEventSink(logr.Discard(), tc.writer)
			anEvent := event.NewEvent(&event.Context{Batch: "Report - 1", EventType: event.TypeEntryAppended},
				report.Entry{Command: model.Inspect(), Status: model.Failure{}})
			err := sink.handle(anEvent)
			if tc.expectErr != "" {
				assert.EqualError(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			if buffer, ok := tc.writer.(*bytes.Buffer); ok {
				assert.Equal(t, `{"batch":"Report - 1","type":"entryAppended","index":0,"command":"INSPECT","status":"failure"}`+"\n", buffer.String())
			}
		})
	}
}
