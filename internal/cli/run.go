package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viant/remotely"
	"github.com/viant/remotely/model"
	"github.com/viant/remotely/progress"
	"github.com/viant/remotely/service/event"
	"github.com/viant/remotely/service/messaging/memory"
	"github.com/viant/remotely/service/parser"
	"github.com/viant/remotely/service/report"
	"github.com/viant/remotely/service/runner"
)

// DefaultBatch runs when no batch is given
const DefaultBatch = `INSPECT
EXECUTE: date -u
UPGRADE
EXECUTE: uptime
`

const (
	keyURL                  = "url"
	keyMarkup               = "markup"
	keyOutput               = "output"
	keyTimeout              = "timeout"
	keyFailOnNonZeroExit    = "fail-on-nonzero-exit"
	keyFailOnUpgradeFailure = "fail-on-upgrade-failure"
	keyEvents               = "events"
)

func (a *app) newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [batch|-]",
		Short: "Run a batch against an agent and print the report",
		Long: "Runs the batch read from a file or URL, from stdin when '-' is given, or the built-in batch otherwise.\n" +
			"The report is printed to stdout unless --output names a destination URL.",
		Args: cobra.MaximumNArgs(1),
		RunE: a.run,
	}
	flags := cmd.Flags()
	flags.String(keyURL, "", "agent address host:port")
	flags.String(keyMarkup, "", "report markup: yaml or xml")
	flags.StringP(keyOutput, "o", "", "report destination URL (file, mem, s3, gs...)")
	flags.Duration(keyTimeout, 0, "batch timeout, 0 disables it")
	flags.Bool(keyFailOnNonZeroExit, false, "report EXECUTE commands exiting with a non-zero code as failure")
	flags.Bool(keyFailOnUpgradeFailure, false, "report UPGRADE ending with a failure progress as failure")
	flags.String(keyEvents, "", "append batch events as JSON lines to this file")
	a.bind(cmd, keyURL, keyMarkup, keyOutput, keyTimeout, keyFailOnNonZeroExit, keyFailOnUpgradeFailure, keyEvents)
	return cmd
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}
	v := a.viper
	if v.IsSet(keyURL) {
		config.Client.URL = v.GetString(keyURL)
	}
	if v.IsSet(keyMarkup) {
		config.Report.Markup = v.GetString(keyMarkup)
	}
	if v.IsSet(keyOutput) {
		config.Report.URL = v.GetString(keyOutput)
	}
	if v.IsSet(keyTimeout) {
		config.Client.Timeout = v.GetDuration(keyTimeout)
	}
	if v.IsSet(keyFailOnNonZeroExit) {
		config.Runner.FailOnNonZeroExit = v.GetBool(keyFailOnNonZeroExit)
	}
	if v.IsSet(keyFailOnUpgradeFailure) {
		config.Runner.FailOnUpgradeFailure = v.GetBool(keyFailOnUpgradeFailure)
	}

	sink, closeSink, err := openEventSink(a.logger, v.GetString(keyEvents))
	if err != nil {
		return err
	}
	defer closeSink()
	queue := memory.NewQueue[event.Event[report.Entry]](memory.DefaultConfig())
	publisher := event.NewPublisher[report.Entry](queue)
	listener := event.NewListener(publisher, sink.handle, a.logger)
	listener.Start(ctx)
	defer func() {
		listener.Stop()
		if dead := queue.DeadLetterErrors(); len(dead) > 0 {
			a.logger.Error(errors.Join(dead...), "batch events were dropped", "count", len(dead))
		}
	}()

	srv, err := remotely.New(remotely.WithConfig(config), remotely.WithLogger(a.logger),
		remotely.WithRunnerOptions(runner.WithPublisher(publisher)))
	if err != nil {
		return err
	}
	defer srv.Close()

	batch, err := a.loadBatch(cmd, srv, args)
	if err != nil {
		return err
	}
	ctx, _ = progress.WithNewTracker(ctx, "batch", func(p progress.Snapshot) {
		a.logger.V(1).Info("progress", "total", p.TotalCommands, "completed", p.CompletedCommands,
			"failed", p.FailedCommands, "running", p.RunningCommands, "pending", p.PendingCommands)
	})
	aReport, runErr := srv.Run(ctx, batch)
	if aReport != nil {
		if err = srv.Publish(ctx, cmd.OutOrStdout(), aReport); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

func (a *app) loadBatch(cmd *cobra.Command, srv *remotely.Service, args []string) (*model.Batch, error) {
	switch {
	case len(args) == 0:
		return parser.Read(strings.NewReader(DefaultBatch))
	case args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read batch from stdin: %w", err)
		}
		return parser.Parse(string(data))
	}
	return srv.LoadBatch(cmd.Context(), args[0])
}
