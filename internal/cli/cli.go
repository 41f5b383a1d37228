package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/viant/remotely"
)

// EnvPrefix prefixes environment variables overriding flags, e.g. REMOTELY_LOG_LEVEL
const EnvPrefix = "REMOTELY"

const (
	keyConfig      = "config"
	keyLogLevel    = "log-level"
	keyLogFormat   = "log-format"
	keyTrace       = "trace"
	keyTraceOutput = "trace-output"
)

// app holds state shared by sub commands
type app struct {
	viper  *viper.Viper
	logger logr.Logger
	sync   func()
}

// New returns the remotely root command
func New() *cobra.Command {
	a := &app{viper: viper.New(), logger: logr.Discard()}
	a.viper.SetEnvPrefix(EnvPrefix)
	a.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.viper.AutomaticEnv()

	root := &cobra.Command{
		Use:           "remotely",
		Short:         "Run batches of commands on a remote agent and report the outcome",
		Long:          "remotely sends INSPECT, EXECUTE and UPGRADE commands to an agent over gRPC and renders a YAML or XML report.",
		Version:       remotely.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, sync, err := newLogger(a.viper.GetString(keyLogLevel), a.viper.GetString(keyLogFormat))
			if err != nil {
				return err
			}
			a.logger, a.sync = logger, sync
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.sync != nil {
				a.sync()
			}
		},
	}
	flags := root.PersistentFlags()
	flags.StringP(keyConfig, "c", "", "config file URL (yaml or json)")
	flags.String(keyLogLevel, "info", "log level: debug, info, warn, error")
	flags.String(keyLogFormat, formatConsole, "log format: console or json")
	flags.Bool(keyTrace, false, "export OpenTelemetry spans")
	flags.String(keyTraceOutput, "", "span output file, stdout when empty")
	_ = a.viper.BindPFlags(flags)

	root.AddCommand(a.newRunCommand(), a.newServeCommand(), a.newParseCommand())
	return root
}

// loadConfig loads the config file and applies global overrides
func (a *app) loadConfig(ctx context.Context) (*remotely.Config, error) {
	config, err := remotely.LoadConfig(ctx, a.viper.GetString(keyConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if a.viper.GetBool(keyTrace) {
		config.Tracing.Enabled = true
	}
	if output := a.viper.GetString(keyTraceOutput); output != "" {
		config.Tracing.Enabled = true
		config.Tracing.Output = output
	}
	return config, nil
}

// bind binds local flags so that REMOTELY_* variables override them as well
func (a *app) bind(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = a.viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return New().ExecuteContext(ctx)
}
