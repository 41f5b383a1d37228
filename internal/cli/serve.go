package cli

import (
	"github.com/spf13/cobra"

	"github.com/viant/remotely"
)

const (
	keyAddress      = "address"
	keyPort         = "port"
	keyHost         = "host"
	keyCredentials  = "credentials"
	keyUpgradeDelay = "upgrade-delay"
)

func (a *app) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start an agent serving remote commands over gRPC",
		Args:  cobra.NoArgs,
		RunE:  a.serve,
	}
	flags := cmd.Flags()
	flags.String(keyAddress, "", "listen address")
	flags.Int(keyPort, 0, "listen port")
	flags.String(keyHost, "", "where commands run: bash://localhost/ or ssh://host[:port]")
	flags.String(keyCredentials, "", "scy secret resource with SSH credentials")
	flags.Duration(keyUpgradeDelay, 0, "fixed delay between upgrade progress messages")
	a.bind(cmd, keyAddress, keyPort, keyHost, keyCredentials, keyUpgradeDelay)
	return cmd
}

func (a *app) serve(cmd *cobra.Command, args []string) error {
	config, err := a.loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	v := a.viper
	if v.IsSet(keyAddress) {
		config.Server.Address = v.GetString(keyAddress)
	}
	if v.IsSet(keyPort) {
		config.Server.Port = v.GetInt(keyPort)
	}
	if v.IsSet(keyHost) {
		config.Agent.HostURL = v.GetString(keyHost)
	}
	if v.IsSet(keyCredentials) {
		config.Agent.Credentials = v.GetString(keyCredentials)
	}
	if v.IsSet(keyUpgradeDelay) {
		config.Agent.UpgradeDelay = v.GetDuration(keyUpgradeDelay)
	}
	srv, err := remotely.New(remotely.WithConfig(config), remotely.WithLogger(a.logger))
	if err != nil {
		return err
	}
	defer srv.Close()
	return srv.Serve(cmd.Context())
}
