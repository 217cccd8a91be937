package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/solarops/solar-console/client"
	"github.com/solarops/solar-console/cmd/solarctl/cmd/config"
	"github.com/solarops/solar-console/log"
	"github.com/solarops/solar-console/session"
)

var (
	appLogger log.Logger
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "solarctl is a CLI for the solar-plant ERP backend",
	Long: `A command-line interface for the solar-plant ERP: authentication,
users, sites, devices, academy resources, reports and the HopeCloud /
FusionSolar integrations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		appLogger = log.NewZerologAdapter(level, true)
		return config.InitConfig()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&config.CfgFile, "config", "",
		fmt.Sprintf("config file (default is $HOME/.%s/config.yaml)", config.AppName))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newSDK builds an API client against the active context's endpoint, with the
// context itself serving as the persisted credential store.
func newSDK() (*client.Client, error) {
	ctx, err := config.GetCurrentContext()
	if err != nil {
		return nil, err
	}
	if ctx.ServerEndpoint == "" {
		return nil, fmt.Errorf("context %q has no server endpoint", ctx.Name)
	}
	return client.New(ctx.ServerEndpoint, config.ContextStore{})
}

// newSession wraps the SDK's user service in a session store that prints its
// notifications to stderr.
func newSession(sdk *client.Client) *session.Store {
	return session.NewStore(sdk.Users(), config.ContextStore{}, session.WriterNotifier{W: os.Stderr})
}

// printYAML renders a command result for the terminal.
func printYAML(v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
