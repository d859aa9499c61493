package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/door-sentry/internal/config"
	"github.com/oshokin/door-sentry/internal/service/sentinel"
	"github.com/oshokin/door-sentry/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// usersFile path to the authorized-user JSON list.
	usersFile string

	// rootCmd represents the base command for running the sentinel daemon.
	rootCmd = &cobra.Command{
		Use:   "door-sentry",
		Short: "Arm and disarm a space from door, NFC and button events over MQTT.",
		Long: `Runs the door-sentry daemon: a security state machine fed by MQTT events.

The daemon subscribes to the door-contact, NFC-reader and button topics,
drives the access panel LEDs through the command topic, publishes every
state transition to the status topic, and reports intrusions and
unauthorized scans to Telegram.

Configuration, topic names and countdown durations come from the YAML
settings file. The authorized-user list is read once at startup; any
startup error aborts the process before an event is handled.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &sentinel.Options{
				ConfigPath: configPath,
				UsersFile:  usersFile,
			}

			return sentinel.Run(ctx, options)
		},
	}
)

// Execute runs the door-sentry CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&usersFile, "users-file", "u", "", "path to the authorized-user list (overrides config)")
}
