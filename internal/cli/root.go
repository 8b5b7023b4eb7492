package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/me/groupsched/internal/logging"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking GROUPSCHED_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("GROUPSCHED_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the groupsched CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "groupsched",
		Short: "groupsched: round-robin group contention simulator",
		Long:  "groupsched replays tasks that compete for shared round-robin groups over a fixed horizon and reports each task's state history.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts := logging.Options{Level: flagLogLevel, Format: flagLogFormat, Debug: flagDebug}
			logger = opts.Logger(cmd.ErrOrStderr())
			client = NewClient(flagServer, logger)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "groupsched server URL for submit (or GROUPSCHED_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newSubmitCmd(),
		newRunsCmd(),
		newShowCmd(),
	)

	return root
}
