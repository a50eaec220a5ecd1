package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app := &app{}
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:           "nowplayin",
		Short:         "Mirror the track you are playing into your Slack status",
		Long:          "nowplayin polls a local media player and keeps the status of every configured Slack workspace in sync with the current track, clearing it when playback stops.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return app.wire(opts, cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configDir, "config-dir", "", "Config directory (default $NOWPLAYIN_CONFIG_DIR or the user config directory)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFile, "log-file", "", "Append logs to this file instead of stderr")

	rootCmd.AddCommand(
		newVersionCmd(),
		newWorkspaceCmd(app),
		newRunCmd(app),
		newStatusCmd(app),
		newStopCmd(app),
	)

	return rootCmd
}
