package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "frontdesk",
		Short:         "Front desk checkout board for stations and equipment",
		Long:          "frontdesk tracks which stations and equipment are checked out, keeps a waitlist with estimated ready times when something is busy, and shows it all on a terminal board.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log desk activity to stderr at debug level")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.configureLogging(cmd.ErrOrStderr(), verbose)
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.logger.Sync()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newInventoryCmd(app),
		newBoardCmd(app),
		newConsoleCmd(app),
	)

	return rootCmd
}
