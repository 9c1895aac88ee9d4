package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christianjann/gittasks/internal/cli/common"
	"github.com/christianjann/gittasks/internal/config"
	"github.com/christianjann/gittasks/internal/output"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var (
		repoPath   string
		configPath string
		quiet      bool
		app        = &common.App{}
	)

	rootCmd := &cobra.Command{
		Use:           "gittasks",
		Short:         "Keep a notes repository in sync with its remote",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			user, err := config.LoadUserConfig(configPath)
			if err != nil {
				return err
			}

			logFile := user.LogFile
			if logFile == "" {
				logFile = output.GetLogFilePath()
			}
			splog, err := output.NewSplogWithConfig(cmd.OutOrStdout(), logFile)
			if err != nil {
				// file logging is optional
				splog, _ = output.NewSplogWithConfig(cmd.OutOrStdout(), "")
			}
			splog.SetQuiet(quiet)

			app.Splog = splog
			app.User = user
			app.RepoPath = repoPath
			cmd.SetContext(common.WithApp(cmd.Context(), app))
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if app.Splog != nil {
				return app.Splog.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&repoPath, "repo", "C", ".", "Path of the notes repository")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultUserConfigPath(), "User configuration file")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress console output")

	rootCmd.AddCommand(
		newInitCmd(),
		newCloneCmd(),
		newCommitCmd(),
		newPushCmd(),
		newPullCmd(),
		newSyncCmd(),
		newCleanupCmd(),
		newStatusCmd(),
		newLogCmd(),
		newTimestampsCmd(),
		newWatchCmd(),
	)

	return rootCmd
}
