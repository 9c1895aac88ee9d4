package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/christianjann/gittasks/internal/cli/common"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/session"
)

// newLogCmd creates the log command
func newLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "log",
		Short:   "Show recent commits, newest first",
		Aliases: []string{"l"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx context.Context, app *common.App, sess *session.Session) error {
				entries, err := sess.RecentLog(ctx, limit)
				if err != nil {
					return err
				}
				for _, e := range entries {
					subject, _, _ := strings.Cut(e.Message, "\n")
					app.Splog.Info("%s %s %s %s",
						output.ColorCommitID(e.ID),
						output.ColorDim(e.Date),
						output.ColorCyan(e.Author),
						subject,
					)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of commits to show")

	return cmd
}

// newTimestampsCmd creates the timestamps command
func newTimestampsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "timestamps",
		Short: "Show when each note was last changed",
		Long: `Show, for every note in HEAD, the time of the last commit that changed it
in Unix milliseconds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx context.Context, app *common.App, sess *session.Session) error {
				times, err := sess.FileLastModifiedTimes(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					data, err := json.MarshalIndent(times, "", "  ")
					if err != nil {
						return fmt.Errorf("failed to encode timestamps: %w", err)
					}
					app.Splog.Page(string(data) + "\n")
					return nil
				}

				paths := make([]string, 0, len(times))
				for p := range times {
					paths = append(paths, p)
				}
				sort.Strings(paths)
				for _, p := range paths {
					app.Splog.Page(fmt.Sprintf("%d\t%s\n", times[p], p))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON object")

	return cmd
}
