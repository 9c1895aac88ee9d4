package cli

import (
	"path"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/christianjann/gittasks/internal/cli/common"
	"github.com/christianjann/gittasks/internal/output"
	"github.com/christianjann/gittasks/internal/session"
)

// newCloneCmd creates the clone command
func newCloneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clone <url> [path]",
		Short: "Clone a notes repository",
		Long: `Clone a notes repository. An empty remote gets an initial commit on main,
and a main branch is created when the remote has neither main nor master.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := common.GetApp(cmd.Context())
			if err != nil {
				return err
			}
			url := args[0]
			dest := defaultCloneDir(url)
			if len(args) == 2 {
				dest = args[1]
			}

			cred, err := app.Credential()
			if err != nil {
				return err
			}

			sess := session.New(app.Splog)
			if err := initHome(sess); err != nil {
				return err
			}
			progress := func(percent int) {
				if output.IsInteractive() {
					app.Splog.Page(output.ColorDim("\rReceiving objects: ") + output.ColorCyan(strconv.Itoa(percent)+"%"))
				}
			}
			if err := sess.Clone(cmd.Context(), dest, url, cred, progress); err != nil {
				return err
			}
			defer sess.Close()
			if output.IsInteractive() {
				app.Splog.Newline()
			}

			id, ok, err := sess.LastCommitID(cmd.Context())
			if err != nil {
				return err
			}
			if ok {
				app.Splog.Info("Cloned %s into %s at %s", url, dest, output.ColorCommitID(id))
			} else {
				app.Splog.Info("Cloned %s into %s", url, dest)
			}
			return nil
		},
	}
	return cmd
}

// defaultCloneDir derives the directory name from the last path element of url
func defaultCloneDir(url string) string {
	url = strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	if i := strings.LastIndexAny(url, ":/"); i >= 0 {
		url = url[i+1:]
	}
	if url == "" {
		return "notes"
	}
	return path.Clean(url)
}
