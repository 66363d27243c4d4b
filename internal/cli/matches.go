package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noueii/nocs-log-generator/internal/store"
)

// MatchesOptions holds flags for the matches command.
type MatchesOptions struct {
	*RootOptions
	Database string
	Limit    int
	Show     string
}

// NewMatchesCommand creates the matches command.
func NewMatchesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List or show archived matches",
		Long: `List matches recorded into a SQLite archive by generate --db,
or print one archived match's full log with --show <id>.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatches(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite archive (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum matches to list")
	cmd.Flags().StringVar(&opts.Show, "show", "", "print the full log of one match by id")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runMatches(opts *MatchesOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open archive", err)
	}
	defer st.Close()

	if opts.Show != "" {
		m, err := st.Get(cmd.Context(), opts.Show)
		if errors.Is(err, sql.ErrNoRows) {
			return NewExitError(ExitFailure, fmt.Sprintf("no match %q in archive", opts.Show))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read match", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), m.LogText)
		return nil
	}

	list, err := st.List(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list matches", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	var b strings.Builder
	for _, m := range list {
		fmt.Fprintf(&b, "%s  %-12s %-5s %s %d - %d %s  (%d rounds, %s)\n",
			m.ID, m.Map, m.Format, m.TeamA, m.ScoreA, m.ScoreB, m.TeamB, m.Rounds, m.Status)
	}
	if len(list) == 0 {
		b.WriteString("no matches archived")
	}
	return out.Print(list, strings.TrimRight(b.String(), "\n"))
}
