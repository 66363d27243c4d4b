package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noueii/nocs-log-generator/internal/format"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	MaxErrors int
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <match.log>",
		Short: "Check a log file against the canonical line format",
		Long: `Validate every line of a log file against the canonical format:
the "L " marker, the fixed-width timestamp, and the separator placement.

Exits non-zero when any line fails.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.MaxErrors, "max-errors", 10, "stop after this many bad lines")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	file, err := os.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open log", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo, bad := 0, 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := format.ValidateLine(line); err != nil {
			bad++
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: %v\n", path, lineNo, err)
			if bad >= opts.MaxErrors {
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read log", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if bad > 0 {
		_ = out.Print(map[string]any{"lines": lineNo, "invalid": bad},
			fmt.Sprintf("%d of %d lines invalid", bad, lineNo))
		return NewExitError(ExitFailure, "log failed validation")
	}
	return out.Print(map[string]any{"lines": lineNo, "invalid": 0},
		fmt.Sprintf("all %d lines valid", lineNo))
}
