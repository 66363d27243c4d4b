package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/noueii/nocs-log-generator/internal/engine"
	"github.com/noueii/nocs-log-generator/internal/format"
	"github.com/noueii/nocs-log-generator/internal/match"
	"github.com/noueii/nocs-log-generator/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Out      string
	Records  string
	Database string
	Seed     int64
	SeedSet  bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <config.yaml>",
		Short: "Simulate a match and write its canonical log",
		Long: `Simulate a match from a YAML configuration and serialize it.

The event log is written as canonical log lines (--out) and optionally as
structured JSON records (--records). The same configuration and seed always
produce a byte-identical log.

Example:
  csloggen generate match.yaml --out match.log
  csloggen generate match.yaml --seed 12345 --records match.jsonl --db archive.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SeedSet = cmd.Flags().Changed("seed")
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "path for the canonical log (default: stdout)")
	cmd.Flags().StringVar(&opts.Records, "records", "", "path for structured JSON records, one per line")
	cmd.Flags().StringVar(&opts.Database, "db", "", "optional SQLite archive to record the match into")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "override the config seed")

	return cmd
}

func runGenerate(opts *GenerateOptions, configPath string, cmd *cobra.Command) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.SeedSet {
		cfg.Seed = opts.Seed
	}

	eng, err := engine.New(cfg, engine.WithLogger(slog.Default()))
	if err != nil {
		return WrapExitError(ExitFailure, "invalid match configuration", err)
	}

	result, err := eng.Run(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "match simulation failed", err)
	}

	f := format.NewFormatter(slog.Default())
	fileName := opts.Out
	if fileName == "" {
		fileName = "match.log"
	}
	logText, err := f.RenderLog(format.Header{
		FileName: filepath.Base(fileName),
		Start:    cfg.StartTime,
	}, result.Events)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to serialize log", err)
	}

	if opts.Out == "" {
		fmt.Fprint(cmd.OutOrStdout(), logText)
	} else if err := os.WriteFile(opts.Out, []byte(logText), 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write log", err)
	}

	if opts.Records != "" {
		if err := writeRecords(f, result, opts.Records); err != nil {
			return WrapExitError(ExitCommandError, "failed to write records", err)
		}
	}

	digest := format.Digest(logText)
	if opts.Database != "" {
		if err := archive(cmd.Context(), opts.Database, cfg, result, digest, logText); err != nil {
			return WrapExitError(ExitCommandError, "failed to archive match", err)
		}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.ErrOrStderr()}
	summary := map[string]any{
		"id":     result.ID,
		"status": result.Status,
		"map":    result.Map,
		"rounds": len(result.Rounds),
		"score":  fmt.Sprintf("%s %d - %d %s", result.TeamA.Name, result.TeamA.Score, result.TeamB.Score, result.TeamB.Name),
		"digest": digest,
	}
	text := fmt.Sprintf("match %s: %s %d - %d %s on %s (%d rounds)\ndigest: %s",
		result.ID, result.TeamA.Name, result.TeamA.Score, result.TeamB.Score,
		result.TeamB.Name, result.Map, len(result.Rounds), digest)
	return out.Print(summary, text)
}

func writeRecords(f *format.Formatter, result *engine.Result, path string) error {
	records, err := f.RenderRecords(result.Events)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func archive(ctx context.Context, dbPath string, cfg *match.Config, result *engine.Result, digest, logText string) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Save(ctx, store.ArchivedMatch{
		ID:      result.ID,
		Map:     result.Map,
		Format:  string(result.Format),
		Seed:    cfg.Seed,
		TeamA:   result.TeamA.Name,
		TeamB:   result.TeamB.Name,
		ScoreA:  result.TeamA.Score,
		ScoreB:  result.TeamB.Score,
		Status:  string(result.Status),
		Rounds:  len(result.Rounds),
		Digest:  digest,
		LogText: logText,
	})
}
