package harness

import (
	"context"
	"io"
	"log/slog"

	"github.com/noueii/nocs-log-generator/internal/engine"
	"github.com/noueii/nocs-log-generator/internal/format"
)

// RunResult bundles everything a conformance check needs from one run.
type RunResult struct {
	Result  *engine.Result
	LogText string
	Digest  string
}

// Run executes a scenario once: fresh config, full simulation, canonical
// serialization. The engine logs are discarded to keep test output quiet.
func Run(s *Scenario) (*RunResult, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng, err := engine.New(cfg, engine.WithLogger(quiet))
	if err != nil {
		return nil, err
	}
	result, err := eng.Run(context.Background())
	if err != nil {
		return nil, err
	}

	f := format.NewStrictFormatter()
	logText, err := f.RenderLog(format.Header{
		FileName: s.Name + ".log",
		Start:    cfg.StartTime,
	}, result.Events)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		Result:  result,
		LogText: logText,
		Digest:  format.Digest(logText),
	}, nil
}
