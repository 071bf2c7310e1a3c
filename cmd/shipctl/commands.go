package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jaspreet-dot-casa/shipctl/pkg/build"
	"github.com/jaspreet-dot-casa/shipctl/pkg/deploy"
	"github.com/jaspreet-dot-casa/shipctl/pkg/deploy/railway"
	"github.com/jaspreet-dot-casa/shipctl/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/shipctl/pkg/history"
	"github.com/jaspreet-dot-casa/shipctl/pkg/logging"
	"github.com/jaspreet-dot-casa/shipctl/pkg/ops"
)

// session is everything a deploy, build or panel run needs.
type session struct {
	svc    *ops.Service
	store  *history.Store
	logger *zap.Logger
}

// Close flushes the run log.
func (s *session) Close() {
	_ = s.logger.Sync()
}

// newSession loads the config and wires the logger, history and helpers.
// A missing config falls back to defaults; commands that need a project
// folder fail later with ErrNotInitialized.
func newSession(opts *rootOptions) (*session, error) {
	cfg, err := globalconfig.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(opts.verbose, logPath)
	if err != nil {
		return nil, err
	}

	store, err := history.NewStore(logger)
	if err != nil {
		logger.Warn("run history disabled", zap.Error(err))
		store = nil
	}

	deployer, builder := railway.New(logger), build.NewBuilder(logger)
	if opts.executor != nil {
		deployer = railway.NewWithExecutor(opts.executor, logger)
		builder = build.NewBuilderWithExecutor(opts.executor, logger)
	}

	svc := ops.New(cfg, deployer, builder, store, logger)
	return &session{svc: svc, store: store, logger: logger}, nil
}

// printEvents writes progress events for a terminal: tool output verbatim,
// helper messages prefixed.
func printEvents(out, errOut io.Writer) deploy.ProgressCallback {
	return func(e deploy.ProgressEvent) {
		switch {
		case e.Stage == deploy.StageOutput:
			fmt.Fprintln(out, e.Detail)
		case e.IsError:
			fmt.Fprintln(errOut, e.Message)
			if e.Detail != "" {
				fmt.Fprintf(errOut, "  %s\n", e.Detail)
			}
		case e.IsWarning:
			fmt.Fprintf(errOut, "Warning: %s\n", e.Message)
		case e.Stage == deploy.StageComplete:
			fmt.Fprintln(out, e.Message)
		default:
			fmt.Fprintf(out, "==> %s\n", e.Message)
		}
	}
}
