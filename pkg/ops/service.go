// Package ops joins the configuration, the deploy and build helpers and the
// run history. The CLI commands and the panel both go through it.
package ops

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jaspreet-dot-casa/shipctl/pkg/build"
	"github.com/jaspreet-dot-casa/shipctl/pkg/deploy"
	"github.com/jaspreet-dot-casa/shipctl/pkg/envfile"
	"github.com/jaspreet-dot-casa/shipctl/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/shipctl/pkg/history"
	"github.com/jaspreet-dot-casa/shipctl/pkg/logging"
	"github.com/jaspreet-dot-casa/shipctl/pkg/runner"
	"github.com/jaspreet-dot-casa/shipctl/pkg/utils"
)

// DeployOverrides are per-invocation values that win over the config.
type DeployOverrides struct {
	Dir     string
	Service string
	CLI     string
	EnvFile string
}

// BuildOverrides are per-invocation values that win over the config.
type BuildOverrides struct {
	Dir         string
	Source      string
	Console     bool // Keep the console window
	SkipInstall bool
}

// Service runs deploys and builds and records them.
type Service struct {
	cfg      *globalconfig.Config
	deployer deploy.Deployer
	builder  *build.Builder
	history  *history.Store
	logger   *zap.Logger
	environ  func() []string
}

// New creates a Service. hist may be nil to skip recording.
func New(cfg *globalconfig.Config, deployer deploy.Deployer, builder *build.Builder, hist *history.Store, logger *zap.Logger) *Service {
	return &Service{
		cfg:      cfg,
		deployer: deployer,
		builder:  builder,
		history:  hist,
		logger:   logging.OrNop(logger),
		environ:  os.Environ,
	}
}

// Config returns the configuration the service was built with.
func (s *Service) Config() *globalconfig.Config {
	return s.cfg
}

// DeployOptions resolves deploy options from the config and overrides.
func (s *Service) DeployOptions(o DeployOverrides) (*deploy.Options, error) {
	dir := firstNonEmpty(o.Dir, s.cfg.ProjectPath)
	if dir == "" {
		return nil, globalconfig.ErrNotInitialized
	}

	opts := &deploy.Options{
		ProjectDir: dir,
		Service:    utils.SanitizeServiceName(firstNonEmpty(o.Service, s.cfg.Deploy.Service)),
		CLI:        firstNonEmpty(o.CLI, s.cfg.Deploy.CLI),
		ExtraArgs:  s.cfg.Deploy.Args,
	}

	envPath := s.cfg.EnvFilePath(dir, o.EnvFile)
	vars, err := envfile.Parse(envPath)
	if err != nil {
		return nil, err
	}
	if len(vars) > 0 {
		s.logger.Debug("loaded env file",
			zap.String("path", envPath),
			zap.Strings("keys", envfile.Keys(vars)))
		opts.Env = envfile.Merge(s.environ(), vars)
	}

	return opts, nil
}

// BuildOptions resolves build options from the config and overrides. An
// empty directory means the current working directory.
func (s *Service) BuildOptions(o BuildOverrides) *build.Options {
	b := s.cfg.Build
	return &build.Options{
		Dir:            firstNonEmpty(o.Dir, s.cfg.ProjectPath),
		Source:         firstNonEmpty(o.Source, b.Source),
		Packager:       b.Packager,
		ProbeArgs:      b.ProbeArgs,
		InstallCommand: b.InstallCommand,
		NoConsole:      b.NoConsole && !o.Console,
		DistDir:        b.DistDir,
		SkipInstall:    o.SkipInstall,
	}
}

// Deploy runs one deployment and records it.
func (s *Service) Deploy(ctx context.Context, opts *deploy.Options, progress deploy.ProgressCallback) (*deploy.Result, error) {
	started := time.Now()
	res, err := s.deployer.Deploy(ctx, opts, progress)
	if res != nil {
		s.record(history.Run{
			ID:        res.RunID,
			Kind:      history.KindDeploy,
			Dir:       opts.ProjectDir,
			Command:   res.Command,
			ExitCode:  res.ExitCode,
			Success:   res.Success,
			StartedAt: started,
			Duration:  time.Since(started),
		})
	}
	return res, err
}

// Build runs one build and records it.
func (s *Service) Build(ctx context.Context, opts *build.Options, progress deploy.ProgressCallback) (*build.Result, error) {
	started := time.Now()
	res, err := s.builder.Build(ctx, opts, progress)
	if res != nil && res.Command != "" {
		s.record(history.Run{
			ID:        res.RunID,
			Kind:      history.KindBuild,
			Dir:       opts.Dir,
			Command:   res.Command,
			ExitCode:  res.BuildExitCode,
			Success:   res.Success,
			StartedAt: started,
			Duration:  time.Since(started),
		})
	}
	return res, err
}

// ExitCode maps a wrapped tool's failure to the process exit code. The
// tool's own status is passed through unless deploy.propagate_exit_code is
// false, which applies to builds too.
func (s *Service) ExitCode(toolErr error) int {
	if toolErr == nil {
		return 0
	}
	if !s.cfg.Deploy.PropagateExitCode {
		return 0
	}
	return runner.ExitCodeOf(toolErr)
}

func (s *Service) record(run history.Run) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(run); err != nil {
		s.logger.Warn("failed to record run", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
