// Package build implements the build helper: package a script into a
// single-file executable, installing the packaging tool first when a probe
// says it is missing.
package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaspreet-dot-casa/shipctl/pkg/deploy"
	"github.com/jaspreet-dot-casa/shipctl/pkg/logging"
	"github.com/jaspreet-dot-casa/shipctl/pkg/runner"
)

// ErrSourceMissing is returned when the script to package does not exist.
// Nothing is probed, installed or built in that case.
var ErrSourceMissing = errors.New("source file not found")

// Options contains configuration for one build.
type Options struct {
	Dir            string   // Directory holding Source; "" = current directory
	Source         string   // Script to package, relative to Dir
	Packager       string   // Packaging tool executable
	ProbeArgs      []string // Arguments for the availability probe
	InstallCommand []string // Command run when the probe fails
	NoConsole      bool     // Build a windowed executable
	DistDir        string   // Output directory convention of the packager
	SkipInstall    bool     // Report a failed probe but never install
}

// Result represents the outcome of a build.
type Result struct {
	RunID           string
	ProbeOK         bool
	Installed       bool // Install command was run
	InstallExitCode int
	BuildExitCode   int
	Success         bool
	Command         string // Build command line
	Artifact        string // Expected artifact path, relative to Dir
	Duration        time.Duration
}

// Err returns a *runner.ExitError for a failed build, nil otherwise.
func (r *Result) Err() error {
	if r.Success {
		return nil
	}
	return &runner.ExitError{Command: r.Command, Code: r.BuildExitCode}
}

// Builder runs the build helper steps.
type Builder struct {
	executor runner.Executor
	logger   *zap.Logger
	goos     string
}

// NewBuilder creates a new Builder using the real system.
func NewBuilder(logger *zap.Logger) *Builder {
	return NewBuilderWithExecutor(&runner.RealExecutor{}, logger)
}

// NewBuilderWithExecutor creates a Builder with a custom executor (for testing).
func NewBuilderWithExecutor(exec runner.Executor, logger *zap.Logger) *Builder {
	return &Builder{
		executor: exec,
		logger:   logging.OrNop(logger),
		goos:     runtime.GOOS,
	}
}

// SetPlatform overrides the target OS used to name the artifact.
func (b *Builder) SetPlatform(goos string) {
	b.goos = goos
}

// BuildArgs returns the packager arguments for a single-file build.
func BuildArgs(opts *Options) []string {
	args := []string{"--onefile"}
	if opts.NoConsole {
		args = append(args, "--noconsole")
	}
	return append(args, opts.Source)
}

// ArtifactName returns the executable name the packager produces for source.
func ArtifactName(source, goos string) string {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if goos == "windows" {
		name += ".exe"
	}
	return name
}

// CompletionMessage names where the artifact ends up.
func CompletionMessage(distDir, artifact string) string {
	return fmt.Sprintf("Done. Look in %s/ for %s", filepath.ToSlash(distDir), artifact)
}

// Build checks that the source exists, probes the packager, installs it if
// the probe fails, then runs the packager exactly once.
func (b *Builder) Build(ctx context.Context, opts *Options, progress deploy.ProgressCallback) (*Result, error) {
	progress = deploy.OrNoOp(progress)

	if opts == nil || opts.Source == "" || opts.Packager == "" {
		err := fmt.Errorf("build requires a source file and a packaging tool")
		progress(deploy.NewErrorEvent(err.Error()))
		return nil, err
	}

	srcPath := opts.Source
	if opts.Dir != "" && !filepath.IsAbs(srcPath) {
		srcPath = filepath.Join(opts.Dir, srcPath)
	}

	progress(deploy.NewProgressEvent(deploy.StageValidating, "Checking "+opts.Source))
	if !b.executor.FileExists(srcPath) {
		progress(deploy.NewErrorEvent(fmt.Sprintf("Error: %s not found.", opts.Source)))
		b.logger.Warn("build precondition failed", zap.String("source", srcPath))
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, srcPath)
	}

	start := time.Now()
	result := &Result{RunID: uuid.New().String()}
	logger := b.logger.With(
		zap.String("run_id", result.RunID),
		zap.String("kind", "build"),
		zap.String("dir", opts.Dir),
	)

	result.ProbeOK = b.probe(ctx, opts, progress)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if !result.ProbeOK {
		b.install(ctx, opts, result, progress, logger)
		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	cmd := runner.Command{
		Name: opts.Packager,
		Args: BuildArgs(opts),
		Dir:  opts.Dir,
	}
	result.Command = cmd.String()
	result.Artifact = filepath.Join(opts.DistDir, ArtifactName(opts.Source, b.goos))

	logger.Info("build started", zap.String("command", result.Command))
	progress(deploy.NewProgressEventWithCommand(deploy.StageBuilding, "Building "+opts.Source, result.Command))

	res, err := b.executor.Run(ctx, cmd, outputTo(progress))
	result.BuildExitCode = res.ExitCode
	result.Duration = time.Since(start)
	if err != nil {
		progress(deploy.NewErrorEventWithDetail("Build failed: could not run "+opts.Packager, err.Error()))
		logger.Error("build could not run", zap.Error(err))
		return result, fmt.Errorf("failed to run %s: %w", opts.Packager, err)
	}

	result.Success = res.Success()
	if result.Success {
		progress(deploy.NewProgressEvent(deploy.StageComplete,
			CompletionMessage(opts.DistDir, ArtifactName(opts.Source, b.goos))))
		logger.Info("build finished",
			zap.Int("exit_code", result.BuildExitCode),
			zap.String("artifact", result.Artifact),
			zap.Duration("duration", result.Duration))
	} else {
		progress(deploy.ProgressEvent{
			Stage:     deploy.StageComplete,
			Message:   fmt.Sprintf("Build failed (exit code %d).", result.BuildExitCode),
			IsError:   true,
			Timestamp: time.Now(),
		})
		logger.Warn("build finished",
			zap.Int("exit_code", result.BuildExitCode),
			zap.Duration("duration", result.Duration))
	}

	return result, nil
}

// probe reports whether the packaging tool answers its probe. Output is
// discarded.
func (b *Builder) probe(ctx context.Context, opts *Options, progress deploy.ProgressCallback) bool {
	cmd := runner.Command{Name: opts.Packager, Args: opts.ProbeArgs, Dir: opts.Dir}
	progress(deploy.NewProgressEventWithCommand(deploy.StageProbing,
		"Checking for "+opts.Packager, cmd.String()))

	if _, err := b.executor.LookPath(opts.Packager); err != nil {
		b.logger.Debug("packager not on PATH", zap.String("packager", opts.Packager))
		return false
	}

	res, err := b.executor.Run(ctx, cmd, nil)
	if err != nil || !res.Success() {
		b.logger.Debug("packager probe failed",
			zap.String("packager", opts.Packager),
			zap.Int("exit_code", res.ExitCode),
			zap.Error(err))
		return false
	}
	return true
}

// install runs the install command. Failures are reported as warnings; the
// build step still runs.
func (b *Builder) install(ctx context.Context, opts *Options, result *Result, progress deploy.ProgressCallback, logger *zap.Logger) {
	if opts.SkipInstall {
		progress(deploy.NewWarningEvent(deploy.StageInstalling,
			opts.Packager+" not available; install skipped"))
		return
	}
	if len(opts.InstallCommand) == 0 {
		progress(deploy.NewWarningEvent(deploy.StageInstalling,
			opts.Packager+" not available and no install command configured"))
		return
	}

	cmd := runner.Command{
		Name: opts.InstallCommand[0],
		Args: opts.InstallCommand[1:],
		Dir:  opts.Dir,
	}
	progress(deploy.NewProgressEventWithCommand(deploy.StageInstalling,
		opts.Packager+" not found, installing...", cmd.String()))

	result.Installed = true
	res, err := b.executor.Run(ctx, cmd, outputTo(progress))
	result.InstallExitCode = res.ExitCode

	switch {
	case err != nil:
		progress(deploy.NewWarningEvent(deploy.StageInstalling, "Install failed: "+err.Error()))
		logger.Warn("install could not run", zap.String("command", cmd.String()), zap.Error(err))
	case !res.Success():
		progress(deploy.NewWarningEvent(deploy.StageInstalling,
			fmt.Sprintf("Install exited with code %d", res.ExitCode)))
		logger.Warn("install failed", zap.String("command", cmd.String()), zap.Int("exit_code", res.ExitCode))
	default:
		logger.Info("install finished", zap.String("command", cmd.String()))
	}
}

func outputTo(progress deploy.ProgressCallback) runner.LineHandler {
	return func(line string) {
		progress(deploy.NewOutputEvent(line))
	}
}
