// Package railway implements the deploy helper for the Railway CLI:
// `railway up --service <name>` run from the project folder.
package railway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaspreet-dot-casa/shipctl/pkg/deploy"
	"github.com/jaspreet-dot-casa/shipctl/pkg/logging"
	"github.com/jaspreet-dot-casa/shipctl/pkg/runner"
	"github.com/jaspreet-dot-casa/shipctl/pkg/utils"
)

// Deployer implements deploy.Deployer for the Railway CLI.
type Deployer struct {
	executor runner.Executor
	logger   *zap.Logger
}

// Compile-time check
var _ deploy.Deployer = (*Deployer)(nil)

// New creates a new Railway deployer using the real system.
func New(logger *zap.Logger) *Deployer {
	return NewWithExecutor(&runner.RealExecutor{}, logger)
}

// NewWithExecutor creates a Railway deployer with a custom executor (for testing).
func NewWithExecutor(exec runner.Executor, logger *zap.Logger) *Deployer {
	return &Deployer{
		executor: exec,
		logger:   logging.OrNop(logger),
	}
}

// Name returns the deployer name.
func (d *Deployer) Name() string {
	return "Railway"
}

// Validate checks the options without touching the filesystem.
func (d *Deployer) Validate(opts *deploy.Options) error {
	if opts == nil {
		return fmt.Errorf("deploy options are required")
	}
	if opts.CLI == "" {
		return fmt.Errorf("deployment CLI is required")
	}
	if err := utils.ValidateServiceName(opts.Service); err != nil {
		return err
	}
	return nil
}

// Args returns the CLI arguments for a deployment of opts.Service.
func Args(opts *deploy.Options) []string {
	args := []string{"up", "--service", opts.Service}
	return append(args, opts.ExtraArgs...)
}

// Deploy enters opts.ProjectDir and runs the deployment CLI once. If the
// directory cannot be entered the CLI is not invoked and the returned error
// wraps deploy.ErrProjectDir.
func (d *Deployer) Deploy(ctx context.Context, opts *deploy.Options, progress deploy.ProgressCallback) (*deploy.Result, error) {
	progress = deploy.OrNoOp(progress)

	if err := d.Validate(opts); err != nil {
		progress(deploy.NewErrorEvent(err.Error()))
		return nil, err
	}

	progress(deploy.NewProgressEvent(deploy.StageValidating, "Entering "+opts.ProjectDir))
	if opts.ProjectDir == "" || !d.executor.DirExists(opts.ProjectDir) {
		err := fmt.Errorf("%w: %s", deploy.ErrProjectDir, opts.ProjectDir)
		progress(deploy.NewErrorEvent("Error: " + err.Error()))
		d.logger.Warn("deploy precondition failed", zap.String("dir", opts.ProjectDir))
		return nil, err
	}

	cmd := runner.Command{
		Name: opts.CLI,
		Args: Args(opts),
		Dir:  opts.ProjectDir,
		Env:  opts.Env,
	}

	result := &deploy.Result{
		RunID:   uuid.New().String(),
		Command: cmd.String(),
	}

	logger := d.logger.With(
		zap.String("run_id", result.RunID),
		zap.String("kind", "deploy"),
		zap.String("dir", cmd.Dir),
		zap.String("command", result.Command),
	)
	logger.Info("deploy started", zap.String("service", opts.Service))

	progress(deploy.NewProgressEventWithCommand(deploy.StageDeploying,
		fmt.Sprintf("Deploying service %s", opts.Service), result.Command))

	var mu sync.Mutex
	res, err := d.executor.Run(ctx, cmd, func(line string) {
		mu.Lock()
		result.Logs = append(result.Logs, line)
		mu.Unlock()
		progress(deploy.NewOutputEvent(line))
	})
	result.Duration = res.Duration
	result.ExitCode = res.ExitCode

	if err != nil {
		progress(deploy.NewErrorEventWithDetail("Deploy failed: could not run "+opts.CLI, err.Error()))
		logger.Error("deploy could not run", zap.Error(err))
		return result, fmt.Errorf("failed to run %s: %w", opts.CLI, err)
	}

	result.Success = res.Success()

	if result.Success {
		progress(deploy.NewProgressEvent(deploy.StageComplete, result.Message()))
		logger.Info("deploy finished",
			zap.Int("exit_code", result.ExitCode),
			zap.Duration("duration", result.Duration))
	} else {
		progress(deploy.ProgressEvent{
			Stage:     deploy.StageComplete,
			Message:   result.Message(),
			IsError:   true,
			Timestamp: time.Now(),
		})
		logger.Warn("deploy finished",
			zap.Int("exit_code", result.ExitCode),
			zap.Duration("duration", result.Duration))
	}

	return result, nil
}
