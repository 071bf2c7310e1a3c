package doctor

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jaspreet-dot-casa/shipctl/pkg/runner"
)

// Checker provides dependency checking functionality.
type Checker struct {
	executor runner.Executor
	platform string
}

// NewChecker creates a new Checker with the real command executor.
func NewChecker() *Checker {
	return NewCheckerWithExecutor(&runner.RealExecutor{})
}

// NewCheckerWithExecutor creates a new Checker with a custom executor (for testing).
func NewCheckerWithExecutor(exec runner.Executor) *Checker {
	return &Checker{
		executor: exec,
		platform: runtime.GOOS,
	}
}

// SetPlatform overrides the platform used to pick fix commands.
func (c *Checker) SetPlatform(platform string) {
	c.platform = platform
}

// CheckAll runs all applicable checks and returns groups with results.
func (c *Checker) CheckAll(ctx context.Context) []CheckGroup {
	var result []CheckGroup
	for _, group := range groupsFor(c.platform) {
		result = append(result, c.CheckGroup(ctx, group.ID))
	}
	return result
}

// CheckAllAsync runs all groups concurrently. Results keep display order.
func (c *Checker) CheckAllAsync(ctx context.Context) []CheckGroup {
	groups := groupsFor(c.platform)
	result := make([]CheckGroup, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			result[i] = c.CheckGroup(gctx, group.ID)
			return nil
		})
	}
	_ = g.Wait()

	return result
}

// CheckGroup runs all checks for a specific group.
func (c *Checker) CheckGroup(ctx context.Context, groupID string) CheckGroup {
	def, ok := GetGroupDefinition(groupID)
	if !ok {
		return CheckGroup{
			ID:   groupID,
			Name: "Unknown",
		}
	}

	group := CheckGroup{
		ID:          groupID,
		Name:        def.Name,
		Description: def.Description,
		Platform:    def.Platform,
	}

	for _, checkID := range def.CheckIDs {
		group.Checks = append(group.Checks, c.runCheck(ctx, checkID))
	}

	return group
}

func (c *Checker) runCheck(ctx context.Context, checkID string) Check {
	switch checkID {
	case IDRailway:
		return CheckRailway(ctx, c.executor, c.platform)
	case IDPython:
		return CheckPython(ctx, c.executor, c.platform)
	case IDPip:
		return CheckPip(ctx, c.executor, c.platform)
	case IDPyInstaller:
		return CheckPyInstaller(ctx, c.executor, c.platform)
	default:
		return Check{
			ID:      checkID,
			Name:    checkID,
			Status:  StatusError,
			Message: "unknown check",
		}
	}
}

// GetCheck runs a single check by ID.
func (c *Checker) GetCheck(ctx context.Context, checkID string) Check {
	return c.runCheck(ctx, checkID)
}

// Summary represents an overall health summary.
type Summary struct {
	Total    int
	OK       int
	Missing  int
	Warnings int
	Errors   int
}

// GetSummary returns a summary of check results.
func GetSummary(groups []CheckGroup) Summary {
	var summary Summary

	for _, group := range groups {
		for _, check := range group.Checks {
			summary.Total++
			switch check.Status {
			case StatusOK:
				summary.OK++
			case StatusMissing:
				summary.Missing++
			case StatusWarning:
				summary.Warnings++
			case StatusError:
				summary.Errors++
			}
		}
	}

	return summary
}

// HasIssues returns true if any checks are missing or errored.
func HasIssues(groups []CheckGroup) bool {
	summary := GetSummary(groups)
	return summary.Missing > 0 || summary.Errors > 0
}

// Fixable returns the checks that are not OK and have a fix command.
func Fixable(groups []CheckGroup) []Check {
	var out []Check
	for _, group := range groups {
		for _, check := range group.Checks {
			if check.Status != StatusOK && check.FixCommand != nil {
				out = append(out, check)
			}
		}
	}
	return out
}
