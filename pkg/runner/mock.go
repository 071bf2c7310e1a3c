package runner

import (
	"context"
	"sync"
)

// MockExecutor is a function-field Executor for tests. Every Run call is
// recorded in Calls.
type MockExecutor struct {
	LookPathFunc   func(file string) (string, error)
	RunFunc        func(ctx context.Context, cmd Command, onLine LineHandler) (Result, error)
	FileExistsFunc func(path string) bool
	DirExistsFunc  func(path string) bool

	mu    sync.Mutex
	Calls []Command
}

// LookPath implements Executor.
func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// Run implements Executor.
func (m *MockExecutor) Run(ctx context.Context, cmd Command, onLine LineHandler) (Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, cmd)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, cmd, onLine)
	}
	return Result{}, nil
}

// FileExists implements Executor.
func (m *MockExecutor) FileExists(path string) bool {
	if m.FileExistsFunc != nil {
		return m.FileExistsFunc(path)
	}
	return true
}

// DirExists implements Executor.
func (m *MockExecutor) DirExists(path string) bool {
	if m.DirExistsFunc != nil {
		return m.DirExistsFunc(path)
	}
	return true
}

// CallNames returns the executable name of every recorded call, in order.
func (m *MockExecutor) CallNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		names[i] = c.Name
	}
	return names
}
