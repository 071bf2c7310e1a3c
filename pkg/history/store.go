package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/jaspreet-dot-casa/shipctl/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/shipctl/pkg/logging"
)

// Store manages the run history file.
type Store struct {
	path   string
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewStore creates a store at the default state path.
func NewStore(logger *zap.Logger) (*Store, error) {
	path, err := globalconfig.GetHistoryPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get history path: %w", err)
	}
	return NewStoreWithPath(path, logger), nil
}

// NewStoreWithPath creates a store backed by a custom file.
func NewStoreWithPath(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.OrNop(logger),
	}
}

// Path returns the history file path.
func (s *Store) Path() string {
	return s.path
}

// Record appends a run, evicting the oldest beyond MaxRuns.
func (s *Store) Record(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadInternal()
	if err != nil {
		return err
	}

	f.Runs = append(f.Runs, run)
	sort.SliceStable(f.Runs, func(i, j int) bool {
		return f.Runs[i].StartedAt.Before(f.Runs[j].StartedAt)
	})
	if len(f.Runs) > MaxRuns {
		f.Runs = f.Runs[len(f.Runs)-MaxRuns:]
	}

	return s.saveInternal(f)
}

// List returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.loadInternal()
	if err != nil {
		return nil, err
	}

	runs := make([]Run, 0, len(f.Runs))
	for i := len(f.Runs) - 1; i >= 0; i-- {
		runs = append(runs, f.Runs[i])
		if limit > 0 && len(runs) == limit {
			break
		}
	}
	return runs, nil
}

// Last returns the newest run of the given kind, or nil.
func (s *Store) Last(kind Kind) (*Run, error) {
	runs, err := s.List(0)
	if err != nil {
		return nil, err
	}
	for _, r := range runs {
		if r.Kind == kind {
			return &r, nil
		}
	}
	return nil, nil
}

// loadInternal reads the file without locking (caller must hold lock).
func (s *Store) loadInternal() (*File, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewFile(), nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	if f.Version != Version {
		s.logger.Warn("history file version differs",
			zap.String("file_version", f.Version),
			zap.String("supported", Version))
		f.Version = Version
	}
	if f.Runs == nil {
		f.Runs = []Run{}
	}
	return &f, nil
}

// saveInternal writes the file atomically (caller must hold lock).
func (s *Store) saveInternal(f *File) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		if removeErr := os.Remove(tmpPath); removeErr != nil {
			s.logger.Warn("failed to clean up temp file", zap.String("path", tmpPath), zap.Error(removeErr))
		}
		return fmt.Errorf("failed to save history file: %w", err)
	}

	return nil
}
