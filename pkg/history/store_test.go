package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreWithPath(filepath.Join(t.TempDir(), "state", "runs.json"), nil)
}

func TestStore_ListEmpty(t *testing.T) {
	store := newTestStore(t)

	runs, err := store.List(10)

	require.NoError(t, err)
	assert.Empty(t, runs)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "listing does not create the file")
}

func TestStore_RecordAndListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(Run{ID: "1", Kind: KindDeploy, StartedAt: base, Success: true}))
	require.NoError(t, store.Record(Run{ID: "2", Kind: KindBuild, StartedAt: base.Add(time.Minute), ExitCode: 1}))
	require.NoError(t, store.Record(Run{ID: "3", Kind: KindDeploy, StartedAt: base.Add(2 * time.Minute), Success: true}))

	runs, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "3", runs[0].ID)
	assert.Equal(t, "2", runs[1].ID)
	assert.Equal(t, "1", runs[2].ID)

	limited, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, "3", limited[0].ID)
}

func TestStore_RecordEvictsOldest(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < MaxRuns+5; i++ {
		require.NoError(t, store.Record(Run{
			ID:        fmt.Sprintf("run-%d", i),
			Kind:      KindDeploy,
			StartedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	runs, err := store.List(0)
	require.NoError(t, err)
	assert.Len(t, runs, MaxRuns)
	assert.Equal(t, fmt.Sprintf("run-%d", MaxRuns+4), runs[0].ID)
	assert.Equal(t, "run-5", runs[len(runs)-1].ID)
}

func TestStore_Last(t *testing.T) {
	store := newTestStore(t)
	base := time.Now()

	last, err := store.Last(KindBuild)
	require.NoError(t, err)
	assert.Nil(t, last)

	require.NoError(t, store.Record(Run{ID: "b1", Kind: KindBuild, StartedAt: base}))
	require.NoError(t, store.Record(Run{ID: "d1", Kind: KindDeploy, StartedAt: base.Add(time.Second)}))

	last, err = store.Last(KindBuild)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "b1", last.ID)
}

func TestStore_CorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err := store.List(0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse history file")
}

func TestStore_ConcurrentRecord(t *testing.T) {
	store := newTestStore(t)
	base := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Record(Run{ID: fmt.Sprint(i), StartedAt: base.Add(time.Duration(i))}))
		}(i)
	}
	wg.Wait()

	runs, err := store.List(0)
	require.NoError(t, err)
	assert.Len(t, runs, 20)
}

func TestRun_Status(t *testing.T) {
	assert.Equal(t, "ok", Run{Success: true}.Status())
	assert.Equal(t, "exit 2", Run{ExitCode: 2}.Status())
}

func TestNewStore_UsesStateDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	store, err := NewStore(nil)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "shipctl", "state", "runs.json"), store.Path())
}
