package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `# Railway project token
RAILWAY_TOKEN="abc123"
DISCORD_TOKEN='tok=with=equals'
export GUILD_ID=1251693839249313863

EMPTY=
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	vars, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "abc123", vars["RAILWAY_TOKEN"])
	assert.Equal(t, "tok=with=equals", vars["DISCORD_TOKEN"])
	assert.Equal(t, "1251693839249313863", vars["GUILD_ID"])
	assert.Contains(t, vars, "EMPTY")
	assert.Len(t, vars, 4)
}

func TestParse_MissingFile(t *testing.T) {
	vars, err := Parse(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestParse_EmptyPath(t *testing.T) {
	vars, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestMerge(t *testing.T) {
	base := []string{"PATH=/usr/bin", "RAILWAY_TOKEN=old", "HOME=/root"}
	vars := map[string]string{"RAILWAY_TOKEN": "new", "A": "1"}

	merged := Merge(base, vars)

	assert.Equal(t, []string{"PATH=/usr/bin", "HOME=/root", "A=1", "RAILWAY_TOKEN=new"}, merged)
}

func TestMerge_NoVars(t *testing.T) {
	base := []string{"PATH=/usr/bin"}
	assert.Equal(t, base, Merge(base, nil))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Keys(map[string]string{"B": "2", "A": "1"}))
}
