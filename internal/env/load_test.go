package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `# viewer
SYMWORLD_STORE=/tmp/a.db
export SYMWORLD_BRIDGE="ws://localhost:9000/bridge"
SYMWORLD_NAVIGATOR='walk'
not a pair
=novalue
SYMWORLD_KEEP=from-file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("SYMWORLD_KEEP", "from-env")
	for _, k := range []string{"SYMWORLD_STORE", "SYMWORLD_BRIDGE", "SYMWORLD_NAVIGATOR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	require.NoError(t, Load(path))

	store, ok := Get("STORE")
	assert.True(t, ok)
	assert.Equal(t, "/tmp/a.db", store)
	bridge, _ := Get("BRIDGE")
	assert.Equal(t, "ws://localhost:9000/bridge", bridge)
	nav, _ := Get("NAVIGATOR")
	assert.Equal(t, "walk", nav)
	keep, _ := Get("KEEP")
	assert.Equal(t, "from-env", keep, "existing variables win")
}

func TestLoadMissingFile(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), "nope.env")))
}

func TestGetEmptyIsUnset(t *testing.T) {
	t.Setenv("SYMWORLD_EMPTY", "")
	_, ok := Get("EMPTY")
	assert.False(t, ok)
}
