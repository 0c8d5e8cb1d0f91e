package workspace

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CreateAndCleanup(t *testing.T) {
	m := NewManager(t.TempDir())
	require.NoError(t, m.Create())

	path := m.Path()
	require.NotEmpty(t, path)
	assert.True(t, strings.Contains(path, "mdlinkcheck-"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, m.Cleanup())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, m.Path())
}

func TestManager_CleanupWithoutCreateIsNoop(t *testing.T) {
	m := NewManager("")
	require.NoError(t, m.Cleanup())
}
