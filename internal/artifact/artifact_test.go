package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_CreatesDirAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "stats.json")

	require.NoError(t, WriteJSON(path, map[string]int{"followers": 1}))
	require.NoError(t, WriteJSON(path, map[string]int{"followers": 2}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, map[string]int{"followers": 2}, got)
	assert.Contains(t, string(raw), "\n  \"followers\": 2")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteJSON_EncodeErrorKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, WriteJSON(path, []int{1}))

	err := WriteJSON(path, map[string]any{"bad": make(chan int)})
	require.Error(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[1]`, string(raw))
}
