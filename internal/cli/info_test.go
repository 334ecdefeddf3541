package cli

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoRendering(t *testing.T) {
	dir := buildStrainDB(t)
	stdout, _, err := execute("info", dir)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "info", []byte(stdout))
}

func TestInfoJSON(t *testing.T) {
	dir := buildStrainDB(t)
	stdout, _, err := execute("--format", "json", "info", dir)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, dir, data["path"])
	assert.Contains(t, data["summary"], "reciprocal Green's function database")
}

func TestInfoMissingDatabase(t *testing.T) {
	stdout, _, err := execute("info", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, ErrCodeDatabase)
}
