package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seismix/seismix/internal/mesh"
	"github.com/seismix/seismix/internal/meshdb"
	"github.com/seismix/seismix/internal/testutil"
)

func TestExtractInventory(t *testing.T) {
	db := buildStrainDB(t)
	job := writeJob(t, db, "components: \"Z\"\n")
	stations := writeStations(t)
	out := t.TempDir()

	stdout, _, err := execute("extract", job, stations, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "extracted 2 station(s)")

	for _, name := range []string{"XX.ANMO.LXZ.txt", "XX.COLA.LXZ.txt"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}

func TestExtractJSON(t *testing.T) {
	db := buildStrainDB(t)
	job := writeJob(t, db, "components: \"Z\"\n")
	stations := writeStations(t)
	out := t.TempDir()

	stdout, _, err := execute("--format", "json", "extract", job, stations, "-o", out)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Stations int      `json:"stations"`
			Files    []string `json:"files"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Stations)
	assert.Len(t, resp.Data.Files, 2)
}

func TestExtractBadStationsFile(t *testing.T) {
	db := buildStrainDB(t)
	job := writeJob(t, db, "")

	stdout, _, err := execute("extract", job, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, ErrCodeStationFile)
}

func TestExtractFailurePropagates(t *testing.T) {
	// Vertical-only database cannot serve horizontal components, so every
	// station fails and the first failure aborts the run.
	dir := t.TempDir()
	st, err := testutil.StrainStore(mesh.Monopole, testutil.Ramp(1))
	require.NoError(t, err)
	sub := filepath.Join(dir, "PZ", "Data")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, meshdb.Write(filepath.Join(sub, "ordered_output.sqlite"), st))

	job := writeJob(t, dir, "components: \"N\"\n")
	stations := writeStations(t)
	out := t.TempDir()

	stdout, _, err := execute("extract", job, stations, "-o", out)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, ErrCodeExtraction)
}
