package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seismix/seismix/internal/mesh"
	"github.com/seismix/seismix/internal/meshdb"
	"github.com/seismix/seismix/internal/testutil"
)

// execute runs the CLI with captured output.
func execute(args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// buildStrainDB writes a synthetic reciprocal database (PZ and PX meshes)
// into a fresh directory and returns its path.
func buildStrainDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	meshes := []struct {
		sub string
		exc mesh.Excitation
	}{
		{"PZ", mesh.Monopole},
		{"PX", mesh.Dipole},
	}
	for _, m := range meshes {
		st, err := testutil.StrainStore(m.exc, testutil.Ramp(1))
		require.NoError(t, err)
		sub := filepath.Join(dir, m.sub, "Data")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		require.NoError(t, meshdb.Write(filepath.Join(sub, "ordered_output.sqlite"), st))
	}
	return dir
}

// writeJob writes a moment tensor extraction job pointing at dbPath.
func writeJob(t *testing.T, dbPath, extra string) string {
	t.Helper()
	content := fmt.Sprintf(`database: %q
source: {
	latitude:  10.0
	longitude: 20.0
	depth:     100000.0
	moment_tensor: [1.0, 1.0, 1.0, 0.0, 0.0, 0.0]
}
%s`, dbPath, extra)
	path := filepath.Join(t.TempDir(), "job.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeStations writes a two-station YAML inventory.
func writeStations(t *testing.T) string {
	t.Helper()
	content := `stations:
  - network: XX
    station: ANMO
    latitude: 0.0
    longitude: 0.0
  - network: XX
    station: COLA
    latitude: 5.0
    longitude: -10.0
`
	path := filepath.Join(t.TempDir(), "stations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
