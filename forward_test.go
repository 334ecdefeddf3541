package seismix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seismix/seismix/internal/mesh"
	"github.com/seismix/seismix/internal/testutil"
)

// forwardDatabase builds a forward database whose carrier elemental mesh
// holds constant displacement (1, 2, 3) and the others zero, so only the
// weighting of that one mesh contributes.
func forwardDatabase(t *testing.T, carrier int) *Database {
	t.Helper()
	var stores [4]mesh.Store
	for i := range stores {
		us, up, uz := testutil.Constant(0), testutil.Constant(0), testutil.Constant(0)
		if i == carrier {
			us, up, uz = testutil.Constant(1), testutil.Constant(2), testutil.Constant(3)
		}
		st, err := testutil.DisplStore(mesh.Monopole, us, up, uz)
		require.NoError(t, err)
		stores[i] = st
	}
	db, err := NewForward(stores)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func assertForward(t *testing.T, db *Database, src *MomentTensorSource, want map[string]float64) {
	t.Helper()
	rec := Receiver{Latitude: 0, Longitude: 0, Station: "SYN", Network: "XX"}
	traces, err := db.Seismograms(src, rec, SeismogramOptions{
		Components: []string{"Z", "N", "E", "R", "T"},
	})
	require.NoError(t, err)
	for _, tr := range traces {
		for i, v := range tr.Data {
			assert.InDelta(t, want[tr.Component], v, 1e-9, "%s sample %d", tr.Component, i)
		}
	}
}

func TestForwardVerticalTensorWeighting(t *testing.T) {
	// Receiver at the source epicenter: the receiver maps onto the mesh
	// axis, every frame rotation collapses to identity and the seismogram is
	// the first elemental wavefield weighted by Mrr/amplitude. Only the
	// in-plane components of the axial mesh contribute, so its u_phi never
	// reaches the output and E and T stay zero.
	db := forwardDatabase(t, 0)
	src := &MomentTensorSource{Latitude: 0, Longitude: 0, M: [6]float64{1, 0, 0, 0, 0, 0}}
	w := 1.0 / testutil.Amplitude
	assertForward(t, db, src, map[string]float64{
		"Z": 3 * w, "N": -1 * w, "E": 0, "R": 1 * w, "T": 0,
	})
}

func TestForwardAzimuthalTensorWeighting(t *testing.T) {
	// Mrp at azimuth zero weights the order-one mesh with fac1 = 0 and
	// fac2 = Mrp/amplitude, so only its u_phi survives: the transverse
	// output is the negated phi series and E its east projection.
	db := forwardDatabase(t, 2)
	src := &MomentTensorSource{Latitude: 0, Longitude: 0, M: [6]float64{0, 0, 0, 0, 1, 0}}
	w := 1.0 / testutil.Amplitude
	assertForward(t, db, src, map[string]float64{
		"Z": 0, "N": 0, "E": 2 * w, "R": 0, "T": -2 * w,
	})
}

func TestForwardRejectsForceSource(t *testing.T) {
	db := forwardDatabase(t, 0)
	force := &ForceSource{Latitude: 0, Longitude: 0, F: [3]float64{1, 0, 0}}
	_, err := db.Seismograms(force, Receiver{}, SeismogramOptions{Components: []string{"Z"}})
	assert.True(t, IsUnsupportedOperationError(err))
}

func TestNewForwardNeedsAllMeshes(t *testing.T) {
	st, err := testutil.DisplStore(mesh.Monopole,
		testutil.Constant(1), testutil.Constant(1), testutil.Constant(1))
	require.NoError(t, err)
	_, err = NewForward([4]mesh.Store{st, st, st, nil})
	assert.True(t, IsConfigurationError(err))
}

func TestOpenMissingLayout(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(dir)
	assert.True(t, IsConfigurationError(err))
	_, err = OpenForward(dir)
	assert.True(t, IsConfigurationError(err))
}
