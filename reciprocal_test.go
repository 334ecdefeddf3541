package seismix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seismix/seismix/internal/mesh"
	"github.com/seismix/seismix/internal/testutil"
)

// isotropicSource is rotation invariant, so the contraction weights are
// known without working out the query azimuth: every diagonal tensor entry
// becomes M/amplitude in the database frame.
func isotropicSource(depth float64) *MomentTensorSource {
	return &MomentTensorSource{
		Latitude: 10, Longitude: 20, Depth: depth,
		M: [6]float64{1, 1, 1, 0, 0, 0},
	}
}

var testReceiver = Receiver{Latitude: 0, Longitude: 0, Station: "SYN", Network: "XX"}

// strainDatabase builds a reciprocal database over single-element
// strain-dumped meshes whose diagonal strain sums to the given trace.
func strainDatabase(t *testing.T, trace []float64) *Database {
	t.Helper()
	pz, err := testutil.StrainStore(mesh.Monopole, trace)
	require.NoError(t, err)
	px, err := testutil.StrainStore(mesh.Dipole, trace)
	require.NoError(t, err)
	db, err := NewReciprocal(px, pz)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMomentTensorVerticalFromStrain(t *testing.T) {
	// With an isotropic unit tensor the vertical seismogram is the diagonal
	// strain sum scaled by 1/amplitude; the radial one is its negation and
	// the transverse one vanishes.
	trace := testutil.Ramp(1)
	db := strainDatabase(t, trace)

	traces, err := db.Seismograms(isotropicSource(100e3), testReceiver, SeismogramOptions{
		Components: []string{"Z", "R", "T"},
	})
	require.NoError(t, err)
	require.Len(t, traces, 3)

	byComp := map[string]Trace{}
	for _, tr := range traces {
		byComp[tr.Component] = tr
	}
	for i, v := range trace {
		assert.InDelta(t, v/testutil.Amplitude, byComp["Z"].Data[i], 1e-12, "Z sample %d", i)
		assert.InDelta(t, -v/testutil.Amplitude, byComp["R"].Data[i], 1e-12, "R sample %d", i)
		assert.InDelta(t, 0, byComp["T"].Data[i], 1e-12, "T sample %d", i)
	}
	assert.Equal(t, "LXZ", byComp["Z"].Channel)
	assert.Equal(t, testutil.DT, byComp["Z"].Delta)
	assert.Equal(t, "SYN", byComp["Z"].Station)
}

func TestDefaultComponents(t *testing.T) {
	db := strainDatabase(t, testutil.Ramp(1))
	traces, err := db.Seismograms(isotropicSource(100e3), testReceiver, SeismogramOptions{})
	require.NoError(t, err)
	require.Len(t, traces, 3)
	assert.Equal(t, "Z", traces[0].Component)
	assert.Equal(t, "N", traces[1].Component)
	assert.Equal(t, "E", traces[2].Component)
}

func TestUnknownComponentRejected(t *testing.T) {
	db := strainDatabase(t, testutil.Ramp(1))
	_, err := db.Seismograms(isotropicSource(100e3), testReceiver, SeismogramOptions{
		Components: []string{"Q"},
	})
	assert.True(t, IsConfigurationError(err))
}

func TestMissingMeshRejected(t *testing.T) {
	pz, err := testutil.StrainStore(mesh.Monopole, testutil.Ramp(1))
	require.NoError(t, err)
	db, err := NewReciprocal(nil, pz)
	require.NoError(t, err)
	defer db.Close()

	// Vertical works without the horizontal mesh.
	_, err = db.Seismograms(isotropicSource(100e3), testReceiver, SeismogramOptions{
		Components: []string{"Z"},
	})
	require.NoError(t, err)

	_, err = db.Seismograms(isotropicSource(100e3), testReceiver, SeismogramOptions{
		Components: []string{"N"},
	})
	assert.True(t, IsConfigurationError(err))
}

func TestNewReciprocalNeedsAMesh(t *testing.T) {
	_, err := NewReciprocal(nil, nil)
	assert.True(t, IsConfigurationError(err))
}

func TestForceSourceNeedsDisplacementFields(t *testing.T) {
	db := strainDatabase(t, testutil.Ramp(1))
	force := &ForceSource{Latitude: 0, Longitude: 0, Depth: 100e3, F: [3]float64{1, 0, 0}}
	_, err := db.Seismograms(force, testReceiver, SeismogramOptions{Components: []string{"Z"}})
	assert.True(t, IsUnsupportedOperationError(err))
}

// displDatabase builds a reciprocal database over single-element
// displacement-dumped meshes with spatially constant fields.
func displDatabase(t *testing.T, us, up, uz []float64) *Database {
	t.Helper()
	pz, err := testutil.DisplStore(mesh.Monopole, us, up, uz)
	require.NoError(t, err)
	px, err := testutil.DisplStore(mesh.Dipole, us, up, uz)
	require.NoError(t, err)
	db, err := NewReciprocal(px, pz)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestForceSourceVertical(t *testing.T) {
	// Source directly below the receiver, vertical force: the local force
	// stays (0, 0, F) through every rotation, so the vertical seismogram is
	// F·u_z/amplitude and the azimuth factors reduce N to the negated radial
	// combination.
	db := displDatabase(t, testutil.Constant(1), testutil.Constant(5), testutil.Constant(4))
	force := &ForceSource{
		Latitude: 0, Longitude: 0, Depth: 100e3,
		F: [3]float64{3, 0, 0},
	}

	traces, err := db.Seismograms(force, testReceiver, SeismogramOptions{
		Components: []string{"Z", "N", "E", "T"},
	})
	require.NoError(t, err)

	byComp := map[string]Trace{}
	for _, tr := range traces {
		byComp[tr.Component] = tr
	}
	want := 3.0 * 4.0 / testutil.Amplitude
	for i := range byComp["Z"].Data {
		assert.InDelta(t, want, byComp["Z"].Data[i], 1e-9, "Z sample %d", i)
		assert.InDelta(t, -want, byComp["N"].Data[i], 1e-9, "N sample %d", i)
		assert.InDelta(t, 0, byComp["E"].Data[i], 1e-9, "E sample %d", i)
		assert.InDelta(t, 0, byComp["T"].Data[i], 1e-9, "T sample %d", i)
	}
}

func TestGeometryErrorOutsideMesh(t *testing.T) {
	// The antipode of the receiver maps far outside the single near-surface
	// element.
	db := displDatabase(t, testutil.Constant(1), testutil.Constant(1), testutil.Constant(1))
	src := &MomentTensorSource{Latitude: 0, Longitude: 180, Depth: 0, M: [6]float64{1, 1, 1, 0, 0, 0}}

	_, err := db.Seismograms(src, testReceiver, SeismogramOptions{Components: []string{"Z"}})
	assert.True(t, IsGeometryError(err))
}
