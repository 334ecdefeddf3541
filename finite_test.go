package seismix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seismix/seismix/internal/testutil"
)

func finiteSegment(depth float64) *MomentTensorSource {
	src := isotropicSource(depth)
	src.SourceTimeFunction = &SourceTimeFunction{
		Sliprate: testutil.Spike(),
		DT:       testutil.DT,
	}
	return src
}

func TestFiniteSourceRigidityScaling(t *testing.T) {
	// One segment whose source time function equals the database's: the
	// result is the point-source seismogram scaled by mu/ReferenceRigidity.
	trace := testutil.Ramp(1)
	db := strainDatabase(t, trace)

	traces, err := db.FiniteSourceSeismograms(
		[]*MomentTensorSource{finiteSegment(100e3)},
		testReceiver,
		FiniteSourceOptions{Components: []string{"Z"}},
	)
	require.NoError(t, err)
	require.Len(t, traces, 1)

	scale := testutil.Mu / ReferenceRigidity
	for i, v := range trace {
		assert.InDelta(t, scale*v/testutil.Amplitude, traces[0].Data[i], 1e-9, "sample %d", i)
	}
}

func TestFiniteSourceSumsSegments(t *testing.T) {
	trace := testutil.Ramp(1)
	db := strainDatabase(t, trace)
	segments := []*MomentTensorSource{finiteSegment(100e3), finiteSegment(150e3)}

	traces, err := db.FiniteSourceSeismograms(segments, testReceiver,
		FiniteSourceOptions{Components: []string{"Z"}})
	require.NoError(t, err)

	scale := testutil.Mu / ReferenceRigidity
	for i, v := range trace {
		assert.InDelta(t, 2*scale*v/testutil.Amplitude, traces[0].Data[i], 1e-9, "sample %d", i)
	}
}

func TestFiniteSourceResamplesOnce(t *testing.T) {
	db := strainDatabase(t, testutil.Ramp(1))
	traces, err := db.FiniteSourceSeismograms(
		[]*MomentTensorSource{finiteSegment(100e3)},
		testReceiver,
		FiniteSourceOptions{Components: []string{"Z"}, DT: testutil.DT / 2},
	)
	require.NoError(t, err)
	assert.Equal(t, testutil.DT/2, traces[0].Delta)
	assert.Len(t, traces[0].Data, 2*testutil.NSamples)
}

func TestFiniteSourceNeedsSTF(t *testing.T) {
	db := strainDatabase(t, testutil.Ramp(1))
	_, err := db.FiniteSourceSeismograms(
		[]*MomentTensorSource{isotropicSource(100e3)},
		testReceiver,
		FiniteSourceOptions{Components: []string{"Z"}},
	)
	assert.True(t, IsUnsupportedOperationError(err))
}

func TestFiniteSourceNeedsSegments(t *testing.T) {
	db := strainDatabase(t, testutil.Ramp(1))
	_, err := db.FiniteSourceSeismograms(nil, testReceiver, FiniteSourceOptions{})
	assert.True(t, IsConfigurationError(err))
}

func TestFiniteSourceReciprocalOnly(t *testing.T) {
	db := forwardDatabase(t, 0)
	_, err := db.FiniteSourceSeismograms(
		[]*MomentTensorSource{finiteSegment(100e3)},
		testReceiver,
		FiniteSourceOptions{Components: []string{"Z"}},
	)
	assert.True(t, IsUnsupportedOperationError(err))
}
