package seismix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandCode(t *testing.T) {
	cases := []struct {
		dt   float64
		want string
	}{
		{2000, "F"},
		{1000, "F"},
		{500, "C"},
		{100, "H"},
		{50, "B"},
		{10, "B"},
		{2, "M"},
		{1, "M"},
		{0.5, "L"},
		{0.01, "L"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, bandCode(tc.dt), "dt=%g", tc.dt)
	}
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "LXZ", channelName(0.5, "Z"))
	assert.Equal(t, "MXN", channelName(1, "N"))
	assert.Equal(t, "BXT", channelName(25, "T"))
}

func TestErrorHelpers(t *testing.T) {
	cfg := configErrorf("bad %s", "component")
	assert.True(t, IsConfigurationError(cfg))
	assert.False(t, IsGeometryError(cfg))
	assert.Contains(t, cfg.Error(), "bad component")

	geo := &GeometryError{S: 1, Z: 2}
	assert.True(t, IsGeometryError(geo))
	assert.False(t, IsUnsupportedOperationError(geo))

	uns := &UnsupportedOperationError{Op: "x", Reason: "y"}
	assert.True(t, IsUnsupportedOperationError(uns))
	assert.False(t, IsConfigurationError(uns))
}
