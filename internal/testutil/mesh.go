// Package testutil builds small synthetic mesh databases for tests: a single
// straight-edged element just below the surface with hand-picked field
// values, so expected seismograms can be written down in closed form.
package testutil

import (
	"github.com/seismix/seismix/internal/mesh"
)

// Fixed parameters of the synthetic databases.
const (
	NSamples     = 8
	DT           = 0.5
	Amplitude    = 2.0
	PlanetRadius = 6371e3
	ShiftSamples = 2

	// ElementSpan is the s and z extent of the single element, reaching down
	// from the surface.
	ElementSpan = 400e3

	// Mu is the rigidity at every node.
	Mu = 64e9
)

// Descriptor builds a validated single-element descriptor: polynomial order
// one, straight edges, spanning s in [0, ElementSpan] and z in
// [PlanetRadius-ElementSpan, PlanetRadius]. The element is node-addressed
// with ids 0..3 regardless of dump type, so rigidity lookup works for both.
func Descriptor(dump mesh.DumpType, exc mesh.Excitation) *mesh.Descriptor {
	z0 := PlanetRadius - ElementSpan
	el := mesh.Element{
		Corners: [4][2]float64{
			{0, z0}, {ElementSpan, z0}, {ElementSpan, PlanetRadius}, {0, PlanetRadius},
		},
		Type:  mesh.ElemLinear,
		Nodes: []int{0, 1, 2, 3},
		Mid:   [2]float64{ElementSpan / 2, z0 + ElementSpan/2},
	}
	return &mesh.Descriptor{
		NPol:               1,
		NSamples:           NSamples,
		DT:                 DT,
		Amplitude:          Amplitude,
		SourceShiftSamples: ShiftSamples,
		SourceShift:        ShiftSamples * DT,
		PlanetRadius:       PlanetRadius,
		Model:              "prem_test",
		DominantPeriod:     10,
		TimeScheme:         "newmark2",
		DumpType:           dump,
		Excitation:         exc,
		GLL:                []float64{-1, 1},
		DerivGLL:           [][]float64{{-0.5, 0.5}, {-0.5, 0.5}},
		Slip:               Ramp(1),
		Sliprate:           Spike(),
		Elements:           []mesh.Element{el},
		Mu:                 []float64{Mu, Mu, Mu, Mu},
	}
}

// Ramp returns the series scale*t.
func Ramp(scale float64) []float64 {
	out := make([]float64, NSamples)
	for t := range out {
		out[t] = scale * float64(t)
	}
	return out
}

// Spike returns a unit impulse at the source shift sample. Its spectrum has
// unit magnitude everywhere, which keeps source time function exchange
// against itself exact.
func Spike() []float64 {
	out := make([]float64, NSamples)
	out[ShiftSamples] = 1
	return out
}

// Constant returns a series holding v at every sample.
func Constant(v float64) []float64 {
	out := make([]float64, NSamples)
	for t := range out {
		out[t] = v
	}
	return out
}

// StrainStore builds a strain-dumped store whose only element carries the
// given raw trace series (the sum of the three diagonal strain components);
// all other raw components stay zero. The Voigt strain derived from it is
// [0, 0, trace, 0, 0, 0].
func StrainStore(exc mesh.Excitation, trace []float64) (*mesh.MemStore, error) {
	st, err := mesh.NewMemStore(Descriptor(mesh.StrainOnly, exc))
	if err != nil {
		return nil, err
	}
	var raw [mesh.RawStrainComponents][]float64
	raw[5] = trace
	st.SetStrainRaw(0, raw)
	return st, nil
}

// DisplStore builds a displacement-dumped store with spatially constant
// displacement: every node carries the series us, up, uz. Interpolation of a
// constant field is exact anywhere in the element.
func DisplStore(exc mesh.Excitation, us, up, uz []float64) (*mesh.MemStore, error) {
	st, err := mesh.NewMemStore(Descriptor(mesh.DisplOnly, exc))
	if err != nil {
		return nil, err
	}
	set := func(comp mesh.Component, series []float64) {
		if series == nil {
			return
		}
		nodes := make([][]float64, 4)
		for n := range nodes {
			nodes[n] = series
		}
		st.SetDisplacement(comp, nodes)
	}
	set(mesh.CompS, us)
	set(mesh.CompP, up)
	set(mesh.CompZ, uz)
	return st, nil
}
