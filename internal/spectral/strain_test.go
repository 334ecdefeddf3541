package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seismix/seismix/internal/mesh"
	"github.com/seismix/seismix/internal/spatial"
)

var (
	colPoints = []float64{-1, 1}
	// Derivative matrix of the two-point Lagrange basis: l'_k is constant.
	deriv = [][]float64{{-0.5, 0.5}, {-0.5, 0.5}}
)

// offAxisElement spans s in [1,2], z in [0,1]: no node touches the axis.
func offAxisElement() mesh.Element {
	return mesh.Element{
		Corners: [4][2]float64{{1, 0}, {2, 0}, {2, 1}, {1, 1}},
		Type:    mesh.ElemLinear,
	}
}

// axialElement spans s in [0,1]: its ξ=-1 column sits on the axis.
func axialElement() mesh.Element {
	return mesh.Element{
		Corners: [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Type:    mesh.ElemLinear,
		Axial:   true,
	}
}

// fieldBlock samples the given displacement functions of (s,z) at the nodes.
func fieldBlock(el mesh.Element, us, up, uz func(s, z float64) float64) *Block {
	b := NewBlock(1, 2, 2, 3)
	for i, xi := range colPoints {
		for j, eta := range colPoints {
			s, z := spatial.MapForward(el, xi, eta)
			b.Set(0, i, j, 0, us(s, z))
			b.Set(0, i, j, 1, up(s, z))
			b.Set(0, i, j, 2, uz(s, z))
		}
	}
	return b
}

func zero(s, z float64) float64 { return 0 }

func geom(el mesh.Element, order int) StrainGeometry {
	return StrainGeometry{
		Element: el,
		ColXi:   colPoints, ColEta: colPoints,
		DXi: deriv, DEta: deriv,
		Order: order,
	}
}

func assertStrain(t *testing.T, got *Block, want [6]float64) {
	t.Helper()
	for i := 0; i < got.NR; i++ {
		for j := 0; j < got.NC; j++ {
			for c := 0; c < 6; c++ {
				assert.InDelta(t, want[c], got.At(0, i, j, c), 1e-12,
					"component %d at node (%d,%d)", c, i, j)
			}
		}
	}
}

func TestMonopoleStrainRadialField(t *testing.T) {
	// u_s = s gives unit ss strain and, through the hoop term u_s/s, unit pp
	// strain everywhere.
	el := offAxisElement()
	u := fieldBlock(el, func(s, z float64) float64 { return s }, zero, zero)
	got := NodalStrain(u, geom(el, 0))
	assertStrain(t, got, [6]float64{1, 1, 0, 0, 0, 0})
}

func TestMonopoleStrainVerticalField(t *testing.T) {
	el := offAxisElement()
	u := fieldBlock(el, zero, zero, func(s, z float64) float64 { return z })
	got := NodalStrain(u, geom(el, 0))
	assertStrain(t, got, [6]float64{0, 0, 1, 0, 0, 0})
}

func TestMonopoleStrainShearField(t *testing.T) {
	// u_z = s loads only the sz shear; u_s stays zero so the hoop term u_s/s
	// contributes nothing.
	el := offAxisElement()
	u := fieldBlock(el, zero, zero, func(s, z float64) float64 { return s })
	got := NodalStrain(u, geom(el, 0))
	assertStrain(t, got, [6]float64{0, 0, 0, 0, 0.5, 0})
}

func TestMonopoleHoopStrainOffAxis(t *testing.T) {
	// u_s = z excites the hoop strain u_s/s = z/s, which varies across the
	// element, plus the constant sz shear from du_s/dz.
	el := offAxisElement()
	u := fieldBlock(el, func(s, z float64) float64 { return z }, zero, zero)
	got := NodalStrain(u, geom(el, 0))
	for i, xi := range colPoints {
		for j, eta := range colPoints {
			s, z := spatial.MapForward(el, xi, eta)
			want := [6]float64{0, z / s, 0, 0, 0.5, 0}
			for c := 0; c < 6; c++ {
				assert.InDelta(t, want[c], got.At(0, i, j, c), 1e-12,
					"component %d at node (%d,%d)", c, i, j)
			}
		}
	}
}

func TestDipoleAzimuthalCoupling(t *testing.T) {
	// For order one, u_p = s makes the hoop strain (u_s + u_p)/s equal one
	// while ∂u_p/∂s cancels against (u_p + u_s)/s in the sp shear.
	el := offAxisElement()
	u := fieldBlock(el, zero, func(s, z float64) float64 { return s }, zero)
	got := NodalStrain(u, geom(el, 1))
	assertStrain(t, got, [6]float64{0, 1, 0, 0, 0, 0})
}

func TestDipoleShearSign(t *testing.T) {
	// u_s = s, u_p = -s: the hoop contributions cancel and only the sp
	// shear survives with ∂u_p/∂s = -1.
	el := offAxisElement()
	u := fieldBlock(el,
		func(s, z float64) float64 { return s },
		func(s, z float64) float64 { return -s },
		zero)
	got := NodalStrain(u, geom(el, 1))
	assertStrain(t, got, [6]float64{1, 0, 0, 0, 0, -0.5})
}

func TestAxisLimitMatchesInterior(t *testing.T) {
	// On the axis the 1/s hoop term switches to its L'Hôpital limit ∂u_s/∂s,
	// which for u_s = s agrees with the off-axis value.
	el := axialElement()
	u := fieldBlock(el, func(s, z float64) float64 { return s }, zero, zero)
	got := NodalStrain(u, geom(el, 0))
	assertStrain(t, got, [6]float64{1, 1, 0, 0, 0, 0})
}
