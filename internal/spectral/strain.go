package spectral

import (
	"github.com/seismix/seismix/internal/mesh"
	"github.com/seismix/seismix/internal/spatial"
)

// Voigt component indices of the derived strain, in the order the
// contraction stage consumes: ss, pp (azimuthal), zz, pz, sz, sp.
const (
	VoigtSS = iota
	VoigtPP
	VoigtZZ
	VoigtPZ
	VoigtSZ
	VoigtSP
)

// StrainGeometry bundles the per-element inputs of the strain kernels.
type StrainGeometry struct {
	Element mesh.Element
	// Collocation points and derivative matrices along ξ and η. The ξ set
	// is GLJ on axial elements, GLL otherwise; η is always GLL.
	ColXi, ColEta []float64
	DXi, DEta     [][]float64
	// Order is the azimuthal wavenumber of the excitation: 0 for monopole,
	// 1 for dipole, 2 for quadpole.
	Order int
}

// NodalStrain derives the six Voigt strain components at every collocation
// node and time sample from a nodal displacement block (components s, p, z).
//
// The stored fields are the azimuthal expansion coefficients of the wavefield
// at the excitation's wavenumber m, so the cylindrical strain picks up m-
// dependent coupling terms. The 1/s factors switch to their axis limits
// (via the ∂s derivative) on the ξ=-1 column of axial elements, where s=0.
func NodalStrain(u *Block, g StrainGeometry) *Block {
	nt, nr, nc := u.NT, u.NR, u.NC
	m := float64(g.Order)
	out := NewBlock(nt, nr, nc, 6)

	// Node geometry is time-independent: physical s coordinate and the
	// inverse mapping Jacobian at every collocation node.
	sAt := make([]float64, nr*nc)
	inv := make([][4]float64, nr*nc) // dξ/ds, dη/ds, dξ/dz, dη/dz
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			xi, eta := g.ColXi[i], g.ColEta[j]
			s, _ := spatial.MapForward(g.Element, xi, eta)
			dsdxi, dsdeta, dzdxi, dzdeta := spatial.JacobianAt(g.Element, xi, eta)
			det := dsdxi*dzdeta - dsdeta*dzdxi
			sAt[i*nc+j] = s
			inv[i*nc+j] = [4]float64{dzdeta / det, -dzdxi / det, -dsdeta / det, dsdxi / det}
		}
	}

	// Scratch derivative grids, reused across time samples: component-major
	// ∂/∂s and ∂/∂z of u_s, u_p, u_z.
	ds := [3][]float64{}
	dz := [3][]float64{}
	for c := 0; c < 3; c++ {
		ds[c] = make([]float64, nr*nc)
		dz[c] = make([]float64, nr*nc)
	}

	for t := 0; t < nt; t++ {
		for c := 0; c < 3; c++ {
			for i := 0; i < nr; i++ {
				for j := 0; j < nc; j++ {
					var dxi, deta float64
					for k := 0; k < nr; k++ {
						dxi += g.DXi[i][k] * u.At(t, k, j, c)
					}
					for k := 0; k < nc; k++ {
						deta += g.DEta[j][k] * u.At(t, i, k, c)
					}
					jac := inv[i*nc+j]
					ds[c][i*nc+j] = dxi*jac[0] + deta*jac[1]
					dz[c][i*nc+j] = dxi*jac[2] + deta*jac[3]
				}
			}
		}

		for i := 0; i < nr; i++ {
			onAxis := g.Element.Axial && i == 0
			for j := 0; j < nc; j++ {
				n := i*nc + j
				us, up, uz := u.At(t, i, j, 0), u.At(t, i, j, 1), u.At(t, i, j, 2)
				dsus, dsup, dsuz := ds[0][n], ds[1][n], ds[2][n]
				dzus, dzup, dzuz := dz[0][n], dz[1][n], dz[2][n]

				var epp, couplePZ, coupleSP float64
				if onAxis {
					epp = dsus + m*dsup
					couplePZ = m * dsuz
					coupleSP = dsup + m*dsus
				} else {
					s := sAt[n]
					epp = (us + m*up) / s
					couplePZ = m * uz / s
					coupleSP = (up + m*us) / s
				}

				out.Set(t, i, j, VoigtSS, dsus)
				out.Set(t, i, j, VoigtPP, epp)
				out.Set(t, i, j, VoigtZZ, dzuz)
				out.Set(t, i, j, VoigtPZ, 0.5*(dzup-couplePZ))
				out.Set(t, i, j, VoigtSZ, 0.5*(dzus+dsuz))
				out.Set(t, i, j, VoigtSP, 0.5*(dsup-coupleSP))
			}
		}
	}
	return out
}
