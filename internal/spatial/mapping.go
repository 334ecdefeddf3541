package spatial

import (
	"math"

	"github.com/seismix/seismix/internal/mesh"
)

// Reference-square coordinates of the four corners, counterclockwise from
// (-1,-1). Corner k of an element sits at (cornerXi[k], cornerEta[k]).
var (
	cornerXi  = [4]float64{-1, 1, 1, -1}
	cornerEta = [4]float64{-1, -1, 1, 1}
)

// newtonIterations bounds the inverse-mapping solve. Bilinear maps over
// convex quadrilaterals converge in a handful of steps.
const newtonIterations = 20

// bilinear evaluates the four-corner shape interpolation and its reference
// derivatives at (ξ,η).
func bilinear(v [4]float64, xi, eta float64) (f, dfdxi, dfdeta float64) {
	for k := 0; k < 4; k++ {
		f += v[k] * (1 + xi*cornerXi[k]) * (1 + eta*cornerEta[k])
		dfdxi += v[k] * cornerXi[k] * (1 + eta*cornerEta[k])
		dfdeta += v[k] * cornerEta[k] * (1 + xi*cornerXi[k])
	}
	return f / 4, dfdxi / 4, dfdeta / 4
}

// mappingCorners returns the per-corner values the element's shape functions
// interpolate: the (s,z) corners for straight-edged elements, the (r,θ)
// corners for curved ones. Spectral-element meshes of spherical bodies build
// curved edges from concentric arcs and radial lines, so a bilinear map in
// polar coordinates reproduces them exactly.
func mappingCorners(el mesh.Element) (a, b [4]float64, polar bool) {
	if el.Type == mesh.ElemLinear {
		for k := 0; k < 4; k++ {
			a[k] = el.Corners[k][0]
			b[k] = el.Corners[k][1]
		}
		return a, b, false
	}
	for k := 0; k < 4; k++ {
		s, z := el.Corners[k][0], el.Corners[k][1]
		a[k] = math.Hypot(s, z)
		b[k] = math.Atan2(s, z)
	}
	return a, b, true
}

// MapForward maps reference coordinates (ξ,η) to the element's physical
// (s,z) coordinates.
func MapForward(el mesh.Element, xi, eta float64) (s, z float64) {
	a, b, polar := mappingCorners(el)
	fa, _, _ := bilinear(a, xi, eta)
	fb, _, _ := bilinear(b, xi, eta)
	if !polar {
		return fa, fb
	}
	return fa * math.Sin(fb), fa * math.Cos(fb)
}

// JacobianAt returns the derivatives of the forward mapping,
// (∂s/∂ξ, ∂s/∂η, ∂z/∂ξ, ∂z/∂η), at (ξ,η).
func JacobianAt(el mesh.Element, xi, eta float64) (dsdxi, dsdeta, dzdxi, dzdeta float64) {
	a, b, polar := mappingCorners(el)
	fa, dadxi, dadeta := bilinear(a, xi, eta)
	fb, dbdxi, dbdeta := bilinear(b, xi, eta)
	if !polar {
		return dadxi, dadeta, dbdxi, dbdeta
	}
	sin, cos := math.Sincos(fb)
	dsdxi = sin*dadxi + fa*cos*dbdxi
	dsdeta = sin*dadeta + fa*cos*dbdeta
	dzdxi = cos*dadxi - fa*sin*dbdxi
	dzdeta = cos*dadeta - fa*sin*dbdeta
	return dsdxi, dsdeta, dzdxi, dzdeta
}

// InvertMapping solves the forward mapping for (ξ,η) at the physical point
// (s,z) via Newton iteration. ok reports whether the solve converged and the
// point lies inside the reference square within tol.
func InvertMapping(el mesh.Element, s, z, tol float64) (xi, eta float64, ok bool) {
	a, b, polar := mappingCorners(el)
	ta, tb := s, z
	if polar {
		ta = math.Hypot(s, z)
		tb = math.Atan2(s, z)
	}

	// Convergence is judged against the element's extent, not absolute
	// coordinates: planetary meshes span many orders of magnitude.
	scale := 0.0
	for k := 0; k < 4; k++ {
		scale = math.Max(scale, math.Abs(a[k]-a[0])+math.Abs(b[k]-b[0]))
	}
	if scale == 0 {
		return 0, 0, false
	}

	xi, eta = 0, 0
	for iter := 0; iter < newtonIterations; iter++ {
		fa, dadxi, dadeta := bilinear(a, xi, eta)
		fb, dbdxi, dbdeta := bilinear(b, xi, eta)
		ra, rb := fa-ta, fb-tb
		if math.Abs(ra)+math.Abs(rb) < 1e-12*scale {
			break
		}
		det := dadxi*dbdeta - dadeta*dbdxi
		if det == 0 {
			return 0, 0, false
		}
		xi -= (ra*dbdeta - rb*dadeta) / det
		eta -= (rb*dadxi - ra*dbdxi) / det
		if math.Abs(xi) > 10 || math.Abs(eta) > 10 {
			return 0, 0, false
		}
	}

	fa, _, _ := bilinear(a, xi, eta)
	fb, _, _ := bilinear(b, xi, eta)
	if math.Abs(fa-ta)+math.Abs(fb-tb) > 1e-8*scale {
		return xi, eta, false
	}
	inside := math.Abs(xi) <= 1+tol && math.Abs(eta) <= 1+tol
	return xi, eta, inside
}
