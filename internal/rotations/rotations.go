// Package rotations implements the frame and tensor rotation algebra used to
// move sources, receivers, moment tensors and force vectors between the
// geocentric frame, source- and receiver-centered local frames, and the
// cylindrical database frame.
//
// Local frames follow the seismological convention: x points along
// increasing colatitude (south), y along increasing longitude (east), z up.
// Voigt order throughout is [11, 22, 33, 23, 13, 12].
package rotations

import "math"

// Matrix is a 3×3 rotation matrix.
type Matrix [3][3]float64

// T returns the transpose.
func (m Matrix) T() Matrix {
	var t Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = m[j][i]
		}
	}
	return t
}

// Apply multiplies the matrix with a column vector.
func (m Matrix) Apply(v [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// mul is the matrix product a·b.
func mul(a, b Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}

// localToGlobal returns the matrix rotating vectors from the local frame at
// (longitude φ, colatitude θ), both in radians, into the geocentric frame.
func localToGlobal(lon, colat float64) Matrix {
	sp, cp := math.Sincos(lon)
	st, ct := math.Sincos(colat)
	return Matrix{
		{ct * cp, -sp, st * cp},
		{ct * sp, cp, st * sp},
		{-st, 0, ct},
	}
}

// azimuth returns the rotation of coordinates about the local z axis by φ
// radians, aligning the x axis with the azimuth of the database plane.
func azimuth(phi float64) Matrix {
	sp, cp := math.Sincos(phi)
	return Matrix{
		{cp, sp, 0},
		{-sp, cp, 0},
		{0, 0, 1},
	}
}

// RotateFrame maps a geocentric Cartesian position into the cylindrical
// frame of a database whose symmetry axis passes through (longitude, colat),
// given in degrees. It returns the axis distance s, azimuth φ and axial
// coordinate z.
func RotateFrame(x, y, z, lonDeg, colatDeg float64) (s, phi, zr float64) {
	lon := lonDeg * math.Pi / 180
	colat := colatDeg * math.Pi / 180

	sp, cp := math.Sincos(lon)
	xc := x*cp + y*sp
	yc := -x*sp + y*cp

	st, ct := math.Sincos(colat)
	xr := xc*ct - z*st
	zr = xc*st + z*ct

	s = math.Hypot(xr, yc)
	phi = math.Atan2(yc, xr)
	return s, phi, zr
}

// RotateTensor conjugates a symmetric Voigt tensor with a rotation matrix:
// M' = R·M·Rᵀ.
func RotateTensor(m [6]float64, r Matrix) [6]float64 {
	full := Matrix{
		{m[0], m[5], m[4]},
		{m[5], m[1], m[3]},
		{m[4], m[3], m[2]},
	}
	rot := mul(mul(r, full), r.T())
	return [6]float64{rot[0][0], rot[1][1], rot[2][2], rot[1][2], rot[0][2], rot[0][1]}
}

// TensorSrcToEarth rotates a Voigt tensor from the local frame at the source
// into the geocentric frame. Angles in radians.
func TensorSrcToEarth(m [6]float64, lon, colat float64) [6]float64 {
	return RotateTensor(m, localToGlobal(lon, colat))
}

// TensorEarthToSrc rotates a Voigt tensor from the geocentric frame into the
// local frame at (lon, colat). Angles in radians.
func TensorEarthToSrc(m [6]float64, lon, colat float64) [6]float64 {
	return RotateTensor(m, localToGlobal(lon, colat).T())
}

// TensorToAzimuth aligns a local-frame Voigt tensor with the database plane
// at azimuth φ radians.
func TensorToAzimuth(m [6]float64, phi float64) [6]float64 {
	return RotateTensor(m, azimuth(phi))
}

// VecSrcToEarth rotates a vector from the local frame at the source into the
// geocentric frame.
func VecSrcToEarth(v [3]float64, lon, colat float64) [3]float64 {
	return localToGlobal(lon, colat).Apply(v)
}

// VecEarthToSrc rotates a geocentric vector into the local frame at
// (lon, colat).
func VecEarthToSrc(v [3]float64, lon, colat float64) [3]float64 {
	return localToGlobal(lon, colat).T().Apply(v)
}

// VecToAzimuth aligns a local-frame vector with the database plane at
// azimuth φ.
func VecToAzimuth(v [3]float64, phi float64) [3]float64 {
	return azimuth(phi).Apply(v)
}

// CylToNEZ rotates a cylindrical-frame displacement sample (v_s, v_p, v_z)
// at azimuth φ around the source at (srcLon, srcColat) into north, east and
// vertical components at the receiver (recLon, recColat). All angles in
// radians.
func CylToNEZ(vs, vp, vz, phi, srcLon, srcColat, recLon, recColat float64) (n, e, z float64) {
	// Cylindrical to source-local Cartesian at azimuth φ.
	v := azimuth(phi).T().Apply([3]float64{vs, vp, vz})
	// Source-local to geocentric to receiver-local.
	v = localToGlobal(srcLon, srcColat).Apply(v)
	v = localToGlobal(recLon, recColat).T().Apply(v)
	// Local x points south.
	return -v[0], v[1], v[2]
}
