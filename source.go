package seismix

import "math"

// SourceTimeFunction is the slip-rate history attached to a point source for
// reconvolution. DT must match the database's sampling interval; TimeShift
// delays the source in seconds.
type SourceTimeFunction struct {
	Sliprate  []float64
	DT        float64
	TimeShift float64
}

// PointSource is the sealed set of source kinds the extraction engines
// accept: MomentTensorSource and ForceSource. Engines dispatch on the
// concrete type with explicit switches; there is no behavioral polymorphism
// to implement, so external types cannot satisfy the interface.
type PointSource interface {
	// Coordinates returns geographic latitude and longitude in degrees and
	// depth below the surface in meters.
	Coordinates() (lat, lon, depth float64)
	// STF returns the attached source time function, or nil.
	STF() *SourceTimeFunction

	sealedSource()
}

// MomentTensorSource is a point source described by a symmetric moment
// tensor. Immutable per query.
type MomentTensorSource struct {
	Latitude  float64 // degrees
	Longitude float64 // degrees
	Depth     float64 // meters below surface

	// M is the moment tensor in N·m, Voigt order [rr, tt, pp, rt, rp, tp].
	// This order is preserved through every rotation stage; the contraction
	// formulas depend on it.
	M [6]float64

	SourceTimeFunction *SourceTimeFunction
}

// Coordinates implements PointSource.
func (s *MomentTensorSource) Coordinates() (lat, lon, depth float64) {
	return s.Latitude, s.Longitude, s.Depth
}

// STF implements PointSource.
func (s *MomentTensorSource) STF() *SourceTimeFunction { return s.SourceTimeFunction }

func (s *MomentTensorSource) sealedSource() {}

// tensorVoigtLocal maps the [rr,tt,pp,rt,rp,tp] tensor into the local
// Cartesian frame (x south, y east, z up), Voigt order [xx,yy,zz,yz,xz,xy].
func (s *MomentTensorSource) tensorVoigtLocal() [6]float64 {
	return [6]float64{s.M[1], s.M[2], s.M[0], s.M[4], s.M[3], s.M[5]}
}

// ForceSource is a point source described by a single force vector. Only
// supported against per-node displacement databases in reciprocal mode.
type ForceSource struct {
	Latitude  float64 // degrees
	Longitude float64 // degrees
	Depth     float64 // meters below surface

	// F is the force vector in N, ordered [radial, colatitudinal,
	// longitudinal] (up, south, east).
	F [3]float64

	SourceTimeFunction *SourceTimeFunction
}

// Coordinates implements PointSource.
func (s *ForceSource) Coordinates() (lat, lon, depth float64) {
	return s.Latitude, s.Longitude, s.Depth
}

// STF implements PointSource.
func (s *ForceSource) STF() *SourceTimeFunction { return s.SourceTimeFunction }

func (s *ForceSource) sealedSource() {}

// forceLocal returns the force in the local Cartesian frame
// (x south, y east, z up).
func (s *ForceSource) forceLocal() [3]float64 {
	return [3]float64{s.F[1], s.F[2], s.F[0]}
}

// geocentric converts geographic coordinates to geocentric Cartesian ones on
// a sphere of the given radius.
func geocentric(lat, lon, depth, planetRadius float64) (x, y, z float64) {
	colat := (90 - lat) * math.Pi / 180
	lonR := lon * math.Pi / 180
	r := planetRadius - depth
	st, ct := math.Sincos(colat)
	sp, cp := math.Sincos(lonR)
	return r * st * cp, r * st * sp, r * ct
}

func colatDeg(lat float64) float64 { return 90 - lat }

func radians(deg float64) float64 { return deg * math.Pi / 180 }
