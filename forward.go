package seismix

import (
	"math"

	"github.com/seismix/seismix/internal/rotations"
)

// forwardData extracts raw component series from the four elemental meshes
// of a forward database by weighting each elemental wavefield with the
// matching moment tensor entries at the receiver azimuth.
func (db *Database) forwardData(src PointSource, rec Receiver, comps []string) (map[string][]float64, error) {
	mt, ok := src.(*MomentTensorSource)
	if !ok {
		return nil, &UnsupportedOperationError{
			Op:     "force source",
			Reason: "forward databases only hold moment tensor responses",
		}
	}
	if !db.primary.desc.DumpType.PerNodeFields() {
		return nil, &UnsupportedOperationError{
			Op:     "forward extraction",
			Reason: "requires a database with per-node displacement fields",
		}
	}

	// The wavefield was recorded with the source on the mesh axis, so the
	// receiver position is expressed in the source's frame.
	x, y, z := geocentric(rec.Latitude, rec.Longitude, rec.Depth, db.primary.desc.PlanetRadius)
	s, phi, zr := rotations.RotateFrame(x, y, z, mt.Longitude, colatDeg(mt.Latitude))
	loc, err := db.locate(s, zr)
	if err != nil {
		return nil, err
	}

	var displ [4][3][]float64
	for i, h := range db.elemental {
		if displ[i], err = db.displacementAt(h, loc); err != nil {
			return nil, err
		}
	}

	var mij [6]float64
	for i, v := range mt.M {
		mij[i] = v / db.primary.desc.Amplitude
	}

	// Combine the elemental wavefields into one cylindrical displacement:
	// the axial meshes weight the in-plane components, the azimuthal ones
	// pick up cos/sin factors of order one and two.
	nt := db.primary.desc.NSamples
	var final [3][]float64
	for c := range final {
		final[c] = make([]float64, nt)
	}

	addInPlane := func(d [3][]float64, w float64) {
		for t := 0; t < nt; t++ {
			final[0][t] += d[0][t] * w
			final[2][t] += d[2][t] * w
		}
	}
	addAzimuthal := func(d [3][]float64, fac1, fac2 float64) {
		for t := 0; t < nt; t++ {
			final[0][t] += d[0][t] * fac1
			final[1][t] += d[1][t] * fac2
			final[2][t] += d[2][t] * fac1
		}
	}

	addInPlane(displ[0], mij[0])
	addInPlane(displ[1], mij[1]+mij[2])

	sp, cp := math.Sincos(phi)
	addAzimuthal(displ[2], mij[3]*cp+mij[4]*sp, -mij[3]*sp+mij[4]*cp)

	s2p, c2p := math.Sincos(2 * phi)
	addAzimuthal(displ[3], (mij[1]-mij[2])*c2p+2*mij[5]*s2p, -(mij[1]-mij[2])*s2p+2*mij[5]*c2p)

	data := make(map[string][]float64, len(comps))
	colat := math.Atan2(s, zr)
	sc, cc := math.Sincos(colat)
	for _, comp := range comps {
		series := make([]float64, nt)
		switch comp {
		case "T":
			// Negated to match the transverse convention of reciprocal
			// extraction.
			for t := range series {
				series[t] = -final[1][t]
			}
		case "R":
			for t := range series {
				series[t] = final[0][t]*cc - final[2][t]*sc
			}
		case "N", "E", "Z":
			srcLon, srcColat := radians(mt.Longitude), radians(colatDeg(mt.Latitude))
			recLon, recColat := radians(rec.Longitude), radians(colatDeg(rec.Latitude))
			for t := range series {
				n, e, vz := rotations.CylToNEZ(final[0][t], final[1][t], final[2][t],
					phi, srcLon, srcColat, recLon, recColat)
				switch comp {
				case "N":
					series[t] = n
				case "E":
					series[t] = e
				case "Z":
					series[t] = vz
				}
			}
		}
		data[comp] = series
	}
	return data, nil
}
