package seismix

import (
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/seismix/seismix/internal/rotations"
	"github.com/seismix/seismix/internal/spatial"
)

// Seismograms synthesizes the requested components for one point source and
// receiver pair and returns them as fully post-processed traces.
func (db *Database) Seismograms(src PointSource, rec Receiver, opt SeismogramOptions) ([]Trace, error) {
	comps := opt.components()
	if err := validateComponents(comps); err != nil {
		return nil, err
	}

	token := uuid.NewString()
	lat, lon, depth := src.Coordinates()
	slog.Debug("synthesizing seismograms",
		"query", token,
		"mode", db.modeName(),
		"components", comps,
		"source_lat", lat, "source_lon", lon, "source_depth", depth,
		"station", rec.Station, "network", rec.Network,
	)

	var (
		data map[string][]float64
		err  error
	)
	if db.forward {
		data, err = db.forwardData(src, rec, comps)
	} else {
		data, _, err = db.reciprocalData(src, rec, comps)
	}
	if err != nil {
		return nil, err
	}

	outDT := db.primary.desc.DT
	for _, comp := range comps {
		processed, dt, perr := db.postprocess(data[comp], src.STF(), opt)
		if perr != nil {
			return nil, perr
		}
		data[comp] = processed
		outDT = dt
	}
	slog.Debug("seismograms ready", "query", token, "samples", len(data[comps[0]]), "dt", outDT)
	return assembleTraces(data, comps, outDT, rec), nil
}

// reciprocalData extracts raw component series from the reciprocal meshes.
// It also returns the shear modulus at the source, which finite-source
// aggregation needs for its rigidity scaling.
func (db *Database) reciprocalData(src PointSource, rec Receiver, comps []string) (map[string][]float64, float64, error) {
	needZ, needHorizontal := meshNeeds(comps)
	if needZ && db.pz == nil {
		return nil, 0, configErrorf("vertical component requested but the database has no vertical excitation mesh")
	}
	if needHorizontal && db.px == nil {
		return nil, 0, configErrorf("horizontal component requested but the database has no horizontal excitation mesh")
	}

	// The reciprocal wavefield was recorded with the receiver on the mesh
	// axis, so the source position is expressed in the receiver's frame.
	lat, lon, depth := src.Coordinates()
	x, y, z := geocentric(lat, lon, depth, db.primary.desc.PlanetRadius)
	s, phi, zr := rotations.RotateFrame(x, y, z, rec.Longitude, colatDeg(rec.Latitude))
	loc, err := db.locate(s, zr)
	if err != nil {
		return nil, 0, err
	}

	data := make(map[string][]float64, len(comps))
	switch src := src.(type) {
	case *MomentTensorSource:
		if err := db.momentTensorData(src, rec, comps, loc, phi, data); err != nil {
			return nil, 0, err
		}
	case *ForceSource:
		if !db.primary.desc.DumpType.PerNodeFields() {
			return nil, 0, &UnsupportedOperationError{
				Op:     "force source",
				Reason: "requires a database with per-node displacement fields",
			}
		}
		if err := db.forceData(src, rec, comps, loc, phi, data); err != nil {
			return nil, 0, err
		}
	}
	return data, db.rigidityAt(loc), nil
}

func (db *Database) momentTensorData(src *MomentTensorSource, rec Receiver, comps []string,
	loc spatial.Location, phi float64, data map[string][]float64) error {

	// Carry the tensor through the source-local, geocentric and
	// receiver-local frames into the database plane at azimuth φ.
	mij := src.tensorVoigtLocal()
	mij = rotations.TensorSrcToEarth(mij, radians(src.Longitude), radians(colatDeg(src.Latitude)))
	mij = rotations.TensorEarthToSrc(mij, radians(rec.Longitude), radians(colatDeg(rec.Latitude)))
	mij = rotations.TensorToAzimuth(mij, phi)
	for i := range mij {
		mij[i] /= db.primary.desc.Amplitude
	}

	needZ, needHorizontal := meshNeeds(comps)
	var strainZ, strainX [6][]float64
	var err error
	if needZ {
		if strainZ, err = db.strainAt(db.pz, loc); err != nil {
			return err
		}
	}
	if needHorizontal {
		if strainX, err = db.strainAt(db.px, loc); err != nil {
			return err
		}
	}

	// The diagonal (and sz) strain couples to the in-plane tensor entries,
	// the two remaining shears to the anti-plane ones.
	inPlane := func(e [6][]float64, t int) float64 {
		return mij[0]*e[0][t] + mij[1]*e[1][t] + mij[2]*e[2][t] + 2*mij[4]*e[4][t]
	}
	antiPlane := func(e [6][]float64, t int) float64 {
		return 2*mij[3]*e[3][t] + 2*mij[5]*e[5][t]
	}

	nt := db.primary.desc.NSamples
	for _, comp := range comps {
		series := make([]float64, nt)
		switch comp {
		case "Z":
			for t := range series {
				series[t] = inPlane(strainZ, t)
			}
		case "R":
			for t := range series {
				series[t] = -inPlane(strainX, t)
			}
		case "T":
			for t := range series {
				series[t] = antiPlane(strainX, t)
			}
		case "N", "E":
			fac1, fac2 := azimuthFactors(comp, phi)
			for t := range series {
				series[t] = fac1*inPlane(strainX, t) + fac2*antiPlane(strainX, t)
			}
			if comp == "N" {
				negate(series)
			}
		}
		data[comp] = series
	}
	return nil
}

func (db *Database) forceData(src *ForceSource, rec Receiver, comps []string,
	loc spatial.Location, phi float64, data map[string][]float64) error {

	f3 := src.forceLocal()
	f3 = rotations.VecSrcToEarth(f3, radians(src.Longitude), radians(colatDeg(src.Latitude)))
	f3 = rotations.VecEarthToSrc(f3, radians(rec.Longitude), radians(colatDeg(rec.Latitude)))
	f3 = rotations.VecToAzimuth(f3, phi)
	for i := range f3 {
		f3[i] /= db.primary.desc.Amplitude
	}

	needZ, needHorizontal := meshNeeds(comps)
	var displZ, displX [3][]float64
	var err error
	if needZ {
		if displZ, err = db.displacementAt(db.pz, loc); err != nil {
			return err
		}
	}
	if needHorizontal {
		if displX, err = db.displacementAt(db.px, loc); err != nil {
			return err
		}
	}

	nt := db.primary.desc.NSamples
	for _, comp := range comps {
		series := make([]float64, nt)
		switch comp {
		case "Z":
			for t := range series {
				series[t] = f3[0]*displZ[0][t] + f3[2]*displZ[2][t]
			}
		case "R":
			for t := range series {
				series[t] = f3[0]*displX[0][t] + f3[2]*displX[2][t]
			}
		case "T":
			for t := range series {
				series[t] = f3[1] * displX[1][t]
			}
		case "N", "E":
			fac1, fac2 := azimuthFactors(comp, phi)
			for t := range series {
				series[t] = fac1*(f3[0]*displX[0][t]+f3[2]*displX[2][t]) + fac2*f3[1]*displX[1][t]
			}
			if comp == "N" {
				negate(series)
			}
		}
		data[comp] = series
	}
	return nil
}

// azimuthFactors returns the horizontal projection factors for the N and E
// components at azimuth φ.
func azimuthFactors(comp string, phi float64) (fac1, fac2 float64) {
	s, c := math.Sincos(phi)
	if comp == "N" {
		return c, -s
	}
	return s, c
}

// meshNeeds reports which excitation meshes the requested components touch.
func meshNeeds(comps []string) (vertical, horizontal bool) {
	for _, c := range comps {
		switch c {
		case "Z":
			vertical = true
		case "N", "E", "R", "T":
			horizontal = true
		}
	}
	return vertical, horizontal
}

func validateComponents(comps []string) error {
	for _, c := range comps {
		switch c {
		case "Z", "N", "E", "R", "T":
		default:
			return configErrorf("unknown component %q, want Z, N, E, R or T", c)
		}
	}
	return nil
}
