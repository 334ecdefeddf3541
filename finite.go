package seismix

import (
	"log/slog"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/seismix/seismix/internal/signal"
)

// ReferenceRigidity is the shear modulus the slip of finite-source segments
// is normalized against, in Pa.
const ReferenceRigidity = 32e9

// FiniteSourceSeismograms synthesizes seismograms for a finite rupture given
// as a list of point sources, each carrying its own source time function.
// Every segment is reconvolved with its function, scaled by the ratio of the
// local rigidity to ReferenceRigidity and summed; resampling happens once on
// the summed traces. Only reciprocal databases are supported.
func (db *Database) FiniteSourceSeismograms(sources []*MomentTensorSource, rec Receiver, opt FiniteSourceOptions) ([]Trace, error) {
	if db.forward {
		return nil, &UnsupportedOperationError{
			Op:     "finite source",
			Reason: "only supported against reciprocal databases",
		}
	}
	if len(sources) == 0 {
		return nil, configErrorf("a finite source needs at least one point source")
	}
	comps := SeismogramOptions{Components: opt.Components}.components()
	if err := validateComponents(comps); err != nil {
		return nil, err
	}

	token := uuid.NewString()
	slog.Debug("synthesizing finite source seismograms",
		"query", token,
		"segments", len(sources),
		"components", comps,
		"station", rec.Station, "network", rec.Network,
	)

	segmentOpt := SeismogramOptions{ReconvolveSTF: true}
	summed := make(map[string][]float64, len(comps))
	for i, src := range sources {
		data, mu, err := db.reciprocalData(src, rec, comps)
		if err != nil {
			return nil, err
		}
		scale := mu / ReferenceRigidity
		for _, comp := range comps {
			series, _, err := db.postprocess(data[comp], src.STF(), segmentOpt)
			if err != nil {
				return nil, err
			}
			acc, ok := summed[comp]
			if !ok {
				acc = make([]float64, len(series))
				summed[comp] = acc
			}
			floats.AddScaled(acc, scale, series)
		}
		if (i+1)%100 == 0 {
			slog.Debug("finite source progress", "query", token, "segments_done", i+1)
		}
	}

	dt := db.primary.desc.DT
	if opt.DT > 0 && opt.DT != dt {
		width := SeismogramOptions{LanczosWidth: opt.LanczosWidth}.lanczosWidth()
		for _, comp := range comps {
			summed[comp] = signal.Resample(summed[comp], dt, opt.DT, width)
		}
		dt = opt.DT
	}
	return assembleTraces(summed, comps, dt, rec), nil
}
