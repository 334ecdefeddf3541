package seismix

import (
	"math"

	"github.com/seismix/seismix/internal/signal"
)

// postprocess applies source shift removal, source time function exchange
// and resampling to one raw component series, in that order. It returns the
// processed series and its sampling interval.
func (db *Database) postprocess(data []float64, stf *SourceTimeFunction, opt SeismogramOptions) ([]float64, float64, error) {
	desc := db.primary.desc

	if opt.ReconvolveSTF {
		if stf == nil || len(stf.Sliprate) == 0 {
			return nil, 0, &UnsupportedOperationError{
				Op:     "reconvolve",
				Reason: "source carries no source time function",
			}
		}
		if len(desc.Sliprate) == 0 {
			return nil, 0, &UnsupportedOperationError{
				Op:     "reconvolve",
				Reason: "database carries no source time function",
			}
		}
		if math.Abs((stf.DT-desc.DT)/desc.DT) > 1e-7 {
			return nil, 0, configErrorf(
				"source time function interval %g does not match the database interval %g",
				stf.DT, desc.DT)
		}
		data = signal.Reconvolve(data, desc.Sliprate, stf.Sliprate, db.nfft, stf.TimeShift, desc.DT)
	} else if opt.RemoveSourceShift {
		// Reconvolution re-anchors the trace itself, so the shift is only
		// trimmed on the raw path.
		data = data[desc.SourceShiftSamples:]
	}

	dt := desc.DT
	if opt.DT > 0 && opt.DT != desc.DT {
		data = signal.Resample(data, desc.DT, opt.DT, opt.lanczosWidth())
		dt = opt.DT
	}
	return data, dt, nil
}
