package seismix

import "github.com/seismix/seismix/internal/signal"

// DefaultBufferBytes is the per-field element cache budget applied when no
// option overrides it.
const DefaultBufferBytes int64 = 100 << 20

// Option configures a Database at open time.
type Option func(*Database)

// WithBufferBytes sets the element cache byte budget per buffered field.
// Zero disables caching: every query decodes its element from scratch.
func WithBufferBytes(n int64) Option {
	return func(db *Database) {
		db.bufferBytes = n
	}
}

// SeismogramOptions controls a single point-source extraction.
type SeismogramOptions struct {
	// Components selects the output components, any combination of
	// "Z", "N", "E", "R", "T". Defaults to Z, N, E.
	Components []string

	// RemoveSourceShift drops the leading samples up to the peak of the
	// database's source time function. Ignored when ReconvolveSTF is set,
	// which realigns the trace itself.
	RemoveSourceShift bool

	// ReconvolveSTF exchanges the database's source time function for the
	// one attached to the source. Requires the source to carry an STF
	// sampled at the database interval.
	ReconvolveSTF bool

	// DT requests resampling to this interval; 0 keeps the native one.
	DT float64

	// LanczosWidth is the resampling kernel half-width; 0 selects the
	// default of 5.
	LanczosWidth int
}

func (o SeismogramOptions) components() []string {
	if len(o.Components) == 0 {
		return []string{"Z", "N", "E"}
	}
	return o.Components
}

func (o SeismogramOptions) lanczosWidth() int {
	if o.LanczosWidth < 1 {
		return signal.DefaultLanczosWidth
	}
	return o.LanczosWidth
}

// FiniteSourceOptions controls finite-source aggregation.
type FiniteSourceOptions struct {
	// Components selects the output components. Defaults to Z, N, E.
	Components []string

	// DT requests resampling of the summed traces; 0 keeps the native
	// interval. Resampling happens once, after summation.
	DT float64

	// LanczosWidth is the resampling kernel half-width; 0 selects the
	// default of 5.
	LanczosWidth int
}
