package seismix

// Trace is one output seismogram component.
type Trace struct {
	Network   string
	Station   string
	Channel   string
	Component string
	Delta     float64 // sampling interval in seconds
	Data      []float64
}

// instrumentCode is the fixed middle letter of generated channel names,
// marking a synthetic instrument.
const instrumentCode = "X"

// bandCode derives the channel band letter from the sampling interval,
// using the fixed SPECFEM thresholds.
func bandCode(dt float64) string {
	sr := 1.0 / dt
	switch {
	case sr <= 0.001:
		return "F"
	case sr <= 0.004:
		return "C"
	case sr <= 0.0125:
		return "H"
	case sr <= 0.1:
		return "B"
	case sr <= 1:
		return "M"
	default:
		return "L"
	}
}

// channelName assembles band code + instrument code + component letter.
func channelName(dt float64, component string) string {
	return bandCode(dt) + instrumentCode + component
}

// assembleTraces builds the output traces in the caller's component order.
func assembleTraces(data map[string][]float64, components []string, dt float64, rec Receiver) []Trace {
	traces := make([]Trace, 0, len(components))
	for _, comp := range components {
		traces = append(traces, Trace{
			Network:   rec.Network,
			Station:   rec.Station,
			Channel:   channelName(dt, comp),
			Component: comp,
			Delta:     dt,
			Data:      data[comp],
		})
	}
	return traces
}
