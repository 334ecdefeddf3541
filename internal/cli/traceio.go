package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seismix/seismix"
)

// TraceSummary is the per-trace payload of JSON output.
type TraceSummary struct {
	Network string    `json:"network"`
	Station string    `json:"station"`
	Channel string    `json:"channel"`
	Delta   float64   `json:"delta"`
	Samples int       `json:"samples"`
	Data    []float64 `json:"data,omitempty"`
}

func summarize(traces []seismix.Trace, includeData bool) []TraceSummary {
	out := make([]TraceSummary, 0, len(traces))
	for _, tr := range traces {
		s := TraceSummary{
			Network: tr.Network,
			Station: tr.Station,
			Channel: tr.Channel,
			Delta:   tr.Delta,
			Samples: len(tr.Data),
		}
		if includeData {
			s.Data = tr.Data
		}
		out = append(out, s)
	}
	return out
}

// WriteTraces writes each trace as a two-column ASCII file
// (time in seconds, amplitude) named NET.STA.CHAN.txt under dir. It returns
// the written paths.
func WriteTraces(dir string, traces []seismix.Trace) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	paths := make([]string, 0, len(traces))
	for _, tr := range traces {
		name := fmt.Sprintf("%s.%s.%s.txt", tr.Network, tr.Station, tr.Channel)
		path := filepath.Join(dir, name)
		if err := writeTraceFile(path, tr); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeTraceFile(path string, tr seismix.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for i, v := range tr.Data {
		fmt.Fprintf(w, "%g %g\n", float64(i)*tr.Delta, v)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
