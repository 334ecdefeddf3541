package cli

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/seismix/seismix"
)

//go:embed job_schema.cue
var jobSchema string

// Job is a validated extraction job file.
type Job struct {
	Database          string    `json:"database"`
	Forward           bool      `json:"forward"`
	Source            JobSource `json:"source"`
	Components        string    `json:"components"`
	DT                float64   `json:"dt"`
	RemoveSourceShift bool      `json:"remove_source_shift"`
	KernelWidth       int       `json:"kernel_width"`
	BufferMB          int64     `json:"buffer_mb"`
}

// JobSource is the source description of a job. Exactly one of MomentTensor
// and Force is set.
type JobSource struct {
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Depth        float64   `json:"depth"`
	MomentTensor []float64 `json:"moment_tensor"`
	Force        []float64 `json:"force"`
}

// LoadJob reads a CUE job file, unifies it with the embedded schema and
// decodes it. Schema defaults fill omitted fields.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(jobSchema, cue.Filename("job_schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile job schema: %w", err)
	}
	val := ctx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("parse job file: %w", err)
	}

	merged := schema.Unify(val)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate job file: %w", err)
	}

	var job Job
	if err := merged.Decode(&job); err != nil {
		return nil, fmt.Errorf("decode job file: %w", err)
	}
	if _, err := job.PointSource(); err != nil {
		return nil, err
	}
	return &job, nil
}

// PointSource builds the seismix source the job describes.
func (j *Job) PointSource() (seismix.PointSource, error) {
	mt, force := j.Source.MomentTensor, j.Source.Force
	switch {
	case len(mt) == 6 && len(force) == 0:
		src := &seismix.MomentTensorSource{
			Latitude:  j.Source.Latitude,
			Longitude: j.Source.Longitude,
			Depth:     j.Source.Depth,
		}
		copy(src.M[:], mt)
		return src, nil
	case len(force) == 3 && len(mt) == 0:
		src := &seismix.ForceSource{
			Latitude:  j.Source.Latitude,
			Longitude: j.Source.Longitude,
			Depth:     j.Source.Depth,
		}
		copy(src.F[:], force)
		return src, nil
	default:
		return nil, fmt.Errorf("job source needs exactly one of moment_tensor or force")
	}
}

// ComponentList splits the components string into per-component selectors.
func (j *Job) ComponentList() []string {
	return strings.Split(j.Components, "")
}

// Options builds the per-query options the job describes.
func (j *Job) Options() seismix.SeismogramOptions {
	return seismix.SeismogramOptions{
		Components:        j.ComponentList(),
		RemoveSourceShift: j.RemoveSourceShift,
		DT:                j.DT,
		LanczosWidth:      j.KernelWidth,
	}
}

// OpenDatabase opens the database the job points at.
func (j *Job) OpenDatabase() (*seismix.Database, error) {
	opts := []seismix.Option{seismix.WithBufferBytes(j.BufferMB << 20)}
	if j.Forward {
		return seismix.OpenForward(j.Database, opts...)
	}
	return seismix.Open(j.Database, opts...)
}

// Station is one receiver location in a station inventory.
type Station struct {
	Network   string  `yaml:"network"`
	Station   string  `yaml:"station"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// LoadStations reads a YAML station inventory.
func LoadStations(path string) ([]Station, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station inventory: %w", err)
	}
	var inv struct {
		Stations []Station `yaml:"stations"`
	}
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("parse station inventory: %w", err)
	}
	if len(inv.Stations) == 0 {
		return nil, fmt.Errorf("station inventory %s lists no stations", path)
	}
	for i, st := range inv.Stations {
		if st.Station == "" {
			return nil, fmt.Errorf("station %d: missing station code", i)
		}
		if st.Latitude < -90 || st.Latitude > 90 {
			return nil, fmt.Errorf("station %s: latitude %g out of range", st.Station, st.Latitude)
		}
		if st.Longitude < -180 || st.Longitude > 180 {
			return nil, fmt.Errorf("station %s: longitude %g out of range", st.Station, st.Longitude)
		}
	}
	return inv.Stations, nil
}
