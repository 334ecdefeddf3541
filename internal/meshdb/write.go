package meshdb

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/seismix/seismix/internal/mesh"
)

// Write creates a mesh database file at path from any mesh.Store. The whole
// database is written in a single transaction: a crash leaves either a
// complete file or none.
func Write(path string, src mesh.Store) (err error) {
	d := src.Descriptor()
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("create mesh database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	if err := applyPragmas(db); err != nil {
		return fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = writeMeta(tx, d); err != nil {
		return err
	}
	if err = writeArrays(tx, d); err != nil {
		return err
	}
	if err = writeElements(tx, d); err != nil {
		return err
	}
	if err = writeFields(tx, src); err != nil {
		return err
	}
	return tx.Commit()
}

func writeMeta(tx *sql.Tx, d *mesh.Descriptor) error {
	meta := map[string]any{
		"schema_version":       currentSchemaVersion,
		"npol":                 d.NPol,
		"nsamples":             d.NSamples,
		"dt":                   d.DT,
		"amplitude":            d.Amplitude,
		"source_shift_samples": d.SourceShiftSamples,
		"source_shift":         d.SourceShift,
		"planet_radius":        d.PlanetRadius,
		"source_depth":         d.SourceDepth,
		"model":                d.Model,
		"attenuation":          d.Attenuation,
		"dominant_period":      d.DominantPeriod,
		"time_scheme":          d.TimeScheme,
		"dump_type":            string(d.DumpType),
		"excitation":           string(d.Excitation),
	}
	stmt, err := tx.Prepare("INSERT INTO meta (key, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare meta write: %w", err)
	}
	defer stmt.Close()
	for k, v := range meta {
		if _, err := stmt.Exec(k, metaString(v)); err != nil {
			return fmt.Errorf("write meta %q: %w", k, err)
		}
	}
	return nil
}

func writeArrays(tx *sql.Tx, d *mesh.Descriptor) error {
	s1, err := tx.Prepare("INSERT INTO series1d (name, idx, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare series1d write: %w", err)
	}
	defer s1.Close()
	for name, series := range map[string][]float64{
		"gll": d.GLL, "glj": d.GLJ, "slip": d.Slip, "sliprate": d.Sliprate,
	} {
		for i, v := range series {
			if _, err := s1.Exec(name, i, v); err != nil {
				return fmt.Errorf("write %s[%d]: %w", name, i, err)
			}
		}
	}

	dv, err := tx.Prepare("INSERT INTO deriv (name, row, col, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare deriv write: %w", err)
	}
	defer dv.Close()
	for name, mat := range map[string][][]float64{"gll": d.DerivGLL, "glj": d.DerivGLJ} {
		for r, row := range mat {
			for c, v := range row {
				if _, err := dv.Exec(name, r, c, v); err != nil {
					return fmt.Errorf("write %s deriv (%d,%d): %w", name, r, c, err)
				}
			}
		}
	}

	mu, err := tx.Prepare("INSERT INTO node_mu (node, mu) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare rigidity write: %w", err)
	}
	defer mu.Close()
	for n, v := range d.Mu {
		if _, err := mu.Exec(n, v); err != nil {
			return fmt.Errorf("write rigidity node %d: %w", n, err)
		}
	}
	return nil
}

func writeElements(tx *sql.Tx, d *mesh.Descriptor) error {
	el, err := tx.Prepare(`INSERT INTO elements
		(id, eltype, axial, s0, z0, s1, z1, s2, z2, s3, z3, mid_s, mid_z)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare element write: %w", err)
	}
	defer el.Close()
	en, err := tx.Prepare("INSERT INTO element_nodes (element, idx, node) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare element node write: %w", err)
	}
	defer en.Close()

	for id, e := range d.Elements {
		axial := 0
		if e.Axial {
			axial = 1
		}
		if _, err := el.Exec(id, int(e.Type), axial,
			e.Corners[0][0], e.Corners[0][1],
			e.Corners[1][0], e.Corners[1][1],
			e.Corners[2][0], e.Corners[2][1],
			e.Corners[3][0], e.Corners[3][1],
			e.Mid[0], e.Mid[1]); err != nil {
			return fmt.Errorf("write element %d: %w", id, err)
		}
		for idx, node := range e.Nodes {
			if _, err := en.Exec(id, idx, node); err != nil {
				return fmt.Errorf("write element %d node %d: %w", id, idx, err)
			}
		}
	}
	return nil
}

func writeFields(tx *sql.Tx, src mesh.Store) error {
	d := src.Descriptor()

	if d.DumpType.PerNodeFields() || d.DumpType == mesh.FullFields {
		nodes := nodeSet(d)
		stmt, err := tx.Prepare("INSERT INTO displacement (comp, node, samples) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare displacement write: %w", err)
		}
		defer stmt.Close()
		for comp := mesh.CompS; comp <= mesh.CompZ; comp++ {
			series, err := src.Displacement(comp, nodes)
			if err != nil {
				return fmt.Errorf("read displacement comp %d: %w", comp, err)
			}
			if series == nil {
				continue
			}
			for i, n := range nodes {
				if _, err := stmt.Exec(int(comp), n, encodeSeries(series[i])); err != nil {
					return fmt.Errorf("write displacement comp %d node %d: %w", comp, n, err)
				}
			}
		}
	}

	if d.DumpType == mesh.StrainOnly || d.DumpType == mesh.FullFields {
		stmt, err := tx.Prepare("INSERT INTO strain (comp, element, samples) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare strain write: %w", err)
		}
		defer stmt.Close()
		for id := range d.Elements {
			raw, err := src.StrainRaw(id)
			if err != nil {
				return fmt.Errorf("read strain element %d: %w", id, err)
			}
			for comp, series := range raw {
				if series == nil {
					continue
				}
				if _, err := stmt.Exec(comp, id, encodeSeries(series)); err != nil {
					return fmt.Errorf("write strain element %d comp %d: %w", id, comp, err)
				}
			}
		}
	}
	return nil
}

// nodeSet lists every node id referenced by the mesh's elements, ascending.
func nodeSet(d *mesh.Descriptor) []int {
	seen := map[int]bool{}
	var nodes []int
	for _, el := range d.Elements {
		for _, n := range el.Nodes {
			if !seen[n] {
				seen[n] = true
				nodes = append(nodes, n)
			}
		}
	}
	// Deterministic write order.
	sort.Ints(nodes)
	return nodes
}
