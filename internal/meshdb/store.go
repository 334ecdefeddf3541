package meshdb

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/seismix/seismix/internal/mesh"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

// Store is a SQLite-backed mesh.Store.
type Store struct {
	db      *sql.DB
	desc    *mesh.Descriptor
	hasComp [3]bool
}

// Open opens a mesh database file and loads its descriptor eagerly. The
// returned store only reads the series tables afterwards.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open mesh database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to mesh database: %w", err)
	}

	// SQLite supports one writer at a time; extraction is read-only anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// load reads the full descriptor. Called once from Open.
func (s *Store) load() error {
	meta, err := s.readMeta()
	if err != nil {
		return err
	}

	version, err := meta.intVal("schema_version")
	if err != nil {
		return err
	}
	if version != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version %d (want %d)", version, currentSchemaVersion)
	}

	d := &mesh.Descriptor{}
	read := func(dst *int, key string) {
		if err == nil {
			*dst, err = meta.intVal(key)
		}
	}
	readF := func(dst *float64, key string) {
		if err == nil {
			*dst, err = meta.floatVal(key)
		}
	}
	read(&d.NPol, "npol")
	read(&d.NSamples, "nsamples")
	read(&d.SourceShiftSamples, "source_shift_samples")
	readF(&d.DT, "dt")
	readF(&d.Amplitude, "amplitude")
	readF(&d.SourceShift, "source_shift")
	readF(&d.PlanetRadius, "planet_radius")
	readF(&d.SourceDepth, "source_depth")
	readF(&d.DominantPeriod, "dominant_period")
	if err != nil {
		return err
	}
	if d.Model, err = meta.str("model"); err != nil {
		return err
	}
	if d.TimeScheme, err = meta.str("time_scheme"); err != nil {
		return err
	}
	if d.Attenuation, err = meta.boolVal("attenuation"); err != nil {
		return err
	}
	dump, err := meta.str("dump_type")
	if err != nil {
		return err
	}
	d.DumpType = mesh.DumpType(dump)
	exc, err := meta.str("excitation")
	if err != nil {
		return err
	}
	d.Excitation = mesh.Excitation(exc)

	if d.GLL, err = s.readSeries1D("gll"); err != nil {
		return err
	}
	if d.GLJ, err = s.readSeries1D("glj"); err != nil {
		return err
	}
	if d.Slip, err = s.readSeries1D("slip"); err != nil {
		return err
	}
	if d.Sliprate, err = s.readSeries1D("sliprate"); err != nil {
		return err
	}
	if d.DerivGLL, err = s.readDeriv("gll", d.NodesPerEdge()); err != nil {
		return err
	}
	if d.DerivGLJ, err = s.readDeriv("glj", d.NodesPerEdge()); err != nil {
		return err
	}
	if d.Elements, err = s.readElements(d.NodesPerEdge()); err != nil {
		return err
	}
	if d.Mu, err = s.readMu(); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}
	s.desc = d

	rows, err := s.db.Query("SELECT DISTINCT comp FROM displacement")
	if err != nil {
		return fmt.Errorf("scan displacement components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			return err
		}
		if c >= 0 && c < 3 {
			s.hasComp[c] = true
		}
	}
	return rows.Err()
}

func (s *Store) readMeta() (metaMap, error) {
	rows, err := s.db.Query("SELECT key, value FROM meta")
	if err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}
	defer rows.Close()
	m := metaMap{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, rows.Err()
}

func (s *Store) readSeries1D(name string) ([]float64, error) {
	rows, err := s.db.Query("SELECT value FROM series1d WHERE name = ? ORDER BY idx", name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defer rows.Close()
	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) readDeriv(name string, n int) ([][]float64, error) {
	rows, err := s.db.Query("SELECT row, col, value FROM deriv WHERE name = ?", name)
	if err != nil {
		return nil, fmt.Errorf("read %s derivative matrix: %w", name, err)
	}
	defer rows.Close()
	var out [][]float64
	any := false
	for rows.Next() {
		var r, c int
		var v float64
		if err := rows.Scan(&r, &c, &v); err != nil {
			return nil, err
		}
		if !any {
			out = make([][]float64, n)
			for i := range out {
				out[i] = make([]float64, n)
			}
			any = true
		}
		if r < 0 || r >= n || c < 0 || c >= n {
			return nil, fmt.Errorf("%s derivative entry (%d,%d) out of range", name, r, c)
		}
		out[r][c] = v
	}
	return out, rows.Err()
}

func (s *Store) readElements(nodesPerEdge int) ([]mesh.Element, error) {
	rows, err := s.db.Query(`SELECT id, eltype, axial,
		s0, z0, s1, z1, s2, z2, s3, z3, mid_s, mid_z
		FROM elements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read elements: %w", err)
	}
	defer rows.Close()
	var els []mesh.Element
	for rows.Next() {
		var id, eltype, axial int
		var el mesh.Element
		if err := rows.Scan(&id, &eltype, &axial,
			&el.Corners[0][0], &el.Corners[0][1],
			&el.Corners[1][0], &el.Corners[1][1],
			&el.Corners[2][0], &el.Corners[2][1],
			&el.Corners[3][0], &el.Corners[3][1],
			&el.Mid[0], &el.Mid[1]); err != nil {
			return nil, err
		}
		if id != len(els) {
			return nil, fmt.Errorf("element ids not contiguous: got %d, want %d", id, len(els))
		}
		el.Type = mesh.ElemType(eltype)
		el.Axial = axial != 0
		els = append(els, el)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	nodes, err := s.db.Query("SELECT element, idx, node FROM element_nodes")
	if err != nil {
		return nil, fmt.Errorf("read element nodes: %w", err)
	}
	defer nodes.Close()
	nn := nodesPerEdge * nodesPerEdge
	for nodes.Next() {
		var el, idx, node int
		if err := nodes.Scan(&el, &idx, &node); err != nil {
			return nil, err
		}
		if el < 0 || el >= len(els) || idx < 0 || idx >= nn {
			return nil, fmt.Errorf("element node (%d,%d) out of range", el, idx)
		}
		if els[el].Nodes == nil {
			els[el].Nodes = make([]int, nn)
		}
		els[el].Nodes[idx] = node
	}
	return els, nodes.Err()
}

func (s *Store) readMu() ([]float64, error) {
	rows, err := s.db.Query("SELECT node, mu FROM node_mu ORDER BY node")
	if err != nil {
		return nil, fmt.Errorf("read rigidity: %w", err)
	}
	defer rows.Close()
	var out []float64
	for rows.Next() {
		var node int
		var mu float64
		if err := rows.Scan(&node, &mu); err != nil {
			return nil, err
		}
		for len(out) < node {
			out = append(out, 0)
		}
		out = append(out, mu)
	}
	return out, rows.Err()
}

// Descriptor implements mesh.Store.
func (s *Store) Descriptor() *mesh.Descriptor { return s.desc }

// Displacement implements mesh.Store.
func (s *Store) Displacement(comp mesh.Component, nodes []int) ([][]float64, error) {
	if comp < 0 || int(comp) > 2 || !s.hasComp[comp] {
		return nil, nil
	}
	stmt, err := s.db.Prepare("SELECT samples FROM displacement WHERE comp = ? AND node = ?")
	if err != nil {
		return nil, fmt.Errorf("prepare displacement read: %w", err)
	}
	defer stmt.Close()

	out := make([][]float64, len(nodes))
	for i, n := range nodes {
		var blob []byte
		if err := stmt.QueryRow(int(comp), n).Scan(&blob); err != nil {
			return nil, fmt.Errorf("displacement comp %d node %d: %w", comp, n, err)
		}
		series, err := decodeSeries(blob)
		if err != nil {
			return nil, fmt.Errorf("displacement comp %d node %d: %w", comp, n, err)
		}
		out[i] = series
	}
	return out, nil
}

// StrainRaw implements mesh.Store.
func (s *Store) StrainRaw(elem int) ([mesh.RawStrainComponents][]float64, error) {
	var out [mesh.RawStrainComponents][]float64
	rows, err := s.db.Query("SELECT comp, samples FROM strain WHERE element = ?", elem)
	if err != nil {
		return out, fmt.Errorf("strain element %d: %w", elem, err)
	}
	defer rows.Close()
	found := false
	for rows.Next() {
		var comp int
		var blob []byte
		if err := rows.Scan(&comp, &blob); err != nil {
			return out, err
		}
		if comp < 0 || comp >= mesh.RawStrainComponents {
			return out, fmt.Errorf("strain element %d: component %d out of range", elem, comp)
		}
		series, err := decodeSeries(blob)
		if err != nil {
			return out, fmt.Errorf("strain element %d comp %d: %w", elem, comp, err)
		}
		out[comp] = series
		found = true
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	if !found {
		return out, fmt.Errorf("strain element %d: %w", elem, sql.ErrNoRows)
	}
	return out, nil
}

// Close implements mesh.Store.
func (s *Store) Close() error { return s.db.Close() }

var _ mesh.Store = (*Store)(nil)

// metaString formats a value for the meta table.
func metaString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
