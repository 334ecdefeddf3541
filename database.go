package seismix

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/seismix/seismix/internal/cache"
	"github.com/seismix/seismix/internal/mesh"
	"github.com/seismix/seismix/internal/meshdb"
	"github.com/seismix/seismix/internal/signal"
	"github.com/seismix/seismix/internal/spatial"
	"github.com/seismix/seismix/internal/spectral"
)

// Reciprocal database subfolders: vertical and horizontal excitation.
const (
	subfolderPZ = "PZ"
	subfolderPX = "PX"
)

// Forward database subfolders, one per elemental moment-tensor response.
var forwardSubfolders = [4]string{"MZZ", "MXX_P_MYY", "MXZ_MYZ", "MXY_MXX_M_MYY"}

// meshFile is the database file inside each subfolder.
const meshFile = "ordered_output.sqlite"

// meshHandle couples one physical mesh with its decode caches.
//
// The strain cache holds derived (or precomputed) per-element strain, the
// displacement cache reshaped nodal displacement. Entries are write-once;
// the caches guarantee at-most-one decode per element under concurrency.
type meshHandle struct {
	store  mesh.Store
	desc   *mesh.Descriptor
	strain *cache.Cache[*spectral.Block]
	displ  *cache.Cache[*spectral.Block]
}

func newMeshHandle(s mesh.Store, strainBudget, displBudget int64) *meshHandle {
	size := func(b *spectral.Block) int64 { return b.SizeBytes() }
	return &meshHandle{
		store:  s,
		desc:   s.Descriptor(),
		strain: cache.New(strainBudget, size),
		displ:  cache.New(displBudget, size),
	}
}

// Database is an open wavefield database handle.
//
// Thread-safety: all exported methods are safe for concurrent use. The
// element caches are the only mutable state.
type Database struct {
	forward bool

	// Reciprocal meshes; at least one is non-nil.
	px, pz *meshHandle

	// Forward elemental meshes in forwardSubfolders order.
	elemental [4]*meshHandle

	// primary supplies geometry, the spatial index and global scalars.
	primary *meshHandle
	locator *spatial.Locator

	nfft        int
	bufferBytes int64
}

// Open opens a reciprocal database: a directory with a PZ and/or PX
// subfolder, each holding Data/ordered_output.sqlite.
func Open(path string, opts ...Option) (*Database, error) {
	pxPath := filepath.Join(path, subfolderPX, "Data", meshFile)
	pzPath := filepath.Join(path, subfolderPZ, "Data", meshFile)
	pxExists := fileExists(pxPath)
	pzExists := fileExists(pzPath)
	if !pxExists && !pzExists {
		return nil, configErrorf("expecting the %s or %s subfolders to be present in %s",
			subfolderPX, subfolderPZ, path)
	}

	var px, pz mesh.Store
	var err error
	if pxExists {
		if px, err = meshdb.Open(pxPath); err != nil {
			return nil, fmt.Errorf("open %s mesh: %w", subfolderPX, err)
		}
	}
	if pzExists {
		if pz, err = meshdb.Open(pzPath); err != nil {
			if px != nil {
				px.Close()
			}
			return nil, fmt.Errorf("open %s mesh: %w", subfolderPZ, err)
		}
	}
	return NewReciprocal(px, pz, opts...)
}

// OpenForward opens a forward database: a directory with all four elemental
// moment-tensor subfolders.
func OpenForward(path string, opts ...Option) (*Database, error) {
	var stores [4]mesh.Store
	for i, name := range forwardSubfolders {
		p := filepath.Join(path, name, "Data", meshFile)
		if !fileExists(p) {
			closeAll(stores[:i])
			return nil, configErrorf("expecting the four elemental moment tensor subfolders to be present in %s", path)
		}
		s, err := meshdb.Open(p)
		if err != nil {
			closeAll(stores[:i])
			return nil, fmt.Errorf("open %s mesh: %w", name, err)
		}
		stores[i] = s
	}
	return NewForward(stores, opts...)
}

// NewReciprocal assembles a reciprocal database from injected mesh stores.
// px is the horizontal-excitation mesh, pz the vertical one; either may be
// nil, not both.
func NewReciprocal(px, pz mesh.Store, opts ...Option) (*Database, error) {
	if px == nil && pz == nil {
		return nil, configErrorf("a vertical or horizontal excitation mesh is required")
	}
	db := &Database{bufferBytes: DefaultBufferBytes}
	for _, opt := range opts {
		opt(db)
	}

	// Strain dominates reciprocal extraction; displacement is only touched
	// by force sources and is cheap enough to recompute.
	if px != nil {
		db.px = newMeshHandle(px, db.bufferBytes, 0)
		db.primary = db.px
	}
	if pz != nil {
		db.pz = newMeshHandle(pz, db.bufferBytes, 0)
		if db.primary == nil {
			db.primary = db.pz
		}
	}
	return db.finish()
}

// NewForward assembles a forward database from the four elemental mesh
// stores, in order MZZ, MXX+MYY, MXZ/MYZ, MXY/(MXX−MYY). All four are
// required.
func NewForward(stores [4]mesh.Store, opts ...Option) (*Database, error) {
	for i, s := range stores {
		if s == nil {
			return nil, configErrorf("elemental mesh %s is required", forwardSubfolders[i])
		}
	}
	db := &Database{forward: true, bufferBytes: DefaultBufferBytes}
	for _, opt := range opts {
		opt(db)
	}
	for i, s := range stores {
		db.elemental[i] = newMeshHandle(s, 0, db.bufferBytes)
	}
	db.primary = db.elemental[0]
	return db.finish()
}

func (db *Database) finish() (*Database, error) {
	d := db.primary.desc
	db.locator = spatial.NewLocator(d)
	db.nfft = 2 * signal.NextPow2(d.NSamples)
	slog.Debug("database opened",
		"mode", db.modeName(),
		"model", d.Model,
		"dump_type", string(d.DumpType),
		"elements", len(d.Elements),
		"nsamples", d.NSamples,
		"dt", d.DT,
	)
	return db, nil
}

// Close releases all mesh stores.
func (db *Database) Close() error {
	var first error
	for _, h := range db.handles() {
		if err := h.store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (db *Database) handles() []*meshHandle {
	var hs []*meshHandle
	if db.forward {
		for _, h := range db.elemental {
			hs = append(hs, h)
		}
		return hs
	}
	if db.px != nil {
		hs = append(hs, db.px)
	}
	if db.pz != nil {
		hs = append(hs, db.pz)
	}
	return hs
}

func (db *Database) modeName() string {
	if db.forward {
		return "forward"
	}
	return "reciprocal"
}

// DT returns the native sampling interval in seconds.
func (db *Database) DT() float64 { return db.primary.desc.DT }

// NSamples returns the native number of samples per trace.
func (db *Database) NSamples() int { return db.primary.desc.NSamples }

// locate maps a database-frame point to its containing element.
func (db *Database) locate(s, z float64) (spatial.Location, error) {
	loc, err := db.locator.Locate(s, z)
	if err != nil {
		return spatial.Location{}, &GeometryError{S: s, Z: z, Err: err}
	}
	return loc, nil
}

// strainAt returns the six Voigt strain series [ss,pp,zz,pz,sz,sp] of mesh h
// at the located point. Geometry always comes from the primary mesh.
func (db *Database) strainAt(h *meshHandle, loc spatial.Location) ([6][]float64, error) {
	var out [6][]float64
	geom := db.primary.desc

	if geom.DumpType.PerNodeFields() {
		el := geom.Elements[loc.Element]
		block, err := h.strain.GetOrCompute(loc.Element, func() (*spectral.Block, error) {
			u, err := db.nodalDisplacement(h, el)
			if err != nil {
				return nil, err
			}
			dxi, deta := geom.DerivMatrices(el.Axial)
			colXi, colEta := geom.ColPoints(el.Axial)
			return spectral.NodalStrain(u, spectral.StrainGeometry{
				Element: el,
				ColXi:   colXi, ColEta: colEta,
				DXi: dxi, DEta: deta,
				Order: h.desc.Excitation.AzimuthalOrder(),
			}), nil
		})
		if err != nil {
			return out, fmt.Errorf("derive strain for element %d: %w", loc.Element, err)
		}
		colXi, colEta := geom.ColPoints(el.Axial)
		for c := 0; c < 6; c++ {
			out[c] = spectral.Interpolate(colXi, colEta, block, c, loc.Xi, loc.Eta)
		}
		// The azimuthal expansion of non-monopole excitations carries the
		// opposite sign convention on the two coupled shear components.
		if h.desc.Excitation != mesh.Monopole {
			negate(out[spectral.VoigtPZ])
			negate(out[spectral.VoigtSP])
		}
		return out, nil
	}

	block, err := h.strain.GetOrCompute(loc.Element, func() (*spectral.Block, error) {
		return db.decodeElementStrain(h, loc.Element)
	})
	if err != nil {
		return out, fmt.Errorf("read strain for element %d: %w", loc.Element, err)
	}
	for c := 0; c < 6; c++ {
		series := make([]float64, block.NT)
		for t := 0; t < block.NT; t++ {
			series[t] = block.At(t, 0, 0, c)
		}
		out[c] = series
	}
	return out, nil
}

// decodeElementStrain reads one element's precomputed strain and reorders
// the raw solver components [dsus, dsuz, dpup, dsup, dzup, trace] into Voigt
// order [ss, pp, zz, pz, sz, sp]. Missing raw series count as zero.
func (db *Database) decodeElementStrain(h *meshHandle, elem int) (*spectral.Block, error) {
	raw, err := h.store.StrainRaw(elem)
	if err != nil {
		return nil, err
	}
	nt := h.desc.NSamples
	at := func(c, t int) float64 {
		if raw[c] == nil {
			return 0
		}
		return raw[c][t]
	}
	block := spectral.NewBlock(nt, 1, 1, 6)
	for t := 0; t < nt; t++ {
		block.Set(t, 0, 0, spectral.VoigtSS, at(0, t))
		block.Set(t, 0, 0, spectral.VoigtPP, at(2, t))
		block.Set(t, 0, 0, spectral.VoigtZZ, at(5, t)-at(0, t)-at(2, t))
		block.Set(t, 0, 0, spectral.VoigtPZ, -at(4, t))
		block.Set(t, 0, 0, spectral.VoigtSZ, at(1, t))
		block.Set(t, 0, 0, spectral.VoigtSP, -at(3, t))
	}
	return block, nil
}

// displacementAt returns the three displacement series (s, p, z) of mesh h
// at the located point.
func (db *Database) displacementAt(h *meshHandle, loc spatial.Location) ([3][]float64, error) {
	var out [3][]float64
	geom := db.primary.desc
	el := geom.Elements[loc.Element]
	block, err := h.displ.GetOrCompute(loc.Element, func() (*spectral.Block, error) {
		return db.nodalDisplacement(h, el)
	})
	if err != nil {
		return out, fmt.Errorf("read displacement for element %d: %w", loc.Element, err)
	}
	colXi, colEta := geom.ColPoints(el.Axial)
	for c := 0; c < 3; c++ {
		out[c] = spectral.Interpolate(colXi, colEta, block, c, loc.Xi, loc.Eta)
	}
	return out, nil
}

// nodalDisplacement reads and reshapes the raw node series of one element
// into a (time, row, col, component) block. Components the mesh does not
// carry stay zero.
func (db *Database) nodalDisplacement(h *meshHandle, el mesh.Element) (*spectral.Block, error) {
	geom := db.primary.desc
	nn := geom.NodesPerEdge()
	nt := h.desc.NSamples
	block := spectral.NewBlock(nt, nn, nn, 3)
	for comp := mesh.CompS; comp <= mesh.CompZ; comp++ {
		series, err := h.store.Displacement(comp, el.Nodes)
		if err != nil {
			return nil, err
		}
		if series == nil {
			continue
		}
		for i := 0; i < nn; i++ {
			for j := 0; j < nn; j++ {
				src := series[i*nn+j]
				for t := 0; t < nt; t++ {
					block.Set(t, i, j, int(comp), src[t])
				}
			}
		}
	}
	return block, nil
}

// rigidityAt returns the shear modulus at the central collocation node of
// the located element, or 0 when the mesh carries no rigidity model. The
// central-node index assumes an odd polynomial order.
func (db *Database) rigidityAt(loc spatial.Location) float64 {
	geom := db.primary.desc
	if len(geom.Mu) == 0 {
		return 0
	}
	el := geom.Elements[loc.Element]
	if len(el.Nodes) == 0 {
		return 0
	}
	nn := geom.NodesPerEdge()
	center := (geom.NPol/2)*nn + geom.NPol/2
	node := el.Nodes[center]
	if node < 0 || node >= len(geom.Mu) {
		return 0
	}
	return geom.Mu[node]
}

// Info renders a human-readable database summary.
func (db *Database) Info() string {
	d := db.primary.desc
	var b strings.Builder
	if db.forward {
		b.WriteString("forward Green's function database\n")
		fmt.Fprintf(&b, "source depth          : %6.1f km\n", d.SourceDepth/1e3)
	} else {
		comps := "vertical and horizontal"
		switch {
		case db.pz == nil:
			comps = "horizontal only"
		case db.px == nil:
			comps = "vertical only"
		}
		b.WriteString("reciprocal Green's function database\n")
		fmt.Fprintf(&b, "components            : %s\n", comps)
	}
	fmt.Fprintf(&b, "velocity model        : %s\n", d.Model)
	fmt.Fprintf(&b, "attenuation           : %t\n", d.Attenuation)
	fmt.Fprintf(&b, "dominant period       : %6.3f s\n", d.DominantPeriod)
	fmt.Fprintf(&b, "dump type             : %s\n", d.DumpType)
	fmt.Fprintf(&b, "excitation type       : %s\n", d.Excitation)
	fmt.Fprintf(&b, "time step             : %6.3f s\n", d.DT)
	fmt.Fprintf(&b, "sampling rate         : %6.3f Hz\n", 1/d.DT)
	fmt.Fprintf(&b, "number of samples     : %6d\n", d.NSamples)
	fmt.Fprintf(&b, "seismogram length     : %6.1f s\n", d.DT*float64(d.NSamples-1))
	fmt.Fprintf(&b, "source shift          : %6.3f s\n", d.SourceShift)
	fmt.Fprintf(&b, "spatial order         : %6d\n", d.NPol)
	fmt.Fprintf(&b, "time scheme           : %s\n", d.TimeScheme)
	return b.String()
}

func negate(s []float64) {
	for i := range s {
		s[i] = -s[i]
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func closeAll(stores []mesh.Store) {
	for _, s := range stores {
		if s != nil {
			s.Close()
		}
	}
}
