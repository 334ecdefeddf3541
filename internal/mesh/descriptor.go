package mesh

import "fmt"

// DumpType describes which fields a mesh stores per time sample.
type DumpType string

const (
	// DisplOnly stores displacement at every collocation node. Strain is
	// derived on the fly from the spectral basis.
	DisplOnly DumpType = "displ_only"
	// StrainOnly stores precomputed per-element strain.
	StrainOnly DumpType = "strain_only"
	// FullFields stores both displacement and per-element strain.
	FullFields DumpType = "fullfields"
)

// PerNodeFields reports whether fields are addressed by collocation node
// (requiring point-in-element disambiguation when locating) rather than by
// element.
func (d DumpType) PerNodeFields() bool { return d == DisplOnly }

// Excitation is the azimuthal radiation pattern the mesh was simulated with.
type Excitation string

const (
	Monopole Excitation = "monopole"
	Dipole   Excitation = "dipole"
	Quadpole Excitation = "quadpole"
)

// AzimuthalOrder returns the azimuthal wavenumber of the excitation.
func (e Excitation) AzimuthalOrder() int {
	switch e {
	case Dipole:
		return 1
	case Quadpole:
		return 2
	default:
		return 0
	}
}

// Component indexes the cylindrical displacement components stored per node.
type Component int

const (
	CompS Component = iota // radial-horizontal (distance from symmetry axis)
	CompP                  // azimuthal
	CompZ                  // vertical (along symmetry axis)
)

// ElemType describes the geometry of a spectral element's edges.
//
// Curved elements have all four edges following concentric arcs and radial
// lines; linear elements are straight-edged quadrilaterals; the two
// semi-curved kinds mix one curved edge pair with one straight pair.
type ElemType int

const (
	ElemCurved ElemType = iota
	ElemLinear
	ElemSemiNorth
	ElemSemiSouth
)

// Element holds the static geometry metadata of one spectral element.
//
// Corners are listed counterclockwise starting at the (ξ,η)=(-1,-1) corner,
// each as an (s,z) pair in the database's cylindrical frame. Nodes holds the
// global collocation-node ids in row-major order: Nodes[i*(npol+1)+j] is the
// node at (ξ_i, η_j).
type Element struct {
	Corners [4][2]float64
	Type    ElemType
	Axial   bool
	Nodes   []int
	Mid     [2]float64
}

// Descriptor carries everything about a mesh that is known at open time.
// Immutable after loading; shared freely between goroutines.
type Descriptor struct {
	// Global scalars.
	NPol               int     // polynomial order of the spectral basis
	NSamples           int     // time samples per stored series
	DT                 float64 // sampling interval in seconds
	Amplitude          float64 // source amplitude the run was normalized with
	SourceShiftSamples int     // samples between trace start and source peak
	SourceShift        float64 // the same shift in seconds
	PlanetRadius       float64 // meters
	SourceDepth        float64 // meters; only meaningful for forward meshes
	Model              string  // background velocity model name
	Attenuation        bool
	DominantPeriod     float64 // seconds
	TimeScheme         string
	DumpType           DumpType
	Excitation         Excitation

	// Collocation points on [-1,1], length NPol+1. GLJ applies along the ξ
	// direction of axial elements, GLL everywhere else.
	GLL []float64
	GLJ []float64

	// Derivative matrices for the two bases: DerivGLL[i][k] = l'_k(x_i)
	// evaluated at collocation point i.
	DerivGLL [][]float64
	DerivGLJ [][]float64

	// Source time function of the run: slip and its rate, NSamples each.
	Slip     []float64
	Sliprate []float64

	// Per-element geometry and per-node rigidity.
	Elements []Element
	Mu       []float64
}

// NodesPerEdge returns the number of collocation points per element edge.
func (d *Descriptor) NodesPerEdge() int { return d.NPol + 1 }

// ColPoints returns the ξ and η collocation points for an element, honoring
// the GLJ basis along ξ on axial elements.
func (d *Descriptor) ColPoints(axial bool) (xi, eta []float64) {
	if axial {
		return d.GLJ, d.GLL
	}
	return d.GLL, d.GLL
}

// DerivMatrices returns the ξ and η derivative matrices for an element.
func (d *Descriptor) DerivMatrices(axial bool) (dxi, deta [][]float64) {
	if axial {
		return d.DerivGLJ, d.DerivGLL
	}
	return d.DerivGLL, d.DerivGLL
}

// Validate performs basic structural checks on a descriptor. It is called by
// store implementations after loading; query code assumes these hold.
func (d *Descriptor) Validate() error {
	if d.NPol < 1 {
		return fmt.Errorf("polynomial order %d out of range", d.NPol)
	}
	if d.NSamples < 1 {
		return fmt.Errorf("sample count %d out of range", d.NSamples)
	}
	if d.DT <= 0 {
		return fmt.Errorf("sampling interval %g out of range", d.DT)
	}
	if d.SourceShiftSamples < 0 || d.SourceShiftSamples >= d.NSamples {
		return fmt.Errorf("source shift of %d samples out of range for %d-sample traces",
			d.SourceShiftSamples, d.NSamples)
	}
	nn := d.NodesPerEdge()
	if len(d.GLL) != nn {
		return fmt.Errorf("expected %d GLL points, got %d", nn, len(d.GLL))
	}
	if len(d.GLJ) != 0 && len(d.GLJ) != nn {
		return fmt.Errorf("expected %d GLJ points, got %d", nn, len(d.GLJ))
	}
	switch d.DumpType {
	case DisplOnly, StrainOnly, FullFields:
	default:
		return fmt.Errorf("unknown dump type %q", d.DumpType)
	}
	switch d.Excitation {
	case Monopole, Dipole, Quadpole:
	default:
		return fmt.Errorf("unknown excitation type %q", d.Excitation)
	}
	for id, el := range d.Elements {
		if d.DumpType.PerNodeFields() && len(el.Nodes) != nn*nn {
			return fmt.Errorf("element %d: expected %d node ids, got %d", id, nn*nn, len(el.Nodes))
		}
	}
	return nil
}
