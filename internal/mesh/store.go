package mesh

// RawStrainComponents is the number of strain series stored per element in
// precomputed-strain meshes. The raw order follows the solver output:
// dsus, dsuz, dpup, dsup, dzup, trace. Conversion to Voigt order happens in
// the decode step, not here.
const RawStrainComponents = 6

// Store is the read interface one physical mesh is accessed through.
//
// Descriptor is loaded once at open and must return the same pointer on every
// call. The raw accessors may hit disk and are called from decode callbacks
// behind the element cache; implementations must be safe for concurrent use.
type Store interface {
	// Descriptor returns the static mesh metadata.
	Descriptor() *Descriptor

	// Displacement returns one time series per requested node id for the
	// given component. A mesh that does not carry the component returns
	// (nil, nil); callers treat the component as zero.
	Displacement(comp Component, nodes []int) ([][]float64, error)

	// StrainRaw returns the six raw strain series of one element, in solver
	// order. Series missing from the mesh are nil entries.
	StrainRaw(elem int) ([RawStrainComponents][]float64, error)

	// Close releases any underlying resources.
	Close() error
}
