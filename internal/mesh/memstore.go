package mesh

import "fmt"

// MemStore is an in-memory Store. It backs synthetic databases in tests and
// serves as the staging structure the on-disk writer consumes.
//
// Field arrays are set once during construction; after that the store is
// read-only and safe for concurrent use.
type MemStore struct {
	desc *Descriptor

	// displ[comp][node] is one time series; a nil outer slice means the
	// component is not part of this mesh.
	displ [3][][]float64

	// strain[elem][comp] in raw solver order.
	strain [][RawStrainComponents][]float64
}

// NewMemStore creates a store around a validated descriptor.
func NewMemStore(d *Descriptor) (*MemStore, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid descriptor: %w", err)
	}
	m := &MemStore{desc: d}
	if !d.DumpType.PerNodeFields() || d.DumpType == FullFields {
		m.strain = make([][RawStrainComponents][]float64, len(d.Elements))
	}
	return m, nil
}

// SetDisplacement installs the series of one displacement component, indexed
// by global node id.
func (m *MemStore) SetDisplacement(comp Component, series [][]float64) {
	m.displ[comp] = series
}

// SetStrainRaw installs the raw strain series of one element.
func (m *MemStore) SetStrainRaw(elem int, series [RawStrainComponents][]float64) {
	if m.strain == nil {
		m.strain = make([][RawStrainComponents][]float64, len(m.desc.Elements))
	}
	m.strain[elem] = series
}

// Descriptor implements Store.
func (m *MemStore) Descriptor() *Descriptor { return m.desc }

// Displacement implements Store.
func (m *MemStore) Displacement(comp Component, nodes []int) ([][]float64, error) {
	all := m.displ[comp]
	if all == nil {
		return nil, nil
	}
	out := make([][]float64, len(nodes))
	for i, n := range nodes {
		if n < 0 || n >= len(all) {
			return nil, fmt.Errorf("node id %d out of range [0,%d)", n, len(all))
		}
		out[i] = all[n]
	}
	return out, nil
}

// StrainRaw implements Store.
func (m *MemStore) StrainRaw(elem int) ([RawStrainComponents][]float64, error) {
	var zero [RawStrainComponents][]float64
	if m.strain == nil {
		return zero, fmt.Errorf("mesh stores no per-element strain")
	}
	if elem < 0 || elem >= len(m.strain) {
		return zero, fmt.Errorf("element id %d out of range [0,%d)", elem, len(m.strain))
	}
	return m.strain[elem], nil
}

// Close implements Store.
func (m *MemStore) Close() error { return nil }
