// Package spectral implements tensor-product Lagrange interpolation over
// spectral-element nodal grids and the strain kernels deriving strain from
// nodal displacement.
package spectral

// Block is a dense (time, row, col, component) array of nodal samples. Rows
// index the ξ collocation direction, columns the η direction. Decoded blocks
// are written once and then shared read-only through the element cache.
type Block struct {
	NT, NR, NC, NComp int
	Data              []float64
}

// NewBlock allocates a zeroed block.
func NewBlock(nt, nr, nc, ncomp int) *Block {
	return &Block{
		NT: nt, NR: nr, NC: nc, NComp: ncomp,
		Data: make([]float64, nt*nr*nc*ncomp),
	}
}

// At returns the sample at (t, i, j, c).
func (b *Block) At(t, i, j, c int) float64 {
	return b.Data[((t*b.NR+i)*b.NC+j)*b.NComp+c]
}

// Set stores the sample at (t, i, j, c).
func (b *Block) Set(t, i, j, c int, v float64) {
	b.Data[((t*b.NR+i)*b.NC+j)*b.NComp+c] = v
}

// SizeBytes is the retained size used for cache accounting.
func (b *Block) SizeBytes() int64 {
	return int64(len(b.Data)) * 8
}
