package spatial

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kyroy/kdtree"
	"github.com/kyroy/kdtree/points"

	"github.com/seismix/seismix/internal/mesh"
)

// ContainTolerance is the slack applied to the reference square when testing
// element containment. Query points numerically on an element boundary must
// not fall through the cracks between neighbours.
const ContainTolerance = 1e-3

// candidateCount is how many nearest elements are tried when fields are
// stored per node and the midpoint lookup alone cannot decide containment.
const candidateCount = 6

// ErrNoElement reports that no candidate element contains the query point.
// It signals a mismatch between the query and the database's spatial
// coverage and is never retryable.
var ErrNoElement = errors.New("no element contains point")

// Location identifies the element a query point falls into. Xi and Eta are
// only meaningful when HasLocal is set; element-addressed meshes have no use
// for local coordinates.
type Location struct {
	Element  int
	Xi, Eta  float64
	HasLocal bool
}

// Locator resolves (s,z) query points against one mesh.
//
// Thread-safety: read-only after construction, safe for concurrent use.
type Locator struct {
	desc *mesh.Descriptor
	tree *kdtree.KDTree
	k    int
}

// NewLocator builds the midpoint index for a mesh.
func NewLocator(d *mesh.Descriptor) *Locator {
	pts := make([]kdtree.Point, len(d.Elements))
	for id := range d.Elements {
		el := &d.Elements[id]
		ms, mz := el.Mid[0], el.Mid[1]
		if ms == 0 && mz == 0 {
			for k := 0; k < 4; k++ {
				ms += el.Corners[k][0] / 4
				mz += el.Corners[k][1] / 4
			}
		}
		pts[id] = points.NewPoint([]float64{ms, mz}, id)
	}
	k := 1
	if d.DumpType.PerNodeFields() {
		k = candidateCount
	}
	return &Locator{desc: d, tree: kdtree.New(pts), k: k}
}

// Locate returns the element containing (s,z).
//
// For per-node meshes the nearest candidates are tested nearest-first with
// the inverse mapping; the first containing element wins. Element-addressed
// meshes trust the nearest midpoint directly.
func (l *Locator) Locate(s, z float64) (Location, error) {
	k := min(l.k, len(l.desc.Elements))
	if k == 0 {
		return Location{}, fmt.Errorf("locate (%g, %g): %w", s, z, ErrNoElement)
	}
	cands := l.tree.KNN(points.NewPoint([]float64{s, z}, nil), k)
	sort.SliceStable(cands, func(i, j int) bool {
		return midDist(cands[i], s, z) < midDist(cands[j], s, z)
	})

	if l.k == 1 {
		return Location{Element: cands[0].(*points.Point).Data.(int)}, nil
	}

	for _, c := range cands {
		id := c.(*points.Point).Data.(int)
		xi, eta, ok := InvertMapping(l.desc.Elements[id], s, z, ContainTolerance)
		if ok {
			return Location{Element: id, Xi: xi, Eta: eta, HasLocal: true}, nil
		}
	}
	return Location{}, fmt.Errorf("locate (%g, %g): %w", s, z, ErrNoElement)
}

func midDist(p kdtree.Point, s, z float64) float64 {
	ds := p.Dimension(0) - s
	dz := p.Dimension(1) - z
	return ds*ds + dz*dz
}
