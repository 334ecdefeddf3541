// Package spatial locates query points inside a spectral-element mesh.
//
// Location is a two-stage process: a k-nearest-neighbour lookup over element
// midpoints proposes candidate elements, then an isoparametric inverse
// mapping onto the reference square [-1,1]² decides containment. Meshes that
// store fields per element (precomputed strain) skip the second stage: the
// nearest midpoint already identifies the element.
//
// The tree is built once per database open and is read-only afterwards.
package spatial
