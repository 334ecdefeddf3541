// Package mesh defines the read-only view of one physical wavefield mesh:
// global scalars, collocation and derivative arrays, per-element geometry
// metadata, and raw time-series accessors for displacement and strain.
//
// A mesh is the unit a wavefield database is assembled from. A reciprocal
// database carries up to two meshes (vertical and horizontal excitation), a
// forward database carries exactly four elemental meshes.
//
// The Descriptor is loaded once when a store is opened and is immutable
// afterwards. It is safe to share between goroutines without locking.
//
// Two Store implementations exist:
//   - MemStore (this package): fully in-memory, used by tests and for
//     programmatically built synthetic databases.
//   - meshdb.Store: SQLite-backed on-disk format.
package mesh
