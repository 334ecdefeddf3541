// Package meshdb provides SQLite-backed storage for wavefield meshes.
//
// One database file holds one physical mesh: its scalar metadata, collocation
// and derivative arrays, element geometry, per-node rigidity, and the raw
// displacement or strain time series as little-endian float64 blobs.
//
// The descriptor tables are read once at Open and never touched again; only
// the series tables are queried during extraction, from decode callbacks
// behind the element cache. The file is opened read-only by queries and
// written only by Write, which builds a complete database in one
// transaction.
//
// # Database configuration
//
//   - WAL mode: concurrent readers during the (single) write
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
package meshdb
