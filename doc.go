// Package seismix synthesizes seismograms at arbitrary source-receiver pairs
// from precomputed spectral-element wavefield databases.
//
// A database stores the wavefields of a small number of axisymmetric
// simulations. Seismic reciprocity lets a single stored run at a fixed
// receiver depth serve any source position (reciprocal mode); forward
// databases instead fix the source depth and serve any receiver. Extraction
// locates the element containing the query point, interpolates the stored
// fields with the spectral-element basis, combines them with the source's
// moment tensor or force vector, and post-processes the resulting series
// (source-shift removal, source-time-function exchange, resampling).
//
// Typical use:
//
//	db, err := seismix.Open("/data/prem_a_20s")
//	if err != nil { ... }
//	defer db.Close()
//
//	src := &seismix.MomentTensorSource{
//		Latitude: 42.6, Longitude: 13.3, Depth: 12e3,
//		M: [6]float64{1e17, -0.3e17, -0.7e17, 0.2e17, 0, 0.1e17},
//	}
//	rec := seismix.Receiver{Latitude: 48.2, Longitude: 16.4, Station: "VIE", Network: "XX"}
//	traces, err := db.Seismograms(src, rec, seismix.SeismogramOptions{})
//
// Queries are synchronous and CPU-bound. A Database is safe for concurrent
// use: descriptors and the spatial index are immutable after Open, and the
// element caches guarantee at-most-one decode per element under concurrency.
package seismix
