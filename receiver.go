package seismix

// Receiver is a recording location with its station metadata. Immutable.
type Receiver struct {
	Latitude  float64 // degrees
	Longitude float64 // degrees
	Depth     float64 // meters below surface

	Station string
	Network string
}
