package domain

// Immutable geographic coordinates (latitude, longitude).
// The routing backend exchanges coordinates as [lat, lng] pairs.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Return coordinates as [lat, lng] for wire compatibility with the routing backend.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lat, c.Lng} }

// CoordsFromList builds Coordinates from a [lat, lng] pair.
// Reports false when the pair is malformed.
func CoordsFromList(pair []float64) (Coordinates, bool) {
	if len(pair) != 2 {
		return Coordinates{}, false
	}
	return Coordinates{Lat: pair[0], Lng: pair[1]}, true
}
