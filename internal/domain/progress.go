package domain

// TripProgress tracks how far along a route snapshot the driver is.
// Index points at the stop most recently reached: 0 is the driver's own
// starting position, and reaching the final stop completes the trip.
//
// The index only ever moves forward (Arrive) or back to zero (Reset);
// there is no other transition. It is advanced by a single explicit
// driver action, never by a background process.
type TripProgress struct {
	index int
	last  int
}

// NewTripProgress starts progress for a snapshot with stopCount stops.
// savedIndex is applied only when hashMatched reports that the snapshot's
// stop sequence equals the one the index was saved against; a mismatched
// hash means the route was re-ordered and a stale index must not apply.
func NewTripProgress(stopCount, savedIndex int, hashMatched bool) TripProgress {
	last := stopCount - 1
	if last < 0 {
		last = 0
	}
	p := TripProgress{last: last}
	if hashMatched {
		p.index = clampIndex(savedIndex, last)
	}
	return p
}

func clampIndex(idx, last int) int {
	if idx < 0 {
		return 0
	}
	if idx > last {
		return last
	}
	return idx
}

// Index is the position of the stop most recently reached.
func (p TripProgress) Index() int { return p.index }

// Completed reports whether the final stop has been reached.
func (p TripProgress) Completed() bool { return p.index >= p.last }

// NextIndex returns the index of the next unvisited stop.
// ok is false once the trip is complete.
func (p TripProgress) NextIndex() (int, bool) {
	if p.Completed() {
		return 0, false
	}
	return p.index + 1, true
}

// Arrive advances to the next stop and returns its index.
// Calling Arrive on a completed trip is a no-op: the index stays clamped
// at the final stop and advanced reports false.
func (p *TripProgress) Arrive() (reached int, advanced bool) {
	if p.Completed() {
		return p.index, false
	}
	p.index++
	return p.index, true
}

// Reset discards progress, returning to the starting position.
func (p *TripProgress) Reset() { p.index = 0 }
