package domain

import "strings"

// Cities with vehicle entry restrictions for out-of-town plates.
// Matching is a plain substring check on the free-text address, same as
// the hint shown in the console UI.
var restrictedAreaMarkers = []string{"上海", "北京市", "北京 "}

// InRestrictionArea reports whether an address falls inside a known
// plate-restriction area. Free-text addresses make this a heuristic, not
// a geofence.
func InRestrictionArea(address string) bool {
	a := strings.TrimSpace(address)
	if a == "" {
		return false
	}
	for _, marker := range restrictedAreaMarkers {
		if strings.Contains(a, marker) {
			return true
		}
	}
	return false
}
