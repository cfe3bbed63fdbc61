package store

// ValidID reports whether s is a 24-hex-character record identifier.
// Malformed identifiers are rejected before any store round trip.
func ValidID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
