package math

// Maximum returns the larger of two ints
func Maximum(a, b int) int {
	if a < b {
		return b
	}
	return a
}

// Minimum returns the smaller of two ints
func Minimum(a, b int) int {
	if b < a {
		return b
	}
	return a
}
