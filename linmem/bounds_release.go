//go:build release

package linmem

// Release builds trust engine-supplied addresses; the Go runtime still panics
// on an out-of-range slice index.
const checkBounds = false
