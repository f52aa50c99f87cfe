//go:build !release

package linmem

const checkBounds = true
