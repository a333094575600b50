package util

import "runtime"

// GetOptimalPoolSize sizes CPU-bound pools (tree-sitter parsers per grammar).
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32). Parsing is CGO-heavy, so
// twice the core count keeps cores busy while goroutines wait on C calls.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns override when positive.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
