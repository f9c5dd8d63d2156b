//go:build !linux

package vecell

// totalMemory is not available here; only GOMEMLIMIT bounds TryReserve.
func totalMemory() uint64 { return 0 }
