package vecell

import "golang.org/x/sys/unix"

// totalMemory returns the physical memory of the host in bytes, or 0 if it
// cannot be read.
func totalMemory() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return uint64(info.Totalram) * unit
}
