//go:build !darwin

package gpu

import "errors"

// physicalMemory is only needed for unified-memory Metal devices.
func physicalMemory() (uint64, error) {
	return 0, errors.New("physical memory size is only read on macOS")
}
