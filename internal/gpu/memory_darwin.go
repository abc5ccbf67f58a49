//go:build darwin

package gpu

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// physicalMemory returns installed RAM in bytes via sysctl.
func physicalMemory() (uint64, error) {
	n, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0, fmt.Errorf("sysctl hw.memsize: %w", err)
	}
	return n, nil
}
