// Package gpu reports identity and utilization of the default GPU on Apple
// Silicon and Intel Macs.
//
// Static attributes come from the Metal default device. Live utilization comes
// from the PerformanceStatistics record that the IOAccelerator service
// publishes in the IOKit registry. Every query produces a fresh Info; nothing
// is cached between polls except the device handle and its feature tier.
package gpu

import (
	"time"
)

// UnknownName is reported when no Metal device can be located.
const UnknownName = "Unknown GPU"

const bytesPerGB = 1024 * 1024 * 1024

// Info holds a snapshot of GPU state. Optional fields are nil when the
// hardware does not expose them or they could not be read.
type Info struct {
	Name                string    `json:"name"`
	UtilizationPercent  *float64  `json:"utilization_percent,omitempty"`
	CoreCount           *int      `json:"core_count,omitempty"`
	MemorySize          *uint64   `json:"memory_size_bytes,omitempty"`
	MetalVersion        *string   `json:"metal_version,omitempty"`
	RendererUtilization *float64  `json:"renderer_utilization_percent,omitempty"`
	TilerUtilization    *float64  `json:"tiler_utilization_percent,omitempty"`
	Timestamp           time.Time `json:"timestamp"`
}

// Unknown returns the snapshot used when there is no monitorable GPU.
func Unknown() Info {
	return Info{Name: UnknownName, Timestamp: time.Now()}
}

// MemoryGB returns the memory size in gigabytes, and false if it is absent.
func (i Info) MemoryGB() (float64, bool) {
	if i.MemorySize == nil {
		return 0, false
	}
	return float64(*i.MemorySize) / bytesPerGB, true
}

// Available reports whether a device was found.
func (i Info) Available() bool {
	return i.Name != UnknownName
}
