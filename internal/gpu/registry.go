package gpu

import (
	"errors"
	"log/slog"

	"github.com/samber/lo"
)

const (
	// AcceleratorClass is the IOKit class of GPU services.
	AcceleratorClass = "IOAccelerator"

	// PerformanceStatisticsKey holds the live utilization counters of an accelerator.
	PerformanceStatisticsKey = "PerformanceStatistics"
)

// Candidate keys inside the performance statistics record, in priority order.
var (
	deviceUtilizationKeys   = []string{"Device Utilization %", "GPU Activity(%)"}
	rendererUtilizationKeys = []string{"Renderer Utilization %"}
	tilerUtilizationKeys    = []string{"Tiler Utilization %"}
)

// ErrRegistryUnavailable is returned when the hardware registry cannot be enumerated.
var ErrRegistryUnavailable = errors.New("hardware registry unavailable")

// Registry enumerates hardware registry service entries.
type Registry interface {
	MatchingServices(class string) (Iterator, error)
}

// Iterator walks a service enumeration. The caller must Release it.
type Iterator interface {
	// Next returns the next entry, or false when the enumeration is exhausted.
	// The caller must Release every returned entry.
	Next() (Entry, bool)
	Release()
}

// Entry is a single registry service entry.
type Entry interface {
	// Properties returns the entry's property dictionary. Nested dictionaries
	// are map[string]any.
	Properties() (map[string]any, error)
	Release()
}

// Utilization holds the percentages read from the performance statistics
// record. Each field is nil when the record does not carry it.
type Utilization struct {
	Device   *float64
	Renderer *float64
	Tiler    *float64
}

// ScanUtilization returns the utilization reported by the first accelerator
// entry that has a performance statistics record. Later entries are not
// consulted. The iterator and every visited entry are released before return.
func ScanUtilization(r Registry, logger *slog.Logger) Utilization {
	if logger == nil {
		logger = slog.Default()
	}

	it, err := r.MatchingServices(AcceleratorClass)
	if err != nil {
		logger.Debug("registry enumeration failed", "class", AcceleratorClass, "error", err)
		return Utilization{}
	}
	defer it.Release()

	for {
		entry, ok := it.Next()
		if !ok {
			break
		}
		if u, found := inspectEntry(entry, logger); found {
			return u
		}
	}

	logger.Debug("no accelerator entry with performance statistics")
	return Utilization{}
}

// inspectEntry reads one entry and releases it before returning.
func inspectEntry(entry Entry, logger *slog.Logger) (Utilization, bool) {
	defer entry.Release()

	props, err := entry.Properties()
	if err != nil {
		logger.Debug("reading registry entry properties", "error", err)
		return Utilization{}, false
	}

	stats, ok := props[PerformanceStatisticsKey].(map[string]any)
	if !ok {
		return Utilization{}, false
	}

	return Utilization{
		Device:   percent(stats, deviceUtilizationKeys...),
		Renderer: percent(stats, rendererUtilizationKeys...),
		Tiler:    percent(stats, tilerUtilizationKeys...),
	}, true
}

// percent returns the value of the first key holding an integer, clamped to
// [0,100]. A key with a non-integer value counts as missing.
func percent(stats map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		n, ok := asInt(stats[key])
		if !ok {
			continue
		}
		return lo.ToPtr(float64(lo.Clamp(n, 0, 100)))
	}
	return nil
}

// asInt converts any Go integer kind to int64. Unsigned values that do not fit
// saturate at the int64 maximum, which the caller clamps anyway.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return saturate(uint64(n)), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return saturate(n), true
	default:
		return 0, false
	}
}

func saturate(n uint64) int64 {
	if n > 1<<63-1 {
		return 1<<63 - 1
	}
	return int64(n)
}
