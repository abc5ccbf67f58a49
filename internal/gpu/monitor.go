package gpu

import (
	"log/slog"
	"time"

	"github.com/samber/lo"
)

// Querier produces GPU snapshots.
type Querier interface {
	Query() Info
}

// Monitor queries the default GPU. It locates the device once at construction
// and holds it for its lifetime.
type Monitor struct {
	locate         Locator
	registry       Registry
	physicalMemory func() (uint64, error)
	logger         *slog.Logger

	device    Device
	tierLabel string
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLocator replaces the platform device locator.
func WithLocator(l Locator) Option {
	return func(m *Monitor) {
		m.locate = l
	}
}

// WithRegistry replaces the platform hardware registry.
func WithRegistry(r Registry) Option {
	return func(m *Monitor) {
		m.registry = r
	}
}

// WithPhysicalMemory replaces the source of total physical memory.
func WithPhysicalMemory(fn func() (uint64, error)) Option {
	return func(m *Monitor) {
		m.physicalMemory = fn
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = l
	}
}

// NewMonitor locates the default device and returns a Monitor for it.
// A missing device is not an error; Query then reports Unknown().
func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{
		locate:         SystemDefaultDevice,
		physicalMemory: physicalMemory,
		logger:         slog.With("component", "gpu"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = systemRegistry()
	}

	if d, ok := m.locate(); ok && d != nil {
		m.device = d
		m.tierLabel = FeatureTierLabel(d)
		m.logger.Debug("located GPU", "name", d.Name(), "unified_memory", d.HasUnifiedMemory(), "tier", m.tierLabel)
	} else {
		m.logger.Debug("no default graphics device")
	}
	return m
}

// Query returns a fresh snapshot.
func (m *Monitor) Query() Info {
	if m.device == nil {
		return Unknown()
	}

	u := ScanUtilization(m.registry, m.logger)

	return Info{
		Name:                m.device.Name(),
		UtilizationPercent:  u.Device,
		CoreCount:           nil, // not exposed by Metal or IOKit
		MemorySize:          m.memorySize(),
		MetalVersion:        lo.ToPtr(m.tierLabel),
		RendererUtilization: u.Renderer,
		TilerUtilization:    u.Tiler,
		Timestamp:           time.Now(),
	}
}

// memorySize reports total physical memory for unified-memory devices only.
// Discrete GPUs do not expose VRAM through this path.
func (m *Monitor) memorySize() *uint64 {
	if !m.device.HasUnifiedMemory() {
		return nil
	}
	n, err := m.physicalMemory()
	if err != nil {
		m.logger.Debug("reading physical memory", "error", err)
		return nil
	}
	return &n
}
