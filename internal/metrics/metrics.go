// Package metrics exports GPU snapshots as Prometheus metrics.
package metrics

import (
	"github.com/benaskins/gpuinfo/internal/gpu"
	"github.com/prometheus/client_golang/prometheus"
)

// Engine label values.
const (
	EngineDevice   = "device"
	EngineRenderer = "renderer"
	EngineTiler    = "tiler"
)

// Metrics holds the GPU gauges on a custom registry.
type Metrics struct {
	Registry *prometheus.Registry

	Utilization     *prometheus.GaugeVec
	MemoryBytes     prometheus.Gauge
	DeviceInfo      *prometheus.GaugeVec
	DeviceAvailable prometheus.Gauge
	PollsTotal      prometheus.Counter
}

// New creates the metrics and registers them on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		Utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gpuinfo_utilization_percent",
			Help: "GPU utilization in percent, by engine.",
		}, []string{"engine"}),
		MemoryBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gpuinfo_memory_bytes",
			Help: "Memory shared with a unified-memory GPU, in bytes.",
		}),
		DeviceInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gpuinfo_device_info",
			Help: "Static device attributes; always 1.",
		}, []string{"name", "metal_version"}),
		DeviceAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gpuinfo_device_available",
			Help: "1 if a Metal device was found, 0 otherwise.",
		}),
		PollsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gpuinfo_polls_total",
			Help: "Total number of GPU queries.",
		}),
	}

	reg.MustRegister(
		m.Utilization,
		m.MemoryBytes,
		m.DeviceInfo,
		m.DeviceAvailable,
		m.PollsTotal,
	)

	return m
}

// Observe records one snapshot. Series for absent fields are removed so
// scrapers see a gap rather than a stale value.
func (m *Metrics) Observe(info gpu.Info) {
	m.PollsTotal.Inc()

	available := 0.0
	if info.Available() {
		available = 1
	}
	m.DeviceAvailable.Set(available)

	m.setEngine(EngineDevice, info.UtilizationPercent)
	m.setEngine(EngineRenderer, info.RendererUtilization)
	m.setEngine(EngineTiler, info.TilerUtilization)

	if info.MemorySize != nil {
		m.MemoryBytes.Set(float64(*info.MemorySize))
	} else {
		m.MemoryBytes.Set(0)
	}

	m.DeviceInfo.Reset()
	version := ""
	if info.MetalVersion != nil {
		version = *info.MetalVersion
	}
	m.DeviceInfo.WithLabelValues(info.Name, version).Set(1)
}

func (m *Metrics) setEngine(engine string, v *float64) {
	if v == nil {
		m.Utilization.DeleteLabelValues(engine)
		return
	}
	m.Utilization.WithLabelValues(engine).Set(*v)
}
