package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/benaskins/gpuinfo/internal/gpu"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() gpu.Info {
	return gpu.Info{
		Name:                "Apple M2",
		UtilizationPercent:  lo.ToPtr(42.0),
		RendererUtilization: lo.ToPtr(40.0),
		TilerUtilization:    lo.ToPtr(9.0),
		MetalVersion:        lo.ToPtr("Metal 3"),
		MemorySize:          lo.ToPtr(uint64(17179869184)),
	}
}

func TestObserveSetsGauges(t *testing.T) {
	m := New()

	m.Observe(sample())

	assert.Equal(t, 42.0, testutil.ToFloat64(m.Utilization.WithLabelValues(EngineDevice)))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.Utilization.WithLabelValues(EngineRenderer)))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.Utilization.WithLabelValues(EngineTiler)))
	assert.Equal(t, 17179869184.0, testutil.ToFloat64(m.MemoryBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeviceAvailable))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeviceInfo.WithLabelValues("Apple M2", "Metal 3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PollsTotal))
}

func TestObserveRemovesAbsentEngines(t *testing.T) {
	m := New()
	m.Observe(sample())

	info := sample()
	info.RendererUtilization = nil
	info.TilerUtilization = nil
	m.Observe(info)

	assert.Equal(t, 1, testutil.CollectAndCount(m.Utilization))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PollsTotal))
}

func TestObserveUnknownDevice(t *testing.T) {
	m := New()
	m.Observe(sample())

	m.Observe(gpu.Unknown())

	assert.Equal(t, 0.0, testutil.ToFloat64(m.DeviceAvailable))
	assert.Equal(t, 0, testutil.CollectAndCount(m.Utilization))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.MemoryBytes))
	assert.Equal(t, 1, testutil.CollectAndCount(m.DeviceInfo))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeviceInfo.WithLabelValues(gpu.UnknownName, "")))
}

func TestAllNamesHavePrefix(t *testing.T) {
	m := New()
	m.Observe(sample())

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	for _, f := range families {
		assert.True(t, strings.HasPrefix(f.GetName(), "gpuinfo_"), f.GetName())
	}
}

func TestServerServesMetrics(t *testing.T) {
	m := New()
	m.Observe(sample())

	srv := NewServer("127.0.0.1:0", m)
	require.NoError(t, srv.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	}()

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `gpuinfo_utilization_percent{engine="device"} 42`)
}
