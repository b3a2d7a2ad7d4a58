package gpu

import (
	"context"
	"testing"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/telemetry"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	name     string
	fans     []uint32
	failTemp bool
}

func (d *fakeDevice) GetName() (string, nvml.Return) { return d.name, nvml.SUCCESS }

func (*fakeDevice) GetClockInfo(nvml.ClockType) (uint32, nvml.Return) { return 1905, nvml.SUCCESS }

func (d *fakeDevice) GetTemperature(nvml.TemperatureSensors) (uint32, nvml.Return) {
	if d.failTemp {
		return 0, nvml.ERROR_NOT_SUPPORTED
	}
	return 61, nvml.SUCCESS
}

func (*fakeDevice) GetMemoryInfo() (nvml.Memory, nvml.Return) {
	return nvml.Memory{Total: 8 << 30, Free: 6 << 30, Used: 2 << 30}, nvml.SUCCESS
}

func (d *fakeDevice) GetNumFans() (int, nvml.Return) { return len(d.fans), nvml.SUCCESS }

func (d *fakeDevice) GetFanSpeed_v2(i int) (uint32, nvml.Return) { return d.fans[i], nvml.SUCCESS }

func (*fakeDevice) GetPowerUsage() (uint32, nvml.Return) { return 115500, nvml.SUCCESS }

type fakeNVML struct {
	dev       *fakeDevice
	initErr   error
	shutdowns int
}

func (f *fakeNVML) Initialize() error { return f.initErr }

func (f *fakeNVML) Shutdown() error {
	f.shutdowns++
	return nil
}

func (f *fakeNVML) GetDeviceCount() (int, error) { return 1, nil }

func (f *fakeNVML) GetDevice(int) (device, error) { return f.dev, nil }

func TestCleanName(t *testing.T) {
	tests := map[string]string{
		"NVIDIA GeForce RTX 3080 Laptop GPU": "rtx 3080",
		"NVIDIA GeForce GTX 1650 Ti":         "gtx 1650ti",
		"AMD Radeon RX 6800 XT":              "rx 6800xt",
		"NVIDIA":                             telemetry.Unknown,
	}

	for raw, want := range tests {
		assert.Equal(t, want, CleanName(raw), raw)
	}
}

func TestSamplerReadings(t *testing.T) {
	dev := &fakeDevice{name: "NVIDIA GeForce RTX 4070", fans: []uint32{40, 50}}
	s := newSampler(&fakeNVML{dev: dev}, 0)
	snap := telemetry.Blank()

	require.NoError(t, s.SampleStatic(context.Background(), &snap))
	require.NoError(t, s.Sample(context.Background(), &snap))

	assert.Equal(t, "rtx 4070", snap.GPUName)
	assert.Equal(t, 1905.0, snap.GPUFreq)
	assert.Equal(t, 61.0, snap.GPUTemp)
	assert.Equal(t, 45.0, snap.GPUFan)
	assert.InDelta(t, 115.5, snap.GPUPower, 0.001)
	assert.Equal(t, telemetry.Mem{Available: 6 << 30, Total: 8 << 30}, snap.VRAM)
}

func TestSamplerPartialFailure(t *testing.T) {
	dev := &fakeDevice{name: "x", failTemp: true}
	s := newSampler(&fakeNVML{dev: dev}, 0)
	snap := telemetry.Blank()
	snap.GPUTemp = 42

	require.NoError(t, s.SampleStatic(context.Background(), &snap))
	err := s.Sample(context.Background(), &snap)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrTemperatureReadFailed))
	assert.Equal(t, 42.0, snap.GPUTemp)
	assert.Equal(t, 1905.0, snap.GPUFreq)
	assert.Equal(t, 0.0, snap.GPUFan)
}

func TestSamplerDegraded(t *testing.T) {
	ctrl := &fakeNVML{initErr: errors.New().New(ErrInitFailed)}
	s := newSampler(ctrl, 0)
	snap := telemetry.Blank()

	require.Error(t, s.SampleStatic(context.Background(), &snap))
	require.NoError(t, s.Sample(context.Background(), &snap))
	assert.Equal(t, telemetry.Unknown, snap.GPUName)
	assert.Equal(t, 0.0, snap.GPUFreq)

	err := s.SampleStatic(context.Background(), &snap)
	assert.True(t, errors.HasCode(err, ErrNotInitialized))
}
