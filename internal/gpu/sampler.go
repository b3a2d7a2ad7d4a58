package gpu

import (
	"context"
	"sync"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/logger"
	"codeberg.org/mutker/loopfetch/internal/telemetry"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const milliWattsToWatts = 1000

// Sampler reads the first NVML device. When NVML is unavailable it stays
// degraded and leaves every graphics field at its sentinel.
type Sampler struct {
	nvml       nvmlController
	dev        device
	index      int
	degraded   bool
	errFactory errors.Factory
	mu         sync.Mutex
}

// New creates a sampler for the device at index. NVML is loaded lazily on
// the first SampleStatic call.
func New(index int) *Sampler {
	return newSampler(&nvmlWrapper{}, index)
}

func newSampler(ctrl nvmlController, index int) *Sampler {
	return &Sampler{
		nvml:       ctrl,
		index:      index,
		errFactory: errors.New(),
	}
}

func (*Sampler) Name() string { return "gpu" }

func (s *Sampler) SampleStatic(_ context.Context, snap *telemetry.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		return err
	}

	name, ret := s.dev.GetName()
	if !IsNVMLSuccess(ret) {
		return s.errFactory.Wrap(ErrDeviceInfoFailed, newNVMLError(ret))
	}
	snap.GPUName = CleanName(name)

	return nil
}

func (s *Sampler) open() error {
	if s.dev != nil {
		return nil
	}
	if s.degraded {
		return s.errFactory.New(ErrNotInitialized)
	}

	if err := s.nvml.Initialize(); err != nil {
		s.degraded = true
		logger.Info().Err(err).Msg("NVML unavailable, graphics fields disabled")
		return err
	}

	count, err := s.nvml.GetDeviceCount()
	if err == nil && s.index >= count {
		err = s.errFactory.WithData(ErrDeviceNotFound, s.index)
	}
	if err == nil {
		s.dev, err = s.nvml.GetDevice(s.index)
	}
	if err != nil {
		s.degraded = true
		if shutdownErr := s.nvml.Shutdown(); shutdownErr != nil {
			logger.Debug().Err(shutdownErr).Msg("NVML shutdown after failed open")
		}
		return err
	}

	logger.Debug().Int("index", s.index).Msg("GPU sampler ready")

	return nil
}

// Sample reads clock, temperature, memory, fan and power. Each reading is
// independent; a failing one leaves its field untouched.
func (s *Sampler) Sample(_ context.Context, snap *telemetry.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return nil
	}

	var errs []error

	if clock, ret := s.dev.GetClockInfo(nvml.CLOCK_GRAPHICS); IsNVMLSuccess(ret) {
		snap.GPUFreq = float64(clock)
	} else {
		errs = append(errs, s.errFactory.Wrap(ErrClockReadFailed, newNVMLError(ret)))
	}

	if temp, ret := s.dev.GetTemperature(nvml.TEMPERATURE_GPU); IsNVMLSuccess(ret) {
		snap.GPUTemp = float64(temp)
	} else {
		errs = append(errs, s.errFactory.Wrap(ErrTemperatureReadFailed, newNVMLError(ret)))
	}

	if mem, ret := s.dev.GetMemoryInfo(); IsNVMLSuccess(ret) {
		snap.VRAM = telemetry.Mem{Available: mem.Free, Total: mem.Total}
	} else {
		errs = append(errs, s.errFactory.Wrap(ErrMemoryReadFailed, newNVMLError(ret)))
	}

	if fan, err := s.fanSpeed(); err == nil {
		snap.GPUFan = fan
	} else {
		errs = append(errs, err)
	}

	if usage, ret := s.dev.GetPowerUsage(); IsNVMLSuccess(ret) {
		snap.GPUPower = float64(usage) / milliWattsToWatts
	} else {
		errs = append(errs, s.errFactory.Wrap(ErrPowerReadFailed, newNVMLError(ret)))
	}

	return errors.Join(errs...)
}

// fanSpeed averages every fan of the device, in percent. Passively cooled
// devices report zero fans and read as 0.
func (s *Sampler) fanSpeed() (float64, error) {
	count, ret := s.dev.GetNumFans()
	if !IsNVMLSuccess(ret) {
		return 0, s.errFactory.Wrap(ErrFanReadFailed, newNVMLError(ret))
	}
	if count == 0 {
		return 0, nil
	}

	var sum uint32
	for i := 0; i < count; i++ {
		speed, ret := s.dev.GetFanSpeed_v2(i)
		if !IsNVMLSuccess(ret) {
			return 0, s.errFactory.Wrap(ErrFanReadFailed, newNVMLError(ret)).WithData(i)
		}
		sum += speed
	}

	return float64(sum) / float64(count), nil
}

func (s *Sampler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dev = nil

	return s.nvml.Shutdown()
}
