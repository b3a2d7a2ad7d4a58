package gpu

import (
	"codeberg.org/mutker/loopfetch/internal/errors"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const (
	// Initialization and Lifecycle Errors
	ErrNotInitialized    = errors.ErrorCode("gpu_not_initialized")
	ErrInitFailed        = errors.ErrorCode("gpu_init_failed")
	ErrDeviceNotFound    = errors.ErrorCode("gpu_device_not_found")
	ErrShutdownFailed    = errors.ErrorCode("gpu_shutdown_failed")
	ErrDeviceInfoFailed  = errors.ErrorCode("gpu_device_info_failed")
	ErrDeviceCountFailed = errors.ErrorCode("gpu_device_count_failed")

	// Sensor Errors
	ErrTemperatureReadFailed = errors.ErrorCode("gpu_temperature_read_failed")
	ErrClockReadFailed       = errors.ErrorCode("gpu_clock_read_failed")
	ErrMemoryReadFailed      = errors.ErrorCode("gpu_memory_read_failed")
	ErrFanReadFailed         = errors.ErrorCode("gpu_fan_read_failed")
	ErrPowerReadFailed       = errors.ErrorCode("gpu_power_read_failed")
)

func init() {
	errors.RegisterMessage(ErrNotInitialized, "GPU not initialized")
	errors.RegisterMessage(ErrInitFailed, "Failed to initialize NVML")
	errors.RegisterMessage(ErrDeviceNotFound, "GPU device not found")
	errors.RegisterMessage(ErrShutdownFailed, "Failed to shut down NVML")
	errors.RegisterMessage(ErrDeviceInfoFailed, "Failed to read GPU device info")
	errors.RegisterMessage(ErrDeviceCountFailed, "Failed to count GPU devices")
	errors.RegisterMessage(ErrTemperatureReadFailed, "Failed to read GPU temperature")
	errors.RegisterMessage(ErrClockReadFailed, "Failed to read GPU clock")
	errors.RegisterMessage(ErrMemoryReadFailed, "Failed to read GPU memory")
	errors.RegisterMessage(ErrFanReadFailed, "Failed to read GPU fan speed")
	errors.RegisterMessage(ErrPowerReadFailed, "Failed to read GPU power usage")
}

// nvmlError represents an NVML-specific error
type nvmlError struct {
	ret nvml.Return
}

func (e nvmlError) Error() string {
	return nvml.ErrorString(e.ret)
}

// newNVMLError creates an error from an NVML return code
func newNVMLError(ret nvml.Return) error {
	if ret == nvml.SUCCESS {
		return nil
	}
	return &nvmlError{ret: ret}
}

// IsNVMLSuccess checks if a Return value indicates success
func IsNVMLSuccess(ret nvml.Return) bool {
	return ret == nvml.SUCCESS
}
