package sysinfo

import "codeberg.org/mutker/loopfetch/internal/errors"

const (
	ErrHostInfo    = errors.ErrorCode("sysinfo_host_failed")
	ErrCPUInfo     = errors.ErrorCode("sysinfo_cpu_failed")
	ErrMemoryInfo  = errors.ErrorCode("sysinfo_memory_failed")
	ErrDiskInfo    = errors.ErrorCode("sysinfo_disk_failed")
	ErrSensorInfo  = errors.ErrorCode("sysinfo_sensor_failed")
	ErrProcessInfo = errors.ErrorCode("sysinfo_process_failed")
)

func init() {
	errors.RegisterMessage(ErrHostInfo, "Failed to read host info")
	errors.RegisterMessage(ErrCPUInfo, "Failed to read CPU info")
	errors.RegisterMessage(ErrMemoryInfo, "Failed to read memory info")
	errors.RegisterMessage(ErrDiskInfo, "Failed to read disk info")
	errors.RegisterMessage(ErrSensorInfo, "Failed to read temperature sensors")
	errors.RegisterMessage(ErrProcessInfo, "Failed to read process table")
}
