package telemetry

import "codeberg.org/mutker/loopfetch/internal/errors"

const (
	ErrSampleFailed  = errors.ErrorCode("telemetry_sample_failed")
	ErrSamplerClose  = errors.ErrorCode("telemetry_sampler_close_failed")
	ErrNoSamplers    = errors.ErrorCode("telemetry_no_samplers")
	ErrInvalidSample = errors.ErrorCode("telemetry_invalid_sample")
)

func init() {
	errors.RegisterMessage(ErrSampleFailed, "Failed to sample telemetry")
	errors.RegisterMessage(ErrSamplerClose, "Failed to close telemetry sampler")
	errors.RegisterMessage(ErrNoSamplers, "No telemetry samplers configured")
	errors.RegisterMessage(ErrInvalidSample, "Invalid telemetry sample")
}
