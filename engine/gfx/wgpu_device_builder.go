package gfx

// WGPUDeviceBuilderOption is a functional option for configuring the WebGPU device.
type WGPUDeviceBuilderOption func(*wgpuDevice)

// WithSampleCount sets the MSAA sample count of the main render pass.
//
// Parameters:
//   - count: the sample count
//
// Returns:
//   - WGPUDeviceBuilderOption: functional option to set the sample count
func WithSampleCount(count MSAASampleCount) WGPUDeviceBuilderOption {
	return func(d *wgpuDevice) {
		switch count {
		case MSAAOff, MSAA4x, MSAA8x, MSAA16x:
			d.sampleCount = count
		}
	}
}

// WithPresentMode sets how frames are presented.
//
// Parameters:
//   - mode: VSync or Uncapped
//
// Returns:
//   - WGPUDeviceBuilderOption: functional option to set the present mode
func WithPresentMode(mode PresentMode) WGPUDeviceBuilderOption {
	return func(d *wgpuDevice) {
		d.presentMode = mode
	}
}

// WithForceFallbackAdapter requests the software adapter.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - WGPUDeviceBuilderOption: functional option to force the fallback adapter
func WithForceFallbackAdapter(force bool) WGPUDeviceBuilderOption {
	return func(d *wgpuDevice) {
		d.forceFallbackAdapter = force
	}
}
