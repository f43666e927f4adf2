package gfx

import "fmt"

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4; 8 and 16 are adapter-dependent.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
	MSAA8x  MSAASampleCount = 8
	MSAA16x MSAASampleCount = 16
)

// SampleCountForLevel maps a multisampling level from configuration to a sample count.
// Level 0 is off; 1, 2 and 3 select 4x, 8x and 16x.
//
// Parameters:
//   - level: the multisampling level in [0, 3]
//
// Returns:
//   - MSAASampleCount: the sample count
//   - error: error if the level is out of range
func SampleCountForLevel(level int) (MSAASampleCount, error) {
	switch level {
	case 0:
		return MSAAOff, nil
	case 1:
		return MSAA4x, nil
	case 2:
		return MSAA8x, nil
	case 3:
		return MSAA16x, nil
	}
	return MSAAOff, fmt.Errorf("multisampling level %d out of range [0, 3]", level)
}
