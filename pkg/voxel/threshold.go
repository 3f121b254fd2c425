package voxel

import "fmt"

// Default threshold windows per bit depth. The 8-bit window selects the
// upper half of the intensity range; the 16-bit values are the standard
// bone window for calibrated CT stacks.
const (
	DefaultMinThreshold8  = 128
	DefaultMaxThreshold8  = 255
	DefaultMinThreshold16 = 2424
	DefaultMaxThreshold16 = 11215
)

// RangeError reports a threshold range that violates 0 <= Min <= Max <= Bound.
type RangeError struct {
	Min   int
	Max   int
	Bound int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid threshold range [%d, %d]: bounds must satisfy 0 <= min <= max <= %d",
		e.Min, e.Max, e.Bound)
}

// ThresholdRange is an inclusive intensity window. A voxel is foreground
// when Min <= intensity <= Max.
type ThresholdRange struct {
	Min int
	Max int
}

// NewThresholdRange validates min and max against the type bound of the
// source grid (255 for 8-bit, 65535 for 16-bit) and returns the range.
// Violations fail with a *RangeError before any pipeline state is touched.
func NewThresholdRange(min, max, bound int) (ThresholdRange, error) {
	if min < 0 || max < 0 || min > max || min > bound || max > bound {
		return ThresholdRange{}, &RangeError{Min: min, Max: max, Bound: bound}
	}
	return ThresholdRange{Min: min, Max: max}, nil
}

// DefaultThresholds returns the type-specific default window for a bit
// depth. Hosts should re-derive thresholds with this whenever the active
// volume's pixel type changes.
func DefaultThresholds(bitDepth int) ThresholdRange {
	if bitDepth == BitDepth16 {
		return ThresholdRange{Min: DefaultMinThreshold16, Max: DefaultMaxThreshold16}
	}
	return ThresholdRange{Min: DefaultMinThreshold8, Max: DefaultMaxThreshold8}
}

// Contains reports whether an intensity falls inside the window.
func (t ThresholdRange) Contains(value uint16) bool {
	v := int(value)
	return v >= t.Min && v <= t.Max
}
