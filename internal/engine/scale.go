package engine

import "math"

// Scale maps a normalized 0-100 setting onto an engine's native range.
// The curve is quadratic, not linear: low settings keep fine resolution
// where human rate perception is densest, so a stored 50 lands below the
// native midpoint. Values outside 0-100 are clamped.
func Scale(value, min, max int) int {
	f := float64(clamp(value)) / 100
	return min + int(math.Round(f*f*float64(max-min)))
}

// ScaleRate maps the speed setting, doubling the upper half of the range
// when the engine supports rate boost.
func ScaleRate(value, min, max int, boost bool) int {
	native := Scale(value, min, max)
	if boost && value > 50 {
		boosted := native * 2
		if boosted > max {
			boosted = max
		}
		return boosted
	}
	return native
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
