package engine

import "testing"

func TestScaleEndpoints(t *testing.T) {
	if got := Scale(0, 80, 450); got != 80 {
		t.Fatalf("Scale(0) = %d, want native minimum", got)
	}
	if got := Scale(100, 80, 450); got != 450 {
		t.Fatalf("Scale(100) = %d, want native maximum", got)
	}
}

func TestScaleBelowMidpoint(t *testing.T) {
	// The curve is quadratic: a normalized 50 lands below the linear middle
	// of the native range.
	linearMid := 80 + (450-80)/2
	if got := Scale(50, 80, 450); got >= linearMid {
		t.Fatalf("Scale(50) = %d, expected below linear midpoint %d", got, linearMid)
	}
}

func TestScaleMonotonic(t *testing.T) {
	prev := Scale(0, 0, 99)
	for v := 1; v <= 100; v++ {
		cur := Scale(v, 0, 99)
		if cur < prev {
			t.Fatalf("Scale not monotonic at %d: %d < %d", v, cur, prev)
		}
		prev = cur
	}
}

func TestScaleClampsInput(t *testing.T) {
	if got := Scale(-20, 80, 450); got != 80 {
		t.Fatalf("Scale(-20) = %d, want clamped minimum", got)
	}
	if got := Scale(250, 80, 450); got != 450 {
		t.Fatalf("Scale(250) = %d, want clamped maximum", got)
	}
}

func TestScaleRateBoost(t *testing.T) {
	base := Scale(60, 80, 450)
	boosted := ScaleRate(60, 80, 450, true)
	if boosted != base*2 && boosted != 450 {
		t.Fatalf("ScaleRate(60, boost) = %d, want doubled or capped", boosted)
	}
	if got := ScaleRate(60, 80, 450, false); got != base {
		t.Fatalf("ScaleRate without boost = %d, want %d", got, base)
	}
	// Boost only applies to the upper half of the normalized range.
	if got := ScaleRate(40, 80, 450, true); got != Scale(40, 80, 450) {
		t.Fatalf("ScaleRate(40, boost) = %d, want unboosted", got)
	}
}

func TestScaleRateBoostCappedAtMax(t *testing.T) {
	if got := ScaleRate(100, 80, 450, true); got != 450 {
		t.Fatalf("ScaleRate(100, boost) = %d, want native maximum", got)
	}
}
