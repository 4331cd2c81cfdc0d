package money

import "math"

// Round2 rounds a monetary amount to two decimal places, half up.
// Every pricing sub-computation rounds through here so totals never
// accumulate floating drift.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// PointsFor converts a settled order total into loyalty points:
// one point per whole currency unit.
func PointsFor(total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(total))
}
