package convert

import "math"

// roundTiesToEven implements the rounding convention used for all
// frequency arithmetic, so conversions are byte-identical across
// platforms regardless of the host FPU's default rounding mode.
func roundTiesToEven(x float64) int64 {
	floor := math.Floor(x)
	diff := x - floor
	switch {
	case diff < 0.5:
		return int64(floor)
	case diff > 0.5:
		return int64(floor) + 1
	default:
		// Exactly .5: round to the even neighbour.
		if int64(floor)%2 == 0 {
			return int64(floor)
		}
		return int64(floor) + 1
	}
}

// centsError returns the signed pitch error, in cents, of actual relative
// to desired.
func centsError(actual, desired float64) float64 {
	if actual <= 0 || desired <= 0 {
		return math.Inf(1)
	}
	return 1200 * math.Log2(actual/desired)
}
