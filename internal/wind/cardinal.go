package wind

import "math"

var cardinals = [8]Cardinal{
	CardinalN, CardinalNE, CardinalE, CardinalSE,
	CardinalS, CardinalSW, CardinalW, CardinalNW,
}

// NormalizeDegrees maps any real bearing into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// DegreesToCardinal maps a bearing in degrees to one of 8 compass points.
// The circle is divided into 8 equal 45° sectors centered on N, NE, E, ...
// with sector boundaries at 22.5° offsets. Total over all reals.
func DegreesToCardinal(deg float64) Cardinal {
	d := NormalizeDegrees(deg)
	return cardinals[int((d+22.5)/45)%8]
}
