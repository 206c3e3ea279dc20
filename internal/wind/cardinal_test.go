package wind

import "testing"

func TestDegreesToCardinalPoints(t *testing.T) {
	cases := []struct {
		deg  float64
		want Cardinal
	}{
		{0, CardinalN},
		{45, CardinalNE},
		{90, CardinalE},
		{135, CardinalSE},
		{180, CardinalS},
		{225, CardinalSW},
		{270, CardinalW},
		{315, CardinalNW},
		{22.4, CardinalN},
		{22.6, CardinalNE},
		{359.9, CardinalN},
	}
	for _, tc := range cases {
		if got := DegreesToCardinal(tc.deg); got != tc.want {
			t.Errorf("DegreesToCardinal(%v) = %s, want %s", tc.deg, got, tc.want)
		}
	}
}

func TestDegreesToCardinalPeriodicity(t *testing.T) {
	for _, deg := range []float64{0, 10, 22.5, 90, 180.5, 359} {
		base := DegreesToCardinal(deg)
		for _, k := range []float64{-2, -1, 1, 3} {
			if got := DegreesToCardinal(deg + 360*k); got != base {
				t.Errorf("DegreesToCardinal(%v + 360*%v) = %s, want %s", deg, k, got, base)
			}
		}
	}
}

func TestDegreesToCardinalNegative(t *testing.T) {
	if got := DegreesToCardinal(-90); got != CardinalW {
		t.Errorf("DegreesToCardinal(-90) = %s, want W", got)
	}
	if got := DegreesToCardinal(-45); got != CardinalNW {
		t.Errorf("DegreesToCardinal(-45) = %s, want NW", got)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{361, 1},
		{-1, 359},
		{720.5, 0.5},
	}
	for _, tc := range cases {
		if got := NormalizeDegrees(tc.in); got != tc.want {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
