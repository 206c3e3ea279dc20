package wind

// Summary aggregates a history into the figures the dashboard charts show:
// a cardinal-direction histogram and basic speed statistics.
type Summary struct {
	Count       int              `json:"count"`
	MeanSpeedMS float64          `json:"meanSpeedMs"`
	MaxSpeedMS  float64          `json:"maxSpeedMs"`
	Cardinals   map[Cardinal]int `json:"cardinals"`
}

// Summarize computes a Summary over the given observations.
func Summarize(obs []Observation) Summary {
	s := Summary{Cardinals: make(map[Cardinal]int)}
	if len(obs) == 0 {
		return s
	}

	var sum float64
	for _, o := range obs {
		sum += o.SpeedMS
		if o.SpeedMS > s.MaxSpeedMS {
			s.MaxSpeedMS = o.SpeedMS
		}
		s.Cardinals[o.Cardinal]++
	}
	s.Count = len(obs)
	s.MeanSpeedMS = sum / float64(len(obs))
	return s
}
