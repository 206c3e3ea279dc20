package forecast

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/aruizh/wind-history/internal/wind"
)

// DefaultWindow is how many trailing observations the fit consumes.
const DefaultWindow = 24

// ErrInsufficientHistory is returned when the cache holds fewer rows than
// the fit window.
var ErrInsufficientHistory = errors.New("not enough history for a forecast")

// PointForecast is a single extrapolated observation one step past the end
// of the history.
type PointForecast struct {
	Time         time.Time     `json:"time"`
	SpeedMS      float64       `json:"speedMs"`
	DirectionDeg float64       `json:"directionDeg"`
	Cardinal     wind.Cardinal `json:"cardinal"`
}

// Predict fits least-squares trends over the trailing window of speed and
// direction and extrapolates one step. Stateless: it consumes the history
// read-only and has no influence on cache correctness.
func Predict(history []wind.Observation, window int) (PointForecast, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(history) < window {
		return PointForecast{}, ErrInsufficientHistory
	}

	tail := history[len(history)-window:]
	xs := make([]float64, window)
	speeds := make([]float64, window)
	dirs := make([]float64, window)
	for i, o := range tail {
		xs[i] = float64(i)
		speeds[i] = o.SpeedMS
		dirs[i] = o.DirectionDeg
	}

	speed := extrapolate(xs, speeds, float64(window))
	if speed < 0 {
		speed = 0
	}
	deg := wind.NormalizeDegrees(extrapolate(xs, dirs, float64(window)))

	return PointForecast{
		Time:         tail[window-1].Time.Add(step(tail)),
		SpeedMS:      speed,
		DirectionDeg: deg,
		Cardinal:     wind.DegreesToCardinal(deg),
	}, nil
}

func extrapolate(xs, ys []float64, x float64) float64 {
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return alpha + beta*x
}

// step infers the series granularity from the last two points, defaulting
// to one hour.
func step(obs []wind.Observation) time.Duration {
	if len(obs) < 2 {
		return time.Hour
	}
	d := obs[len(obs)-1].Time.Sub(obs[len(obs)-2].Time)
	if d <= 0 {
		return time.Hour
	}
	return d
}
