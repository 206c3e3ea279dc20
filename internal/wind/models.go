package wind

import (
	"context"
	"time"
)

// Cardinal is one of the 8 compass points derived from a wind bearing.
type Cardinal string

const (
	CardinalN  Cardinal = "N"
	CardinalNE Cardinal = "NE"
	CardinalE  Cardinal = "E"
	CardinalSE Cardinal = "SE"
	CardinalS  Cardinal = "S"
	CardinalSW Cardinal = "SW"
	CardinalW  Cardinal = "W"
	CardinalNW Cardinal = "NW"
)

// Location represents the place for which we track wind history.
// Either Lat/Lon or City/Country must be provided; city-only locations
// are geocoded once at startup.
type Location struct {
	City    string   `json:"city,omitempty"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns a canonical string key for this location.
func (l Location) Key() string {
	return l.City + ":" + l.Country
}

// Observation is one normalized hourly record. Wind speed is always m/s
// regardless of the upstream unit system; direction is always in [0, 360).
type Observation struct {
	Time         time.Time `json:"time"`
	SpeedMS      float64   `json:"speedMs"`
	DirectionDeg float64   `json:"directionDeg"`

	// Optional fields, present depending on the source and variable selection.
	TemperatureC  *float64 `json:"temperatureC,omitempty"`
	PressureHpa   *float64 `json:"pressureHpa,omitempty"`
	HumidityPct   *float64 `json:"humidityPct,omitempty"`
	WindGustMS    *float64 `json:"windGustMs,omitempty"`
	CloudCoverPct *float64 `json:"cloudCoverPct,omitempty"`

	Cardinal Cardinal `json:"cardinal"`
}

// NewObservation builds an observation with the direction normalized into
// [0, 360) and the cardinal derived from it.
func NewObservation(ts time.Time, speedMS, directionDeg float64) Observation {
	deg := NormalizeDegrees(directionDeg)
	return Observation{
		Time:         ts,
		SpeedMS:      speedMS,
		DirectionDeg: deg,
		Cardinal:     DegreesToCardinal(deg),
	}
}

// Window is a contiguous time span, inclusive on both ends.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HistoryStore is the contract the persisted cache must satisfy. Load on a
// cache that does not exist yet returns an empty history, not an error.
// Save overwrites the whole history with the given superset.
type HistoryStore interface {
	Load() ([]Observation, error)
	Save([]Observation) error
}

// Provider abstracts a historical wind data source (e.g. Visual Crossing,
// NASA POWER). FetchRange returns normalized observations for the window,
// in chronological order; records missing speed or direction are dropped.
type Provider interface {
	Name() string
	FetchRange(ctx context.Context, loc Location, w Window) ([]Observation, error)
}
