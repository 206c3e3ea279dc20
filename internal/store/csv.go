package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aruizh/wind-history/internal/wind"
)

// csvHeader is the fixed cache schema. The column set and units are fixed
// for the lifetime of a given cache file; mixing schemas corrupts
// downstream consumers.
var csvHeader = []string{
	"time", "speed_ms", "direction_deg",
	"temperature_c", "pressure_hpa", "humidity_pct", "wind_gust_ms", "cloud_cover_pct",
	"cardinal",
}

// FileStore persists the history as a flat CSV file. Save rewrites the full
// superset via a temp file and rename; Load on a missing file returns an
// empty history.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]wind.Observation, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	obs := make([]wind.Observation, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("history file row has %d columns, want %d", len(rec), len(csvHeader))
		}
		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("parse history timestamp %q: %w", rec[0], err)
		}
		speed, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse history speed %q: %w", rec[1], err)
		}
		dir, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parse history direction %q: %w", rec[2], err)
		}

		o := wind.NewObservation(ts, speed, dir)
		o.TemperatureC = parseOptional(rec[3])
		o.PressureHpa = parseOptional(rec[4])
		o.HumidityPct = parseOptional(rec[5])
		o.WindGustMS = parseOptional(rec[6])
		o.CloudCoverPct = parseOptional(rec[7])
		obs = append(obs, o)
	}
	return obs, nil
}

func (s *FileStore) Save(obs []wind.Observation) error {
	data, err := MarshalCSV(obs)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize history file: %w", err)
	}
	return nil
}

// MarshalCSV renders observations in the cache file schema. Also used by
// the export endpoint to produce downloadable artifacts.
func MarshalCSV(obs []wind.Observation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, o := range obs {
		rec := []string{
			o.Time.UTC().Format(time.RFC3339),
			formatFloat(o.SpeedMS),
			formatFloat(o.DirectionDeg),
			formatOptional(o.TemperatureC),
			formatOptional(o.PressureHpa),
			formatOptional(o.HumidityPct),
			formatOptional(o.WindGustMS),
			formatOptional(o.CloudCoverPct),
			string(o.Cardinal),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func parseOptional(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
