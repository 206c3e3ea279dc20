package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/aruizh/wind-history/internal/wind"
)

// VisualCrossingProvider fetches hourly history from the Visual Crossing
// timeline API. Requests use unitGroup=metric, under which wind speeds
// arrive in km/h; they are converted to m/s at ingestion.
type VisualCrossingProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewVisualCrossingProvider(client *http.Client, apiKey string) *VisualCrossingProvider {
	return &VisualCrossingProvider{
		name:    "visualcrossing",
		apiKey:  apiKey,
		baseURL: "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline",
		client:  client,
		circuit: newBreaker("visualcrossing"),
	}
}

func (p *VisualCrossingProvider) Name() string {
	return p.name
}

func (p *VisualCrossingProvider) FetchRange(ctx context.Context, loc wind.Location, w wind.Window) ([]wind.Observation, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("visualcrossing: %w", wind.ErrMissingCredential)
	}
	if loc.Lat == nil || loc.Lon == nil {
		return nil, fmt.Errorf("visualcrossing requires latitude and longitude")
	}
	if w.End.Before(w.Start) {
		return nil, fmt.Errorf("visualcrossing: %w", wind.ErrInvalidRange)
	}

	values := url.Values{}
	values.Set("unitGroup", "metric")
	values.Set("include", "hours")
	values.Set("key", p.apiKey)
	values.Set("contentType", "json")

	u := fmt.Sprintf("%s/%s,%s/%s/%s?%s",
		p.baseURL,
		strconv.FormatFloat(*loc.Lat, 'f', -1, 64),
		strconv.FormatFloat(*loc.Lon, 'f', -1, 64),
		w.Start.Format("2006-01-02"),
		w.End.Format("2006-01-02"),
		values.Encode(),
	)
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := doRequest(ctx, p.name, p.client, p.circuit, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Days []struct {
			Datetime string `json:"datetime"`
			Hours    []struct {
				Datetime   string   `json:"datetime"`
				WindSpeed  *float64 `json:"windspeed"`
				WindDir    *float64 `json:"winddir"`
				Temp       *float64 `json:"temp"`
				Pressure   *float64 `json:"pressure"`
				Humidity   *float64 `json:"humidity"`
				WindGust   *float64 `json:"windgust"`
				CloudCover *float64 `json:"cloudcover"`
			} `json:"hours"`
		} `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("visualcrossing: decode response: %w", err)
	}

	var records []wind.Observation
	for _, day := range payload.Days {
		for _, hour := range day.Hours {
			ts, err := time.Parse("2006-01-02T15:04:05", day.Datetime+"T"+hour.Datetime)
			if err != nil {
				// Malformed hour record; drop it.
				continue
			}
			if hour.WindSpeed == nil || hour.WindDir == nil {
				continue
			}

			obs := wind.NewObservation(ts.UTC(), kphToMS(*hour.WindSpeed), *hour.WindDir)
			obs.TemperatureC = hour.Temp
			obs.PressureHpa = hour.Pressure
			obs.HumidityPct = hour.Humidity
			if hour.WindGust != nil {
				gust := kphToMS(*hour.WindGust)
				obs.WindGustMS = &gust
			}
			obs.CloudCoverPct = hour.CloudCover
			records = append(records, obs)
		}
	}
	return records, nil
}

func kphToMS(kph float64) float64 {
	return kph / 3.6
}
