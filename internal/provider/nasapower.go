package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/aruizh/wind-history/internal/wind"
)

// NASA POWER reports missing hours with this fill value.
const powerFillValue = -999.0

// powerTimeLayout is the YYYYMMDDHH key format of the hourly parameter maps.
const powerTimeLayout = "2006010215"

// NASAPowerProvider fetches hourly history from the NASA POWER temporal
// point API. Wind speed (WS10M) is already m/s; no credential is required.
type NASAPowerProvider struct {
	name      string
	baseURL   string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
	variables []string
}

// NewNASAPowerProvider creates a provider requesting the given POWER
// variable names. WS10M and WD10M are mandatory for a usable history; T2M
// and RH2M map onto the optional observation fields.
func NewNASAPowerProvider(client *http.Client, variables []string) *NASAPowerProvider {
	return &NASAPowerProvider{
		name:      "nasapower",
		baseURL:   "https://power.larc.nasa.gov/api/temporal/hourly/point",
		client:    client,
		circuit:   newBreaker("nasapower"),
		variables: variables,
	}
}

func (p *NASAPowerProvider) Name() string {
	return p.name
}

func (p *NASAPowerProvider) FetchRange(ctx context.Context, loc wind.Location, w wind.Window) ([]wind.Observation, error) {
	if len(p.variables) == 0 {
		return nil, fmt.Errorf("nasapower: empty variable selection: %w", wind.ErrInvalidRange)
	}
	if loc.Lat == nil || loc.Lon == nil {
		return nil, fmt.Errorf("nasapower requires latitude and longitude")
	}
	if w.End.Before(w.Start) {
		return nil, fmt.Errorf("nasapower: %w", wind.ErrInvalidRange)
	}

	values := url.Values{}
	values.Set("parameters", strings.Join(p.variables, ","))
	values.Set("community", "RE")
	values.Set("latitude", strconv.FormatFloat(*loc.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(*loc.Lon, 'f', -1, 64))
	values.Set("start", w.Start.Format("20060102"))
	values.Set("end", w.End.Format("20060102"))
	values.Set("format", "JSON")

	req, err := http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := doRequest(ctx, p.name, p.client, p.circuit, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			Parameter map[string]map[string]float64 `json:"parameter"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("nasapower: decode response: %w", err)
	}

	speeds := payload.Properties.Parameter["WS10M"]
	dirs := payload.Properties.Parameter["WD10M"]
	if len(speeds) == 0 || len(dirs) == 0 {
		// No usable records; the caller reports this as "no data".
		return nil, nil
	}

	keys := make([]string, 0, len(speeds))
	for k := range speeds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var records []wind.Observation
	for _, k := range keys {
		ts, err := time.Parse(powerTimeLayout, k)
		if err != nil {
			continue
		}
		speed := speeds[k]
		dir, ok := dirs[k]
		if !ok || speed == powerFillValue || dir == powerFillValue {
			continue
		}

		obs := wind.NewObservation(ts.UTC(), speed, dir)
		if temp, ok := presentValue(payload.Properties.Parameter, "T2M", k); ok {
			obs.TemperatureC = &temp
		}
		if rh, ok := presentValue(payload.Properties.Parameter, "RH2M", k); ok {
			obs.HumidityPct = &rh
		}
		records = append(records, obs)
	}
	return records, nil
}

func presentValue(params map[string]map[string]float64, name, key string) (float64, bool) {
	series, ok := params[name]
	if !ok {
		return 0, false
	}
	v, ok := series[key]
	if !ok || v == powerFillValue {
		return 0, false
	}
	return v, true
}
