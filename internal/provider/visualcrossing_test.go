package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aruizh/wind-history/internal/wind"
)

const vcSampleResponse = `{
	"days": [
		{
			"datetime": "2025-02-01",
			"hours": [
				{"datetime": "00:00:00", "windspeed": 18.0, "winddir": 90.0, "temp": 21.5, "humidity": 80.0},
				{"datetime": "01:00:00", "windspeed": 10.8, "winddir": 400.0},
				{"datetime": "02:00:00", "winddir": 45.0},
				{"datetime": "03:00:00", "windspeed": 7.2}
			]
		}
	]
}`

func testLocation() wind.Location {
	lat, lon := 22.4, -97.92
	return wind.Location{Lat: &lat, Lon: &lon}
}

func testWindow() wind.Window {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	return wind.Window{Start: start, End: start.Add(24 * time.Hour)}
}

func TestVisualCrossingFetchRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("unitGroup"); got != "metric" {
			t.Errorf("unitGroup = %q, want metric", got)
		}
		if got := r.URL.Query().Get("include"); got != "hours" {
			t.Errorf("include = %q, want hours", got)
		}
		w.Write([]byte(vcSampleResponse))
	}))
	defer srv.Close()

	p := NewVisualCrossingProvider(srv.Client(), "test-key")
	p.baseURL = srv.URL

	obs, err := p.FetchRange(context.Background(), testLocation(), testWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Hours missing speed or direction are dropped.
	if len(obs) != 2 {
		t.Fatalf("got %d observations, want 2", len(obs))
	}

	// 18 km/h → 5 m/s at ingestion.
	if obs[0].SpeedMS != 5 {
		t.Errorf("speed = %v m/s, want 5", obs[0].SpeedMS)
	}
	if obs[0].Cardinal != wind.CardinalE {
		t.Errorf("cardinal = %s, want E", obs[0].Cardinal)
	}
	if obs[0].TemperatureC == nil || *obs[0].TemperatureC != 21.5 {
		t.Errorf("temperature not carried through: %v", obs[0].TemperatureC)
	}

	// 400° normalizes into [0, 360).
	if obs[1].DirectionDeg != 40 {
		t.Errorf("direction = %v, want 40", obs[1].DirectionDeg)
	}

	want := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if !obs[0].Time.Equal(want) {
		t.Errorf("timestamp = %v, want %v", obs[0].Time, want)
	}
}

func TestVisualCrossingMissingCredential(t *testing.T) {
	p := NewVisualCrossingProvider(http.DefaultClient, "")

	_, err := p.FetchRange(context.Background(), testLocation(), testWindow())
	if !errors.Is(err, wind.ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
}

func TestVisualCrossingUpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid location parameter value.", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewVisualCrossingProvider(srv.Client(), "test-key")
	p.baseURL = srv.URL

	_, err := p.FetchRange(context.Background(), testLocation(), testWindow())
	var statusErr *UpstreamStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *UpstreamStatusError", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", statusErr.StatusCode)
	}
	if statusErr.Body == "" {
		t.Error("upstream payload not captured")
	}
}

func TestVisualCrossingNoDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"days": []}`))
	}))
	defer srv.Close()

	p := NewVisualCrossingProvider(srv.Client(), "test-key")
	p.baseURL = srv.URL

	obs, err := p.FetchRange(context.Background(), testLocation(), testWindow())
	if err != nil {
		t.Fatalf("a response with no days is no data, not an error: %v", err)
	}
	if len(obs) != 0 {
		t.Fatalf("got %d observations, want 0", len(obs))
	}
}

func TestVisualCrossingInvalidRange(t *testing.T) {
	p := NewVisualCrossingProvider(http.DefaultClient, "test-key")

	w := testWindow()
	w.Start, w.End = w.End, w.Start
	if _, err := p.FetchRange(context.Background(), testLocation(), w); !errors.Is(err, wind.ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}
