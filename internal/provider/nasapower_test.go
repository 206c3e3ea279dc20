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

const powerSampleResponse = `{
	"properties": {
		"parameter": {
			"WS10M": {"2025020100": 5.0, "2025020101": -999.0, "2025020102": 6.5},
			"WD10M": {"2025020100": 200.0, "2025020101": 210.0, "2025020102": -999.0},
			"T2M":   {"2025020100": 18.2, "2025020101": 17.9, "2025020102": -999.0}
		}
	}
}`

func TestNASAPowerFetchRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("community"); got != "RE" {
			t.Errorf("community = %q, want RE", got)
		}
		if got := q.Get("parameters"); got != "WS10M,WD10M,T2M" {
			t.Errorf("parameters = %q", got)
		}
		if got := q.Get("start"); got != "20250201" {
			t.Errorf("start = %q, want 20250201", got)
		}
		w.Write([]byte(powerSampleResponse))
	}))
	defer srv.Close()

	p := NewNASAPowerProvider(srv.Client(), []string{"WS10M", "WD10M", "T2M"})
	p.baseURL = srv.URL

	obs, err := p.FetchRange(context.Background(), testLocation(), testWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Hours with the -999 fill value in speed or direction are dropped.
	if len(obs) != 1 {
		t.Fatalf("got %d observations, want 1", len(obs))
	}

	want := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if !obs[0].Time.Equal(want) {
		t.Errorf("timestamp = %v, want %v", obs[0].Time, want)
	}
	if obs[0].SpeedMS != 5 || obs[0].DirectionDeg != 200 {
		t.Errorf("observation = %+v", obs[0])
	}
	if obs[0].Cardinal != wind.CardinalS {
		t.Errorf("cardinal = %s, want S", obs[0].Cardinal)
	}
	if obs[0].TemperatureC == nil || *obs[0].TemperatureC != 18.2 {
		t.Errorf("temperature not carried through: %v", obs[0].TemperatureC)
	}
}

func TestNASAPowerEmptyVariableSelection(t *testing.T) {
	p := NewNASAPowerProvider(http.DefaultClient, nil)

	_, err := p.FetchRange(context.Background(), testLocation(), testWindow())
	if !errors.Is(err, wind.ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestNASAPowerMissingWindSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"properties": {"parameter": {"T2M": {"2025020100": 18.2}}}}`))
	}))
	defer srv.Close()

	p := NewNASAPowerProvider(srv.Client(), []string{"T2M"})
	p.baseURL = srv.URL

	obs, err := p.FetchRange(context.Background(), testLocation(), testWindow())
	if err != nil {
		t.Fatalf("missing wind series is no data, not an error: %v", err)
	}
	if len(obs) != 0 {
		t.Fatalf("got %d observations, want 0", len(obs))
	}
}

func TestNASAPowerTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	p := NewNASAPowerProvider(http.DefaultClient, []string{"WS10M", "WD10M"})
	p.baseURL = srv.URL

	_, err := p.FetchRange(context.Background(), testLocation(), testWindow())
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
}
