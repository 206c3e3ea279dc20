package wind

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// RefreshState is the terminal state of a refresh invocation.
type RefreshState string

const (
	// StateUpToDate means the cache already covered the present moment and
	// the fetcher was not invoked.
	StateUpToDate RefreshState = "up_to_date"

	// StatePersisted means the fetch ran and the merged result was saved.
	StatePersisted RefreshState = "persisted"
)

// Warning describes a sub-window whose data could not be fetched. The rows
// for that window are absent from the merge; nothing is retried.
type Warning struct {
	Window  Window `json:"window"`
	Message string `json:"message"`
}

// RefreshResult reports what a refresh did.
type RefreshResult struct {
	State    RefreshState `json:"state"`
	Added    int          `json:"added"`
	Total    int          `json:"total"`
	Partial  bool         `json:"partial"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// ServiceConfig carries the tunables of the refresh service. Zero values
// fall back to the defaults the upstream APIs expect.
type ServiceConfig struct {
	Location Location

	// Epoch is the window start used when the cache is empty.
	Epoch time.Time

	// Step is the cache granularity; the resolved window starts one step
	// after the newest cached row. Defaults to one hour.
	Step time.Duration

	// MaxSpan caps the length of a single upstream request. Defaults to
	// 30 days, the observed Visual Crossing timeline limit.
	MaxSpan time.Duration

	// RequestDelay is the fixed pause between consecutive sub-window
	// requests, a rate-limiting courtesy to the upstream API.
	RequestDelay time.Duration

	// Now is overridable for tests.
	Now func() time.Time
}

// Service owns the resolve → fetch → merge → persist sequence. It has no
// dependency on the HTTP layer or the scheduler; both only invoke Refresh
// and read the store through the accessors below.
type Service struct {
	store    HistoryStore
	provider Provider
	cfg      ServiceConfig

	// Serializes scheduler-triggered and handler-triggered refreshes of
	// the single shared cache.
	mu sync.Mutex
}

// NewService creates a refresh service over the given store and provider.
func NewService(store HistoryStore, provider Provider, cfg ServiceConfig) *Service {
	if cfg.Step <= 0 {
		cfg.Step = time.Hour
	}
	if cfg.MaxSpan <= 0 {
		cfg.MaxSpan = 30 * 24 * time.Hour
	}
	if cfg.Epoch.IsZero() {
		cfg.Epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		store:    store,
		provider: provider,
		cfg:      cfg,
	}
}

// Refresh brings the cache up to date: it resolves the missing window,
// fetches it in sequential capped sub-windows, merges the normalized rows
// into the existing history and persists the superset.
//
// A failed sub-window is reported as a warning and its rows are absent from
// the merge; successful sub-windows are still committed (partial failure is
// not an error). A missing credential aborts before any network call and
// leaves the cache untouched.
func (s *Service) Refresh(ctx context.Context) (RefreshResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.Load()
	if err != nil {
		return RefreshResult{}, fmt.Errorf("load history: %w", err)
	}

	var last time.Time
	if len(existing) > 0 {
		last = existing[len(existing)-1].Time
	}

	window, ok := ResolveWindow(last, s.cfg.Now(), s.cfg.Epoch, s.cfg.Step)
	if !ok {
		return RefreshResult{State: StateUpToDate, Total: len(existing)}, nil
	}

	subs := SplitWindow(window, s.cfg.MaxSpan, s.cfg.Step)
	log.Printf("INFO: refreshing %s: window %s..%s in %d request(s)",
		s.cfg.Location.Key(), window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339), len(subs))

	var (
		fetched  []Observation
		warnings []Warning
	)

	for i, sub := range subs {
		if i > 0 && s.cfg.RequestDelay > 0 {
			if err := sleepCtx(ctx, s.cfg.RequestDelay); err != nil {
				warnings = append(warnings, Warning{Window: sub, Message: err.Error()})
				break
			}
		}

		obs, err := s.provider.FetchRange(ctx, s.cfg.Location, sub)
		if err != nil {
			if errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrInvalidRange) {
				return RefreshResult{}, err
			}
			log.Printf("provider %s fetch failed for %s..%s: %v",
				s.provider.Name(), sub.Start.Format(time.RFC3339), sub.End.Format(time.RFC3339), err)
			warnings = append(warnings, Warning{Window: sub, Message: err.Error()})
			continue
		}
		fetched = append(fetched, obs...)
	}

	if len(fetched) == 0 && len(warnings) == 0 {
		warnings = append(warnings, Warning{Window: window, Message: "no new observations in window"})
	}

	merged := MergeObservations(existing, fetched)
	if err := s.store.Save(merged); err != nil {
		return RefreshResult{}, fmt.Errorf("save history: %w", err)
	}

	return RefreshResult{
		State:    StatePersisted,
		Added:    len(merged) - len(existing),
		Total:    len(merged),
		Partial:  len(warnings) > 0,
		Warnings: warnings,
	}, nil
}

// All returns the full cached history.
func (s *Service) All() ([]Observation, error) {
	return s.store.Load()
}

// Latest returns the most recent cached observation.
func (s *Service) Latest() (Observation, error) {
	obs, err := s.store.Load()
	if err != nil {
		return Observation{}, err
	}
	if len(obs) == 0 {
		return Observation{}, ErrNoData
	}
	return obs[len(obs)-1], nil
}

// Range returns cached observations between from and to (inclusive).
func (s *Service) Range(from, to time.Time) ([]Observation, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	obs, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	var result []Observation
	for _, o := range obs {
		if !o.Time.Before(from) && !o.Time.After(to) {
			result = append(result, o)
		}
	}
	return result, nil
}

// Location returns the location this service tracks.
func (s *Service) Location() Location {
	return s.cfg.Location
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
