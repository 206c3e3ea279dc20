package wind

import (
	"testing"
	"time"
)

func obsAt(ts time.Time, speed float64) Observation {
	return NewObservation(ts, speed, 180)
}

func TestMergeObservationsDropsBoundaryDuplicates(t *testing.T) {
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	existing := []Observation{
		obsAt(base, 3),
		obsAt(base.Add(time.Hour), 4),
	}
	incoming := []Observation{
		obsAt(base.Add(time.Hour), 99), // boundary overlap with the last cached row
		obsAt(base.Add(2*time.Hour), 5),
		obsAt(base.Add(3*time.Hour), 6),
	}

	merged := MergeObservations(existing, incoming)
	if len(merged) != 4 {
		t.Fatalf("got %d rows, want 4", len(merged))
	}

	// First occurrence wins on duplicate timestamps.
	if merged[1].SpeedMS != 4 {
		t.Errorf("duplicate timestamp kept the wrong row: speed = %v, want 4", merged[1].SpeedMS)
	}

	for i := 1; i < len(merged); i++ {
		if !merged[i].Time.After(merged[i-1].Time) {
			t.Fatalf("timestamps not strictly increasing at index %d: %v then %v",
				i, merged[i-1].Time, merged[i].Time)
		}
	}
}

func TestMergeObservationsEmptyExisting(t *testing.T) {
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	incoming := []Observation{obsAt(base, 1), obsAt(base.Add(time.Hour), 2)}

	merged := MergeObservations(nil, incoming)
	if len(merged) != 2 {
		t.Fatalf("got %d rows, want 2", len(merged))
	}
}
