package wind

import "time"

// ResolveWindow computes the minimal window needed to bring a cache whose
// newest timestamp is last (zero if the cache is empty) up to now.
//
// An empty cache resolves to [epoch, now]. A non-empty cache resolves to
// [last + step, now]; the step offset guarantees no overlap with the last
// stored row. The second return value is false when the cache is already
// current and the fetcher must not run.
func ResolveWindow(last, now, epoch time.Time, step time.Duration) (Window, bool) {
	start := epoch
	if !last.IsZero() {
		start = last.Add(step)
	}
	if start.After(now) {
		return Window{}, false
	}
	return Window{Start: start, End: now}, true
}

// SplitWindow splits a window into consecutive, non-overlapping sub-windows
// each no longer than maxSpan, in chronological order. Sub-windows are
// inclusive on both ends; each one starts step after the previous end.
func SplitWindow(w Window, maxSpan, step time.Duration) []Window {
	var subs []Window
	start := w.Start
	for !start.After(w.End) {
		end := start.Add(maxSpan)
		if end.After(w.End) {
			end = w.End
		}
		subs = append(subs, Window{Start: start, End: end})
		start = end.Add(step)
	}
	return subs
}
