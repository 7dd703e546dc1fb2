package schedule

import (
	"time"
)

// DateKey encodes a calendar date in loc as yyyymmdd. It is the integer the
// daily shuffle seed is mixed with, so it must stay stable across versions.
func DateKey(t time.Time, loc *time.Location) int32 {
	lt := t.In(loc)
	return int32(lt.Year()*10000 + int(lt.Month())*100 + lt.Day())
}

// DailySeed returns the effective shuffle seed for a broadcast day: the
// channel's base seed XORed with the date key. The order differs day to day
// but is fully reproducible for a given date.
func DailySeed(base int32, day time.Time, loc *time.Location) int32 {
	return base ^ DateKey(day, loc)
}

// PhaseOffset derives a deterministic offset in [0, totalDurationMs) from a
// channel's phase seed, staggering channels so they don't all begin their
// loop at local midnight.
func PhaseOffset(phaseSeed int32, totalDurationMs int64) int64 {
	if totalDurationMs <= 0 {
		return 0
	}
	rng := newMulberry32(phaseSeed)
	return int64(rng.Next() * float64(totalDurationMs))
}

// midnightMs returns the epoch milliseconds of local midnight for t's date in loc
func midnightMs(t time.Time, loc *time.Location) int64 {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc).UnixMilli()
}

// totalCatalogDurationMs sums the positive item durations. The sum is
// independent of item order, so the phase offset can be derived before the
// day's shuffle is applied.
func totalCatalogDurationMs(items []Item) int64 {
	var total int64
	for _, item := range items {
		if item.DurationMs > 0 {
			total += item.DurationMs
		}
	}
	return total
}

// ConfigForDay returns the effective config for a broadcast day: anchored at
// local midnight minus the channel's phase offset. The seed is left as the
// base seed; the day's item order is derived from it when the index is built,
// so resolving an already resolved config for the same or a later day never
// compounds the mixing.
func ConfigForDay(base Config, day time.Time, loc *time.Location) Config {
	cfg := base
	total := totalCatalogDurationMs(base.Items)
	cfg.AnchorMs = midnightMs(day, loc) - PhaseOffset(base.PhaseSeed, total)
	return cfg
}
