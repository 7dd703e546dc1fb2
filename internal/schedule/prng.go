package schedule

import "time"

// mulberry32 is a 32-bit seeded PRNG. The update rule must stay bit-for-bit
// identical to the reference algorithm: guide reproducibility across versions
// and language ports depends on the exact operation order, the wraparound
// width, and the multiplicative constants.
type mulberry32 struct {
	state uint32
}

const mulberry32Increment = 0x6D2B79F5

func newMulberry32(seed int32) *mulberry32 {
	return &mulberry32{state: uint32(seed)}
}

// Next advances the generator and returns a value in [0, 1)
func (m *mulberry32) Next() float64 {
	m.state += mulberry32Increment
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / (1 << 32)
}

// Shuffle returns a seeded Fisher-Yates permutation of items. Identical
// inputs always yield an identical order. The input slice is not modified.
func Shuffle(items []Item, seed int32) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	rng := newMulberry32(seed)
	for i := len(out) - 1; i >= 1; i-- {
		j := int(rng.Next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// orderFor computes the item order for one broadcast day: identity for
// sequential, the base seed mixed with the date key for shuffle, and the base
// seed alone for random. cfg.Seed always holds the base seed, so resolving the
// same day twice yields the same order.
func orderFor(cfg Config, day time.Time, loc *time.Location) []Item {
	switch cfg.Mode {
	case ModeShuffle:
		return Shuffle(cfg.Items, DailySeed(cfg.Seed, day, loc))
	case ModeRandom:
		return Shuffle(cfg.Items, cfg.Seed)
	default:
		return cfg.Items
	}
}
