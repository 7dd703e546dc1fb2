package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a catalog of n items with the given durations
func makeItems(durations ...int64) []Item {
	items := make([]Item, 0, len(durations))
	for i, d := range durations {
		items = append(items, Item{
			ID:         string(rune('a' + i)),
			Type:       "video",
			Title:      "Item " + string(rune('A'+i)),
			DurationMs: d,
		})
	}
	return items
}

func TestMulberry32_KnownOutputs(t *testing.T) {
	// Pinned outputs of the reference generator. Every numerator is an exact
	// uint32 over a power-of-two denominator, so the float64 results carry no
	// rounding and must match exactly. A failure here means the update rule
	// drifted and schedules no longer reproduce across ports.
	rng := newMulberry32(0)
	assert.Equal(t, 0.26642920868471265, rng.Next())
	assert.Equal(t, 0.0003297457005828619, rng.Next())

	rng = newMulberry32(12345)
	assert.Equal(t, 0.97972826776094735, rng.Next())
}

func TestMulberry32_Deterministic(t *testing.T) {
	a := newMulberry32(12345)
	b := newMulberry32(12345)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next(), "sequence diverged at draw %d", i)
	}
}

func TestMulberry32_RangeZeroOne(t *testing.T) {
	rng := newMulberry32(-987654321)

	for i := 0; i < 1000; i++ {
		v := rng.Next()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestMulberry32_SeedsDiffer(t *testing.T) {
	a := newMulberry32(1)
	b := newMulberry32(2)

	// A single draw could collide in theory; ten in a row cannot
	same := true
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds produced identical sequences")
}

func TestMulberry32_NegativeSeed(t *testing.T) {
	// Negative seeds reinterpret as uint32 and must not panic or degenerate
	rng := newMulberry32(-1)
	v := rng.Next()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

func TestShuffle_Deterministic(t *testing.T) {
	items := makeItems(1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000)

	first := Shuffle(items, 42)
	second := Shuffle(items, 42)

	assert.Equal(t, first, second)
}

func TestShuffle_IsPermutation(t *testing.T) {
	items := makeItems(1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000)

	shuffled := Shuffle(items, 7)
	require.Len(t, shuffled, len(items))

	seen := make(map[string]int)
	for _, item := range shuffled {
		seen[item.ID]++
	}
	for _, item := range items {
		assert.Equal(t, 1, seen[item.ID], "item %s lost or duplicated", item.ID)
	}
}

func TestShuffle_DoesNotMutateInput(t *testing.T) {
	items := makeItems(1000, 2000, 3000, 4000)
	original := make([]Item, len(items))
	copy(original, items)

	Shuffle(items, 99)

	assert.Equal(t, original, items)
}

func TestShuffle_DifferentSeedsDifferentOrder(t *testing.T) {
	// Large enough catalog that two seeds matching is effectively impossible
	durations := make([]int64, 32)
	for i := range durations {
		durations[i] = int64(i+1) * 1000
	}
	items := makeItems(durations...)

	a := Shuffle(items, 1)
	b := Shuffle(items, 2)

	assert.NotEqual(t, a, b)
}

func TestShuffle_EmptyAndSingle(t *testing.T) {
	assert.Empty(t, Shuffle(nil, 5))

	single := makeItems(1000)
	assert.Equal(t, single, Shuffle(single, 5))
}

func TestOrderFor_SequentialKeepsOrder(t *testing.T) {
	items := makeItems(1000, 2000, 3000)
	cfg := Config{Items: items, Mode: ModeSequential, Seed: 42}
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, items, orderFor(cfg, day, time.UTC))
}

func TestOrderFor_ShuffleMixesDate(t *testing.T) {
	items := makeItems(1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000)
	cfg := Config{Items: items, Mode: ModeShuffle, Seed: 42}

	day1 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	assert.Equal(t, Shuffle(items, DailySeed(42, day1, time.UTC)), orderFor(cfg, day1, time.UTC))
	assert.NotEqual(t, orderFor(cfg, day1, time.UTC), orderFor(cfg, day2, time.UTC))
}

func TestOrderFor_RandomKeepsBaseSeed(t *testing.T) {
	items := makeItems(1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000)
	cfg := Config{Items: items, Mode: ModeRandom, Seed: 42}

	day1 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	// Random mode shuffles once with the base seed; the order survives the day
	assert.Equal(t, Shuffle(items, 42), orderFor(cfg, day1, time.UTC))
	assert.Equal(t, orderFor(cfg, day1, time.UTC), orderFor(cfg, day2, time.UTC))
}
