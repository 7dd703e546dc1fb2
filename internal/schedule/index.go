package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Index is the materialized lookup table for one loaded channel schedule:
// the final item order plus cumulative start offsets. It is rebuilt wholesale
// on every load or day rollover and never partially mutated.
type Index struct {
	ChannelID   uuid.UUID
	GeneratedAt time.Time
	// Items is the final ordered list, post-shuffle if applicable
	Items []Item
	// offsets[i] is the start of item i within one loop; offsets[0] == 0
	offsets []int64
	// TotalDurationMs is the length of one full loop, always > 0
	TotalDurationMs int64
}

// BuildIndex computes cumulative offsets and total loop duration for an
// ordered item list. Items with non-positive durations are dropped before
// the offsets are computed. An empty result is a configuration error, not a
// runtime error.
func BuildIndex(channelID uuid.UUID, items []Item) (*Index, error) {
	valid := make([]Item, 0, len(items))
	for _, item := range items {
		if item.DurationMs > 0 {
			valid = append(valid, item)
		}
	}
	if len(valid) == 0 {
		return nil, ErrChannelEmpty
	}

	offsets := make([]int64, len(valid))
	var total int64
	for i, item := range valid {
		offsets[i] = total
		total += item.DurationMs
	}
	if total <= 0 {
		return nil, ErrInvalidSchedule
	}

	return &Index{
		ChannelID:       channelID,
		GeneratedAt:     time.Now().UTC(),
		Items:           valid,
		offsets:         offsets,
		TotalDurationMs: total,
	}, nil
}

// LocatePosition returns the index of the item whose [offset, offset+duration)
// interval contains positionInLoop. A position exactly equal to an item's
// start offset selects that item, not the previous one. positionInLoop must
// be in [0, TotalDurationMs).
func (idx *Index) LocatePosition(positionInLoop int64) int {
	i := sort.Search(len(idx.offsets), func(i int) bool {
		return idx.offsets[i] > positionInLoop
	})
	return i - 1
}

// Offset returns the loop-relative start offset of item i
func (idx *Index) Offset(i int) int64 {
	return idx.offsets[i]
}
