// Package schedule implements the virtual-channel scheduling engine: a pure
// time-to-item mapping over an ordered catalog, a deterministic seeded
// shuffle, day-boundary re-anchoring, and a live ticking state machine that
// emits program-transition events. The package does no I/O; content and
// stream resolution live with external collaborators.
package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Mode controls how a channel orders its catalog each broadcast day
type Mode string

const (
	// ModeSequential plays the catalog in the order given
	ModeSequential Mode = "sequential"

	// ModeShuffle reshuffles every broadcast day using the channel seed
	// mixed with the calendar date
	ModeShuffle Mode = "shuffle"

	// ModeRandom shuffles once with the channel seed, keeping the same
	// order across days
	ModeRandom Mode = "random"
)

// Valid reports whether the mode is one of the supported playback modes
func (m Mode) Valid() bool {
	switch m {
	case ModeSequential, ModeShuffle, ModeRandom:
		return true
	}
	return false
}

// Item is one schedulable unit of content. The engine treats it as immutable
// read-only input; display metadata is carried through to query results
// unchanged.
type Item struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Title      string  `json:"title"`
	ShowName   *string `json:"show_name,omitempty"`
	Season     *int    `json:"season,omitempty"`
	Episode    *int    `json:"episode,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Thumbnail  *string `json:"thumbnail,omitempty"`
	DurationMs int64   `json:"duration_ms"`
}

// Config is the input to loading a channel schedule. A new Config is built
// per channel per broadcast day; it is never mutated after construction.
type Config struct {
	ChannelID uuid.UUID
	// AnchorMs is the epoch-millisecond start of loop cycle 0
	AnchorMs int64
	Items    []Item
	Mode     Mode
	// Seed is the base shuffle seed for shuffle/random modes. It is never
	// day-mixed in place; shuffle mode derives each day's effective seed
	// from it when the order is computed.
	Seed int32
	// PhaseSeed staggers the channel's day anchor so channels don't all
	// start their loop at the same instant
	PhaseSeed int32
	Loop      bool
}

// Program is the answer to a time query: which item is airing, when it
// started and ends, and where it sits within the loop. Constructed fresh per
// query, never stored long-term.
type Program struct {
	Item        Item  `json:"item"`
	ItemIndex   int   `json:"item_index"`
	LoopNumber  int64 `json:"loop_number"`
	StartMs     int64 `json:"start_ms"`
	EndMs       int64 `json:"end_ms"`
	ElapsedMs   int64 `json:"elapsed_ms"`
	RemainingMs int64 `json:"remaining_ms"`
}

// Start returns the absolute scheduled start time
func (p *Program) Start() time.Time { return time.UnixMilli(p.StartMs).UTC() }

// End returns the absolute scheduled end time
func (p *Program) End() time.Time { return time.UnixMilli(p.EndMs).UTC() }

// sameAiring reports whether two programs are the same scheduled airing.
// Slot and loop number alone are not enough: a day rollover replaces the
// index, and the same (slot, loop) pair can hold a different airing on the
// new schedule. The scheduled start time disambiguates.
func (p *Program) sameAiring(o *Program) bool {
	return p.StartMs == o.StartMs &&
		p.ItemIndex == o.ItemIndex &&
		p.LoopNumber == o.LoopNumber &&
		p.Item.ID == o.Item.ID
}

// Window is a time range plus the ordered programs whose intervals intersect it
type Window struct {
	StartMs  int64     `json:"start_ms"`
	EndMs    int64     `json:"end_ms"`
	Programs []Program `json:"programs"`
}

// State represents the lifecycle of a ChannelScheduler
type State string

const (
	// StateUnloaded means no schedule index is present
	StateUnloaded State = "unloaded"

	// StatePaused means an index is loaded but the tick timer is not running
	StatePaused State = "loaded-paused"

	// StateLive means an index is loaded and the tick timer is running
	StateLive State = "loaded-live"
)

// EventType identifies a program-transition event
type EventType string

const (
	// EventProgramStart fires when a program becomes current
	EventProgramStart EventType = "programStart"

	// EventProgramEnd fires when a program stops being current, always
	// before the following programStart
	EventProgramEnd EventType = "programEnd"
)

// Event carries a program transition to subscribed listeners
type Event struct {
	Type      EventType
	ChannelID uuid.UUID
	Program   Program
}

// EventHandler receives program-transition events. Handlers run synchronously
// and in subscription order; a panicking handler is isolated and logged.
type EventHandler func(Event)
