package schedule

import (
	"sync"
	"time"

	"github.com/TJZine/Retune-sub004/internal/logger"
)

// DefaultTickInterval is the period of the live program-transition check
const DefaultTickInterval = 1 * time.Second

// ChannelScheduler owns the live scheduling state for one channel: the
// loaded index, the tick timer that detects program transitions, and the
// day-rollover machinery. One instance per loaded channel, never shared.
//
// The mutex guards all fields; event dispatch always happens after the lock
// is released.
type ChannelScheduler struct {
	mu sync.Mutex

	// cfg is the base config as loaded. Its seed is never day-mixed; each
	// day's anchor and item order are derived from it, so rollovers can
	// re-resolve it any number of times.
	cfg      Config
	index    *Index
	anchorMs int64
	state    State

	// lastEmitted is the program most recently announced via programStart
	lastEmitted *Program

	// override is the skip target presentation currently sits on, if any.
	// Navigation is relative to it until the next live transition check.
	override *Program

	listeners []listenerEntry
	nextSub   Subscription

	tickInterval time.Duration
	tickStop     chan struct{}

	// rollover is either nil (no pending rollover) or an armed one-shot
	// deadline for applying the next day's index
	rollover     *pendingRollover
	scheduleDate int32

	loc *time.Location
	now func() time.Time
}

type pendingRollover struct {
	timer      *time.Timer
	deadlineMs int64
}

// NewChannelScheduler creates an unloaded scheduler. tickInterval <= 0 falls
// back to DefaultTickInterval; a nil location falls back to the host zone.
func NewChannelScheduler(tickInterval time.Duration, loc *time.Location) *ChannelScheduler {
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	if loc == nil {
		loc = time.Local
	}
	return &ChannelScheduler{
		state:        StateUnloaded,
		tickInterval: tickInterval,
		loc:          loc,
		now:          time.Now,
	}
}

// LoadChannel builds a fresh index from the config and moves the scheduler to
// loaded-paused. Any previous index, tick timer, and pending rollover are
// discarded. Returns ErrChannelEmpty or ErrInvalidSchedule for unusable
// configs.
func (s *ChannelScheduler) LoadChannel(cfg Config) error {
	now := s.now()
	index, err := BuildIndex(cfg.ChannelID, orderFor(cfg, now, s.loc))
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("channel_id", cfg.ChannelID.String()).
			Int("items", len(cfg.Items)).
			Msg("Channel load failed: invalid schedule config")
		return err
	}

	s.mu.Lock()
	s.stopTickingLocked()
	s.cancelRolloverLocked()
	s.cfg = cfg
	s.index = index
	s.anchorMs = cfg.AnchorMs
	s.lastEmitted = nil
	s.override = nil
	s.scheduleDate = DateKey(now, s.loc)
	s.state = StatePaused
	s.mu.Unlock()

	logger.Log.Info().
		Str("channel_id", cfg.ChannelID.String()).
		Str("mode", string(cfg.Mode)).
		Int("items", len(index.Items)).
		Int64("total_duration_ms", index.TotalDurationMs).
		Int64("anchor_ms", cfg.AnchorMs).
		Msg("Channel schedule loaded")

	return nil
}

// UnloadChannel discards the index and returns to unloaded. Cancelling the
// tick timer and any pending rollover is unconditional and idempotent.
func (s *ChannelScheduler) UnloadChannel() {
	s.mu.Lock()
	channelID := s.cfg.ChannelID
	s.stopTickingLocked()
	s.cancelRolloverLocked()
	s.index = nil
	s.lastEmitted = nil
	s.override = nil
	s.state = StateUnloaded
	s.mu.Unlock()

	logger.Log.Info().
		Str("channel_id", channelID.String()).
		Msg("Channel schedule unloaded")
}

// State returns the scheduler's current lifecycle state
func (s *ChannelScheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HasPendingRollover reports whether a deferred day rollover is armed
func (s *ChannelScheduler) HasPendingRollover() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollover != nil
}

// GetProgramAtTime resolves the program airing at the given epoch-millisecond
// time. Fails with ErrNoActiveSchedule when no channel is loaded.
func (s *ChannelScheduler) GetProgramAtTime(atMs int64) (*Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		return nil, ErrNoActiveSchedule
	}
	return s.index.ProgramAt(s.anchorMs, atMs, s.cfg.Loop)
}

// GetCurrentProgram resolves the program airing right now per the wall clock
func (s *ChannelScheduler) GetCurrentProgram() (*Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

// GetNextProgram returns the item immediately following the current one in
// loop order, wrapping to the first item of the next loop iteration past the
// end of the list.
func (s *ChannelScheduler) GetNextProgram() (*Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, err := s.referenceLocked()
	if err != nil {
		return nil, err
	}
	if !s.cfg.Loop && ref.ItemIndex == len(s.index.Items)-1 {
		return nil, ErrScheduleFinished
	}
	return s.index.Next(ref), nil
}

// GetPreviousProgram returns the item immediately preceding the current one
// in loop order, wrapping across the loop boundary.
func (s *ChannelScheduler) GetPreviousProgram() (*Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, err := s.referenceLocked()
	if err != nil {
		return nil, err
	}
	if !s.cfg.Loop && ref.ItemIndex == 0 {
		return nil, ErrNotStarted
	}
	return s.index.Previous(ref), nil
}

// GetScheduleWindow returns the programs intersecting [startMs, endMs).
// Rejects end <= start with ErrInvalidWindow.
func (s *ChannelScheduler) GetScheduleWindow(startMs, endMs int64) (*Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		return nil, ErrNoActiveSchedule
	}
	return s.index.WindowOf(s.anchorMs, startMs, endMs, s.cfg.Loop)
}

// GetUpcoming returns up to count programs following the current one
func (s *ChannelScheduler) GetUpcoming(count int) ([]Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, err := s.referenceLocked()
	if err != nil {
		return nil, err
	}

	upcoming := make([]Program, 0, count)
	cur := ref
	for len(upcoming) < count {
		if !s.cfg.Loop && cur.ItemIndex == len(s.index.Items)-1 {
			break
		}
		cur = s.index.Next(cur)
		upcoming = append(upcoming, *cur)
	}
	return upcoming, nil
}

// SyncToCurrentTime recomputes the current program directly from wall time,
// emits programStart if it differs from the previously emitted program
// (without replaying any transitions missed while paused or suspended), and
// starts live ticking.
func (s *ChannelScheduler) SyncToCurrentTime() (*Program, error) {
	s.mu.Lock()
	if s.index == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveSchedule
	}

	now := s.now()
	events := s.checkRolloverLocked(now)
	events = append(events, s.checkTransitionLocked(now)...)
	s.startTickingLocked()

	cur, err := s.currentLocked()
	s.mu.Unlock()

	s.dispatch(events)
	return cur, err
}

// PauseSyncTimer stops live ticking without discarding the index. A no-op
// when the scheduler is not live.
func (s *ChannelScheduler) PauseSyncTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLive {
		return
	}
	s.stopTickingLocked()
	s.state = StatePaused
}

// ResumeSyncTimer restarts live ticking after a pause. Transitions missed
// while paused are collapsed into a single programEnd/programStart pair on
// the next tick.
func (s *ChannelScheduler) ResumeSyncTimer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		return ErrNoActiveSchedule
	}
	s.startTickingLocked()
	return nil
}

// SkipToNext advances presentation to the next program in loop order and
// emits its programStart immediately, independent of the wall clock. The
// schedule index and anchor are not mutated: skip is a presentation override,
// and subsequent ticks resume tracking live time.
func (s *ChannelScheduler) SkipToNext() (*Program, error) {
	s.mu.Lock()
	ref, err := s.referenceLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !s.cfg.Loop && ref.ItemIndex == len(s.index.Items)-1 {
		s.mu.Unlock()
		return nil, ErrScheduleFinished
	}

	target := s.index.Next(ref)
	events := s.overrideLocked(target)
	s.mu.Unlock()

	s.dispatch(events)
	out := *target
	return &out, nil
}

// SkipToPrevious moves presentation to the preceding program in loop order,
// with the same override semantics as SkipToNext.
func (s *ChannelScheduler) SkipToPrevious() (*Program, error) {
	s.mu.Lock()
	ref, err := s.referenceLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !s.cfg.Loop && ref.ItemIndex == 0 {
		s.mu.Unlock()
		return nil, ErrNotStarted
	}

	target := s.index.Previous(ref)
	events := s.overrideLocked(target)
	s.mu.Unlock()

	s.dispatch(events)
	out := *target
	return &out, nil
}

// currentLocked resolves the live current program from the wall clock
func (s *ChannelScheduler) currentLocked() (*Program, error) {
	if s.index == nil {
		return nil, ErrNoActiveSchedule
	}
	return s.index.ProgramAt(s.anchorMs, s.now().UnixMilli(), s.cfg.Loop)
}

// referenceLocked is the program navigation operates relative to: the skip
// target while an override is in effect, otherwise the live current program.
func (s *ChannelScheduler) referenceLocked() (*Program, error) {
	if s.index == nil {
		return nil, ErrNoActiveSchedule
	}
	if s.override != nil {
		return s.override, nil
	}
	return s.currentLocked()
}

// overrideLocked makes target the presented program and returns the
// transition events to fire for it
func (s *ChannelScheduler) overrideLocked(target *Program) []Event {
	var events []Event
	if s.lastEmitted != nil {
		events = append(events, s.endEvent(*s.lastEmitted))
	}
	events = append(events, s.startEvent(*target))
	s.lastEmitted = target
	s.override = target

	logger.Log.Debug().
		Str("channel_id", s.cfg.ChannelID.String()).
		Int("item_index", target.ItemIndex).
		Int64("loop_number", target.LoopNumber).
		Str("title", target.Item.Title).
		Msg("Manual skip override applied")

	return events
}

// startTickingLocked launches the tick goroutine if it is not already running
func (s *ChannelScheduler) startTickingLocked() {
	if s.tickStop != nil {
		s.state = StateLive
		return
	}

	stop := make(chan struct{})
	s.tickStop = stop
	s.state = StateLive

	interval := s.tickInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-stop:
				return
			}
		}
	}()
}

// stopTickingLocked signals the tick goroutine to exit. Safe to call when no
// ticker is running. A tick already in flight sees a non-live state and does
// nothing.
func (s *ChannelScheduler) stopTickingLocked() {
	if s.tickStop == nil {
		return
	}
	close(s.tickStop)
	s.tickStop = nil
}

// cancelRolloverLocked disarms any pending deferred rollover. Idempotent.
func (s *ChannelScheduler) cancelRolloverLocked() {
	if s.rollover == nil {
		return
	}
	s.rollover.timer.Stop()
	s.rollover = nil
}

// tick is the periodic live check: handle day rollover, then compare the
// freshly computed current program against the last-emitted one
func (s *ChannelScheduler) tick() {
	s.mu.Lock()
	if s.state != StateLive || s.index == nil {
		s.mu.Unlock()
		return
	}

	now := s.now()
	events := s.checkRolloverLocked(now)
	events = append(events, s.checkTransitionLocked(now)...)
	s.mu.Unlock()

	s.dispatch(events)
}

// checkTransitionLocked emits programEnd(old) then programStart(new) when the
// live current program differs from the last-emitted one. A long suspension
// produces exactly one transition pair, never a replay of missed programs.
// Any skip override lapses here: presentation snaps back to wall-clock time.
func (s *ChannelScheduler) checkTransitionLocked(now time.Time) []Event {
	s.override = nil

	cur, err := s.index.ProgramAt(s.anchorMs, now.UnixMilli(), s.cfg.Loop)
	if err != nil {
		// Non-looping schedule ran out; close the final program once
		if s.lastEmitted != nil {
			events := []Event{s.endEvent(*s.lastEmitted)}
			s.lastEmitted = nil
			return events
		}
		return nil
	}

	if s.lastEmitted != nil && s.lastEmitted.sameAiring(cur) {
		return nil
	}

	var events []Event
	if s.lastEmitted != nil {
		events = append(events, s.endEvent(*s.lastEmitted))
	}
	events = append(events, s.startEvent(*cur))
	s.lastEmitted = cur

	return events
}

// checkRolloverLocked detects a local-midnight boundary crossing. If the
// currently airing program started before midnight and is still running, the
// rebuild is deferred with a one-shot timer armed for the program's scheduled
// end; otherwise the new day's index is applied immediately.
func (s *ChannelScheduler) checkRolloverLocked(now time.Time) []Event {
	today := DateKey(now, s.loc)
	if today == s.scheduleDate || s.rollover != nil {
		return nil
	}

	nowMs := now.UnixMilli()
	cur, err := s.index.ProgramAt(s.anchorMs, nowMs, s.cfg.Loop)
	if err == nil && cur.StartMs < midnightMs(now, s.loc) && cur.EndMs > nowMs {
		delay := time.Duration(cur.EndMs-nowMs) * time.Millisecond
		s.rollover = &pendingRollover{
			deadlineMs: cur.EndMs,
			timer:      time.AfterFunc(delay, s.fireRollover),
		}

		logger.Log.Info().
			Str("channel_id", s.cfg.ChannelID.String()).
			Int64("deadline_ms", cur.EndMs).
			Dur("delay", delay).
			Msg("Day rollover deferred until in-progress program ends")
		return nil
	}

	return s.applyRolloverLocked(now)
}

// applyRolloverLocked rebuilds the index for the new broadcast day and
// re-anchors the schedule. The rebuild derives from the base config, so the
// result matches what a fresh load on the new day would compute. The old
// index stays in place if the rebuild fails.
func (s *ChannelScheduler) applyRolloverLocked(now time.Time) []Event {
	dayCfg := ConfigForDay(s.cfg, now, s.loc)
	index, err := BuildIndex(dayCfg.ChannelID, orderFor(dayCfg, now, s.loc))
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", s.cfg.ChannelID.String()).
			Msg("Day rollover failed to rebuild schedule index")
		s.scheduleDate = DateKey(now, s.loc)
		return nil
	}

	s.index = index
	s.anchorMs = dayCfg.AnchorMs
	s.scheduleDate = DateKey(now, s.loc)

	logger.Log.Info().
		Str("channel_id", s.cfg.ChannelID.String()).
		Int64("anchor_ms", s.anchorMs).
		Int("items", len(index.Items)).
		Msg("Day rollover applied")

	return nil
}

// fireRollover is the deferred-rollover deadline callback
func (s *ChannelScheduler) fireRollover() {
	s.mu.Lock()
	if s.rollover == nil || s.index == nil {
		// Cancelled or unloaded before the deadline fired
		s.mu.Unlock()
		return
	}
	s.rollover = nil

	now := s.now()
	events := s.applyRolloverLocked(now)
	events = append(events, s.checkTransitionLocked(now)...)
	s.mu.Unlock()

	s.dispatch(events)
}
