// Package tuner orchestrates live channel schedules: it owns one
// ChannelScheduler per tuned channel, builds each channel's broadcast-day
// config from the stored catalog, and exposes the playback and guide
// operations the HTTP API serves.
package tuner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/TJZine/Retune-sub004/internal/catalog"
	"github.com/TJZine/Retune-sub004/internal/logger"
	"github.com/TJZine/Retune-sub004/internal/schedule"
)

// Common errors
var (
	// ErrNotTuned indicates no scheduler is live for the channel
	ErrNotTuned = errors.New("channel is not tuned")

	// ErrServiceStopped indicates the tuner service has been shut down
	ErrServiceStopped = errors.New("tuner service has been stopped")
)

// Service manages the set of live channel schedulers
type Service struct {
	catalog      *catalog.Service
	tickInterval time.Duration
	loc          *time.Location

	mu      sync.RWMutex
	tuners  map[uuid.UUID]*schedule.ChannelScheduler
	stopped bool
}

// NewService creates a new tuner service instance
func NewService(catalogService *catalog.Service, tickInterval time.Duration, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		catalog:      catalogService,
		tickInterval: tickInterval,
		loc:          loc,
		tuners:       make(map[uuid.UUID]*schedule.ChannelScheduler),
	}
}

// Tune loads the channel's schedule for the current broadcast day and starts
// live ticking, returning the program airing right now. Tuning an
// already-tuned channel re-syncs it instead of rebuilding.
func (s *Service) Tune(ctx context.Context, channelID uuid.UUID) (*schedule.Program, error) {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return nil, ErrServiceStopped
	}
	existing, ok := s.tuners[channelID]
	s.mu.RUnlock()

	if ok {
		logger.Log.Debug().
			Str("channel_id", channelID.String()).
			Msg("Channel already tuned, re-syncing")
		return existing.SyncToCurrentTime()
	}

	cfg, err := s.buildDayConfig(ctx, channelID)
	if err != nil {
		return nil, err
	}

	scheduler := schedule.NewChannelScheduler(s.tickInterval, s.loc)
	if err := scheduler.LoadChannel(cfg); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		scheduler.UnloadChannel()
		return nil, ErrServiceStopped
	}
	// Another caller may have tuned the channel while we were building
	if racing, ok := s.tuners[channelID]; ok {
		s.mu.Unlock()
		scheduler.UnloadChannel()
		return racing.SyncToCurrentTime()
	}
	s.tuners[channelID] = scheduler
	s.mu.Unlock()

	logger.Log.Info().
		Str("channel_id", channelID.String()).
		Msg("Channel tuned")

	return scheduler.SyncToCurrentTime()
}

// Detune unloads a channel's scheduler, cancelling its timers
func (s *Service) Detune(channelID uuid.UUID) error {
	s.mu.Lock()
	scheduler, ok := s.tuners[channelID]
	if ok {
		delete(s.tuners, channelID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrNotTuned
	}

	scheduler.UnloadChannel()
	logger.Log.Info().
		Str("channel_id", channelID.String()).
		Msg("Channel detuned")
	return nil
}

// NowPlaying returns the program currently airing on a tuned channel
func (s *Service) NowPlaying(channelID uuid.UUID) (*schedule.Program, error) {
	scheduler, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	return scheduler.GetCurrentProgram()
}

// ProgramAt returns the program airing at an arbitrary epoch-millisecond time
func (s *Service) ProgramAt(channelID uuid.UUID, atMs int64) (*schedule.Program, error) {
	scheduler, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	return scheduler.GetProgramAtTime(atMs)
}

// Next returns the program following the current one in loop order
func (s *Service) Next(channelID uuid.UUID) (*schedule.Program, error) {
	scheduler, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	return scheduler.GetNextProgram()
}

// Previous returns the program preceding the current one in loop order
func (s *Service) Previous(channelID uuid.UUID) (*schedule.Program, error) {
	scheduler, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	return scheduler.GetPreviousProgram()
}

// Guide returns the programs intersecting [startMs, endMs) for a tuned channel
func (s *Service) Guide(channelID uuid.UUID, startMs, endMs int64) (*schedule.Window, error) {
	scheduler, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	return scheduler.GetScheduleWindow(startMs, endMs)
}

// Upcoming returns up to count programs following the current one
func (s *Service) Upcoming(channelID uuid.UUID, count int) ([]schedule.Program, error) {
	scheduler, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	return scheduler.GetUpcoming(count)
}

// SkipNext advances presentation to the next program. The playback driver
// calls this on unrecoverable playback errors as well as user navigation.
func (s *Service) SkipNext(channelID uuid.UUID) (*schedule.Program, error) {
	scheduler, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	return scheduler.SkipToNext()
}

// SkipPrevious moves presentation to the preceding program
func (s *Service) SkipPrevious(channelID uuid.UUID) (*schedule.Program, error) {
	scheduler, err := s.get(channelID)
	if err != nil {
		return nil, err
	}
	return scheduler.SkipToPrevious()
}

// Subscribe registers a program-transition listener on a tuned channel
func (s *Service) Subscribe(channelID uuid.UUID, fn schedule.EventHandler) (schedule.Subscription, error) {
	scheduler, err := s.get(channelID)
	if err != nil {
		return 0, err
	}
	return scheduler.Subscribe(fn), nil
}

// Stop detunes all channels and rejects further tuning
func (s *Service) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	schedulers := make([]*schedule.ChannelScheduler, 0, len(s.tuners))
	for _, scheduler := range s.tuners {
		schedulers = append(schedulers, scheduler)
	}
	s.tuners = make(map[uuid.UUID]*schedule.ChannelScheduler)
	s.mu.Unlock()

	for _, scheduler := range schedulers {
		scheduler.UnloadChannel()
	}

	logger.Log.Info().
		Int("detuned_channels", len(schedulers)).
		Msg("Tuner service stopped")
}

// get looks up the scheduler for a tuned channel
func (s *Service) get(channelID uuid.UUID) (*schedule.ChannelScheduler, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		return nil, ErrServiceStopped
	}
	scheduler, ok := s.tuners[channelID]
	if !ok {
		return nil, ErrNotTuned
	}
	return scheduler, nil
}

// buildDayConfig assembles the channel's schedule config for the current
// broadcast day from the stored channel and catalog
func (s *Service) buildDayConfig(ctx context.Context, channelID uuid.UUID) (schedule.Config, error) {
	channel, err := s.catalog.GetChannel(ctx, channelID)
	if err != nil {
		return schedule.Config{}, err
	}

	items, err := s.catalog.ItemsForSchedule(ctx, channelID)
	if err != nil {
		return schedule.Config{}, err
	}

	base := schedule.Config{
		ChannelID: channel.ID,
		Items:     items,
		Mode:      channel.Mode,
		Seed:      channel.ShuffleSeed,
		PhaseSeed: channel.PhaseSeed,
		Loop:      channel.Loop,
	}
	return schedule.ConfigForDay(base, time.Now(), s.loc), nil
}
