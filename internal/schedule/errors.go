package schedule

import "errors"

var (
	// ErrChannelEmpty is returned when a schedule is built from an empty
	// catalog or one whose items all have non-positive durations
	ErrChannelEmpty = errors.New("channel catalog is empty")

	// ErrInvalidSchedule is returned when the total loop duration of a
	// schedule is not a positive number
	ErrInvalidSchedule = errors.New("invalid schedule: total loop duration must be positive")

	// ErrNoActiveSchedule is returned when a query method is called before
	// LoadChannel or after UnloadChannel
	ErrNoActiveSchedule = errors.New("no active schedule loaded")

	// ErrInvalidWindow is returned when a window query has end <= start
	ErrInvalidWindow = errors.New("invalid window: end must be after start")

	// ErrNotStarted is returned for queries before the anchor on a
	// non-looping channel
	ErrNotStarted = errors.New("channel has not started broadcasting yet")

	// ErrScheduleFinished is returned for queries past the single pass of a
	// non-looping channel
	ErrScheduleFinished = errors.New("schedule has finished (non-looping)")
)
