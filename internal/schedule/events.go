package schedule

import (
	"github.com/TJZine/Retune-sub004/internal/logger"
)

// Subscription identifies a registered event listener
type Subscription int

type listenerEntry struct {
	id Subscription
	fn EventHandler
}

// Subscribe registers a listener for program-transition events. Listeners are
// invoked synchronously in subscription order, programEnd before the
// following programStart.
func (s *ChannelScheduler) Subscribe(fn EventHandler) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	s.listeners = append(s.listeners, listenerEntry{id: s.nextSub, fn: fn})
	return s.nextSub
}

// Unsubscribe removes a listener. Removing an unknown subscription is a no-op.
func (s *ChannelScheduler) Unsubscribe(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.listeners {
		if l.id == sub {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// dispatch delivers events to listeners outside the scheduler lock so a
// handler can call back into the scheduler without deadlocking
func (s *ChannelScheduler) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}

	s.mu.Lock()
	handlers := make([]listenerEntry, len(s.listeners))
	copy(handlers, s.listeners)
	s.mu.Unlock()

	for _, evt := range events {
		for _, l := range handlers {
			notify(l.fn, evt)
		}
	}
}

// notify invokes one handler, isolating panics so a failing listener cannot
// prevent the others from running
func notify(fn EventHandler, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error().
				Interface("panic", r).
				Str("event", string(evt.Type)).
				Str("channel_id", evt.ChannelID.String()).
				Msg("Schedule event listener panicked")
		}
	}()
	fn(evt)
}

func (s *ChannelScheduler) startEvent(p Program) Event {
	return Event{Type: EventProgramStart, ChannelID: s.cfg.ChannelID, Program: p}
}

func (s *ChannelScheduler) endEvent(p Program) Event {
	return Event{Type: EventProgramEnd, ChannelID: s.cfg.ChannelID, Program: p}
}
