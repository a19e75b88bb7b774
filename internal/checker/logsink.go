package checker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

// LogSink is an append-only, ordered activity log. Events are never rewritten
// or removed. Subscribers receive every appended event in append order.
type LogSink struct {
	mu     sync.RWMutex
	events []models.LogEvent
	subs   map[int]func(models.LogEvent)
	nextID int
	now    func() time.Time
}

// NewLogSink creates an empty sink.
func NewLogSink() *LogSink {
	return &LogSink{
		subs: make(map[int]func(models.LogEvent)),
		now:  time.Now,
	}
}

// Append records a new event and mirrors it to the process logger.
func (s *LogSink) Append(level models.Level, module models.Module, message string) models.LogEvent {
	s.mu.Lock()
	ev := models.LogEvent{
		ID:        uuid.NewString(),
		Timestamp: s.now(),
		Level:     level,
		Module:    module,
		Message:   message,
	}
	s.events = append(s.events, ev)

	// Deliver while holding the lock so subscribers observe append order.
	for _, fn := range s.subs {
		fn(ev)
	}
	s.mu.Unlock()

	slog.Log(context.Background(), slogLevel(level), message,
		"level_tag", string(level),
		"module", string(module),
	)
	return ev
}

// Events returns a copy of every event in append order.
func (s *LogSink) Events() []models.LogEvent {
	return s.Since(0)
}

// Since returns a copy of the events after the first offset events. An
// offset past the end yields an empty slice.
func (s *LogSink) Since(offset int) []models.LogEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(s.events) {
		return []models.LogEvent{}
	}
	out := make([]models.LogEvent, len(s.events)-offset)
	copy(out, s.events[offset:])
	return out
}

// Len returns the number of events appended so far.
func (s *LogSink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Subscribe registers fn to receive each future event and returns the
// backlog at the moment of subscription, so a consumer sees every event
// exactly once. fn runs with the sink locked and must not call back into the
// sink. The returned cancel function removes the subscription.
func (s *LogSink) Subscribe(fn func(models.LogEvent)) (backlog []models.LogEvent, cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	backlog = make([]models.LogEvent, len(s.events))
	copy(backlog, s.events)
	s.mu.Unlock()

	return backlog, func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func slogLevel(l models.Level) slog.Level {
	switch l {
	case models.LevelError:
		return slog.LevelError
	case models.LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
