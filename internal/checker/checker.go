// Package checker implements the discovery cycle: it polls a provider,
// normalizes the candidates, merges them into the in-memory collection,
// projects the dashboard stats, and writes an ordered activity log.
//
// At most one cycle runs at a time. A trigger that arrives while a cycle is
// in flight is dropped without touching any state.
package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hoanghai1803/llmchecker/internal/discovery"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

// PopularThreshold is the download count above which a model is logged as a
// notable find.
const PopularThreshold = 10000

// DefaultValidateDelay is the per-record pause of the validation step.
const DefaultValidateDelay = 300 * time.Millisecond

// ErrBusy is reported when a cycle is requested while another is running.
var ErrBusy = errors.New("a discovery cycle is already running")

// Recorder persists a summary of every finished cycle.
type Recorder interface {
	RecordCycle(ctx context.Context, summary *models.CycleSummary) (int64, error)
}

// Options configures a Checker. The zero value is usable.
type Options struct {
	// ValidateDelay is the pause per discovered record. Zero disables it.
	ValidateDelay time.Duration

	// Recorder, when set, receives a summary after each cycle.
	Recorder Recorder

	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// CycleResult describes one call to RunCycle.
type CycleResult struct {
	// Started is false when the call was dropped because a cycle was
	// already in flight. All other fields are then zero.
	Started bool
	Summary models.CycleSummary
	Events  []models.LogEvent
	Err     error
}

// Checker owns the collection, the stats snapshot and the log sink, and is
// the only writer of all three.
type Checker struct {
	provider      discovery.Provider
	sink          *LogSink
	recorder      Recorder
	validateDelay time.Duration
	now           func() time.Time
	sleep         func(time.Duration)

	running atomic.Bool

	mu         sync.RWMutex
	collection []models.ModelRecord
	stats      models.Stats
}

// New creates a Checker with an empty collection.
func New(provider discovery.Provider, sink *LogSink, opts Options) *Checker {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if sink == nil {
		sink = NewLogSink()
	}
	return &Checker{
		provider:      provider,
		sink:          sink,
		recorder:      opts.Recorder,
		validateDelay: opts.ValidateDelay,
		now:           now,
		sleep:         time.Sleep,
		collection:    []models.ModelRecord{},
		stats:         InitialStats(now()),
	}
}

// LogStartup writes the daemon banner to the activity log.
func (c *Checker) LogStartup(version string) {
	c.sink.Append(models.LevelInfo, models.ModuleSystem, "llm-checker daemon started "+version)
	c.sink.Append(models.LevelInfo, models.ModuleDB, "Connected to in-memory model store")
}

// Sink returns the activity log.
func (c *Checker) Sink() *LogSink {
	return c.sink
}

// ProviderName returns the name of the configured discovery provider.
func (c *Checker) ProviderName() string {
	return c.provider.Name()
}

// Models returns a copy of the collection in display order.
func (c *Checker) Models() []models.ModelRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.ModelRecord, len(c.collection))
	copy(out, c.collection)
	return out
}

// Model looks up a single record by its identity key.
func (c *Checker) Model(id string) (models.ModelRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.collection {
		if m.ID == id {
			return m, true
		}
	}
	return models.ModelRecord{}, false
}

// Stats returns the current snapshot.
func (c *Checker) Stats() models.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Running reports whether a cycle is in flight.
func (c *Checker) Running() bool {
	return c.running.Load()
}

// RunCycle runs one discovery cycle synchronously. If a cycle is already in
// flight it returns immediately with Started false. The cycle is not bound
// to ctx's cancellation: once started it runs to completion or failure.
func (c *Checker) RunCycle(ctx context.Context) CycleResult {
	if !c.running.CompareAndSwap(false, true) {
		busyRejections.Inc()
		return CycleResult{}
	}
	defer c.running.Store(false)

	return c.cycle(context.WithoutCancel(ctx))
}

// Trigger starts a cycle in the background. It returns false, without side
// effects, when a cycle is already in flight.
func (c *Checker) Trigger(ctx context.Context) bool {
	if !c.running.CompareAndSwap(false, true) {
		busyRejections.Inc()
		return false
	}

	ctx = context.WithoutCancel(ctx)
	go func() {
		defer c.running.Store(false)
		c.cycle(ctx)
	}()
	return true
}

// cycle runs the discovery steps in order. The caller holds the running flag.
func (c *Checker) cycle(ctx context.Context) CycleResult {
	start := c.now()
	firstEvent := c.sink.Len()
	providerName := c.provider.Name()

	summary := models.CycleSummary{
		StartedAt: start,
		Provider:  providerName,
	}

	c.updateStats(func(s *models.Stats) {
		s.Status = models.StatusPolling
		s.CurrentActivity = fmt.Sprintf("Connecting to %s...", providerName)
	})
	c.sink.Append(models.LevelInfo, models.ModuleChecker,
		fmt.Sprintf("Starting scheduled poll of %s...", providerName))

	c.setActivity(activityParsing)
	candidates, err := c.provider.Discover(ctx)
	if err != nil {
		c.sink.Append(models.LevelError, models.ModuleChecker,
			fmt.Sprintf("Failed to fetch models: %v", err))
		c.updateStats(func(s *models.Stats) {
			*s = FailedStats(*s)
		})

		summary.Outcome = models.OutcomeError
		summary.Error = err.Error()
		summary.CollectionSize = len(c.Models())
		return c.finish(ctx, summary, firstEvent, fmt.Errorf("discovering models: %w", err))
	}

	candidatesTotal.Add(float64(len(candidates)))
	if len(candidates) == 0 {
		c.sink.Append(models.LevelWarn, models.ModuleChecker,
			"No new models found or API rate limited.")
	} else {
		c.sink.Append(models.LevelInfo, models.ModuleChecker,
			fmt.Sprintf("Discovered %d new candidates.", len(candidates)))
	}

	now := c.now()
	batch := make([]models.ModelRecord, len(candidates))
	for i, cand := range candidates {
		batch[i] = Normalize(cand, now)
	}

	for _, rec := range batch {
		c.setActivity("Validating: " + rec.Name)
		if c.validateDelay > 0 {
			c.sleep(c.validateDelay)
		}
		if rec.Downloads > PopularThreshold {
			c.sink.Append(models.LevelInfo, models.ModuleChecker,
				fmt.Sprintf("Indexing popular model: %s (%d downloads)", rec.Name, rec.Downloads))
		}
	}

	c.setActivity(activityUpdating)
	c.mu.Lock()
	c.collection = Merge(c.collection, batch)
	size := len(c.collection)
	c.mu.Unlock()
	collectionSize.Set(float64(size))

	c.sink.Append(models.LevelSuccess, models.ModuleDB, "Sync complete. Database updated.")

	finished := c.now()
	c.updateStats(func(s *models.Stats) {
		*s = NextStats(*s, batch, finished)
	})

	summary.Outcome = models.OutcomeSuccess
	if len(batch) == 0 {
		summary.Outcome = models.OutcomeEmpty
	}
	summary.Discovered = len(batch)
	summary.CollectionSize = size
	return c.finish(ctx, summary, firstEvent, nil)
}

// finish records the cycle and assembles the result.
func (c *Checker) finish(ctx context.Context, summary models.CycleSummary, firstEvent int, cycleErr error) CycleResult {
	summary.FinishedAt = c.now()
	cyclesTotal.WithLabelValues(summary.Outcome).Inc()
	cycleDuration.Observe(summary.FinishedAt.Sub(summary.StartedAt).Seconds())

	if c.recorder != nil {
		id, err := c.recorder.RecordCycle(ctx, &summary)
		if err != nil {
			slog.Warn("failed to record cycle", "outcome", summary.Outcome, "error", err)
		} else {
			summary.ID = id
		}
	}

	slog.Info("discovery cycle finished",
		"provider", summary.Provider,
		"outcome", summary.Outcome,
		"discovered", summary.Discovered,
		"collection", summary.CollectionSize,
		"duration", summary.FinishedAt.Sub(summary.StartedAt).String(),
	)

	return CycleResult{
		Started: true,
		Summary: summary,
		Events:  c.sink.Since(firstEvent),
		Err:     cycleErr,
	}
}

func (c *Checker) setActivity(label string) {
	c.updateStats(func(s *models.Stats) {
		s.CurrentActivity = label
	})
}

func (c *Checker) updateStats(fn func(*models.Stats)) {
	c.mu.Lock()
	fn(&c.stats)
	c.mu.Unlock()
}
