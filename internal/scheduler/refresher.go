// Package scheduler keeps the unfiltered home feed warm on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"riconnect/internal/domain"
)

var _ domain.FeedSnapshot = (*FeedRefresher)(nil)

// FeedRefresher periodically fetches the home feed with no filters and keeps the
// latest result. Each refresh replaces the snapshot whole.
type FeedRefresher struct {
	feed    domain.FeedService
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time

	cron    *cron.Cron
	entryID cron.EntryID

	mu      sync.RWMutex
	events  []domain.EnrichedEvent
	takenAt time.Time
	ok      bool
}

// NewFeedRefresher parses expr as a standard five-field cron expression (descriptors
// such as "@every 5m" are accepted too). timeout bounds a single refresh.
func NewFeedRefresher(feed domain.FeedService, expr string, timeout time.Duration, logger *slog.Logger) (*FeedRefresher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("scheduler: invalid schedule %q: %w", expr, err)
	}

	r := &FeedRefresher{feed: feed, logger: logger, timeout: timeout, now: time.Now}
	cl := cronLogger{logger: logger}
	r.cron = cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	r.entryID = r.cron.Schedule(schedule, cron.FuncJob(func() { r.Refresh(context.Background()) }))
	return r, nil
}

// Start refreshes once and then runs the schedule in the background.
func (r *FeedRefresher) Start(ctx context.Context) {
	r.Refresh(ctx)
	r.cron.Start()
	r.logger.Info("feed refresher started", "next", r.cron.Entry(r.entryID).Next)
}

// Stop halts the schedule. The returned context is done once a running refresh finishes.
func (r *FeedRefresher) Stop() context.Context {
	return r.cron.Stop()
}

// Refresh fetches the home feed now and stores it.
func (r *FeedRefresher) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	events := r.feed.Home(ctx, domain.FilterState{})
	taken := r.now()

	r.mu.Lock()
	r.events = events
	r.takenAt = taken
	r.ok = true
	r.mu.Unlock()

	r.logger.Debug("home feed refreshed", "events", len(events))
}

// Latest returns a copy of the last snapshot.
func (r *FeedRefresher) Latest() ([]domain.EnrichedEvent, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ok {
		return nil, time.Time{}, false
	}
	out := make([]domain.EnrichedEvent, len(r.events))
	copy(out, r.events)
	return out, r.takenAt, true
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
