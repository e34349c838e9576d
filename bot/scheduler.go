package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const StatsInterval = 5 * time.Minute

type job struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context)
}

// Scheduler runs periodic background jobs until stopped.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Every adds a job. Jobs added after Start are ignored.
func (s *Scheduler) Every(name string, interval time.Duration, run func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		slog.Warn("scheduler already started, job ignored", "job", name)
		return
	}
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
}

// Start begins all scheduled jobs.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

// Stop terminates all jobs and waits for them.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	slog.Info("scheduler stopped")
}

func (b *Bot) logStats(ctx context.Context) {
	stats := b.Cache.Snapshot()
	attrs := []any{
		"cache_hits", stats.Hit,
		"cache_misses", stats.Miss,
		"cache_errors", stats.Errors,
		"redis", b.Cache.IsRedisEnabled(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := b.DB.PingContext(pingCtx); err != nil {
		slog.Error("database ping failed", append(attrs, "error", err)...)
		return
	}
	slog.Info("periodic stats", attrs...)
}
