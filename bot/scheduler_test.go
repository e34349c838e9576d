package bot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsJobsUntilStopped(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler()
	s.Every("count", 5*time.Millisecond, func(context.Context) { runs.Add(1) })

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestSchedulerIgnoresLateJobs(t *testing.T) {
	s := NewScheduler()
	s.Start(context.Background())
	s.Every("late", time.Millisecond, func(context.Context) {})
	assert.Empty(t, s.jobs)
	s.Stop()
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	NewScheduler().Stop()
}
