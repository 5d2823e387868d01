// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

const (
	defaultBatchSize  = 40
	defaultBatchPause = time.Second
)

// Task is one unit of work for the Executor.
type Task func(ctx context.Context) error

// Outcome is the result of the task at Index. Err is nil on success.
type Outcome struct {
	Index int
	Err   error
}

// Executor runs tasks in consecutive groups of at most BatchSize. A group
// runs concurrently and fully drains before the pause; the next group starts
// after the pause. There is no pause after the last group.
type Executor struct {
	BatchSize int
	Pause     time.Duration
}

// NewExecutor returns an executor with defaults applied: a non-positive size
// becomes 40 and a negative pause becomes 0.
func NewExecutor(batchSize int, pause time.Duration) *Executor {
	e := &Executor{BatchSize: batchSize, Pause: pause}
	e.normalize()
	return e
}

func (e *Executor) normalize() {
	if e.BatchSize <= 0 {
		e.BatchSize = defaultBatchSize
	}
	if e.Pause < 0 {
		e.Pause = 0
	}
}

// Run executes tasks and returns one outcome per task, in task order.
//
// A failing or panicking task never affects its siblings. Once ctx is done
// no further group starts and the remaining tasks report ctx.Err().
func (e *Executor) Run(ctx context.Context, tasks []Task) []Outcome {
	e.normalize()
	outcomes := make([]Outcome, len(tasks))
	for i := range outcomes {
		outcomes[i].Index = i
	}

	for start := 0; start < len(tasks); start += e.BatchSize {
		end := min(start+e.BatchSize, len(tasks))

		if err := ctx.Err(); err != nil {
			for i := start; i < len(tasks); i++ {
				outcomes[i].Err = err
			}
			return outcomes
		}

		metrics.SyncBatchSize.Observe(float64(end - start))
		p := pool.New().WithMaxGoroutines(end - start)
		for i := start; i < end; i++ {
			p.Go(func() {
				outcomes[i].Err = runTask(ctx, tasks[i])
			})
		}
		p.Wait()

		if end < len(tasks) && e.Pause > 0 {
			logging.Debug().Int("completed", end).Int("total", len(tasks)).Dur("pause", e.Pause).Msg("Batch group drained, pausing")
			if err := sleepCtx(ctx, e.Pause); err != nil {
				for i := end; i < len(tasks); i++ {
					outcomes[i].Err = err
				}
				return outcomes
			}
		}
	}
	return outcomes
}

// runTask converts a panic into an error so the pool never re-panics.
func runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task(ctx)
}

// sleepCtx waits d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
