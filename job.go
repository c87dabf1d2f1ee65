// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package gosched

import (
	"sync/atomic"

	"github.com/tinyclock/gosched/clock"
)

// Callback is a scheduled job's user code. It receives the same
// userData passed to addJob and must not assume which goroutine
// invokes it; re-entering scheduler mutators (CancelJob, PauseJob,
// ...) from inside a callback is safe.
type Callback func(userData any)

// JobInfo is a read-only snapshot returned by GetJobInfo. It never
// describes a finished or cancel-requested job.
type JobInfo struct {
	ID         uint32
	Enabled    bool
	Mode       JobMode
	Schedule   Schedule
	NextRunUTC clock.Instant
}

// inlineJob is one entry of the scheduler's inline job table, driven
// exclusively by Tick on the caller's goroutine.
type inlineJob struct {
	id         uint32
	corrID     string
	schedule   Schedule
	callback   Callback
	userData   any
	nextRunUTC clock.Instant
	hasNext    bool
	paused     bool
	finished   bool
}

// workerJobContext is shared between the facade's worker job table
// entry and the goroutine running runWorkerJob. Ownership: both sides
// hold a reference; the context outlives the facade's bookkeeping
// entry until the worker goroutine has observed cancellation and
// stored finished=true.
type workerJobContext struct {
	schedule Schedule
	callback Callback
	userData any
	clock    clock.Clock

	minValidEpoch *atomic.Int64

	paused          atomic.Bool
	cancelRequested atomic.Bool
	finished        atomic.Bool

	// nextRunUTC/hasNext are mutated only by the owning worker
	// goroutine after construction, per SPEC_FULL.md §5's shared
	// resource policy.
	nextRunUTC clock.Instant
	hasNext    bool

	id     uint32
	corrID string
}

// workerJob is the facade-owned handle to a running worker job.
type workerJob struct {
	id      uint32
	context *workerJobContext
}
