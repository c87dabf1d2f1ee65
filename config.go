// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package gosched

import "github.com/rs/zerolog"

// JobMode selects how a job's callback is driven: Inline jobs fire
// during the caller's explicit Tick call; Worker jobs own a dedicated
// goroutine that sleeps until its own next firing.
type JobMode uint8

const (
	// Inline runs the callback on the goroutine that calls Tick.
	Inline JobMode = iota
	// Worker runs the callback on a dedicated goroutine owned by the job.
	Worker
)

func (m JobMode) String() string {
	switch m {
	case Inline:
		return "inline"
	case Worker:
		return "worker"
	default:
		return "unknown"
	}
}

// SchedulerConfig configures a Scheduler's container allocation
// strategy and logging.
type SchedulerConfig struct {
	// UsePSRAMBuffers selects a recycling, sync.Pool-backed allocator
	// for the scheduler's job-table backing storage instead of the
	// default heap allocator. See internal/pool and SPEC_FULL.md §9.
	UsePSRAMBuffers bool
	// Logger receives scheduler lifecycle and diagnostic events. The
	// zero value (zerolog.Logger{}) is a valid no-op logger.
	Logger zerolog.Logger
}

// TaskConfig configures a worker job's goroutine. Its fields are
// retained for parity with the embedded reference (SPEC_FULL.md §6.4)
// but none of them has an effect on the goroutine: AddJob resolves the
// config and discards it, since a goroutine has no name, fixed stack
// size, priority, core affinity or separate memory arena to select.
type TaskConfig struct {
	Name          string
	StackSize     uint32
	Priority      int
	CoreID        int // -1 = no affinity
	UsePsramStack bool
}

// DefaultTaskConfig returns the scheduler's default worker task
// configuration.
func DefaultTaskConfig() TaskConfig {
	return TaskConfig{
		Name:      "sched-job",
		StackSize: 4096,
		Priority:  1,
		CoreID:    -1,
	}
}

func resolveTaskConfig(cfg *TaskConfig) TaskConfig {
	if cfg == nil {
		return DefaultTaskConfig()
	}
	resolved := *cfg
	if resolved.Name == "" {
		resolved.Name = "sched-job"
	}
	if resolved.StackSize == 0 {
		resolved.StackSize = 4096
	}
	return resolved
}
