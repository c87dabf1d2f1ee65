// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Package gosched implements a consistently reliable, dual-mode cron
// job scheduler.
//
// Introduction
//
// gosched schedules recurring or one-shot jobs described by
// calendar-field Schedules (the same minute/hour/day-of-month/
// month/day-of-week shape classic cron uses, plus the DOM/DOW union
// rule) and invokes a user callback at each matching instant. Jobs run
// in one of two modes: Inline, driven by explicit Tick calls on the
// caller's own goroutine, or Worker, where each job owns a dedicated
// goroutine that sleeps until its own next firing.
//
// Usage
//
//	c := clock.NewSystemClock(nil)
//	s := gosched.New(c)
//	id := s.AddJob(gosched.DailyAtLocal(9, 30), gosched.Worker,
//	    func(userData any) { fmt.Println("fired") }, nil, nil)
//	defer s.Deinit()
//
// Callers driving Inline jobs must call Tick (or TickNow) on some
// cadence of their own choosing; Worker jobs need no caller
// involvement beyond AddJob/CancelJob.
package gosched

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tinyclock/gosched/clock"
	"github.com/tinyclock/gosched/internal/pool"
	"github.com/tinyclock/gosched/internal/pq"
)

// defaultMinValidEpoch blocks scheduling until at least
// 2020-01-01T00:00:00Z, guarding against firing jobs against a device
// clock that has not yet synchronized.
const defaultMinValidEpoch int64 = 1577836800

// Scheduler is the facade: job registration, cancellation,
// pause/resume, tick, and inspection. All public methods are
// non-blocking, bounded-time operations safe to call from any
// goroutine, including from inside a running callback.
type Scheduler struct {
	mu sync.Mutex

	clock         clock.Clock
	config        SchedulerConfig
	log           zerolog.Logger
	initialized   atomic.Bool
	nextID        uint32
	minValidEpoch *atomic.Int64

	inlineAlloc pool.Allocator[inlineJob]
	workerAlloc pool.Allocator[workerJob]

	inlineJobs []inlineJob
	workerJobs []workerJob
}

// New returns a Scheduler using c as its wall-clock collaborator and
// default configuration.
func New(c clock.Clock) *Scheduler {
	return NewWithConfig(c, SchedulerConfig{})
}

// NewWithConfig returns a Scheduler using c as its wall-clock
// collaborator, configured per cfg.
func NewWithConfig(c clock.Clock, cfg SchedulerConfig) *Scheduler {
	s := &Scheduler{
		clock:         c,
		config:        cfg,
		log:           cfg.Logger,
		minValidEpoch: &atomic.Int64{},
	}
	s.minValidEpoch.Store(defaultMinValidEpoch)
	s.inlineAlloc = pool.Select[inlineJob](cfg.UsePSRAMBuffers)
	s.workerAlloc = pool.Select[workerJob](cfg.UsePSRAMBuffers)
	return s
}

// IsInitialized reports whether the scheduler currently holds job
// state. A fresh Scheduler is uninitialized until the first
// successful AddJob*; Deinit resets it to uninitialized.
func (s *Scheduler) IsInitialized() bool {
	return s.initialized.Load()
}

func (s *Scheduler) ensureInitialized() {
	s.initialized.Store(true)
}

// SetMinValidUnixSeconds configures the minimum epoch-seconds value
// the scheduler considers a valid wall clock. Ticks and worker loops
// idle (fire nothing) while the clock reads below this value.
func (s *Scheduler) SetMinValidUnixSeconds(v int64) {
	s.minValidEpoch.Store(v)
}

// MinValidUnixSeconds returns the currently configured clock-gate
// threshold.
func (s *Scheduler) MinValidUnixSeconds() int64 {
	return s.minValidEpoch.Load()
}

func (s *Scheduler) nextJobID() uint32 {
	if s.nextID == 0 {
		s.nextID = 1
	}
	id := s.nextID
	s.nextID++
	return id
}

// AddJob registers schedule under mode, invoking cb with userData at
// each matching instant. Returns 0 if cb is nil or schedule fails
// validation (SPEC_FULL.md §4.2); 0 is never returned on success.
func (s *Scheduler) AddJob(schedule Schedule, mode JobMode, cb Callback, userData any, taskCfg *TaskConfig) uint32 {
	if cb == nil {
		return 0
	}
	if !schedule.Validate() {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureInitialized()
	id := s.nextJobID()
	corrID := uuid.NewString()

	if mode == Inline {
		job := inlineJob{id: id, corrID: corrID, schedule: schedule, callback: cb, userData: userData}
		s.inlineJobs = appendAlloc(s.inlineAlloc, s.inlineJobs, job)
		s.log.Debug().Uint32("job_id", id).Str("corr_id", corrID).Str("mode", mode.String()).
			Msg("job registered")
		return id
	}

	ctx := &workerJobContext{
		schedule:      schedule,
		callback:      cb,
		userData:      userData,
		clock:         s.clock,
		minValidEpoch: s.minValidEpoch,
		id:            id,
		corrID:        corrID,
	}
	_ = resolveTaskConfig(taskCfg) // no goroutine-level equivalent of stack size/affinity/priority to apply
	job := workerJob{id: id, context: ctx}
	s.workerJobs = appendAlloc(s.workerAlloc, s.workerJobs, job)
	logger := s.log
	go runWorkerJob(ctx, logger)

	s.log.Debug().Uint32("job_id", id).Str("corr_id", corrID).Str("mode", mode.String()).
		Msg("job registered")
	return id
}

// AddJobOnceUTC registers a one-shot job firing at whenUTC.
func (s *Scheduler) AddJobOnceUTC(whenUTC clock.Instant, mode JobMode, cb Callback, userData any, taskCfg *TaskConfig) uint32 {
	return s.AddJob(OnceUTC(whenUTC), mode, cb, userData, taskCfg)
}

func appendAlloc[T any](alloc pool.Allocator[T], existing []T, item T) []T {
	if existing == nil {
		existing = alloc.Get(4)
	}
	return append(existing, item)
}

// CancelJob marks the job finished (inline) or requests cancellation
// (worker), then compacts. Returns false if id is unknown or the
// scheduler is uninitialized.
func (s *Scheduler) CancelJob(id uint32) bool {
	if !s.IsInitialized() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	canceled := false
	for i := range s.inlineJobs {
		j := &s.inlineJobs[i]
		if j.id == id && !j.finished {
			j.finished = true
			canceled = true
		}
	}
	for _, j := range s.workerJobs {
		if j.id == id {
			j.context.cancelRequested.Store(true)
			canceled = true
		}
	}
	if canceled {
		s.cleanupInlineLocked()
		s.cleanupWorkersLocked()
		s.log.Debug().Uint32("job_id", id).Msg("job canceled")
	}
	return canceled
}

// PauseJob sets the job's paused flag. Paused jobs retain their
// nextRunUTC and do not fire until ResumeJob.
func (s *Scheduler) PauseJob(id uint32) bool {
	if !s.IsInitialized() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.inlineJobs {
		j := &s.inlineJobs[i]
		if j.id == id && !j.finished {
			j.paused = true
			return true
		}
	}
	for _, j := range s.workerJobs {
		if j.id == id {
			j.context.paused.Store(true)
			return true
		}
	}
	return false
}

// ResumeJob clears the job's paused flag.
func (s *Scheduler) ResumeJob(id uint32) bool {
	if !s.IsInitialized() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.inlineJobs {
		j := &s.inlineJobs[i]
		if j.id == id && !j.finished {
			j.paused = false
			return true
		}
	}
	for _, j := range s.workerJobs {
		if j.id == id {
			j.context.paused.Store(false)
			return true
		}
	}
	return false
}

// CancelAll cancels every registered job, inline and worker alike.
func (s *Scheduler) CancelAll() {
	if !s.IsInitialized() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
}

func (s *Scheduler) cancelAllLocked() {
	for i := range s.inlineJobs {
		s.inlineJobs[i].finished = true
	}
	for _, j := range s.workerJobs {
		j.context.cancelRequested.Store(true)
	}
	s.cleanupInlineLocked()
	s.workerAlloc.Put(s.workerJobs)
	s.workerJobs = nil
}

// TickNow calls Tick with the scheduler's current clock reading.
func (s *Scheduler) TickNow() {
	s.Tick(s.clock.Now())
}

// Tick advances every live, non-paused inline job against nowUTC. If
// the clock is below the configured minValidEpoch, Tick returns
// immediately without side effects (the clock gate, SPEC_FULL.md §5).
//
// A job added re-entrantly by a callback invoked during this Tick
// (SPEC_FULL.md's "open question (b)") is not visited until the next
// Tick: this call snapshots the inline table's length at entry and
// only advances that prefix.
//
// Tick never holds s.mu while a callback runs: it locks only to
// resolve which jobs are due and to advance their bookkeeping, then
// unlocks before invoking any callback. A callback is free to re-enter
// scheduler mutators (AddJob, CancelJob, ...), and since sync.Mutex is
// not reentrant, invoking one while still holding the lock would
// self-deadlock the calling goroutine.
func (s *Scheduler) Tick(nowUTC clock.Instant) {
	if !s.IsInitialized() {
		return
	}

	type firing struct {
		callback Callback
		userData any
		id       uint32
		corrID   string
	}

	s.mu.Lock()

	if nowUTC.Epoch < s.minValidEpoch.Load() {
		s.mu.Unlock()
		return
	}

	var due []firing
	n := len(s.inlineJobs)
	for i := 0; i < n; i++ {
		job := &s.inlineJobs[i]
		if fire, cb, userData := prepareInlineFire(s.clock, job, nowUTC, s.log); fire {
			due = append(due, firing{callback: cb, userData: userData, id: job.id, corrID: job.corrID})
		}
	}

	s.cleanupInlineLocked()
	s.cleanupWorkersLocked()
	s.mu.Unlock()

	for _, f := range due {
		invokeCallback(f.callback, f.userData, s.log, f.id, f.corrID)
	}
}

// Cleanup compacts finished entries out of both job tables without
// advancing anything. Tick, CancelJob and CancelAll already do this
// automatically (AddJob, PauseJob and ResumeJob do not); Cleanup
// exists for callers that want to reclaim table space between ticks.
func (s *Scheduler) Cleanup() {
	if !s.IsInitialized() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupInlineLocked()
	s.cleanupWorkersLocked()
}

func (s *Scheduler) cleanupInlineLocked() {
	s.inlineJobs = compactInline(s.inlineJobs)
}

func (s *Scheduler) cleanupWorkersLocked() {
	kept := s.workerJobs[:0]
	for _, j := range s.workerJobs {
		if j.context.cancelRequested.Load() || j.context.finished.Load() {
			continue
		}
		kept = append(kept, j)
	}
	s.workerJobs = kept
}

// GetJobInfo enumerates only non-finished, non-cancel-requested jobs,
// inline table first then worker table, by zero-based index. Returns
// false once index runs past the live job count.
func (s *Scheduler) GetJobInfo(index int) (JobInfo, bool) {
	if !s.IsInitialized() {
		return JobInfo{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := 0
	for _, j := range s.inlineJobs {
		if j.finished {
			continue
		}
		if current == index {
			return JobInfo{
				ID:         j.id,
				Enabled:    !j.paused,
				Mode:       Inline,
				Schedule:   j.schedule,
				NextRunUTC: s.resolveNextRun(j.schedule, j.hasNext, j.nextRunUTC, s.clock.Now()),
			}, true
		}
		current++
	}

	for _, j := range s.workerJobs {
		if j.context.cancelRequested.Load() || j.context.finished.Load() {
			continue
		}
		if current == index {
			return JobInfo{
				ID:         j.id,
				Enabled:    !j.context.paused.Load(),
				Mode:       Worker,
				Schedule:   j.context.schedule,
				NextRunUTC: s.resolveNextRun(j.context.schedule, j.context.hasNext, j.context.nextRunUTC, s.clock.Now()),
			}, true
		}
		current++
	}

	return JobInfo{}, false
}

func (s *Scheduler) resolveNextRun(schedule Schedule, hasNext bool, stored clock.Instant, now clock.Instant) clock.Instant {
	if hasNext {
		return stored
	}
	if schedule.IsOneShot {
		return schedule.OnceAtUTC
	}
	computed, ok := computeNextOccurrence(s.clock, schedule, now)
	if !ok {
		return clock.Instant{}
	}
	return computed
}

// NextWakeup returns the id and firing time of the job due soonest
// across both tables, as of now. It is a pure read, additive to
// GetJobInfo (SPEC_FULL.md §4.7): a caller can use it to pick its own
// Tick cadence instead of polling on a fixed timer.
func (s *Scheduler) NextWakeup(now clock.Instant) (id uint32, at time.Time, ok bool) {
	if !s.IsInitialized() {
		return 0, time.Time{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []pq.Entry
	for _, j := range s.inlineJobs {
		if j.finished {
			continue
		}
		next := s.resolveNextRun(j.schedule, j.hasNext, j.nextRunUTC, now)
		entries = append(entries, pq.Entry{JobID: j.id, At: next.UTC})
	}
	for _, j := range s.workerJobs {
		if j.context.cancelRequested.Load() || j.context.finished.Load() {
			continue
		}
		next := s.resolveNextRun(j.context.schedule, j.context.hasNext, j.context.nextRunUTC, now)
		entries = append(entries, pq.Entry{JobID: j.id, At: next.UTC})
	}

	if len(entries) == 0 {
		return 0, time.Time{}, false
	}
	queue := pq.New(entries)
	best, _ := queue.Pop()
	return best.JobID, best.At, true
}

// Deinit idempotently tears the scheduler down: every inline job is
// marked finished, every worker is asked to cancel, both tables are
// compacted/released, and the id counter resets to 1. A subsequent
// AddJob* transparently re-initializes. Calling Deinit N times is
// equivalent to calling it once.
func (s *Scheduler) Deinit() {
	if !s.initialized.CompareAndSwap(true, false) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelAllLocked()
	s.inlineAlloc.Put(s.inlineJobs)
	s.inlineJobs = nil
	s.nextID = 1
	s.log.Info().Msg("scheduler deinitialized")
}
