// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package gosched

import (
	"time"

	"github.com/rs/zerolog"
)

// workerSleepChunk bounds the worst-case observable latency to
// cancellation, pause, or a minValidEpoch change: a worker never
// sleeps longer than one chunk at a stretch.
const workerSleepChunk = 60 * time.Second

// runWorkerJob is the body of a worker job's dedicated goroutine. It
// is the direct Go translation of the embedded reference's
// runWorkerJob/FreeRTOS task loop: vTaskDelay becomes time.Sleep, and
// the atomic flags are sync/atomic's typed atomics instead of
// std::atomic<bool>.
func runWorkerJob(ctx *workerJobContext, log zerolog.Logger) {
	defer ctx.finished.Store(true)

	for {
		if ctx.cancelRequested.Load() {
			return
		}

		now := ctx.clock.Now()
		minValid := defaultMinValidEpoch
		if ctx.minValidEpoch != nil {
			minValid = ctx.minValidEpoch.Load()
		}
		if now.Epoch < minValid {
			time.Sleep(workerSleepChunk)
			continue
		}

		if !ctx.hasNext {
			if ctx.schedule.IsOneShot {
				ctx.nextRunUTC = ctx.schedule.OnceAtUTC
				ctx.hasNext = true
			} else {
				next, ok := computeNextOccurrence(ctx.clock, ctx.schedule, now)
				if !ok {
					log.Info().Uint32("job_id", ctx.id).Str("corr_id", ctx.corrID).
						Msg("worker job exhausted occurrence search, stopping")
					return
				}
				ctx.nextRunUTC = next
				ctx.hasNext = true
			}
		}

		if ctx.paused.Load() {
			time.Sleep(workerSleepChunk)
			continue
		}

		diff := ctx.clock.DifferenceInSeconds(ctx.nextRunUTC, now)
		if diff > 0 {
			chunk := workerSleepChunk
			if time.Duration(diff)*time.Second < chunk {
				chunk = time.Duration(diff) * time.Second
			}
			time.Sleep(chunk)
			continue
		}

		invokeCallback(ctx.callback, ctx.userData, log, ctx.id, ctx.corrID)

		if ctx.schedule.IsOneShot {
			return
		}
		from := ctx.clock.AddMinutes(ctx.nextRunUTC, 1)
		next, ok := computeNextOccurrence(ctx.clock, ctx.schedule, from)
		if !ok {
			log.Info().Uint32("job_id", ctx.id).Str("corr_id", ctx.corrID).
				Msg("worker job exhausted occurrence search after firing, stopping")
			return
		}
		ctx.nextRunUTC = next
	}
}

// invokeCallback runs cb, recovering and logging any panic instead of
// letting it crash the caller (the tick goroutine for inline jobs, or
// a dedicated worker goroutine). This mirrors sched.go's execute(),
// which recovers a task panic and resolves its future with an error
// rather than letting the scheduler goroutine die.
func invokeCallback(cb Callback, userData any, log zerolog.Logger, jobID uint32, corrID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Uint32("job_id", jobID).Str("corr_id", corrID).
				Interface("panic", r).Msg("job callback panicked, recovered")
		}
	}()
	cb(userData)
}
