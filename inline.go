// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package gosched

import (
	"github.com/rs/zerolog"

	"github.com/tinyclock/gosched/clock"
)

// prepareInlineFire resolves job's next occurrence against nowUTC and,
// if due, advances its bookkeeping to the occurrence following this
// firing (or marks it finished for a one-shot or exhausted search). It
// never invokes job.callback itself: the caller must do that only
// after releasing whatever lock guards the job table, since a
// callback is free to re-enter scheduler mutators (SPEC_FULL.md §5)
// and must never observe that lock held. This mirrors the reference's
// tick(), which never holds a lock across job.callback(...).
//
// Returns (true, callback, userData) when the caller must fire the
// job; (false, nil, nil) otherwise. Implements the catch-up-at-most-
// once-per-tick rule of SPEC_FULL.md §4.4: a single missed slot
// produces exactly one late invocation, never a burst, because
// hasNext/nextRunUTC are only advanced once per call.
func prepareInlineFire(c clock.Clock, job *inlineJob, nowUTC clock.Instant, log zerolog.Logger) (bool, Callback, any) {
	if job.finished || job.paused {
		return false, nil, nil
	}

	if !job.hasNext {
		if job.schedule.IsOneShot {
			job.nextRunUTC = job.schedule.OnceAtUTC
			job.hasNext = true
		} else {
			next, ok := computeNextOccurrence(c, job.schedule, nowUTC)
			if !ok {
				log.Info().Uint32("job_id", job.id).Str("corr_id", job.corrID).
					Msg("inline job exhausted occurrence search, finishing")
				job.finished = true
				return false, nil, nil
			}
			job.nextRunUTC = next
			job.hasNext = true
		}
	}

	if c.IsAfter(job.nextRunUTC, nowUTC) {
		return false, nil, nil
	}

	cb, userData := job.callback, job.userData

	if job.schedule.IsOneShot {
		job.finished = true
		return true, cb, userData
	}
	from := c.AddMinutes(job.nextRunUTC, 1)
	next, ok := computeNextOccurrence(c, job.schedule, from)
	if !ok {
		log.Info().Uint32("job_id", job.id).Str("corr_id", job.corrID).
			Msg("inline job exhausted occurrence search after firing, finishing")
		job.finished = true
		return true, cb, userData
	}
	job.nextRunUTC = next
	return true, cb, userData
}

// compactInline removes finished entries, preserving relative order
// of the survivors (insertion order matters for Tick's ordering
// guarantee).
func compactInline(jobs []inlineJob) []inlineJob {
	kept := jobs[:0]
	for _, j := range jobs {
		if !j.finished {
			kept = append(kept, j)
		}
	}
	return kept
}
