// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package gosched

import (
	"time"

	"github.com/tinyclock/gosched/clock"
)

// maxSearchMinutes bounds the occurrence search to one leap year's
// worth of minutes. A schedule that matches only on Feb 29 can
// legitimately exhaust its search across a run of non-leap years;
// this is documented behavior (SPEC_FULL.md §"open question
// decisions"), not a bug.
const maxSearchMinutes = 366 * 24 * 60

// computeNextOccurrence returns the earliest instant at or after
// fromUTC that matches schedule, per the local-field matching rules
// and the DOM/DOW union rule. The second return is false when no
// match exists within the search horizon.
func computeNextOccurrence(c clock.Clock, schedule Schedule, fromUTC clock.Instant) (clock.Instant, bool) {
	if schedule.IsOneShot {
		return schedule.OnceAtUTC, true
	}

	cursor := roundUpToMinuteUTC(fromUTC)

	for i := int64(0); i < maxSearchMinutes; i++ {
		month := c.GetMonthLocal(cursor)
		day := c.GetDayLocal(cursor)
		dow := c.GetWeekdayLocal(cursor)

		startOfDay := c.StartOfDayLocal(cursor)
		minutesIntoDay := c.DifferenceInMinutes(cursor, startOfDay)
		if minutesIntoDay < 0 {
			cursor = c.AddMinutes(cursor, 1)
			continue
		}
		hour := int(minutesIntoDay / 60)
		minute := int(minutesIntoDay % 60)

		monthOk := schedule.Month.Matches(month)
		hourOk := schedule.Hour.Matches(hour)
		minuteOk := schedule.Minute.Matches(minute)

		domAny := schedule.DayOfMonth.IsAny()
		dowAny := schedule.DayOfWeek.IsAny()
		domOk := schedule.DayOfMonth.Matches(day)
		dowOk := schedule.DayOfWeek.Matches(dow)

		var dayOk bool
		switch {
		case domAny && dowAny:
			dayOk = true
		case domAny && !dowAny:
			dayOk = dowOk
		case !domAny && dowAny:
			dayOk = domOk
		default:
			// Neither field is "any": classical cron union, not
			// intersection.
			dayOk = domOk || dowOk
		}

		if monthOk && hourOk && minuteOk && dayOk {
			return c.SetTimeOfDayLocal(cursor, hour, minute, 0), true
		}
		cursor = c.AddMinutes(cursor, 1)
	}
	return clock.Instant{}, false
}

// roundUpToMinuteUTC clears fromUTC's seconds, advancing to the next
// minute boundary first if fromUTC already has a nonzero
// second-of-minute. This mirrors the reference implementation's
// addMinutes-then-restamp rounding, expressed directly against the
// epoch since Instant carries whole Unix seconds.
func roundUpToMinuteUTC(from clock.Instant) clock.Instant {
	rem := from.Epoch % 60
	epoch := from.Epoch - rem
	if rem != 0 {
		epoch += 60
	}
	return clock.Instant{Epoch: epoch, UTC: time.Unix(epoch, 0).UTC()}
}
