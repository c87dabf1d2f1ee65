// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package gosched

import "github.com/tinyclock/gosched/clock"

// Schedule is either one-shot (a single stored instant) or recurring
// (five calendar FieldSets). Zero-value field sets default to
// AnyField via the constructor functions below, never via the zero
// value of FieldSet itself, since an unset FieldSet's mask is empty
// rather than any.
type Schedule struct {
	IsOneShot bool
	OnceAtUTC clock.Instant

	Minute     FieldSet
	Hour       FieldSet
	DayOfMonth FieldSet
	Month      FieldSet
	DayOfWeek  FieldSet
}

// OnceUTC returns a one-shot Schedule firing exactly at whenUTC.
func OnceUTC(whenUTC clock.Instant) Schedule {
	return Schedule{IsOneShot: true, OnceAtUTC: whenUTC}
}

// DailyAtLocal returns a Schedule firing every day at the given local
// hour:minute.
func DailyAtLocal(hour, minute int) Schedule {
	return Schedule{
		Minute:     OnlyField(minute),
		Hour:       OnlyField(hour),
		DayOfMonth: AnyField(),
		Month:      AnyField(),
		DayOfWeek:  AnyField(),
	}
}

// WeeklyAtLocal returns a Schedule firing at the given local
// hour:minute on the days selected by dowMask (bit i, 0=Sunday,
// 6=Saturday). An empty mask degrades to any day of week.
func WeeklyAtLocal(dowMask uint8, hour, minute int) Schedule {
	var days []int
	for i := 0; i < 7; i++ {
		if dowMask&(1<<uint(i)) != 0 {
			days = append(days, i)
		}
	}
	dow := AnyField()
	if len(days) > 0 {
		dow = ListField(days)
	}
	return Schedule{
		Minute:     OnlyField(minute),
		Hour:       OnlyField(hour),
		DayOfMonth: AnyField(),
		Month:      AnyField(),
		DayOfWeek:  dow,
	}
}

// MonthlyOnDayLocal returns a Schedule firing at the given local
// hour:minute on dayOfMonth each month. dayOfMonth is clamped to
// [1,31].
func MonthlyOnDayLocal(dayOfMonth, hour, minute int) Schedule {
	clamped := dayOfMonth
	if clamped < 1 {
		clamped = 1
	} else if clamped > 31 {
		clamped = 31
	}
	return Schedule{
		DayOfMonth: OnlyField(clamped),
		Hour:       OnlyField(hour),
		Minute:     OnlyField(minute),
		Month:      AnyField(),
		DayOfWeek:  AnyField(),
	}
}

// CustomSchedule builds a recurring Schedule directly from its five
// field sets.
func CustomSchedule(minute, hour, dom, month, dow FieldSet) Schedule {
	return Schedule{Minute: minute, Hour: hour, DayOfMonth: dom, Month: month, DayOfWeek: dow}
}

// legalRange tags each recurring field with its valid domain, used by
// schedule validation (§4.2). Grounded on the example pack's cron
// field table (other_examples' djob cronspec min/max-per-field
// shape), narrowed to the fields this scheduler actually has.
type legalRange struct {
	min, max int
}

var (
	minuteRange = legalRange{0, 59}
	hourRange   = legalRange{0, 23}
	domRange    = legalRange{1, 31}
	monthRange  = legalRange{1, 12}
	dowRange    = legalRange{0, 6}
)

func allowedMask(r legalRange) uint64 {
	min, max := r.min, r.max
	if min < 0 {
		min = 0
	}
	if max > 63 {
		max = 63
	}
	if max >= 63 {
		return ^uint64(0)
	}
	upper := uint64(1)<<uint(max+1) - 1
	var lower uint64
	if min != 0 {
		lower = uint64(1)<<uint(min) - 1
	}
	return upper &^ lower
}

func fieldWithinRange(f FieldSet, r legalRange) bool {
	if f.IsAny() {
		return true
	}
	mask := f.RawMask()
	return mask != 0 && mask&allowedMask(r) != 0
}

// Validate reports whether s is a legal schedule: one-shot schedules
// are always valid; recurring schedules require each field to be
// either any or to overlap its legal range.
func (s Schedule) Validate() bool {
	if s.IsOneShot {
		return true
	}
	return fieldWithinRange(s.Minute, minuteRange) &&
		fieldWithinRange(s.Hour, hourRange) &&
		fieldWithinRange(s.DayOfMonth, domRange) &&
		fieldWithinRange(s.Month, monthRange) &&
		fieldWithinRange(s.DayOfWeek, dowRange)
}
