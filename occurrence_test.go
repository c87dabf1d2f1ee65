// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package gosched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tinyclock/gosched/clock"
)

func utc(c clock.Clock, y, mo, d, h, mi, s int) clock.Instant {
	return c.FromUTC(y, mo, d, h, mi, s)
}

func TestComputeNextOccurrenceDailySameDay(t *testing.T) {
	c := clock.NewSystemClock(time.UTC)
	s := DailyAtLocal(9, 30)
	from := utc(c, 2025, 1, 1, 8, 15, 10)

	next, ok := computeNextOccurrence(c, s, from)
	assert.True(t, ok)
	assert.Equal(t, utc(c, 2025, 1, 1, 9, 30, 0).Epoch, next.Epoch)
}

func TestComputeNextOccurrenceDailyRollsOver(t *testing.T) {
	c := clock.NewSystemClock(time.UTC)
	s := DailyAtLocal(6, 0)
	from := utc(c, 2025, 1, 1, 7, 0, 1)

	next, ok := computeNextOccurrence(c, s, from)
	assert.True(t, ok)
	assert.Equal(t, utc(c, 2025, 1, 2, 6, 0, 0).Epoch, next.Epoch)
}

func TestComputeNextOccurrenceWeeklyMonToFri(t *testing.T) {
	c := clock.NewSystemClock(time.UTC)
	s := WeeklyAtLocal(0b0111110, 18, 30)
	from := utc(c, 2025, 3, 4, 19, 0, 0) // Tuesday

	next, ok := computeNextOccurrence(c, s, from)
	assert.True(t, ok)
	assert.Equal(t, utc(c, 2025, 3, 5, 18, 30, 0).Epoch, next.Epoch)
}

func TestComputeNextOccurrenceWeeklyEmptyMaskDegradesToAnyDay(t *testing.T) {
	c := clock.NewSystemClock(time.UTC)
	s := WeeklyAtLocal(0, 10, 45)
	from := utc(c, 2025, 3, 1, 10, 0, 0)

	next, ok := computeNextOccurrence(c, s, from)
	assert.True(t, ok)
	assert.Equal(t, utc(c, 2025, 3, 1, 10, 45, 0).Epoch, next.Epoch)
}

func TestComputeNextOccurrenceDomDowUnion(t *testing.T) {
	c := clock.NewSystemClock(time.UTC)
	s := CustomSchedule(OnlyField(0), OnlyField(9), OnlyField(10), AnyField(), OnlyField(1))
	from := utc(c, 2024, 7, 1, 8, 0, 0) // Monday, dom=1 (not 10)

	next, ok := computeNextOccurrence(c, s, from)
	assert.True(t, ok)
	assert.Equal(t, utc(c, 2024, 7, 1, 9, 0, 0).Epoch, next.Epoch)
}

func TestComputeNextOccurrenceOneShotReturnsStoredInstant(t *testing.T) {
	c := clock.NewSystemClock(time.UTC)
	when := utc(c, 2030, 5, 5, 5, 5, 0)
	s := OnceUTC(when)

	next, ok := computeNextOccurrence(c, s, utc(c, 2020, 1, 1, 0, 0, 0))
	assert.True(t, ok)
	assert.Equal(t, when.Epoch, next.Epoch)
}

func TestComputeNextOccurrenceExhaustsOnImpossibleSchedule(t *testing.T) {
	c := clock.NewSystemClock(time.UTC)
	// Feb 30th never exists: dayOfMonth=30 with month locked to
	// February never matches within the search horizon.
	s := CustomSchedule(OnlyField(0), OnlyField(0), OnlyField(30), OnlyField(2), AnyField())
	from := utc(c, 2025, 1, 1, 0, 0, 0)

	_, ok := computeNextOccurrence(c, s, from)
	assert.False(t, ok)
}

func TestComputeNextOccurrenceResultAlwaysMatchesSchedule(t *testing.T) {
	c := clock.NewSystemClock(time.UTC)
	s := CustomSchedule(EveryField(15), RangeField(8, 18), AnyField(), AnyField(), RangeField(1, 5))
	from := utc(c, 2025, 1, 1, 0, 0, 0)

	next, ok := computeNextOccurrence(c, s, from)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, next.Epoch, from.Epoch)
	assert.True(t, s.Month.Matches(c.GetMonthLocal(next)))
	assert.True(t, s.Hour.Matches(next.UTC.Hour()))
	assert.True(t, s.DayOfWeek.Matches(c.GetWeekdayLocal(next)))
	assert.True(t, s.Minute.Matches(next.UTC.Minute()))
}
