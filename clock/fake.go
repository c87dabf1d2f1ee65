// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package clock

import (
	"sync"
	"time"
)

// FakeClock is a Clock whose Now() is caller-controlled, letting
// solver and worker-loop tests exercise a full day or year of
// schedule firings without a single real sleep. All local-field
// computations are delegated to SystemClock so the matching rules
// stay identical between production and test; only Now() differs.
type FakeClock struct {
	mu    sync.Mutex
	now   Instant
	inner *SystemClock
}

// NewFakeClock returns a FakeClock pinned at start, computing local
// fields in loc (nil defaults to UTC, the common case for
// deterministic tests).
func NewFakeClock(start Instant, loc *time.Location) *FakeClock {
	if loc == nil {
		loc = time.UTC
	}
	return &FakeClock{now: start, inner: NewSystemClock(loc)}
}

// Set pins the fake clock's current instant.
func (f *FakeClock) Set(now Instant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// Advance moves the fake clock forward by d (d may be negative).
func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.inner.wrap(f.now.UTC.Add(d))
}

// Now implements Clock.
func (f *FakeClock) Now() Instant {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// FromUTC implements Clock.
func (f *FakeClock) FromUTC(year, month, day, hour, minute, second int) Instant {
	return f.inner.FromUTC(year, month, day, hour, minute, second)
}

// AddMinutes implements Clock.
func (f *FakeClock) AddMinutes(t Instant, n int) Instant { return f.inner.AddMinutes(t, n) }

// DifferenceInMinutes implements Clock.
func (f *FakeClock) DifferenceInMinutes(a, b Instant) int64 {
	return f.inner.DifferenceInMinutes(a, b)
}

// DifferenceInSeconds implements Clock.
func (f *FakeClock) DifferenceInSeconds(a, b Instant) int64 {
	return f.inner.DifferenceInSeconds(a, b)
}

// StartOfDayLocal implements Clock.
func (f *FakeClock) StartOfDayLocal(t Instant) Instant { return f.inner.StartOfDayLocal(t) }

// SetTimeOfDayLocal implements Clock.
func (f *FakeClock) SetTimeOfDayLocal(t Instant, hour, minute, second int) Instant {
	return f.inner.SetTimeOfDayLocal(t, hour, minute, second)
}

// GetMonthLocal implements Clock.
func (f *FakeClock) GetMonthLocal(t Instant) int { return f.inner.GetMonthLocal(t) }

// GetDayLocal implements Clock.
func (f *FakeClock) GetDayLocal(t Instant) int { return f.inner.GetDayLocal(t) }

// GetWeekdayLocal implements Clock.
func (f *FakeClock) GetWeekdayLocal(t Instant) int { return f.inner.GetWeekdayLocal(t) }

// IsAfter implements Clock.
func (f *FakeClock) IsAfter(a, b Instant) bool { return f.inner.IsAfter(a, b) }

// IsEqual implements Clock.
func (f *FakeClock) IsEqual(a, b Instant) bool { return f.inner.IsEqual(a, b) }
