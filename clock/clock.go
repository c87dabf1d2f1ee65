// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Package clock defines the wall-clock provider the scheduler
// consumes. It is deliberately thin: the scheduler's job is the
// calendar-field search, not a general-purpose timezone engine, so
// Clock exposes only the handful of operations the occurrence solver
// and worker loop need.
package clock

import "time"

// Instant is a single wall-clock point, carried as both its Unix
// epoch (the scheduler's comparison and ordering currency) and the
// time.Time used to derive local broken-down fields.
type Instant struct {
	Epoch int64
	UTC   time.Time
}

// Clock is the external collaborator the scheduler is built against.
// A SystemClock satisfies it for production use; FakeClock satisfies
// it for deterministic tests.
type Clock interface {
	// Now returns the current instant.
	Now() Instant
	// FromUTC builds an Instant from broken-down UTC fields, mainly
	// useful for tests and for one-shot schedule construction.
	FromUTC(year, month, day, hour, minute, second int) Instant
	// AddMinutes returns t shifted by n minutes (n may be negative).
	AddMinutes(t Instant, n int) Instant
	// DifferenceInMinutes returns a.Epoch-b.Epoch in whole minutes.
	DifferenceInMinutes(a, b Instant) int64
	// DifferenceInSeconds returns a.Epoch-b.Epoch in seconds.
	DifferenceInSeconds(a, b Instant) int64
	// StartOfDayLocal returns the local midnight on or before t.
	StartOfDayLocal(t Instant) Instant
	// SetTimeOfDayLocal returns t with its local hour/minute/second
	// replaced, same local calendar day.
	SetTimeOfDayLocal(t Instant, hour, minute, second int) Instant
	// GetMonthLocal returns 1..12.
	GetMonthLocal(t Instant) int
	// GetDayLocal returns 1..31.
	GetDayLocal(t Instant) int
	// GetWeekdayLocal returns 0..6, 0 = Sunday.
	GetWeekdayLocal(t Instant) int
	// IsAfter reports whether a is strictly after b.
	IsAfter(a, b Instant) bool
	// IsEqual reports whether a and b are the same instant.
	IsEqual(a, b Instant) bool
}

// SystemClock implements Clock against the real time.Time/time.Now,
// interpreting "local" per Location (time.Local when unset).
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a SystemClock using loc for local-field
// computations. A nil loc falls back to time.Local.
func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{Location: loc}
}

func (c *SystemClock) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c *SystemClock) wrap(t time.Time) Instant {
	return Instant{Epoch: t.Unix(), UTC: t.UTC()}
}

// Now implements Clock.
func (c *SystemClock) Now() Instant { return c.wrap(time.Now()) }

// FromUTC implements Clock.
func (c *SystemClock) FromUTC(year, month, day, hour, minute, second int) Instant {
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	return c.wrap(t)
}

// AddMinutes implements Clock.
func (c *SystemClock) AddMinutes(t Instant, n int) Instant {
	return c.wrap(t.UTC.Add(time.Duration(n) * time.Minute))
}

// DifferenceInMinutes implements Clock.
func (c *SystemClock) DifferenceInMinutes(a, b Instant) int64 {
	return (a.Epoch - b.Epoch) / 60
}

// DifferenceInSeconds implements Clock.
func (c *SystemClock) DifferenceInSeconds(a, b Instant) int64 {
	return a.Epoch - b.Epoch
}

// StartOfDayLocal implements Clock.
func (c *SystemClock) StartOfDayLocal(t Instant) Instant {
	local := t.UTC.In(c.loc())
	y, m, d := local.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, c.loc())
	return c.wrap(start)
}

// SetTimeOfDayLocal implements Clock.
func (c *SystemClock) SetTimeOfDayLocal(t Instant, hour, minute, second int) Instant {
	local := t.UTC.In(c.loc())
	y, m, d := local.Date()
	updated := time.Date(y, m, d, hour, minute, second, 0, c.loc())
	return c.wrap(updated)
}

// GetMonthLocal implements Clock.
func (c *SystemClock) GetMonthLocal(t Instant) int {
	return int(t.UTC.In(c.loc()).Month())
}

// GetDayLocal implements Clock.
func (c *SystemClock) GetDayLocal(t Instant) int {
	return t.UTC.In(c.loc()).Day()
}

// GetWeekdayLocal implements Clock.
func (c *SystemClock) GetWeekdayLocal(t Instant) int {
	return int(t.UTC.In(c.loc()).Weekday())
}

// IsAfter implements Clock.
func (c *SystemClock) IsAfter(a, b Instant) bool { return a.Epoch > b.Epoch }

// IsEqual implements Clock.
func (c *SystemClock) IsEqual(a, b Instant) bool { return a.Epoch == b.Epoch }
