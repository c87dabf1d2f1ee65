// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Package benchmarks measures Tick throughput under a large inline job
// table and worker-table registration/cancellation churn, the two
// shapes a resource-constrained device cares about: how expensive is
// one Tick as the inline table grows, and how much does spinning up
// and tearing down worker goroutines cost.
package benchmarks

import (
	"fmt"
	"testing"
	"time"

	"github.com/tinyclock/gosched"
	"github.com/tinyclock/gosched/clock"
)

func everyMinuteSchedule() gosched.Schedule {
	return gosched.CustomSchedule(
		gosched.AnyField(),
		gosched.AnyField(),
		gosched.AnyField(),
		gosched.AnyField(),
		gosched.AnyField(),
	)
}

// BenchmarkTickInline measures one Tick's cost against an inline table
// loaded with jobCount always-due jobs, representative of the worst
// case where every job fires on every tick.
func BenchmarkTickInline(b *testing.B) {
	for _, jobCount := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("jobs=%d", jobCount), func(b *testing.B) {
			start := clock.Instant{Epoch: 1700000000, UTC: time.Unix(1700000000, 0).UTC()}
			c := clock.NewFakeClock(start, time.UTC)
			s := gosched.New(c)
			s.SetMinValidUnixSeconds(0)

			fired := 0
			for i := 0; i < jobCount; i++ {
				s.AddJob(everyMinuteSchedule(), gosched.Inline, func(any) { fired++ }, nil, nil)
			}

			now := c.Now()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				now = c.AddMinutes(now, 1)
				c.Set(now)
				s.Tick(now)
			}
		})
	}
}

// BenchmarkAddCancelWorker measures the cost of registering and
// immediately canceling a worker job, the churn pattern a long-running
// device sees as short-lived timers come and go.
func BenchmarkAddCancelWorker(b *testing.B) {
	start := clock.Instant{Epoch: 1700000000, UTC: time.Unix(1700000000, 0).UTC()}
	c := clock.NewFakeClock(start, time.UTC)
	s := gosched.New(c)
	s.SetMinValidUnixSeconds(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := s.AddJob(everyMinuteSchedule(), gosched.Worker, func(any) {}, nil, nil)
		s.CancelJob(id)
	}
}
