// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Command example demonstrates registering an inline job driven by an
// explicit Tick loop alongside a self-paced worker job, logging both
// through zerolog's console writer.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tinyclock/gosched"
	"github.com/tinyclock/gosched/clock"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	c := clock.NewSystemClock(time.Local)
	s := gosched.NewWithConfig(c, gosched.SchedulerConfig{Logger: log})
	defer s.Deinit()

	s.SetMinValidUnixSeconds(0)

	everyMinute := gosched.CustomSchedule(
		gosched.AnyField(), gosched.AnyField(), gosched.AnyField(),
		gosched.AnyField(), gosched.AnyField(),
	)
	inlineID := s.AddJob(everyMinute, gosched.Inline, func(userData any) {
		fmt.Printf("inline job fired, userData=%v\n", userData)
	}, "inline-tick", nil)

	workerID := s.AddJob(everyMinute, gosched.Worker, func(userData any) {
		fmt.Printf("worker job fired, userData=%v\n", userData)
	}, "worker-bg", nil)

	log.Info().Uint32("inline_job_id", inlineID).Uint32("worker_job_id", workerID).
		Msg("jobs registered")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-ticker.C:
			s.TickNow()
		case <-deadline:
			s.CancelAll()
			return
		}
	}
}
