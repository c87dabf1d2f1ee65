package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tinyclock/gosched/clock"
)

func TestSystemClockLocalFields(t *testing.T) {
	c := clock.NewSystemClock(time.UTC)
	i := c.FromUTC(2025, 3, 4, 19, 0, 0) // a Tuesday

	assert.Equal(t, 3, c.GetMonthLocal(i))
	assert.Equal(t, 4, c.GetDayLocal(i))
	assert.Equal(t, 2, c.GetWeekdayLocal(i)) // Tuesday = 2
}

func TestSystemClockAddMinutesAndDiff(t *testing.T) {
	c := clock.NewSystemClock(time.UTC)
	base := c.FromUTC(2025, 1, 1, 0, 0, 0)
	plus5 := c.AddMinutes(base, 5)

	assert.Equal(t, int64(5), c.DifferenceInMinutes(plus5, base))
	assert.Equal(t, int64(300), c.DifferenceInSeconds(plus5, base))
	assert.True(t, c.IsAfter(plus5, base))
	assert.False(t, c.IsEqual(plus5, base))
}

func TestSystemClockStartOfDayAndSetTimeOfDay(t *testing.T) {
	c := clock.NewSystemClock(time.UTC)
	i := c.FromUTC(2025, 6, 15, 13, 45, 30)

	start := c.StartOfDayLocal(i)
	assert.Equal(t, 0, start.UTC.Hour())
	assert.Equal(t, 15, c.GetDayLocal(start))

	stamped := c.SetTimeOfDayLocal(i, 9, 30, 0)
	assert.Equal(t, 9, stamped.UTC.Hour())
	assert.Equal(t, 30, stamped.UTC.Minute())
	assert.Equal(t, 15, c.GetDayLocal(stamped))
}

func TestFakeClockAdvanceAndSet(t *testing.T) {
	start := clock.Instant{Epoch: 1700000000, UTC: time.Unix(1700000000, 0).UTC()}
	f := clock.NewFakeClock(start, time.UTC)

	assert.Equal(t, start.Epoch, f.Now().Epoch)

	f.Advance(90 * time.Second)
	assert.Equal(t, start.Epoch+90, f.Now().Epoch)

	f.Set(start)
	assert.Equal(t, start.Epoch, f.Now().Epoch)
}
