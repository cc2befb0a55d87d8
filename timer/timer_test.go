package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stepClock advances by step on every reading.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)

	return t
}

func TestEpochElapsed(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0), step: 1500 * time.Microsecond}
	tm := New(clock)

	e := tm.Start()
	assert.Equal(t, 1500*time.Microsecond, e.Duration())
	assert.InDelta(t, 3.0, e.Elapsed(), 1e-9)
}

func TestStartBeginsNewEpoch(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0), step: time.Millisecond}
	tm := New(clock)

	first := tm.Start()
	_ = first.Duration()

	second := tm.Start()
	assert.Equal(t, time.Millisecond, second.Duration())
}

func TestZeroEpoch(t *testing.T) {
	var e Epoch
	assert.Zero(t, e.Duration())
	assert.Zero(t, e.Elapsed())
}

func TestSystemTimerMonotonic(t *testing.T) {
	e := System().Start()
	time.Sleep(time.Millisecond)

	assert.GreaterOrEqual(t, e.Elapsed(), 1.0)
}

func TestMilliseconds(t *testing.T) {
	assert.InDelta(t, 2.5, Milliseconds(2500*time.Microsecond), 1e-12)
	assert.Zero(t, Milliseconds(0))
}
