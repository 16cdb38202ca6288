package ids

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestNext_UsesClock(t *testing.T) {
	start := time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)
	gen := New(clockwork.NewFakeClockAt(start))

	assert.Equal(t, start.UnixMilli(), gen.Next())
}

func TestNext_StrictlyIncreasingWithinSameMillisecond(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC))
	gen := New(clock)

	a := gen.Next()
	b := gen.Next()
	c := gen.Next()
	assert.Equal(t, a+1, b)
	assert.Equal(t, b+1, c)

	clock.Advance(time.Second)
	assert.Equal(t, a+1000, gen.Next())
}
