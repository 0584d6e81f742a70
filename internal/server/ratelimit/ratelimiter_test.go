package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter() (*Limiter, *clock) {
	c := &clock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter()
	l.now = c.now
	return l, c
}

func TestAllowWithinWindow(t *testing.T) {
	l, _ := newTestLimiter()

	assert.True(t, l.Allow("1.2.3.4", 2, 60))
	assert.True(t, l.Allow("1.2.3.4", 2, 60))
	assert.False(t, l.Allow("1.2.3.4", 2, 60))

	assert.True(t, l.Allow("5.6.7.8", 2, 60), "keys are tracked separately")
}

func TestAllowResetsAfterWindow(t *testing.T) {
	l, c := newTestLimiter()

	assert.True(t, l.Allow("ip", 1, 60))
	assert.False(t, l.Allow("ip", 1, 60))
	assert.Equal(t, 60*time.Second, l.Remaining("ip"))

	c.t = c.t.Add(61 * time.Second)
	assert.Equal(t, time.Duration(0), l.Remaining("ip"))
	assert.True(t, l.Allow("ip", 1, 60))
}

func TestEvict(t *testing.T) {
	l, c := newTestLimiter()

	l.Allow("old", 1, 1)
	c.t = c.t.Add(10 * time.Minute)
	l.Allow("fresh", 1, 60)

	l.evict(5 * time.Minute)

	assert.NotContains(t, l.limits, "old")
	assert.Contains(t, l.limits, "fresh")
}
