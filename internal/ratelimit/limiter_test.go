package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestFixedWindow_Allow(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	fw := NewFixedWindow(2, time.Minute)
	fw.now = c.now

	ok, _ := fw.Allow("user:1")
	assert.True(t, ok)
	ok, _ = fw.Allow("user:1")
	assert.True(t, ok)

	ok, retry := fw.Allow("user:1")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	// other callers have own windows
	ok, _ = fw.Allow("user:2")
	assert.True(t, ok)

	c.t = c.t.Add(40 * time.Second)
	ok, retry = fw.Allow("user:1")
	assert.False(t, ok)
	assert.Equal(t, 20*time.Second, retry)

	// window resets on expiry
	c.t = c.t.Add(20 * time.Second)
	ok, _ = fw.Allow("user:1")
	assert.True(t, ok)
}

func TestFixedWindow_Sweep(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	fw := NewFixedWindow(1, time.Minute)
	fw.now = c.now

	fw.Allow("a")
	c.t = c.t.Add(30 * time.Second)
	fw.Allow("b")

	c.t = c.t.Add(31 * time.Second)
	assert.Equal(t, 1, fw.Sweep())

	ok, _ := fw.Allow("b")
	assert.False(t, ok)
}
