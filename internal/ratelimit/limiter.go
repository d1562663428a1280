package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// FixedWindow counts requests per key in fixed windows, state is process local
type FixedWindow struct {
	mu      sync.Mutex
	limit   int
	size    time.Duration
	windows map[string]*window
	now     func() time.Time
}

// NewFixedWindow creates limiter allowing limit requests per key in each window
func NewFixedWindow(limit int, size time.Duration) *FixedWindow {
	return &FixedWindow{
		limit:   limit,
		size:    size,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records request for key. When limit is exceeded it returns false and time until window resets.
func (fw *FixedWindow) Allow(key string) (bool, time.Duration) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := fw.now()
	w, ok := fw.windows[key]
	if !ok || now.Sub(w.start) >= fw.size {
		fw.windows[key] = &window{start: now, count: 1}
		return true, 0
	}

	if w.count >= fw.limit {
		return false, w.start.Add(fw.size).Sub(now)
	}

	w.count++
	return true, 0
}

// Sweep drops expired windows
func (fw *FixedWindow) Sweep() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := fw.now()
	removed := 0
	for key, w := range fw.windows {
		if now.Sub(w.start) >= fw.size {
			delete(fw.windows, key)
			removed++
		}
	}

	return removed
}
