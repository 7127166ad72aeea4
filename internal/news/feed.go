package news

import "sync"

// Feed maintains a bounded ring buffer of feed items, newest kept.
type Feed struct {
	mu    sync.RWMutex
	buf   []Item
	size  int
	start int
	count int
}

// NewFeed creates a Feed with the given capacity.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = 100
	}
	return &Feed{
		buf:  make([]Item, capacity),
		size: capacity,
	}
}

// Add appends an item, overwriting the oldest when full.
func (f *Feed) Add(item Item) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.count < f.size {
		f.buf[(f.start+f.count)%f.size] = item
		f.count++
		return
	}
	f.buf[f.start] = item
	f.start = (f.start + 1) % f.size
}

// Latest returns the last n items in chronological order (oldest first).
// Returns a copy.
func (f *Feed) Latest(n int) []Item {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if n <= 0 || f.count == 0 {
		return nil
	}
	if n > f.count {
		n = f.count
	}

	out := make([]Item, n)
	first := (f.start + (f.count - n)) % f.size
	for i := 0; i < n; i++ {
		out[i] = f.buf[(first+i)%f.size]
	}
	return out
}

// Reset discards all items, keeping the capacity.
func (f *Feed) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.start = 0
	f.count = 0
}

// Count returns the number of items held.
func (f *Feed) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.count
}
