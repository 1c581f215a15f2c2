// Package banner implements the timed cursor over the promotional slides.
package banner

import (
	"sync"
	"time"

	"github.com/amaumene/nekoview/internal/constants"
)

// Rotator advances an index modulo the slide count on a fixed period.
// A count of zero halts it. Every timer start bumps a generation so ticks
// from a cancelled timer are ignored even if they race the cancellation.
type Rotator struct {
	mu       sync.Mutex
	period   time.Duration
	count    int
	index    int
	gen      uint64
	stopChan chan struct{}
	onChange func(index int)
}

// New creates a stopped rotator. A non-positive period uses the default.
func New(period time.Duration) *Rotator {
	if period <= 0 {
		period = constants.BannerInterval
	}
	return &Rotator{period: period}
}

// OnChange registers fn to be called, outside the lock, after every automatic advance.
func (r *Rotator) OnChange(fn func(index int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// SetCount sets the slide count. A different count restarts the timer
// (stopping it for zero); the index is clamped below the new count.
func (r *Rotator) SetCount(n int) {
	if n < 0 {
		n = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if n == r.count && (n == 0 || r.stopChan != nil) {
		return
	}

	r.stopLocked()
	r.count = n
	if n == 0 || r.index >= n {
		r.index = 0
	}
	if n > 0 {
		r.startLocked()
	}
}

// Select moves to slide i without touching the timer phase.
// Out of range indexes are ignored and reported as false.
func (r *Rotator) Select(i int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i < 0 || i >= r.count {
		return false
	}
	r.index = i
	return true
}

func (r *Rotator) advanceLocked() {
	if r.count == 0 {
		r.index = 0
		return
	}
	r.index = (r.index + 1) % r.count
}

// Index returns the active slide.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Count returns the current slide count.
func (r *Rotator) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Running reports whether the timer is active.
func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopChan != nil
}

// Stop cancels the timer and resets to an empty slide set.
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.count = 0
	r.index = 0
}

func (r *Rotator) startLocked() {
	r.gen++
	stop := make(chan struct{})
	r.stopChan = stop
	go r.loop(r.gen, r.period, stop)
}

func (r *Rotator) stopLocked() {
	if r.stopChan != nil {
		close(r.stopChan)
		r.stopChan = nil
	}
	r.gen++
}

func (r *Rotator) loop(gen uint64, period time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tick(gen)
		case <-stop:
			return
		}
	}
}

func (r *Rotator) tick(gen uint64) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.advanceLocked()
	index, fn := r.index, r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(index)
	}
}
