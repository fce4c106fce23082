package service

import (
	"sync"
	"time"
)

// debouncer runs fn once, delay after the most recent Trigger. Each Trigger
// supersedes the pending one.
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	fn     func()
	timer  *time.Timer
	closed bool
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

// Trigger (re)arms the timer. It reports false when nothing was scheduled,
// either because the debouncer is closed or because delay is not positive.
func (d *debouncer) Trigger() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.delay <= 0 {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
	return true
}

// Cancel drops a pending run and reports whether one was pending.
func (d *debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

// Close cancels any pending run and disables further triggers.
func (d *debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

func (d *debouncer) stopLocked() bool {
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}
