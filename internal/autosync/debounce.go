package autosync

import (
	"sync"
	"time"
)

// afterFunc is replaced in tests
var afterFunc = time.AfterFunc

// Debouncer runs fn once after delay has passed since the last Trigger
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	seq   uint64
	fn    func()
	wg    sync.WaitGroup
}

// NewDebouncer creates a debouncer for fn
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}

	d.seq++
	seq := d.seq
	d.wg.Add(1)
	d.timer = afterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		// a stale timer that fired while being replaced
		if d.seq != seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fn()
	})
}

// Pending reports whether a call is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels a scheduled call and waits for a running one to return
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.seq++
	if d.timer != nil {
		if d.timer.Stop() {
			d.wg.Done()
		}
		d.timer = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}
