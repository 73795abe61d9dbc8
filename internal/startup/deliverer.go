package startup

import (
	"sync"
	"time"
)

// DefaultGraceDelay is how long to wait after DOM ready for an explicit
// ready signal before delivering anyway.
const DefaultGraceDelay = 500 * time.Millisecond

// Deliverer hands the initial file to sink exactly once, on the first of
// Ready or the fallback timer.
type Deliverer struct {
	payload   *InitialFile
	sink      func(InitialFile)
	mutex     sync.Mutex
	timer     *time.Timer
	delivered bool
	stopped   bool
}

func NewDeliverer(payload *InitialFile, sink func(InitialFile)) *Deliverer {
	return &Deliverer{payload: payload, sink: sink}
}

// Ready delivers the payload now. Later calls are no-ops.
func (d *Deliverer) Ready() {
	if d == nil {
		return
	}
	d.deliver()
}

// ScheduleFallback arms a one-shot timer that delivers after delay when no
// ready signal has arrived. Rearming replaces the previous timer.
func (d *Deliverer) ScheduleFallback(delay time.Duration) {
	if d == nil || d.payload == nil {
		return
	}
	if delay <= 0 {
		delay = DefaultGraceDelay
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped || d.delivered {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, d.deliver)
}

// Stop disarms the fallback and suppresses any later delivery.
func (d *Deliverer) Stop() {
	if d == nil {
		return
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a payload is still waiting for delivery.
func (d *Deliverer) Pending() bool {
	if d == nil || d.payload == nil {
		return false
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return !d.delivered && !d.stopped
}

// deliver holds the mutex across the sink call so a concurrent Stop cannot
// return while a delivery is in flight.
func (d *Deliverer) deliver() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.payload == nil || d.sink == nil || d.delivered || d.stopped {
		return
	}
	d.delivered = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.sink(*d.payload)
}
