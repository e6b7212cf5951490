package assessment

import (
	"sync"
	"time"
)

// Phase is the cosmetic urgency level of the countdown, emitted for the
// rendering layer. It carries no scoring effect.
type Phase string

const (
	PhaseNormal   Phase = "normal"
	PhaseWarning  Phase = "warning"  // 60 seconds or less remain
	PhaseCritical Phase = "critical" // 30 seconds or less remain
)

const (
	warningThreshold  = 60
	criticalThreshold = 30
)

// PhaseFor classifies a remaining-seconds value.
func PhaseFor(remaining int) Phase {
	switch {
	case remaining <= criticalThreshold:
		return PhaseCritical
	case remaining <= warningThreshold:
		return PhaseWarning
	default:
		return PhaseNormal
	}
}

// Countdown is the single timer of a timed session. It ticks once per
// second, and on reaching zero fires exactly one expiry signal before
// disarming itself. The owner must disarm it on every path that leaves the
// session (finalize, abandonment) so no stray tick outlives the session.
type Countdown struct {
	// Interval overrides the tick period. Tests shrink it; production
	// leaves the one-second default.
	Interval time.Duration

	mu        sync.Mutex
	remaining int
	armed     bool
	expired   bool
	stop      chan struct{}
	onTick    func(remaining int, phase Phase)
	onExpire  func()
}

// NewCountdown builds a countdown for the given duration. Both callbacks
// are optional; they are invoked from the timer goroutine.
func NewCountdown(seconds int, onTick func(int, Phase), onExpire func()) *Countdown {
	return &Countdown{
		Interval:  time.Second,
		remaining: seconds,
		stop:      make(chan struct{}),
		onTick:    onTick,
		onExpire:  onExpire,
	}
}

// Arm starts ticking. Arming twice is a no-op.
func (c *Countdown) Arm() {
	c.mu.Lock()
	if c.armed {
		c.mu.Unlock()
		return
	}
	c.armed = true
	c.mu.Unlock()

	go c.run()
}

func (c *Countdown) run() {
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			remaining, expired := c.decrement()
			if c.onTick != nil && !expired {
				c.onTick(remaining, PhaseFor(remaining))
			}
			if expired {
				if c.onExpire != nil {
					c.onExpire()
				}
				c.Disarm()
				return
			}
		}
	}
}

// decrement ticks the clock down one second. The expired flag guarantees
// the zero crossing is observed exactly once.
func (c *Countdown) decrement() (remaining int, expired bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 && !c.expired {
		c.expired = true
		return 0, true
	}
	return c.remaining, false
}

// Disarm stops the timer permanently. Safe to call repeatedly and from
// any goroutine.
func (c *Countdown) Disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
}

// Remaining returns the seconds left on the clock.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
