package assessment

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	var expirations atomic.Int32
	c := NewCountdown(3, nil, func() {
		expirations.Add(1)
	})
	c.Interval = time.Millisecond
	c.Arm()

	deadline := time.After(time.Second)
	for expirations.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("countdown never expired")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// Let any stray ticks surface before asserting.
	time.Sleep(20 * time.Millisecond)
	if got := expirations.Load(); got != 1 {
		t.Fatalf("expired %d times, want exactly 1", got)
	}
	if c.Remaining() != 0 {
		t.Fatalf("remaining = %d after expiry", c.Remaining())
	}
}

func TestCountdownDisarmPreventsExpiry(t *testing.T) {
	var expirations atomic.Int32
	c := NewCountdown(2, nil, func() {
		expirations.Add(1)
	})
	c.Interval = 5 * time.Millisecond
	c.Arm()
	c.Disarm()
	c.Disarm() // idempotent

	time.Sleep(50 * time.Millisecond)
	if got := expirations.Load(); got != 0 {
		t.Fatalf("disarmed countdown expired %d times", got)
	}
}

func TestCountdownTickPhases(t *testing.T) {
	type tick struct {
		remaining int
		phase     Phase
	}
	ticks := make(chan tick, 128)

	c := NewCountdown(62, func(remaining int, phase Phase) {
		ticks <- tick{remaining, phase}
	}, nil)
	c.Interval = time.Millisecond
	c.Arm()
	defer c.Disarm()

	var seen []tick
	deadline := time.After(time.Second)
	for len(seen) < 61 {
		select {
		case tk := <-ticks:
			seen = append(seen, tk)
		case <-deadline:
			t.Fatalf("only %d ticks observed", len(seen))
		}
	}

	if seen[0].remaining != 61 || seen[0].phase != PhaseNormal {
		t.Fatalf("first tick = %+v", seen[0])
	}
	for _, tk := range seen {
		if tk.remaining == 60 && tk.phase != PhaseWarning {
			t.Errorf("at 60s phase = %s, want warning", tk.phase)
		}
		if tk.remaining == 30 && tk.phase != PhaseCritical {
			t.Errorf("at 30s phase = %s, want critical", tk.phase)
		}
	}
}

func TestPhaseFor(t *testing.T) {
	if PhaseFor(61) != PhaseNormal {
		t.Error("61s should be normal")
	}
	if PhaseFor(60) != PhaseWarning {
		t.Error("60s should be warning")
	}
	if PhaseFor(31) != PhaseWarning {
		t.Error("31s should be warning")
	}
	if PhaseFor(30) != PhaseCritical {
		t.Error("30s should be critical")
	}
	if PhaseFor(0) != PhaseCritical {
		t.Error("0s should be critical")
	}
}
