package utils

import (
	"sync"
	"time"
)

// Phase records the wall-clock duration of a single named phase.
type Phase struct {
	Name     string
	Duration time.Duration
}

// Timer measures a sequence of named phases. It is safe for concurrent use,
// though the traversal pipeline runs its phases sequentially.
type Timer struct {
	mu         sync.Mutex
	name       string
	startTime  time.Time
	phases     map[string]*phaseState
	phaseOrder []string
}

type phaseState struct {
	start    time.Time
	duration time.Duration
	done     bool
}

// NewTimer creates a new Timer with the given name.
func NewTimer(name string) *Timer {
	return &Timer{
		name:      name,
		startTime: time.Now(),
		phases:    make(map[string]*phaseState),
	}
}

// PhaseTimer stops a running phase. Safe to call Stop multiple times; only
// the first call records.
type PhaseTimer struct {
	timer *Timer
	name  string
}

// Stop stops the phase and returns its duration.
func (pt *PhaseTimer) Stop() time.Duration {
	return pt.timer.stopPhase(pt.name)
}

// Start starts timing a new phase and returns a PhaseTimer for deferred stop.
func (t *Timer) Start(name string) *PhaseTimer {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.phases[name]; !ok {
		t.phaseOrder = append(t.phaseOrder, name)
	}
	t.phases[name] = &phaseState{start: time.Now()}
	return &PhaseTimer{timer: t, name: name}
}

func (t *Timer) stopPhase(name string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.phases[name]
	if !ok || p.done {
		if ok {
			return p.duration
		}
		return 0
	}
	p.duration = time.Since(p.start)
	p.done = true
	return p.duration
}

// PhaseDuration returns the recorded duration of a phase, or zero if the
// phase was never stopped.
func (t *Timer) PhaseDuration(name string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p, ok := t.phases[name]; ok && p.done {
		return p.duration
	}
	return 0
}

// Phases returns all completed phases in start order.
func (t *Timer) Phases() []Phase {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Phase, 0, len(t.phaseOrder))
	for _, name := range t.phaseOrder {
		if p := t.phases[name]; p.done {
			out = append(out, Phase{Name: name, Duration: p.duration})
		}
	}
	return out
}

// Total returns the time elapsed since the timer was created.
func (t *Timer) Total() time.Duration {
	return time.Since(t.startTime)
}
