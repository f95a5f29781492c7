package wm

import (
	"slices"
	"time"

	"github.com/1broseidon/xwm/internal/window"
	"github.com/1broseidon/xwm/internal/x11"
)

// Snapshot is a copy of manager state published after every iteration for
// readers on other goroutines.
type Snapshot struct {
	Started    time.Time
	Iterations uint64
	Events     uint64
	Windows    []window.Entity
	Outputs    []x11.Output
}

// Managed counts managed windows.
func (s Snapshot) Managed() int {
	n := 0
	for _, w := range s.Windows {
		if w.Managed {
			n++
		}
	}
	return n
}

// Mapped counts mapped windows.
func (s Snapshot) Mapped() int {
	n := 0
	for _, w := range s.Windows {
		if w.Mapped {
			n++
		}
	}
	return n
}

// Snapshot returns the state published by the most recent iteration. Safe
// from any goroutine.
func (m *Manager) Snapshot() Snapshot {
	m.snapMu.RLock()
	defer m.snapMu.RUnlock()
	return m.snapshot
}

func (m *Manager) publish() {
	snap := Snapshot{
		Started:    m.started,
		Iterations: m.iterations,
		Events:     m.events,
		Windows:    m.windows.Snapshot(),
		Outputs:    slices.Clone(m.outputs),
	}
	m.snapMu.Lock()
	m.snapshot = snap
	m.snapMu.Unlock()
}
