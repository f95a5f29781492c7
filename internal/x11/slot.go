package x11

import (
	"errors"
	"sync"
)

// ErrSlotHeld is returned when a second session tries to claim the output
// extension slot while another session still holds it.
var ErrSlotHeld = errors.New("an active session already holds the output extension slot")

// ExtensionSlot records the base event code of the output-change extension
// for the single session allowed to hold it.
type ExtensionSlot struct {
	mu   sync.Mutex
	held bool
}

// processSlot is the slot used by Open when Options.Slot is nil.
var processSlot ExtensionSlot

// Acquire claims the slot for a connection whose extension events start at
// base.
func (s *ExtensionSlot) Acquire(base uint8) (*ExtensionLease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held {
		return nil, ErrSlotHeld
	}
	s.held = true
	return &ExtensionLease{slot: s, base: base}, nil
}

// Held reports whether a lease is outstanding.
func (s *ExtensionSlot) Held() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

// ExtensionLease is a claim on an ExtensionSlot. It is released exactly once.
type ExtensionLease struct {
	slot *ExtensionSlot
	base uint8
	once sync.Once
}

// Base returns the first event code assigned to the extension.
func (l *ExtensionLease) Base() uint8 {
	return l.base
}

// Release frees the slot so a later connection can claim it. Extra calls are
// no-ops.
func (l *ExtensionLease) Release() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		l.slot.mu.Lock()
		l.slot.held = false
		l.slot.mu.Unlock()
	})
}
