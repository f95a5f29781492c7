package wm

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xwm/internal/event"
	"github.com/1broseidon/xwm/internal/window"
	"github.com/1broseidon/xwm/internal/x11"
)

// Conn is the part of an X session the event loop drives. *x11.Session
// satisfies it.
type Conn interface {
	event.Source
	window.Requester
	Flush() error
	Wake()
	IsWake(w xproto.Window, typ xproto.Atom) bool
	Atoms() *x11.AtomRegistry
	EventBase() uint8
	Outputs() []x11.Output
	ExistingWindows() ([]x11.ExistingWindow, error)
	Describe(w xproto.Window) (class, title string)
}

// Handler observes every decoded event after the window table has been
// updated for it. Handlers run on the loop goroutine and may attach
// request markers to the table.
type Handler interface {
	Handle(ev event.Event, windows *window.Table)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev event.Event, windows *window.Table)

func (f HandlerFunc) Handle(ev event.Event, windows *window.Table) {
	f(ev, windows)
}

// Options configures a Manager.
type Options struct {
	Logger *slog.Logger
	// SkipAdopt leaves windows that existed before startup untracked.
	SkipAdopt bool
}

// Manager runs the receive, apply, reconcile and flush pipeline.
type Manager struct {
	conn     Conn
	decoder  *event.Decoder
	windows  *window.Table
	handlers []Handler
	logger   *slog.Logger
	adopt    bool

	outputs    []x11.Output
	started    time.Time
	iterations uint64
	events     uint64

	stopping atomic.Bool
	lifeMu   sync.Mutex
	running  bool

	snapMu   sync.RWMutex
	snapshot Snapshot
}

// New builds a manager for an established session.
func New(conn Conn, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		conn:    conn,
		decoder: event.NewDecoder(conn.EventBase(), logger),
		windows: window.NewTable(logger),
		logger:  logger,
		adopt:   !opts.SkipAdopt,
	}
}

// Subscribe adds a handler. Handlers are called in subscription order.
// Subscribe must not be called once Run has started.
func (m *Manager) Subscribe(h Handler) {
	m.handlers = append(m.handlers, h)
}

// Windows returns the live window table. Only use it from handlers or
// before Run.
func (m *Manager) Windows() *window.Table {
	return m.windows
}

// Run adopts existing windows and loops until Stop is called or a fatal
// error occurs.
func (m *Manager) Run() error {
	m.setRunning(true)
	defer m.setRunning(false)

	if err := m.Start(); err != nil {
		return err
	}
	m.logger.Info("window manager running",
		"windows", m.windows.Len(),
		"outputs", len(m.outputs),
		"handlers", len(m.handlers))

	for !m.stopping.Load() {
		if err := m.Step(); err != nil {
			if m.stopping.Load() && errors.Is(err, event.ErrConnectionClosed) {
				break
			}
			return err
		}
	}
	m.logger.Info("window manager stopped", "iterations", m.iterations)
	return nil
}

// Start performs the one-time work before the first iteration: adopting
// windows that already exist and discovering outputs.
func (m *Manager) Start() error {
	m.started = time.Now()
	if m.adopt {
		if err := m.adoptExisting(); err != nil {
			return err
		}
	}
	m.refreshOutputs()
	m.windows.Reconcile(m.conn)
	if err := m.conn.Flush(); err != nil {
		return err
	}
	m.publish()
	return nil
}

// Step runs one iteration: block for events, apply and dispatch them in
// arrival order, reconcile and flush.
func (m *Manager) Step() error {
	batch, err := m.decoder.NextBatch(m.conn)
	if err != nil {
		return fmt.Errorf("receive events: %w", err)
	}

	began := time.Now()
	for _, ev := range batch {
		m.dispatch(ev)
	}
	stats := m.windows.Reconcile(m.conn)
	if err := m.conn.Flush(); err != nil {
		return err
	}

	m.iterations++
	m.events += uint64(len(batch))
	m.publish()
	m.logger.Debug("iteration complete",
		"events", len(batch),
		"reconciled", stats.Examined,
		"duration", time.Since(began))
	return nil
}

// Stop ends Run after the current iteration. Safe from any goroutine.
func (m *Manager) Stop() {
	if m.stopping.Swap(true) {
		return
	}
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	if m.running {
		m.conn.Wake()
	}
}

func (m *Manager) setRunning(v bool) {
	m.lifeMu.Lock()
	m.running = v
	m.lifeMu.Unlock()
}

func (m *Manager) dispatch(ev event.Event) {
	if msg, ok := ev.(event.ClientMessage); ok && m.conn.IsWake(msg.Window, msg.Type) {
		return
	}

	m.windows.Apply(ev)

	switch e := ev.(type) {
	case event.OutputChange:
		m.logger.Info("outputs changed", "reason", e.Reason)
		m.refreshOutputs()
	case event.Map:
		m.relabel(e.Window)
	case event.PropertyChange:
		if m.isLabelAtom(e.Atom) {
			m.relabel(e.Window)
		}
	}

	for _, h := range m.handlers {
		h.Handle(ev, m.windows)
	}
}

func (m *Manager) isLabelAtom(id xproto.Atom) bool {
	a, ok := m.conn.Atoms().Lookup(id)
	if !ok {
		return false
	}
	switch a {
	case x11.AtomWmName, x11.AtomNetWmName, x11.AtomWmClass:
		return true
	}
	return false
}

func (m *Manager) relabel(w xproto.Window) {
	if !m.windows.Has(w) {
		return
	}
	class, title := m.conn.Describe(w)
	m.windows.SetLabel(w, class, title)
}

func (m *Manager) refreshOutputs() {
	m.outputs = m.conn.Outputs()
	for _, o := range m.outputs {
		m.logger.Debug("output", "name", o.Name, "region", o.Region)
	}
	if len(m.outputs) == 0 {
		m.logger.Warn("no active outputs found")
	}
}

// adoptExisting feeds windows created before startup through the pipeline
// as if their create, configure and map notifications had just arrived.
func (m *Manager) adoptExisting() error {
	existing, err := m.conn.ExistingWindows()
	if err != nil {
		return fmt.Errorf("adopt existing windows: %w", err)
	}
	for _, w := range existing {
		m.dispatch(event.Create{
			Window:           w.ID,
			Region:           w.Region,
			Border:           uint32(w.BorderWidth),
			OverrideRedirect: w.OverrideRedirect,
		})
		m.dispatch(event.ConfigureNotify{Window: w.ID, Region: w.Region, Border: uint32(w.BorderWidth)})
		if w.Viewable {
			m.dispatch(event.Map{Window: w.ID, OverrideRedirect: w.OverrideRedirect})
		}
	}
	if len(existing) > 0 {
		m.logger.Info("adopted existing windows", "count", len(existing))
	}
	return nil
}
