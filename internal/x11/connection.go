package x11

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

var (
	// ErrAnotherWM means substructure redirect on the root window was refused.
	ErrAnotherWM = errors.New("substructure redirect refused, another window manager is probably running")
	// ErrExtensionMissing means the server does not offer RandR.
	ErrExtensionMissing = errors.New("RANDR extension is not available")
)

const randrName = "RANDR"

// Options configures Open.
type Options struct {
	// Display is the X display to connect to. Empty means $DISPLAY.
	Display string
	// Slot receives the output extension base code. Nil uses the process slot.
	Slot   *ExtensionSlot
	Logger *slog.Logger
}

// Session is an established window manager connection: the root window is
// redirected to us, the atom vocabulary is interned and the check window
// exists.
type Session struct {
	conn   *xgb.Conn
	xu     *xgbutil.XUtil
	root   xproto.Window
	check  xproto.Window
	dummy  xproto.Window
	atoms  *AtomRegistry
	lease  *ExtensionLease
	logger *slog.Logger

	ignoreMods []uint16
	closeOnce  sync.Once
}

type replier interface {
	Reply() (*xproto.InternAtomReply, error)
}

type checker interface {
	Check() error
}

// Open connects to the X server and claims window manager authority over
// the root window of the first screen. All bootstrap requests are issued
// before any reply is read; any failure aborts and releases what was
// acquired.
func Open(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	slot := opts.Slot
	if slot == nil {
		slot = &processSlot
	}

	conn, err := xgb.NewConnDisplay(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	if len(setup.Roots) == 0 {
		conn.Close()
		return nil, fmt.Errorf("X server reported no screens")
	}
	root := setup.Roots[0].Root

	// xgbutil helpers share our connection. Its dummy window is mapped on
	// the root before we redirect, so adoption has to skip it.
	xu, err := xgbutil.NewConnXgb(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to wrap connection: %w", err)
	}
	keybind.Initialize(xu)

	// randr requests panic unless the extension is registered first.
	if err := randr.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrExtensionMissing, err)
	}

	check, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to allocate check window id: %w", err)
	}

	// Fire everything, then collect.
	all := AllAtoms()
	atomCookies := make([]replier, len(all))
	for i, a := range all {
		name := a.String()
		atomCookies[i] = xproto.InternAtom(conn, false, uint16(len(name)), name)
	}
	createCookie := xproto.CreateWindowChecked(conn, 0, check, root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, 0, nil)
	extCookie := xproto.QueryExtension(conn, uint16(len(randrName)), randrName)
	selectCookie := randr.SelectInputChecked(conn, root,
		randr.NotifyMaskScreenChange|randr.NotifyMaskCrtcChange|randr.NotifyMaskOutputChange)
	redirectCookie := xproto.ChangeWindowAttributesChecked(conn, root, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange |
			xproto.EventMaskSubstructureRedirect |
			xproto.EventMaskSubstructureNotify})

	atoms, atomErr := internAtoms(all, atomCookies)
	createErr := checkCookie("create check window", createCookie)
	var lease *ExtensionLease
	extErr := func() error {
		reply, err := extCookie.Reply()
		if err != nil {
			return fmt.Errorf("query %s: %w", randrName, err)
		}
		if !reply.Present {
			return ErrExtensionMissing
		}
		lease, err = slot.Acquire(reply.FirstEvent)
		return err
	}()
	selectErr := checkCookie("select output change events", selectCookie)
	redirectErr := redirectCookie.Check()
	if redirectErr != nil {
		redirectErr = fmt.Errorf("%w: %v", ErrAnotherWM, redirectErr)
	}

	if err := errors.Join(atomErr, createErr, extErr, selectErr, redirectErr); err != nil {
		if createErr == nil {
			xproto.DestroyWindow(conn, check)
		}
		lease.Release()
		conn.Close()
		return nil, fmt.Errorf("window manager bootstrap failed: %w", err)
	}

	s := &Session{
		conn:   conn,
		xu:     xu,
		root:   root,
		check:  check,
		dummy:  xu.Dummy(),
		atoms:  atoms,
		lease:  lease,
		logger: logger,
	}
	s.ignoreMods = ignoreModMasks(xu)
	s.publishSupport()

	logger.Info("window manager session established",
		"root", root,
		"check_window", check,
		"randr_base", lease.Base(),
		"atoms", len(all))
	return s, nil
}

// internAtoms collects intern replies in vocabulary order. A single failed
// reply fails the whole registry.
func internAtoms(all []Atom, cookies []replier) (*AtomRegistry, error) {
	ids := make(map[Atom]xproto.Atom, len(all))
	var errs []error
	for i, a := range all {
		reply, err := cookies[i].Reply()
		if err != nil {
			errs = append(errs, fmt.Errorf("intern %s: %w", a, err))
			continue
		}
		if reply == nil {
			errs = append(errs, fmt.Errorf("intern %s: empty reply", a))
			continue
		}
		ids[a] = reply.Atom
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return NewAtomRegistry(ids)
}

func checkCookie(what string, c checker) error {
	if err := c.Check(); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// Root returns the managed root window.
func (s *Session) Root() xproto.Window {
	return s.root
}

// Atoms returns the interned vocabulary.
func (s *Session) Atoms() *AtomRegistry {
	return s.atoms
}

// EventBase returns the first event code of the output-change extension.
func (s *Session) EventBase() uint8 {
	return s.lease.Base()
}

// WaitForEvent blocks until the server delivers an event or error.
func (s *Session) WaitForEvent() (xgb.Event, xgb.Error) {
	return s.conn.WaitForEvent()
}

// PollForEvent returns a queued event or error without blocking. Both are
// nil when nothing is queued.
func (s *Session) PollForEvent() (xgb.Event, xgb.Error) {
	return s.conn.PollForEvent()
}

// Flush makes sure every request issued so far has reached the server.
// xgb writes requests as they are made, so this is a round-trip barrier; a
// failure means the connection is gone.
func (s *Session) Flush() error {
	if _, err := xproto.GetInputFocus(s.conn).Reply(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Wake sends a private client message to the check window so that a
// blocked WaitForEvent returns. Safe to call from any goroutine.
func (s *Session) Wake() {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: s.check,
		Type:   s.atoms.ID(AtomWake),
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{0, 0, 0, 0, 0}),
	}
	xproto.SendEvent(s.conn, false, s.check, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

// ownWindow reports whether w was created by this session rather than a
// client.
func (s *Session) ownWindow(w xproto.Window) bool {
	return w == s.check || (s.dummy != 0 && w == s.dummy)
}

// IsWake reports whether a client message is the wake-up sent by Wake.
func (s *Session) IsWake(window xproto.Window, typ xproto.Atom) bool {
	return window == s.check && typ == s.atoms.ID(AtomWake)
}

// Close releases everything the session holds: key grabs on the root, the
// check window, the active window property and the extension slot. It is
// safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		xproto.UngrabKey(s.conn, xproto.GrabAny, s.root, xproto.ModMaskAny)
		xproto.DestroyWindow(s.conn, s.check)
		xproto.DeleteProperty(s.conn, s.root, s.atoms.ID(AtomNetActiveWindow))
		if err := s.Flush(); err != nil {
			s.logger.Warn("flush during shutdown failed", "error", err)
		}
		s.lease.Release()
		s.conn.Close()
		s.logger.Info("window manager session closed")
	})
}
