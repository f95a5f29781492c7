package event

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xwm/internal/geom"
)

var (
	// ErrConnectionClosed means the blocking wait returned neither an event
	// nor an error: the server hung up.
	ErrConnectionClosed = errors.New("X connection closed")
	// ErrProtocol marks a protocol error or malformed event the loop
	// cannot continue past.
	ErrProtocol = errors.New("X protocol error")
)

// Source delivers raw wire events. *xgb.Conn satisfies it.
type Source interface {
	WaitForEvent() (xgb.Event, xgb.Error)
	PollForEvent() (xgb.Event, xgb.Error)
}

// Decoder turns raw xgb events into domain events.
type Decoder struct {
	base   uint8
	logger *slog.Logger
}

// NewDecoder builds a decoder for a connection whose output extension
// events start at base.
func NewDecoder(base uint8, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{base: base, logger: logger}
}

// Base returns the output extension base event code.
func (d *Decoder) Base() uint8 {
	return d.base
}

// NextBatch blocks for the first event, then drains everything already
// queued. Events come back in arrival order. Dropped and recoverable
// error events are logged and skipped; the batch may be empty.
func (d *Decoder) NextBatch(src Source) ([]Event, error) {
	ev, xerr := src.WaitForEvent()
	if ev == nil && xerr == nil {
		return nil, ErrConnectionClosed
	}

	var batch []Event
	for {
		if xerr != nil {
			if err := d.checkError(xerr); err != nil {
				return batch, err
			}
		}
		if ev != nil {
			decoded, err := d.Decode(ev)
			if err != nil {
				return batch, err
			}
			if decoded != nil {
				batch = append(batch, decoded)
			}
		}

		ev, xerr = src.PollForEvent()
		if ev == nil && xerr == nil {
			return batch, nil
		}
	}
}

// checkError returns nil for errors that are the ordinary race with a
// client going away.
func (d *Decoder) checkError(xerr xgb.Error) error {
	switch xerr.(type) {
	case xproto.WindowError, xproto.DrawableError, xproto.MatchError,
		xproto.ValueError, xproto.AccessError:
		d.logger.Debug("ignoring X error", "error", xerr.Error(), "sequence", xerr.SequenceId(), "bad_id", xerr.BadId())
		return nil
	}
	return fmt.Errorf("%w: %s", ErrProtocol, xerr.Error())
}

// Decode converts one raw event. It returns (nil, nil) for events that are
// intentionally dropped.
func (d *Decoder) Decode(ev xgb.Event) (Event, error) {
	out := convert(ev)
	if out != nil {
		d.logger.Debug("event", "kind", out.Kind(), "event", out)
		return out, nil
	}

	raw := ev.Bytes()
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty event %T", ErrProtocol, ev)
	}
	tag := raw[0] &^ sendEventBit
	kind, class := Classify(tag, d.base)
	switch class {
	case ClassIgnored:
		d.logger.Debug("dropping event", "tag", tag, "type", fmt.Sprintf("%T", ev))
	case ClassHandled:
		// Tag is one we decode but the concrete type did not match.
		d.logger.Warn("undecodable event", "tag", tag, "kind", kind, "type", fmt.Sprintf("%T", ev))
	default:
		d.logger.Warn("unknown event", "tag", tag, "type", fmt.Sprintf("%T", ev))
	}
	return nil, nil
}

func convert(ev xgb.Event) Event {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		return KeyPress{Window: e.Event, Child: e.Child, Key: KeyCode{Mask: e.State, Code: e.Detail}, Root: point(e.RootX, e.RootY)}
	case xproto.KeyReleaseEvent:
		return KeyRelease{Window: e.Event, Child: e.Child, Key: KeyCode{Mask: e.State, Code: e.Detail}, Root: point(e.RootX, e.RootY)}
	case xproto.ButtonPressEvent:
		return ButtonPress{Window: e.Event, Child: e.Child, Button: MouseButton(e.Detail), Mask: e.State, Root: point(e.RootX, e.RootY)}
	case xproto.ButtonReleaseEvent:
		return ButtonRelease{Window: e.Event, Child: e.Child, Button: MouseButton(e.Detail), Mask: e.State, Root: point(e.RootX, e.RootY)}
	case xproto.MotionNotifyEvent:
		return Motion{Window: e.Event, Mask: e.State, Root: point(e.RootX, e.RootY)}
	case xproto.EnterNotifyEvent:
		return Enter{Window: e.Event, Mode: e.Mode, Detail: e.Detail, Root: point(e.RootX, e.RootY)}
	case xproto.LeaveNotifyEvent:
		return Leave{Window: e.Event, Mode: e.Mode, Detail: e.Detail, Root: point(e.RootX, e.RootY)}
	case xproto.FocusInEvent:
		return FocusIn{Window: e.Event, Mode: e.Mode, Detail: e.Detail}
	case xproto.FocusOutEvent:
		return FocusOut{Window: e.Event, Mode: e.Mode, Detail: e.Detail}
	case xproto.CreateNotifyEvent:
		return Create{
			Window:           e.Window,
			Parent:           e.Parent,
			Region:           region(e.X, e.Y, e.Width, e.Height),
			Border:           uint32(e.BorderWidth),
			OverrideRedirect: e.OverrideRedirect,
		}
	case xproto.DestroyNotifyEvent:
		return Destroy{Window: e.Window}
	case xproto.UnmapNotifyEvent:
		return Unmap{Window: e.Window, FromConfigure: e.FromConfigure}
	case xproto.MapNotifyEvent:
		return Map{Window: e.Window, OverrideRedirect: e.OverrideRedirect}
	case xproto.MapRequestEvent:
		return MapRequest{Window: e.Window, Parent: e.Parent}
	case xproto.ConfigureNotifyEvent:
		return ConfigureNotify{Window: e.Window, Region: region(e.X, e.Y, e.Width, e.Height), Border: uint32(e.BorderWidth)}
	case xproto.ConfigureRequestEvent:
		return ConfigureRequest{
			Window: e.Window,
			Region: region(e.X, e.Y, e.Width, e.Height),
			Border: uint32(e.BorderWidth),
			Mask:   e.ValueMask,
		}
	case xproto.PropertyNotifyEvent:
		return PropertyChange{Window: e.Window, Atom: e.Atom, Deleted: e.State == xproto.PropertyDelete}
	case xproto.ClientMessageEvent:
		msg := ClientMessage{Window: e.Window, Type: e.Type, Format: e.Format}
		if e.Format == 32 {
			copy(msg.Data[:], e.Data.Data32)
		}
		return msg
	case randr.ScreenChangeNotifyEvent:
		return OutputChange{Reason: OutputScreen}
	case randr.NotifyEvent:
		return OutputChange{Reason: notifyReason(e.SubCode)}
	}
	return nil
}

// Output extension notify subcodes.
const (
	subCrtcChange       = 0
	subOutputChange     = 1
	subOutputProperty   = 2
	subProviderChange   = 3
	subProviderProperty = 4
	subResourceChange   = 5
)

func notifyReason(sub byte) OutputReason {
	switch sub {
	case subCrtcChange:
		return OutputCrtc
	case subOutputChange:
		return OutputConnector
	case subOutputProperty:
		return OutputProperty
	case subProviderChange, subProviderProperty:
		return OutputProvider
	case subResourceChange:
		return OutputResources
	}
	return OutputOther
}

func point(x, y int16) geom.Point {
	return geom.Point{X: int32(x), Y: int32(y)}
}

func region(x, y int16, w, h uint16) geom.Region {
	return geom.Region{X: int32(x), Y: int32(y), Width: uint32(w), Height: uint32(h)}
}
