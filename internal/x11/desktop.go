package x11

import (
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// WmName is advertised on the check window.
const WmName = "xwm"

// supportedHints lists the EWMH hints xwm acts on.
var supportedHints = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
}

// publishSupport marks the check window as the EWMH compliance window.
// Failures are logged; clients merely lose the hints.
func (s *Session) publishSupport() {
	if err := ewmh.SupportingWmCheckSet(s.xu, s.root, s.check); err != nil {
		s.logger.Warn("failed to set _NET_SUPPORTING_WM_CHECK on root", "error", err)
	}
	if err := ewmh.SupportingWmCheckSet(s.xu, s.check, s.check); err != nil {
		s.logger.Warn("failed to set _NET_SUPPORTING_WM_CHECK on check window", "error", err)
	}
	if err := ewmh.WmNameSet(s.xu, s.check, WmName); err != nil {
		s.logger.Warn("failed to set _NET_WM_NAME on check window", "error", err)
	}
	if err := ewmh.SupportedSet(s.xu, supportedHints); err != nil {
		s.logger.Warn("failed to set _NET_SUPPORTED", "error", err)
	}
}

// Describe returns the WM_CLASS class and best-effort title of w. Missing
// properties yield empty strings.
func (s *Session) Describe(w xproto.Window) (class, title string) {
	if wc, err := icccm.WmClassGet(s.xu, w); err == nil && wc != nil {
		class = wc.Class
	}
	title, err := ewmh.WmNameGet(s.xu, w)
	if title == "" || err != nil {
		title, _ = s.StringProperty(w, AtomWmName)
	}
	return class, title
}

// RedirectLibraryLogs sends the xgb and xgbutil package loggers through
// handler at debug level.
func RedirectLibraryLogs(handler slog.Handler) {
	xgb.Logger = slog.NewLogLogger(handler, slog.LevelDebug)
	xgbutil.Logger = slog.NewLogLogger(handler, slog.LevelDebug)
	xgb.Logger.SetFlags(0)
	xgbutil.Logger.SetFlags(0)
}
