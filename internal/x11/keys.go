package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/1broseidon/xwm/internal/event"
)

// KeyCombo is a parsed key binding. A single keysym may map to several
// keycodes.
type KeyCombo struct {
	Mods  uint16
	Codes []xproto.Keycode
}

// Matches reports whether a key event with the given modifiers and code
// triggers the combo. Lock modifiers are ignored.
func (k KeyCombo) Matches(key event.KeyCode, ignore []uint16) bool {
	mods := key.Mask
	for _, m := range ignore {
		mods &^= m
	}
	if mods != k.Mods {
		return false
	}
	for _, c := range k.Codes {
		if c == key.Code {
			return true
		}
	}
	return false
}

// ParseKey turns a keybind string such as "Mod4-Shift-q" into a KeyCombo.
func (s *Session) ParseKey(keyStr string) (KeyCombo, error) {
	mods, codes, err := keybind.ParseString(s.xu, keyStr)
	if err != nil {
		return KeyCombo{}, fmt.Errorf("parse key %q: %w", keyStr, err)
	}
	if len(codes) == 0 {
		return KeyCombo{}, fmt.Errorf("parse key %q: no keycode", keyStr)
	}
	return KeyCombo{Mods: mods, Codes: codes}, nil
}

// ParseModifier turns a modifier name such as "Mod1" into its mask.
func ParseModifier(name string) (uint16, error) {
	for _, m := range []struct {
		name string
		mask uint16
	}{
		{"Shift", xproto.ModMaskShift},
		{"Lock", xproto.ModMaskLock},
		{"Control", xproto.ModMaskControl},
		{"Mod1", xproto.ModMask1},
		{"Mod2", xproto.ModMask2},
		{"Mod3", xproto.ModMask3},
		{"Mod4", xproto.ModMask4},
		{"Mod5", xproto.ModMask5},
	} {
		if m.name == name {
			return m.mask, nil
		}
	}
	return 0, fmt.Errorf("unknown modifier %q", name)
}

// IgnoredModifiers returns the lock modifier masks stripped before
// matching key and button events.
func (s *Session) IgnoredModifiers() []uint16 {
	return s.ignoreMods
}

// GrabKey grabs every keycode of k on the root window, once per
// combination of lock modifiers so CapsLock and NumLock do not defeat it.
func (s *Session) GrabKey(k KeyCombo) {
	for _, g := range k.grabs(s.lockCombinations()) {
		xproto.GrabKey(s.conn, false, s.root, g.mods, g.code,
			xproto.GrabModeAsync, xproto.GrabModeAsync)
	}
	s.logger.Info("grabbing key", "mods", k.Mods, "codes", k.Codes)
}

// UngrabKey releases every grab GrabKey made for k.
func (s *Session) UngrabKey(k KeyCombo) {
	for _, g := range k.grabs(s.lockCombinations()) {
		xproto.UngrabKey(s.conn, g.code, s.root, g.mods)
	}
	s.logger.Info("ungrabbing key", "mods", k.Mods, "codes", k.Codes)
}

type keyGrab struct {
	mods uint16
	code xproto.Keycode
}

// grabs expands k into one grab per keycode and lock combination.
func (k KeyCombo) grabs(locks []uint16) []keyGrab {
	out := make([]keyGrab, 0, len(k.Codes)*len(locks))
	for _, code := range k.Codes {
		for _, extra := range locks {
			out = append(out, keyGrab{mods: k.Mods | extra, code: code})
		}
	}
	return out
}

// GrabButton grabs a mouse button with modifiers on the root window,
// reporting press, release and motion.
func (s *Session) GrabButton(button event.MouseButton, mods uint16) {
	for _, extra := range s.lockCombinations() {
		xproto.GrabButton(s.conn, false, s.root,
			xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion,
			xproto.GrabModeAsync, xproto.GrabModeAsync,
			xproto.WindowNone, xproto.CursorNone,
			byte(button), mods|extra)
	}
}

// lockCombinations returns every OR-combination of the ignored lock masks,
// including zero.
func (s *Session) lockCombinations() []uint16 {
	return maskCombinations(s.ignoreMods)
}

func maskCombinations(base []uint16) []uint16 {
	unique := map[uint16]struct{}{0: {}}
	out := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		if _, seen := unique[mask]; seen {
			continue
		}
		unique[mask] = struct{}{}
		out = append(out, mask)
	}
	return out
}

// ignoreModMasks finds the CapsLock, NumLock and ScrollLock masks for the
// current keyboard mapping.
func ignoreModMasks(xu *xgbutil.XUtil) []uint16 {
	caps := uint16(xproto.ModMaskLock)
	base := []uint16{caps}
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	return base
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
