package wm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
)

// relevantMods are the modifiers that distinguish bindings; lock
// modifiers such as NumLock and CapsLock are ignored.
const relevantMods = xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMask1 | xproto.ModMask4

const altMod = xproto.ModMask1

type binding struct {
	mods uint16
	key  string
	run  func()
}

func (b binding) String() string {
	return FormatBinding(b.mods, b.key)
}

var modNames = map[string]uint16{
	"shift":   xproto.ModMaskShift,
	"lock":    xproto.ModMaskLock,
	"control": xproto.ModMaskControl,
	"ctrl":    xproto.ModMaskControl,
	"mod1":    xproto.ModMask1,
	"alt":     xproto.ModMask1,
	"mod2":    xproto.ModMask2,
	"mod3":    xproto.ModMask3,
	"mod4":    xproto.ModMask4,
	"super":   xproto.ModMask4,
	"mod5":    xproto.ModMask5,
}

// ParseBinding parses strings like "Mod4-Shift-Return" into a modifier
// mask and a key name.
func ParseBinding(s string) (mods uint16, key string, err error) {
	if s == "" {
		return 0, "", errors.New("empty key binding")
	}
	parts := strings.Split(s, "-")
	key = parts[len(parts)-1]
	if key == "" {
		return 0, "", fmt.Errorf("key binding %q has no key", s)
	}
	for _, p := range parts[:len(parts)-1] {
		m, ok := modNames[strings.ToLower(p)]
		if !ok {
			return 0, "", fmt.Errorf("unknown modifier %q in key binding %q", p, s)
		}
		mods |= m
	}
	return mods, key, nil
}

// FormatBinding is the inverse of ParseBinding.
func FormatBinding(mods uint16, key string) string {
	var b strings.Builder
	for _, m := range []struct {
		mask uint16
		name string
	}{
		{xproto.ModMaskControl, "Control"},
		{xproto.ModMask1, "Mod1"},
		{xproto.ModMask4, "Mod4"},
		{xproto.ModMaskShift, "Shift"},
	} {
		if mods&m.mask != 0 {
			b.WriteString(m.name)
			b.WriteByte('-')
		}
	}
	b.WriteString(key)
	return b.String()
}

func (wm *WM) defaultBindings() []binding {
	onActive := func(fn func(*Frame)) func() {
		return func() {
			if wm.active != nil {
				fn(wm.active)
			}
		}
	}
	forward := func() { wm.cycle(false) }
	backward := func() { wm.cycle(true) }
	return []binding{
		{altMod, "Tab", forward},
		{altMod | xproto.ModMaskShift, "Tab", backward},
		{altMod | xproto.ModMaskShift, "ISO_Left_Tab", backward},
		{altMod, "Return", onActive(wm.Maximize)},
		{altMod, "BackSpace", onActive(wm.ToggleOnTop)},
		{altMod, "F4", onActive(wm.DeleteWindow)},
		{altMod | xproto.ModMaskShift, "F4", onActive(wm.KillWindow)},
	}
}

// grabKeys builds the binding table and grabs every binding on root.
func (wm *WM) grabKeys() error {
	wm.bindings = wm.defaultBindings()
	for _, c := range wm.commands {
		if c.Key == "" {
			continue
		}
		mods, key, err := ParseBinding(c.Key)
		if err != nil {
			return fmt.Errorf("command %q: %w", c.Name, err)
		}
		wm.bindings = append(wm.bindings, binding{mods: mods, key: key, run: func() { wm.launch(c) }})
	}
	for _, b := range wm.bindings {
		if err := wm.conn.GrabKey(b.mods, b.key); err != nil {
			wm.log.Warn("couldn't grab key", "key", b.String(), "error", err)
		}
	}
	return nil
}

func (wm *WM) handleKeyPress(e xproto.KeyPressEvent) {
	name := wm.conn.KeyName(e.Detail, e.State)
	mods := e.State & relevantMods
	for _, b := range wm.bindings {
		if b.mods == mods && strings.EqualFold(b.key, name) {
			b.run()
			return
		}
	}
	wm.log.Debug("unbound key", "key", FormatBinding(mods, name))
}

func (wm *WM) handleKeyRelease(e xproto.KeyReleaseEvent) {
	if !wm.cycling {
		return
	}
	switch wm.conn.KeyName(e.Detail, 0) {
	case "Alt_L", "Alt_R", "Meta_L", "Meta_R", "Super_L", "Super_R":
		wm.endCycle()
	}
}

// cycle starts or continues keyboard window cycling through the menu.
func (wm *WM) cycle(backward bool) {
	m := wm.menu
	if !wm.cycling {
		m.refresh()
		n := m.WindowCount()
		if n == 0 {
			return
		}
		if err := wm.conn.GrabKeyboard(); err != nil {
			wm.log.Warn("couldn't grab keyboard", "error", err)
			return
		}
		wm.cycling = true
		m.ShowCentered()
		start := 1 % n
		if backward {
			start = n - 1
		}
		m.SetCurrent(start)
		return
	}
	if backward {
		m.Cycle(-1)
	} else {
		m.Cycle(1)
	}
}

// endCycle releases the keyboard and activates the selected window.
func (wm *WM) endCycle() {
	if !wm.cycling {
		return
	}
	wm.cycling = false
	wm.check(wm.conn.UngrabKeyboard(), "ungrab keyboard")
	wm.menu.SelectCurrent()
}

// Cycling reports whether keyboard cycling is in progress.
func (wm *WM) Cycling() bool {
	return wm.cycling
}
