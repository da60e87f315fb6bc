package wm

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Frame is the decoration wrapper around one managed client window.
type Frame struct {
	widget
	client       xproto.Window
	name         string
	leader       xproto.Window
	maximized    bool
	onTop        bool
	iconified    bool
	saved        Rect
	title        *Title
	buttons      []*Button
	ignoreUnmaps int
}

// Client returns the wrapped client window.
func (f *Frame) Client() xproto.Window { return f.client }

// Name returns the client's title, possibly empty.
func (f *Frame) Name() string { return f.name }

// Maximized reports whether the frame covers the screen.
func (f *Frame) Maximized() bool { return f.maximized }

// OnTop reports whether the frame is kept above the others.
func (f *Frame) OnTop() bool { return f.onTop }

// Iconified reports whether the frame is hidden by the user.
func (f *Frame) Iconified() bool { return f.iconified }

// Title returns the frame's title bar.
func (f *Frame) Title() *Title { return f.title }

// Buttons returns the frame's buttons, left to right.
func (f *Frame) Buttons() []*Button { return f.buttons }

// ClientGeometry returns the client rectangle relative to the frame.
func (f *Frame) ClientGeometry() Rect {
	th := f.wm.buttonSize
	return Rect{X: 0, Y: th, Width: f.rect.Width, Height: f.rect.Height - th}
}

func (f *Frame) Event(ev xgb.Event) Disposition {
	wm := f.wm
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		wm.Deiconify(f)
		wm.Activate(f)
	case xproto.UnmapNotifyEvent:
		// The copy reported to root while adopting is ignored; the
		// client's own copy is counted by ignoreUnmaps.
		if e.Window != f.client || e.Event != f.client {
			break
		}
		if f.ignoreUnmaps > 0 {
			f.ignoreUnmaps--
			break
		}
		wm.unmanage(f, false)
		return Invalidated
	case xproto.DestroyNotifyEvent:
		if e.Window != f.client {
			break
		}
		wm.unmanage(f, true)
		return Invalidated
	case xproto.ConfigureRequestEvent:
		wm.configureClient(f, e)
	case xproto.PropertyNotifyEvent:
		switch wm.conn.AtomName(e.Atom) {
		case "WM_NAME", "_NET_WM_NAME":
			wm.SetName(f, wm.conn.WindowName(f.client))
		case "WM_TRANSIENT_FOR":
			f.leader = wm.conn.TransientFor(f.client)
			wm.repaintFamily(f)
		}
	case xproto.ClientMessageEvent:
		switch wm.conn.AtomName(e.Type) {
		case "WM_CHANGE_STATE":
			if e.Format == 32 && e.Data.Data32[0] == iconicState {
				wm.Iconify(f)
			}
		case "_NET_ACTIVE_WINDOW":
			wm.Deiconify(f)
			wm.Activate(f)
		}
	case xproto.ButtonPressEvent:
		// Click-to-focus grab on the client: activate, then let the
		// client see the click.
		wm.Activate(f)
		wm.check(wm.conn.ReplayPointer(e.Time), "replay pointer", "window", f.client)
	default:
		wm.log.Debug("frame: unhandled event", "type", eventName(ev), "frame", f.id)
	}
	return Handled
}

const iconicState = 3

func (f *Frame) PrepareRepaint() {}

// Repaint updates the border colour; the frame has no buffer of its own.
func (f *Frame) Repaint() {
	wm := f.wm
	c := wm.theme.TitleInactiveBgBright
	if wm.FamilyIsActive(f) {
		c = wm.theme.TitleActiveBg
	}
	if c == nil || wm.theme.BorderWidth == 0 {
		return
	}
	wm.check(wm.conn.SetBorderColor(f.id, c), "set border colour", "frame", f.id)
}

// leaderOf follows WM_TRANSIENT_FOR links between managed frames.
func (wm *WM) leaderOf(f *Frame) *Frame {
	for i := 0; f.leader != 0 && i < len(wm.frames); i++ {
		l, ok := wm.reg.clients[f.leader]
		if !ok || l == f {
			break
		}
		f = l
	}
	return f
}

// Family returns every frame sharing f's leader, in stacking order.
func (wm *WM) Family(f *Frame) []*Frame {
	lead := wm.leaderOf(f)
	var fam []*Frame
	for _, g := range wm.frames {
		if wm.leaderOf(g) == lead {
			fam = append(fam, g)
		}
	}
	return fam
}

// IsActive reports whether f itself is the active frame.
func (wm *WM) IsActive(f *Frame) bool {
	return f != nil && wm.active == f
}

// FamilyIsActive reports whether the active frame belongs to f's family.
func (wm *WM) FamilyIsActive(f *Frame) bool {
	if wm.active == nil || f == nil {
		return false
	}
	return wm.leaderOf(wm.active) == wm.leaderOf(f)
}

func (wm *WM) repaintFamily(f *Frame) {
	for _, g := range wm.Family(f) {
		wm.repaintDecorations(g)
	}
}

func (wm *WM) repaintDecorations(f *Frame) {
	wm.RequestRepaint(f)
	if f.title != nil {
		wm.RequestRepaint(f.title)
	}
	for _, b := range f.buttons {
		wm.RequestRepaint(b)
	}
}

// SetActive makes f the one active frame, deactivating the previous
// holder first. Passing nil leaves no frame active.
func (wm *WM) SetActive(f *Frame) {
	if f == wm.active {
		return
	}
	if prev := wm.active; prev != nil {
		wm.active = nil
		wm.repaintFamily(prev)
	}
	wm.active = f
	if f == nil {
		wm.check(wm.conn.ResetFocus(), "reset focus")
		wm.check(wm.conn.SetActiveWindow(0), "set active window")
		return
	}
	wm.repaintFamily(f)
	wm.mru = moveToFront(wm.mru, f)

	wm.suppressErrors()
	wm.check(wm.conn.SetInputFocus(f.client), "set focus", "window", f.client)
	wm.restoreErrors()
	wm.check(wm.conn.SetActiveWindow(f.client), "set active window")
	if wm.menu != nil {
		wm.menu.refresh()
	}
}

// Activate raises f and makes it active.
func (wm *WM) Activate(f *Frame) {
	wm.Raise(f)
	wm.SetActive(f)
}

// activateNext activates the most recently active visible frame other
// than except, or clears the activation if there is none.
func (wm *WM) activateNext(except *Frame) {
	for _, g := range wm.mru {
		if g != except && !g.iconified && !g.destroyed {
			wm.Activate(g)
			return
		}
	}
	wm.SetActive(nil)
}

// Raise moves f, followed by its transients, to the front of the
// stacking order. The order is applied by the next restack pass.
func (wm *WM) Raise(f *Frame) {
	var transients []*Frame
	for _, g := range wm.frames {
		if g != f && g.leader == f.client {
			transients = append(transients, g)
		}
	}
	wm.frames = moveToFront(wm.frames, f)
	for i := len(transients) - 1; i >= 0; i-- {
		wm.frames = moveToFront(wm.frames, transients[i])
	}
}

// Maximize toggles f between its saved geometry and the whole screen.
func (wm *WM) Maximize(f *Frame) {
	if f.maximized {
		f.maximized = false
		wm.placeFrame(f, f.saved)
		return
	}
	f.saved = f.rect
	f.maximized = true
	sw, sh := wm.conn.ScreenSize()
	bw := wm.theme.BorderWidth
	wm.placeFrame(f, Rect{X: 0, Y: 0, Width: sw - 2*bw, Height: sh - 2*bw})
}

// Move places the frame at x, y. Off-screen positions are allowed.
func (wm *WM) Move(f *Frame, x, y int) {
	wm.moveWidget(f, x, y)
	wm.notifyClient(f)
}

// MoveFamily moves f to x, y and translates the rest of its family by
// the same offset.
func (wm *WM) MoveFamily(f *Frame, x, y int) {
	dx, dy := x-f.rect.X, y-f.rect.Y
	for _, g := range wm.Family(f) {
		wm.Move(g, g.rect.X+dx, g.rect.Y+dy)
	}
}

// ToggleOnTop flips the kept-on-top flag. The restack pass reconciles
// the stacking order with it.
func (wm *WM) ToggleOnTop(f *Frame) {
	f.onTop = !f.onTop
}

// SetName changes the frame's title.
func (wm *WM) SetName(f *Frame, name string) {
	if f.name == name {
		return
	}
	f.name = name
	wm.RequestRepaint(f.title)
	if wm.menu != nil {
		wm.menu.refresh()
	}
}

// Iconify hides the frame until it is chosen from the menu.
func (wm *WM) Iconify(f *Frame) {
	if f.iconified {
		return
	}
	f.iconified = true
	wm.unmapWidget(f)
	wm.suppressErrors()
	wm.check(wm.conn.SetWMState(f.client, true), "set WM_STATE", "window", f.client)
	wm.restoreErrors()
	if wm.active == f {
		wm.activateNext(f)
	}
	if wm.menu != nil {
		wm.menu.refresh()
	}
}

// Deiconify shows a frame hidden by Iconify.
func (wm *WM) Deiconify(f *Frame) {
	if !f.iconified {
		return
	}
	f.iconified = false
	wm.mapWidget(f)
	wm.suppressErrors()
	wm.check(wm.conn.SetWMState(f.client, false), "set WM_STATE", "window", f.client)
	wm.restoreErrors()
	if wm.menu != nil {
		wm.menu.refresh()
	}
}

// DeleteWindow asks the client to close, or kills it if it doesn't
// speak WM_DELETE_WINDOW.
func (wm *WM) DeleteWindow(f *Frame) {
	wm.suppressErrors()
	defer wm.restoreErrors()
	if wm.conn.SupportsDelete(f.client) {
		wm.check(wm.conn.SendDelete(f.client), "send WM_DELETE_WINDOW", "window", f.client)
		return
	}
	wm.check(wm.conn.KillClient(f.client), "kill client", "window", f.client)
}

// KillWindow disconnects the client owning f.
func (wm *WM) KillWindow(f *Frame) {
	wm.suppressErrors()
	defer wm.restoreErrors()
	wm.check(wm.conn.KillClient(f.client), "kill client", "window", f.client)
}

// placeFrame sets the outer geometry of f and lays out the client and
// decorations inside it.
func (wm *WM) placeFrame(f *Frame, r Rect) {
	th := wm.buttonSize
	r.Width = max(r.Width, 1)
	r.Height = max(r.Height, th+1)
	wm.moveResizeWidget(f, r)
	wm.suppressErrors()
	wm.check(wm.conn.MoveResizeWindow(f.client, f.ClientGeometry()), "resize client", "window", f.client)
	wm.restoreErrors()
	wm.layoutDecorations(f)
	wm.notifyClient(f)
}

// layoutDecorations puts the title at the left of the top strip and the
// buttons at its right end.
func (wm *WM) layoutDecorations(f *Frame) {
	bs := wm.buttonSize
	w := f.rect.Width
	if f.title != nil {
		tw := max(1, w-len(f.buttons)*bs)
		if tw != f.title.rect.Width || bs != f.title.rect.Height {
			wm.resizeWidget(f.title, tw, bs)
		}
	}
	for i, b := range f.buttons {
		x := w - (len(f.buttons)-i)*bs
		if b.rect.X != x || b.rect.Y != 0 {
			wm.moveWidget(b, x, 0)
		}
	}
}

// notifyClient tells the client where it is in root coordinates.
func (wm *WM) notifyClient(f *Frame) {
	bw := wm.theme.BorderWidth
	cg := f.ClientGeometry()
	r := Rect{X: f.rect.X + bw + cg.X, Y: f.rect.Y + bw + cg.Y, Width: cg.Width, Height: cg.Height}
	wm.suppressErrors()
	wm.check(wm.conn.SendConfigureNotify(f.client, r), "send configure notify", "window", f.client)
	wm.restoreErrors()
}

func moveToFront(list []*Frame, f *Frame) []*Frame {
	out := make([]*Frame, 0, len(list)+1)
	out = append(out, f)
	for _, g := range list {
		if g != f {
			out = append(out, g)
		}
	}
	return out
}

func removeFrame(list []*Frame, f *Frame) []*Frame {
	out := list[:0]
	for _, g := range list {
		if g != f {
			out = append(out, g)
		}
	}
	return out
}
