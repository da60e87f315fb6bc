package wm

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

const (
	frameEventMask  = xproto.EventMaskSubstructureRedirect
	clientEventMask = xproto.EventMaskStructureNotify | xproto.EventMaskPropertyChange
)

// manage frames client. When adopting, only clients that are already
// viewable are taken and their position is kept as is. A window that is
// already framed, or that belongs to the manager, is returned untouched.
func (wm *WM) manage(client xproto.Window, adopting bool) (*Frame, error) {
	if w := wm.reg.Find(client, KindAny); w != nil {
		f, _ := w.(*Frame)
		return f, nil
	}
	attrs, err := wm.conn.WindowAttributes(client)
	if err != nil {
		return nil, fmt.Errorf("couldn't get window attributes: %w", err)
	}
	if attrs.OverrideRedirect {
		wm.log.Debug("skipping override-redirect window", "window", client)
		return nil, nil
	}
	if adopting && !attrs.Viewable {
		wm.log.Debug("skipping unmapped pre-existing window", "window", client)
		return nil, nil
	}
	geom, err := wm.conn.WindowGeometry(client)
	if err != nil {
		return nil, fmt.Errorf("couldn't get window geometry: %w", err)
	}

	wm.suppressErrors()
	defer wm.restoreErrors()

	th := wm.buttonSize
	bw := wm.theme.BorderWidth
	r := Rect{X: geom.X, Y: geom.Y, Width: geom.Width, Height: geom.Height + th}
	if !adopting && r.X == 0 && r.Y == 0 {
		sw, sh := wm.conn.ScreenSize()
		r.X = max(0, (sw-r.Width)/2-bw)
		r.Y = max(0, (sh-r.Height)/2-bw)
	}

	f := &Frame{
		client: client,
		name:   wm.conn.WindowName(client),
		leader: wm.conn.TransientFor(client),
	}
	opts := WindowOptions{BorderWidth: bw, EventMask: frameEventMask, Background: wm.theme.TitleInactiveBg}
	if err := wm.createWidget(f, KindFrame, wm.conn.Root(), r, opts, false); err != nil {
		return nil, fmt.Errorf("couldn't create frame: %w", err)
	}
	wm.reg.addClient(f)

	if err := wm.decorate(f); err != nil {
		wm.destroyDecorations(f)
		wm.destroyWidget(f)
		return nil, err
	}

	wm.check(wm.conn.SelectInput(client, clientEventMask), "select client input", "window", client)
	wm.check(wm.conn.ChangeSaveSet(client, true), "add to save-set", "window", client)
	wm.check(wm.conn.SetBorderWidth(client, 0), "clear client border", "window", client)
	if attrs.Viewable {
		// Reparenting a mapped window unmaps it first.
		f.ignoreUnmaps++
	}
	wm.check(wm.conn.ReparentWindow(client, f.id, 0, th), "reparent", "window", client)
	wm.check(wm.conn.GrabButton(client), "grab button", "window", client)
	wm.layoutDecorations(f)
	wm.check(wm.conn.MapWindow(client), "map client", "window", client)
	wm.mapWidget(f)
	wm.check(wm.conn.SetWMState(client, false), "set WM_STATE", "window", client)
	wm.notifyClient(f)

	wm.frames = append([]*Frame{f}, wm.frames...)
	wm.managed = append(wm.managed, f)
	wm.mru = append(wm.mru, f)

	if !adopting {
		wm.Activate(f)
	}
	if wm.menu != nil {
		wm.menu.refresh()
	}
	wm.log.Info("framed window", "window", client, "frame", f.id, "name", f.name)
	return f, nil
}

// decorate creates the title bar and the iconify and close buttons.
func (wm *WM) decorate(f *Frame) error {
	title, err := wm.newTitle(f)
	if err != nil {
		return fmt.Errorf("couldn't create title: %w", err)
	}
	f.title = title

	iconify, err := wm.newButton(f, textGlyph("<"), func() { wm.Iconify(f) })
	if err != nil {
		return fmt.Errorf("couldn't create iconify button: %w", err)
	}
	f.buttons = append(f.buttons, iconify)

	closer, err := wm.newButton(f, textGlyph("#"), func() { wm.DeleteWindow(f) })
	if err != nil {
		return fmt.Errorf("couldn't create close button: %w", err)
	}
	f.buttons = append(f.buttons, closer)
	return nil
}

func (wm *WM) destroyDecorations(f *Frame) {
	for _, b := range f.buttons {
		wm.destroyWidget(b)
	}
	if f.title != nil {
		wm.destroyWidget(f.title)
	}
}

// unmanage tears down f. Unless the client is already gone it is put
// back on the root window where the frame was.
func (wm *WM) unmanage(f *Frame, destroyed bool) {
	if f.destroyed {
		return
	}
	wm.suppressErrors()
	defer wm.restoreErrors()

	if wm.grab.active && wm.grab.owner == f.title {
		wm.endFastMove()
	}
	if !destroyed {
		wm.check(wm.conn.ReparentWindow(f.client, wm.conn.Root(), f.rect.X, f.rect.Y), "reparent to root", "window", f.client)
		wm.check(wm.conn.ChangeSaveSet(f.client, false), "remove from save-set", "window", f.client)
	}
	wm.destroyDecorations(f)
	wm.destroyWidget(f)

	wm.frames = removeFrame(wm.frames, f)
	wm.managed = removeFrame(wm.managed, f)
	wm.mru = removeFrame(wm.mru, f)

	if wm.active == f {
		wm.activateNext(f)
	}
	if wm.menu != nil {
		wm.menu.refresh()
	}
	wm.log.Info("unframed window", "window", f.client, "frame", f.id)
}

// configureClient applies a ConfigureRequest to a managed client: the
// position moves the frame, the size resizes client and frame. The
// client is always told where it ended up.
func (wm *WM) configureClient(f *Frame, e xproto.ConfigureRequestEvent) {
	if f.maximized {
		wm.notifyClient(f)
		return
	}
	th := wm.buttonSize
	r := f.rect
	if e.ValueMask&xproto.ConfigWindowX != 0 {
		r.X = int(e.X)
	}
	if e.ValueMask&xproto.ConfigWindowY != 0 {
		r.Y = int(e.Y) - th
	}
	if e.ValueMask&xproto.ConfigWindowWidth != 0 {
		r.Width = int(e.Width)
	}
	if e.ValueMask&xproto.ConfigWindowHeight != 0 {
		r.Height = int(e.Height) + th
	}
	wm.placeFrame(f, r)
	if e.ValueMask&xproto.ConfigWindowStackMode != 0 && e.StackMode == xproto.StackModeAbove {
		wm.Raise(f)
	}
	wm.log.Debug("configured client", "window", f.client, "x", r.X, "y", r.Y, "width", r.Width, "height", r.Height)
}

// configRequest passes a ConfigureRequest for an unmanaged window
// through unchanged.
func (wm *WM) configRequest(e xproto.ConfigureRequestEvent) {
	wm.suppressErrors()
	defer wm.restoreErrors()
	wm.check(wm.conn.ConfigureWindow(e.Window, e.ValueMask, configureValues(e)), "configure window", "window", e.Window)
}

// configureValues builds the value list matching the request's mask.
func configureValues(e xproto.ConfigureRequestEvent) []uint32 {
	values := make([]uint32, 0, 7)
	if e.ValueMask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(e.X))
	}
	if e.ValueMask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(e.Y))
	}
	if e.ValueMask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(e.Width))
	}
	if e.ValueMask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(e.Height))
	}
	if e.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(e.BorderWidth))
	}
	if e.ValueMask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(e.Sibling))
	}
	if e.ValueMask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(e.StackMode))
	}
	return values
}
