package wm

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Kind tags the concrete type behind a Widget.
type Kind int

const (
	KindAny Kind = iota
	KindFrame
	KindTitle
	KindButton
	KindMenu
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindFrame:
		return "frame"
	case KindTitle:
		return "title"
	case KindButton:
		return "button"
	case KindMenu:
		return "menu"
	default:
		return "unknown"
	}
}

// Disposition tells the dispatcher what happened to the widget that
// handled an event.
type Disposition int

const (
	// Handled means the widget is still alive.
	Handled Disposition = iota
	// Invalidated means the widget may have been destroyed by the
	// handler and must not be touched again.
	Invalidated
)

// Widget is the capability set shared by every window the manager owns.
type Widget interface {
	ID() xproto.Window
	Kind() Kind
	Geometry() Rect
	Mapped() bool
	Event(ev xgb.Event) Disposition
	// PrepareRepaint recomputes derived state such as colours.
	PrepareRepaint()
	// Repaint renders into the off-screen buffer and flushes it to the
	// window when mapped.
	Repaint()

	base() *widget
}

type widget struct {
	wm        *WM
	kind      Kind
	id        xproto.Window
	rect      Rect
	mapped    bool
	dirty     bool
	destroyed bool
	canvas    Canvas
}

func (w *widget) ID() xproto.Window { return w.id }
func (w *widget) Kind() Kind        { return w.kind }
func (w *widget) Geometry() Rect    { return w.rect }
func (w *widget) Mapped() bool      { return w.mapped }
func (w *widget) base() *widget     { return w }

// Destroyed reports whether the widget has been torn down.
func (w *widget) Destroyed() bool { return w.destroyed }

// flush copies the canvas to the window if there is something to show.
func (w *widget) flush() {
	if w.canvas == nil || !w.mapped {
		return
	}
	w.wm.check(w.canvas.Flush(), "flush canvas", "window", w.id)
}

func (w *widget) expose(e xproto.ExposeEvent) {
	if w.canvas == nil {
		return
	}
	r := Rect{X: int(e.X), Y: int(e.Y), Width: int(e.Width), Height: int(e.Height)}
	w.wm.check(w.canvas.Expose(r), "expose", "window", w.id)
}

// createWidget creates the platform window for w and registers it.
func (wm *WM) createWidget(w Widget, kind Kind, parent xproto.Window, r Rect, opts WindowOptions, withCanvas bool) error {
	b := w.base()
	b.wm = wm
	b.kind = kind
	b.rect = r.normalized()
	id, err := wm.conn.CreateWindow(parent, b.rect, opts)
	if err != nil {
		return err
	}
	b.id = id
	if withCanvas {
		c, err := wm.conn.NewCanvas(id, b.rect.Width, b.rect.Height)
		if err != nil {
			wm.check(wm.conn.DestroyWindow(id), "destroy window", "window", id)
			return err
		}
		b.canvas = c
	}
	wm.reg.add(w)
	return nil
}

// destroyWidget releases the widget's buffer, removes it from the
// registry and destroys its window. After this the id no longer
// resolves.
func (wm *WM) destroyWidget(w Widget) {
	b := w.base()
	if b.destroyed {
		return
	}
	if b.canvas != nil {
		b.canvas.Release()
		b.canvas = nil
	}
	wm.reg.remove(w)
	b.destroyed = true
	b.mapped = false
	wm.check(wm.conn.DestroyWindow(b.id), "destroy window", "window", b.id)
}

func (wm *WM) moveWidget(w Widget, x, y int) {
	b := w.base()
	b.rect.X, b.rect.Y = x, y
	wm.check(wm.conn.MoveWindow(b.id, x, y), "move window", "window", b.id)
}

func (wm *WM) resizeWidget(w Widget, width, height int) {
	b := w.base()
	r := Rect{X: b.rect.X, Y: b.rect.Y, Width: width, Height: height}.normalized()
	b.rect = r
	if b.canvas != nil {
		wm.check(b.canvas.Resize(r.Width, r.Height), "resize canvas", "window", b.id)
	}
	wm.check(wm.conn.ResizeWindow(b.id, r.Width, r.Height), "resize window", "window", b.id)
	wm.RequestRepaint(w)
}

func (wm *WM) moveResizeWidget(w Widget, r Rect) {
	b := w.base()
	r = r.normalized()
	b.rect = r
	if b.canvas != nil {
		wm.check(b.canvas.Resize(r.Width, r.Height), "resize canvas", "window", b.id)
	}
	wm.check(wm.conn.MoveResizeWindow(b.id, r), "move window", "window", b.id)
	wm.RequestRepaint(w)
}

func (wm *WM) mapWidget(w Widget) {
	b := w.base()
	if b.mapped {
		return
	}
	b.mapped = true
	wm.check(wm.conn.MapWindow(b.id), "map window", "window", b.id)
	wm.RequestRepaint(w)
}

func (wm *WM) unmapWidget(w Widget) {
	b := w.base()
	if !b.mapped {
		return
	}
	b.mapped = false
	wm.check(wm.conn.UnmapWindow(b.id), "unmap window", "window", b.id)
}

// RequestRepaint marks w dirty. The pixels are redrawn by the next
// repaint pass of the event loop.
func (wm *WM) RequestRepaint(w Widget) {
	b := w.base()
	if b.dirty || b.destroyed {
		return
	}
	b.dirty = true
	wm.reg.dirty = append(wm.reg.dirty, w)
}

// repaintWidgets runs both repaint phases for every dirty widget.
func (wm *WM) repaintWidgets() {
	for len(wm.reg.dirty) > 0 {
		dirty := wm.reg.dirty
		wm.reg.dirty = nil
		for _, w := range dirty {
			b := w.base()
			if b.destroyed || !b.dirty {
				continue
			}
			b.dirty = false
			w.PrepareRepaint()
			w.Repaint()
		}
	}
}
