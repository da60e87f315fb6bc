package wm

import (
	"image/color"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

const (
	titleEventMask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease |
		xproto.EventMaskButtonMotion | xproto.EventMaskExposure

	// doubleClickTime is in server milliseconds.
	doubleClickTime = 250

	clockLayout = "2006-01-02 15:04:05 Monday"
)

// Title is the draggable bar at the top of a frame. It shows the
// window name and, while its family is active, a clock.
type Title struct {
	widget
	frame *Frame

	moving     bool
	xoff, yoff int
	clicked    bool
	lastClick  xproto.Timestamp

	fg, bg    color.Color
	showClock bool
}

func (wm *WM) newTitle(f *Frame) (*Title, error) {
	t := &Title{frame: f}
	r := Rect{Width: f.rect.Width, Height: wm.buttonSize}
	opts := WindowOptions{EventMask: titleEventMask, Background: wm.theme.TitleInactiveBg}
	if err := wm.createWidget(t, KindTitle, f.id, r, opts, true); err != nil {
		return nil, err
	}
	wm.mapWidget(t)
	return t, nil
}

// Moving reports whether a drag is in progress.
func (t *Title) Moving() bool { return t.moving }

// Frame returns the frame the title belongs to.
func (t *Title) Frame() *Frame { return t.frame }

func (t *Title) Event(ev xgb.Event) Disposition {
	wm := t.wm
	f := t.frame
	switch e := ev.(type) {
	case xproto.ButtonPressEvent:
		switch e.Detail {
		case xproto.ButtonIndex1:
			if t.clicked && e.Time-t.lastClick < doubleClickTime {
				t.clicked = false
				wm.Maximize(f)
				break
			}
			t.clicked = true
			t.lastClick = e.Time
			if f.maximized {
				wm.Activate(f)
				break
			}
			bw := wm.theme.BorderWidth
			t.xoff = t.rect.X + int(e.EventX) + bw
			t.yoff = t.rect.Y + int(e.EventY) + bw
			if e.State&xproto.ModMaskShift != 0 {
				wm.ToggleOnTop(f)
			}
			wm.Activate(f)
			if wm.beginFastMove(t) {
				t.moving = true
			}
		case xproto.ButtonIndex3:
			wm.menu.Show(int(e.RootX), int(e.RootY), e.Detail)
		}
	case xproto.MotionNotifyEvent:
		if !t.moving {
			break
		}
		x, y := int(e.RootX)-t.xoff, int(e.RootY)-t.yoff
		if e.State&xproto.ModMaskControl != 0 {
			wm.MoveFamily(f, x, y)
		} else {
			wm.Move(f, x, y)
		}
	case xproto.ButtonReleaseEvent:
		if t.moving {
			t.moving = false
			wm.endFastMove()
		}
	case xproto.ExposeEvent:
		t.expose(e)
	default:
		wm.log.Debug("title: unhandled event", "type", eventName(ev), "title", t.id)
	}
	return Handled
}

func (t *Title) PrepareRepaint() {
	active := t.wm.FamilyIsActive(t.frame)
	t.fg, t.bg = t.wm.theme.titleColors(active)
	t.showClock = active
}

func (t *Title) Repaint() {
	if t.canvas == nil {
		return
	}
	wm := t.wm
	font := wm.font
	w, h := t.rect.Width, t.rect.Height
	t.canvas.FillRect(Rect{Width: w, Height: h}, t.bg)

	xpad := wm.titlePad + 2*font.Descent()
	ypad := max(3, 2*wm.titlePad)
	y := (h - font.Ascent() - font.Descent()) / 2
	avail := w - 2*xpad
	if t.showClock {
		clock := wm.now().Format(clockLayout)
		cw := font.TextWidth(clock)
		t.canvas.DrawText(w-xpad-cw, y, t.fg, clock)
		avail -= ypad + cw
	}
	if name := elide(font, t.frame.name, avail); name != "" {
		t.canvas.DrawText(xpad, y, t.fg, name)
	}
	t.flush()
}
