package wm

import (
	"image/color"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

const buttonEventMask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease |
	xproto.EventMaskEnterWindow | xproto.EventMaskLeaveWindow | xproto.EventMaskExposure

// GlyphFunc paints a button's symbol on top of its background.
type GlyphFunc func(b *Button, c Canvas, fg color.Color)

// Button is a square clickable decoration on a frame's title strip.
type Button struct {
	widget
	frame   *Frame
	glyph   GlyphFunc
	onClick func()

	// acting is set by a primary press and survives leaving the
	// button; pressed is the visual state.
	acting  bool
	pressed bool
	hover   bool

	fg, bg color.Color
}

func (wm *WM) newButton(f *Frame, glyph GlyphFunc, onClick func()) (*Button, error) {
	b := &Button{frame: f, glyph: glyph, onClick: onClick}
	bs := wm.buttonSize
	r := Rect{X: max(0, f.rect.Width-bs), Y: 0, Width: bs, Height: bs}
	opts := WindowOptions{EventMask: buttonEventMask, Background: wm.theme.TitleInactiveBg}
	if err := wm.createWidget(b, KindButton, f.id, r, opts, true); err != nil {
		return nil, err
	}
	wm.mapWidget(b)
	return b, nil
}

// SetClickHandler replaces the function run when the button fires.
func (b *Button) SetClickHandler(fn func()) { b.onClick = fn }

// SetGlyph replaces the function that paints the button's symbol.
func (b *Button) SetGlyph(fn GlyphFunc) {
	b.glyph = fn
	b.wm.RequestRepaint(b)
}

// Pressed reports whether the button is drawn pressed.
func (b *Button) Pressed() bool { return b.pressed }

// Acting reports whether a primary press is in progress.
func (b *Button) Acting() bool { return b.acting }

// Hover reports whether the pointer is over the button.
func (b *Button) Hover() bool { return b.hover }

// Frame returns the frame the button decorates.
func (b *Button) Frame() *Frame { return b.frame }

func (b *Button) Event(ev xgb.Event) Disposition {
	wm := b.wm
	switch e := ev.(type) {
	case xproto.ButtonPressEvent:
		if e.Detail == xproto.ButtonIndex1 {
			b.acting = true
			b.pressed = true
			wm.RequestRepaint(b)
			break
		}
		b.acting = false
		b.pressed = false
		wm.RequestRepaint(b)
		if e.Detail == xproto.ButtonIndex3 {
			wm.menu.Show(int(e.RootX), int(e.RootY), e.Detail)
		}
	case xproto.ButtonReleaseEvent:
		fire := b.acting && b.pressed && e.Detail == xproto.ButtonIndex1
		b.acting = false
		b.pressed = false
		wm.RequestRepaint(b)
		if fire && b.onClick != nil {
			// The handler may destroy the button.
			b.onClick()
			return Invalidated
		}
	case xproto.EnterNotifyEvent:
		b.hover = true
		if b.acting {
			b.pressed = true
		}
		wm.RequestRepaint(b)
	case xproto.LeaveNotifyEvent:
		b.hover = false
		if b.acting {
			b.pressed = false
		}
		wm.RequestRepaint(b)
	case xproto.ExposeEvent:
		b.expose(e)
	default:
		wm.log.Debug("button: unhandled event", "type", eventName(ev), "button", b.id)
	}
	return Handled
}

func (b *Button) PrepareRepaint() {
	active := b.wm.FamilyIsActive(b.frame)
	b.fg, b.bg = b.wm.theme.titleColors(active)
	switch {
	case b.pressed:
		b.fg, b.bg = b.bg, b.fg
	case b.hover:
		b.bg = b.wm.theme.brightBackground(active)
	}
}

func (b *Button) Repaint() {
	if b.canvas == nil {
		return
	}
	b.canvas.FillRect(Rect{Width: b.rect.Width, Height: b.rect.Height}, b.bg)
	if b.glyph != nil {
		b.glyph(b, b.canvas, b.fg)
	}
	b.flush()
}

// textGlyph paints s centred on the button.
func textGlyph(s string) GlyphFunc {
	return func(b *Button, c Canvas, fg color.Color) {
		font := b.wm.font
		x := (b.rect.Width - font.TextWidth(s)) / 2
		y := (b.rect.Height - font.Ascent() - font.Descent()) / 2
		c.DrawText(x, y, fg, s)
	}
}
