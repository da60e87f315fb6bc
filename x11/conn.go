// Package x11 implements the window manager's connection, canvases and
// font on top of xgb and xgbutil.
package x11

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/BobdaProgrammer/karmen/wm"
)

const rootEventMask = xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify |
	xproto.EventMaskButtonPress | xproto.EventMaskPropertyChange

// Conn is a live X connection.
type Conn struct {
	xu     *xgbutil.XUtil
	conn   *xgb.Conn
	root   xproto.Window
	width  int
	height int

	font     *Font
	checkWin xproto.Window
}

var _ wm.Conn = (*Conn)(nil)

// Open connects to display, or to $DISPLAY when it is empty.
func Open(display string) (*Conn, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("couldn't open X display %q: %w", display, err)
	}
	keybind.Initialize(xu)
	xevent.IgnoreMods = ignoreMods(xu)

	screen := xu.Screen()
	return &Conn{
		xu:     xu,
		conn:   xu.Conn(),
		root:   xu.RootWin(),
		width:  int(screen.WidthInPixels),
		height: int(screen.HeightInPixels),
	}, nil
}

// SetFont sets the font canvases draw with.
func (c *Conn) SetFont(f *Font) {
	c.font = f
}

// Close disconnects from the server.
func (c *Conn) Close() {
	c.conn.Close()
}

func (c *Conn) Root() xproto.Window { return c.root }

func (c *Conn) ScreenSize() (int, int) { return c.width, c.height }

func (c *Conn) SelectRootInput() error {
	err := xproto.ChangeWindowAttributesChecked(c.conn, c.root, xproto.CwEventMask, []uint32{rootEventMask}).Check()
	var access xproto.AccessError
	if errors.As(err, &access) {
		return wm.ErrAnotherWM
	}
	if err != nil {
		return fmt.Errorf("couldn't select root events: %w", err)
	}
	return nil
}

func (c *Conn) GrabServer() error {
	return xproto.GrabServerChecked(c.conn).Check()
}

func (c *Conn) UngrabServer() error {
	return xproto.UngrabServerChecked(c.conn).Check()
}

// Sync waits for the server to process every request sent so far.
func (c *Conn) Sync() error {
	_, err := xproto.GetInputFocus(c.conn).Reply()
	return err
}

func (c *Conn) CreateWindow(parent xproto.Window, r wm.Rect, opts wm.WindowOptions) (xproto.Window, error) {
	id, err := xproto.NewWindowId(c.conn)
	if err != nil {
		return 0, fmt.Errorf("couldn't allocate window id: %w", err)
	}
	class := uint16(xproto.WindowClassInputOutput)
	border := uint16(opts.BorderWidth)
	var mask uint32
	var values []uint32
	if opts.InputOnly {
		class = xproto.WindowClassInputOnly
		border = 0
	} else if opts.Background != nil {
		mask |= xproto.CwBackPixel | xproto.CwBorderPixel
		values = append(values, pixel(opts.Background), pixel(opts.Background))
	}
	if opts.OverrideRedirect {
		mask |= xproto.CwOverrideRedirect
		values = append(values, 1)
	}
	if opts.EventMask != 0 {
		mask |= xproto.CwEventMask
		values = append(values, opts.EventMask)
	}
	err = xproto.CreateWindowChecked(c.conn, xproto.WindowClassCopyFromParent, id, parent,
		int16(r.X), int16(r.Y), uint16(r.Width), uint16(r.Height), border,
		class, xproto.WindowClassCopyFromParent, mask, values).Check()
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Conn) DestroyWindow(win xproto.Window) error {
	return xproto.DestroyWindowChecked(c.conn, win).Check()
}

func (c *Conn) MoveWindow(win xproto.Window, x, y int) error {
	return xproto.ConfigureWindowChecked(c.conn, win, xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(x), uint32(y)}).Check()
}

func (c *Conn) ResizeWindow(win xproto.Window, width, height int) error {
	return xproto.ConfigureWindowChecked(c.conn, win, xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(width), uint32(height)}).Check()
}

func (c *Conn) MoveResizeWindow(win xproto.Window, r wm.Rect) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	return xproto.ConfigureWindowChecked(c.conn, win, mask,
		[]uint32{uint32(r.X), uint32(r.Y), uint32(r.Width), uint32(r.Height)}).Check()
}

func (c *Conn) MapWindow(win xproto.Window) error {
	return xproto.MapWindowChecked(c.conn, win).Check()
}

func (c *Conn) UnmapWindow(win xproto.Window) error {
	return xproto.UnmapWindowChecked(c.conn, win).Check()
}

func (c *Conn) ReparentWindow(win, parent xproto.Window, x, y int) error {
	return xproto.ReparentWindowChecked(c.conn, win, parent, int16(x), int16(y)).Check()
}

func (c *Conn) ChangeSaveSet(win xproto.Window, insert bool) error {
	mode := byte(xproto.SetModeDelete)
	if insert {
		mode = xproto.SetModeInsert
	}
	return xproto.ChangeSaveSetChecked(c.conn, mode, win).Check()
}

func (c *Conn) SelectInput(win xproto.Window, mask uint32) error {
	return xproto.ChangeWindowAttributesChecked(c.conn, win, xproto.CwEventMask, []uint32{mask}).Check()
}

func (c *Conn) SetBorderWidth(win xproto.Window, width int) error {
	return xproto.ConfigureWindowChecked(c.conn, win, xproto.ConfigWindowBorderWidth, []uint32{uint32(width)}).Check()
}

func (c *Conn) SetBorderColor(win xproto.Window, col color.Color) error {
	return xproto.ChangeWindowAttributesChecked(c.conn, win, xproto.CwBorderPixel, []uint32{pixel(col)}).Check()
}

// Restack raises the first window and chains every following window
// directly below its predecessor.
func (c *Conn) Restack(wins []xproto.Window) error {
	var errs []error
	for i, win := range wins {
		var err error
		if i == 0 {
			err = xproto.ConfigureWindowChecked(c.conn, win, xproto.ConfigWindowStackMode,
				[]uint32{xproto.StackModeAbove}).Check()
		} else {
			err = xproto.ConfigureWindowChecked(c.conn, win, xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
				[]uint32{uint32(wins[i-1]), xproto.StackModeBelow}).Check()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("window %d: %w", win, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Conn) ConfigureWindow(win xproto.Window, mask uint16, values []uint32) error {
	return xproto.ConfigureWindowChecked(c.conn, win, mask, values).Check()
}

// SendConfigureNotify tells a client its geometry in root coordinates.
func (c *Conn) SendConfigureNotify(win xproto.Window, r wm.Rect) error {
	ev := xproto.ConfigureNotifyEvent{
		Event:  win,
		Window: win,
		X:      int16(r.X),
		Y:      int16(r.Y),
		Width:  uint16(r.Width),
		Height: uint16(r.Height),
	}
	return xproto.SendEventChecked(c.conn, false, win, xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}

func (c *Conn) WindowGeometry(win xproto.Window) (wm.Rect, error) {
	g, err := xproto.GetGeometry(c.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return wm.Rect{}, err
	}
	return wm.Rect{X: int(g.X), Y: int(g.Y), Width: int(g.Width), Height: int(g.Height)}, nil
}

func (c *Conn) WindowAttributes(win xproto.Window) (wm.Attributes, error) {
	a, err := xproto.GetWindowAttributes(c.conn, win).Reply()
	if err != nil {
		return wm.Attributes{}, err
	}
	return wm.Attributes{
		OverrideRedirect: a.OverrideRedirect,
		Viewable:         a.MapState == xproto.MapStateViewable,
	}, nil
}

func (c *Conn) Children(win xproto.Window) ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.conn, win).Reply()
	if err != nil {
		return nil, fmt.Errorf("couldn't query tree: %w", err)
	}
	return tree.Children, nil
}

func (c *Conn) SetInputFocus(win xproto.Window) error {
	return xproto.SetInputFocusChecked(c.conn, xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime).Check()
}

// ResetFocus gives the focus back to whatever is under the pointer.
func (c *Conn) ResetFocus() error {
	return xproto.SetInputFocusChecked(c.conn, xproto.InputFocusPointerRoot, xproto.InputFocusPointerRoot,
		xproto.TimeCurrentTime).Check()
}

func (c *Conn) GrabPointer(win, confine xproto.Window, mask uint16) error {
	reply, err := xproto.GrabPointer(c.conn, false, win, mask, xproto.GrabModeAsync, xproto.GrabModeAsync,
		confine, xproto.CursorNone, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("pointer grab refused with status %d", reply.Status)
	}
	return nil
}

func (c *Conn) UngrabPointer() error {
	return xproto.UngrabPointerChecked(c.conn, xproto.TimeCurrentTime).Check()
}

func (c *Conn) GrabKeyboard() error {
	reply, err := xproto.GrabKeyboard(c.conn, false, c.root, xproto.TimeCurrentTime,
		xproto.GrabModeAsync, xproto.GrabModeAsync).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("keyboard grab refused with status %d", reply.Status)
	}
	return nil
}

func (c *Conn) UngrabKeyboard() error {
	return xproto.UngrabKeyboardChecked(c.conn, xproto.TimeCurrentTime).Check()
}

// GrabKey grabs key on root with mods and every combination of the
// lock modifiers.
func (c *Conn) GrabKey(mods uint16, key string) error {
	codes := keybind.StrToKeycodes(c.xu, key)
	if len(codes) == 0 {
		return fmt.Errorf("no keycode for key %q", key)
	}
	for _, code := range codes {
		if err := keybind.GrabChecked(c.xu, c.root, mods, code); err != nil {
			return err
		}
	}
	return nil
}

// GrabButton installs a synchronous grab for every button so a click
// can focus the client before the client sees it.
func (c *Conn) GrabButton(win xproto.Window) error {
	return xproto.GrabButtonChecked(c.conn, false, win, xproto.EventMaskButtonPress,
		xproto.GrabModeSync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
		xproto.ButtonIndexAny, xproto.ModMaskAny).Check()
}

func (c *Conn) ReplayPointer(t xproto.Timestamp) error {
	return xproto.AllowEventsChecked(c.conn, xproto.AllowReplayPointer, t).Check()
}

func (c *Conn) KeyName(code xproto.Keycode, state uint16) string {
	return keybind.LookupString(c.xu, state, code)
}

// ignoreMods returns every combination of CapsLock, NumLock and
// ScrollLock, including none.
func ignoreMods(xu *xgbutil.XUtil) []uint16 {
	base := []uint16{xproto.ModMaskLock}
	for _, sym := range []string{"Num_Lock", "Scroll_Lock"} {
		if m := modMaskFor(xu, sym); m != 0 && m != xproto.ModMaskLock {
			base = append(base, m)
		}
	}
	seen := map[uint16]bool{}
	var out []uint16
	for subset := 0; subset < 1<<len(base); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		if !seen[mask] {
			seen[mask] = true
			out = append(out, mask)
		}
	}
	return out
}

func modMaskFor(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, code := range keybind.StrToKeycodes(xu, keysym) {
		if m := keybind.ModGet(xu, code); m != 0 {
			return m
		}
	}
	return 0
}

// pixel packs a colour for a 24-bit TrueColor visual.
func pixel(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (r>>8)<<16 | (g>>8)<<8 | b>>8
}
