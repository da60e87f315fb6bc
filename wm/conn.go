package wm

import (
	"image/color"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Event is one item read from the window-system connection: either an
// event or an asynchronous protocol error.
type Event struct {
	Event xgb.Event
	Err   xgb.Error
}

// WindowOptions describes a window created by the manager itself.
type WindowOptions struct {
	InputOnly        bool
	OverrideRedirect bool
	BorderWidth      int
	EventMask        uint32
	Background       color.Color
}

// Attributes is the subset of window attributes the manager cares about.
type Attributes struct {
	OverrideRedirect bool
	Viewable         bool
}

// Conn is the window-system connection. Every method that talks to the
// server returns the protocol error, if any, so callers can decide
// whether it should be reported.
type Conn interface {
	Root() xproto.Window
	ScreenSize() (width, height int)

	// SelectRootInput makes us the window manager. It returns
	// ErrAnotherWM if some other client already is.
	SelectRootInput() error
	GrabServer() error
	UngrabServer() error
	Sync() error

	CreateWindow(parent xproto.Window, r Rect, opts WindowOptions) (xproto.Window, error)
	DestroyWindow(win xproto.Window) error
	MoveWindow(win xproto.Window, x, y int) error
	ResizeWindow(win xproto.Window, width, height int) error
	MoveResizeWindow(win xproto.Window, r Rect) error
	MapWindow(win xproto.Window) error
	UnmapWindow(win xproto.Window) error
	ReparentWindow(win, parent xproto.Window, x, y int) error
	ChangeSaveSet(win xproto.Window, insert bool) error
	SelectInput(win xproto.Window, mask uint32) error
	SetBorderWidth(win xproto.Window, width int) error
	SetBorderColor(win xproto.Window, c color.Color) error
	// Restack orders the given windows front to back.
	Restack(wins []xproto.Window) error
	ConfigureWindow(win xproto.Window, mask uint16, values []uint32) error
	SendConfigureNotify(win xproto.Window, r Rect) error

	WindowGeometry(win xproto.Window) (Rect, error)
	WindowAttributes(win xproto.Window) (Attributes, error)
	Children(win xproto.Window) ([]xproto.Window, error)

	SetInputFocus(win xproto.Window) error
	ResetFocus() error
	GrabPointer(win, confine xproto.Window, mask uint16) error
	UngrabPointer() error
	GrabKeyboard() error
	UngrabKeyboard() error
	GrabKey(mods uint16, key string) error
	// GrabButton installs a synchronous click-to-focus grab on win.
	GrabButton(win xproto.Window) error
	ReplayPointer(t xproto.Timestamp) error
	KeyName(code xproto.Keycode, state uint16) string
	AtomName(atom xproto.Atom) string

	WindowName(win xproto.Window) string
	TransientFor(win xproto.Window) xproto.Window
	SupportsDelete(win xproto.Window) bool
	SendDelete(win xproto.Window) error
	KillClient(win xproto.Window) error
	SetWMState(win xproto.Window, iconic bool) error

	InitHints() error
	FiniHints() error
	SetActiveWindow(win xproto.Window) error
	SetClientLists(mapping, stacking []xproto.Window) error

	NewCanvas(win xproto.Window, width, height int) (Canvas, error)
}

// Canvas is an off-screen buffer bound to one window.
type Canvas interface {
	Resize(width, height int) error
	FillRect(r Rect, c color.Color)
	// DrawText draws text with the top of the line box at y.
	DrawText(x, y int, c color.Color, text string)
	// Flush copies the whole buffer to the window.
	Flush() error
	// Expose copies the region r of the buffer to the window.
	Expose(r Rect) error
	Release()
}

// Font measures text. Results must be deterministic for a given string.
type Font interface {
	TextWidth(s string) int
	Ascent() int
	Descent() int
}
