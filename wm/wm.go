package wm

import (
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/xproto"
)

// Options configures a WM.
type Options struct {
	Theme    Theme
	Commands []Command
	Logger   *slog.Logger
	// Now returns the time shown in the active title. Defaults to time.Now.
	Now func() time.Time
}

// WM holds all process-wide window manager state: the registry, the
// active frame, the stacking order and the outstanding pointer grab.
// Everything runs on the goroutine that calls Run.
type WM struct {
	conn  Conn
	font  Font
	theme Theme
	log   *slog.Logger
	now   func() time.Time

	titlePad   int
	buttonSize int

	reg *Registry

	// frames is the stacking order, front to back.
	frames []*Frame
	// managed is the order in which clients were managed.
	managed []*Frame
	// mru is the activation history, most recent first.
	mru    []*Frame
	active *Frame

	menu     *Menu
	cycling  bool
	grab     fastMove
	errDepth int

	commands  []Command
	bindings  []binding
	lastStack []xproto.Window
}

// New creates a window manager driving conn. Call Start before Run.
func New(conn Conn, font Font, opts Options) *WM {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	wm := &WM{
		conn:     conn,
		font:     font,
		theme:    opts.Theme,
		log:      logger,
		now:      now,
		reg:      newRegistry(),
		commands: opts.Commands,
	}
	wm.titlePad, wm.buttonSize = decorationMetrics(font)
	return wm
}

// decorationMetrics derives the title padding and the button size from
// the font. The button size is always odd so glyphs centre on a pixel.
func decorationMetrics(font Font) (pad, size int) {
	h := font.Ascent() + font.Descent()
	pad = 1 + max(1, h/10)
	size = h + 2*pad
	if size%2 == 1 {
		size++
	}
	size++
	return pad, size
}

// Start takes over the root window, grabs the global keys, creates the
// menu and adopts the clients that are already mapped.
func (wm *WM) Start() error {
	if err := wm.conn.SelectRootInput(); err != nil {
		return err
	}
	if err := wm.grabKeys(); err != nil {
		return err
	}
	menu, err := wm.newMenu()
	if err != nil {
		return err
	}
	wm.menu = menu
	if err := wm.conn.InitHints(); err != nil {
		wm.log.Warn("couldn't set window manager hints", "error", err)
	}

	wm.suppressErrors()
	defer wm.restoreErrors()
	children, err := wm.conn.Children(wm.conn.Root())
	if err != nil {
		return err
	}
	for _, child := range children {
		if wm.reg.Find(child, KindAny) != nil {
			continue
		}
		if _, err := wm.manage(child, true); err != nil {
			wm.log.Debug("couldn't adopt window", "window", child, "error", err)
		}
	}
	return nil
}

// Close tears everything down in reverse order of acquisition: the
// pointer grab, the frames (clients go back to root), the hints, the
// menu and any remaining widgets. Focus goes back to PointerRoot.
func (wm *WM) Close() {
	wm.endFastMove()
	if wm.cycling {
		wm.cycling = false
		wm.check(wm.conn.UngrabKeyboard(), "ungrab keyboard")
	}
	wm.suppressErrors()
	for len(wm.managed) > 0 {
		wm.unmanage(wm.managed[len(wm.managed)-1], false)
	}
	wm.restoreErrors()
	wm.check(wm.conn.FiniHints(), "remove hints")
	if wm.menu != nil {
		wm.menu.destroy()
		wm.menu = nil
	}
	for _, w := range wm.reg.widgets {
		wm.destroyWidget(w)
	}
	wm.check(wm.conn.ResetFocus(), "reset focus")
}

// Active returns the active frame, or nil.
func (wm *WM) Active() *Frame {
	return wm.active
}

// Frames returns the managed frames in stacking order, front to back.
func (wm *WM) Frames() []*Frame {
	return append([]*Frame(nil), wm.frames...)
}

// Menu returns the window menu.
func (wm *WM) Menu() *Menu {
	return wm.menu
}

// Find resolves a window id, see Registry.Find.
func (wm *WM) Find(id xproto.Window, kind Kind) Widget {
	return wm.reg.Find(id, kind)
}

// TitleHeight is the height of a title bar, which equals the button size.
func (wm *WM) TitleHeight() int {
	return wm.buttonSize
}
