package wm

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/require"
)

const (
	fakeRoot     xproto.Window = 1
	screenWidth                = 1280
	screenHeight               = 1024
)

type fakeWindow struct {
	parent         xproto.Window
	rect           Rect
	mapped         bool
	opts           WindowOptions
	overrideRedir  bool
	name           string
	transientFor   xproto.Window
	supportsDelete bool
	border         color.Color
	mask           uint32
}

type pointerGrab struct {
	win, confine xproto.Window
}

// fakeConn is an in-memory display. It records what the manager asked
// for so tests can assert on it.
type fakeConn struct {
	windows map[xproto.Window]*fakeWindow
	nextID  xproto.Window

	serverGrabs int
	anotherWM   bool
	failPointer bool

	focus        xproto.Window
	pointer      *pointerGrab
	keyboard     bool
	keyGrabs     []string
	buttonGrabs  []xproto.Window
	replays      int
	restacks     [][]xproto.Window
	configured   map[xproto.Window][]uint32
	notified     map[xproto.Window]Rect
	saveSet      map[xproto.Window]bool
	iconic       map[xproto.Window]bool
	deleted      []xproto.Window
	killed       []xproto.Window
	active       xproto.Window
	mapping      []xproto.Window
	stacking     []xproto.Window
	hints        bool
	keyNames     map[xproto.Keycode]string
	atoms        map[xproto.Atom]string
	canvases     map[xproto.Window]*fakeCanvas
	destroyedIDs []xproto.Window
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		windows: map[xproto.Window]*fakeWindow{
			fakeRoot: {rect: Rect{Width: screenWidth, Height: screenHeight}, mapped: true},
		},
		nextID:     1000,
		configured: map[xproto.Window][]uint32{},
		notified:   map[xproto.Window]Rect{},
		saveSet:    map[xproto.Window]bool{},
		iconic:     map[xproto.Window]bool{},
		keyNames:   map[xproto.Keycode]string{},
		atoms:      map[xproto.Atom]string{},
		canvases:   map[xproto.Window]*fakeCanvas{},
	}
}

var errBadWindow = errors.New("BadWindow")

// addClient creates a client window as another program would.
func (c *fakeConn) addClient(r Rect, name string) xproto.Window {
	c.nextID++
	id := c.nextID
	c.windows[id] = &fakeWindow{parent: fakeRoot, rect: r, name: name}
	return id
}

func (c *fakeConn) win(id xproto.Window) (*fakeWindow, error) {
	w, ok := c.windows[id]
	if !ok {
		return nil, errBadWindow
	}
	return w, nil
}

func (c *fakeConn) Root() xproto.Window { return fakeRoot }

func (c *fakeConn) ScreenSize() (int, int) { return screenWidth, screenHeight }

func (c *fakeConn) SelectRootInput() error {
	if c.anotherWM {
		return ErrAnotherWM
	}
	return nil
}

func (c *fakeConn) GrabServer() error {
	c.serverGrabs++
	return nil
}

func (c *fakeConn) UngrabServer() error {
	c.serverGrabs--
	return nil
}

func (c *fakeConn) Sync() error { return nil }

func (c *fakeConn) CreateWindow(parent xproto.Window, r Rect, opts WindowOptions) (xproto.Window, error) {
	if _, err := c.win(parent); err != nil {
		return 0, err
	}
	c.nextID++
	id := c.nextID
	c.windows[id] = &fakeWindow{parent: parent, rect: r, opts: opts, overrideRedir: opts.OverrideRedirect, mask: opts.EventMask}
	return id, nil
}

func (c *fakeConn) DestroyWindow(id xproto.Window) error {
	if _, err := c.win(id); err != nil {
		return err
	}
	for child, w := range c.windows {
		if w.parent == id {
			c.DestroyWindow(child)
		}
	}
	delete(c.windows, id)
	c.destroyedIDs = append(c.destroyedIDs, id)
	return nil
}

func (c *fakeConn) MoveWindow(id xproto.Window, x, y int) error {
	w, err := c.win(id)
	if err != nil {
		return err
	}
	w.rect.X, w.rect.Y = x, y
	return nil
}

func (c *fakeConn) ResizeWindow(id xproto.Window, width, height int) error {
	w, err := c.win(id)
	if err != nil {
		return err
	}
	w.rect.Width, w.rect.Height = width, height
	return nil
}

func (c *fakeConn) MoveResizeWindow(id xproto.Window, r Rect) error {
	w, err := c.win(id)
	if err != nil {
		return err
	}
	w.rect = r
	return nil
}

func (c *fakeConn) MapWindow(id xproto.Window) error {
	w, err := c.win(id)
	if err != nil {
		return err
	}
	w.mapped = true
	return nil
}

func (c *fakeConn) UnmapWindow(id xproto.Window) error {
	w, err := c.win(id)
	if err != nil {
		return err
	}
	w.mapped = false
	return nil
}

func (c *fakeConn) ReparentWindow(id, parent xproto.Window, x, y int) error {
	w, err := c.win(id)
	if err != nil {
		return err
	}
	w.parent = parent
	w.rect.X, w.rect.Y = x, y
	return nil
}

func (c *fakeConn) ChangeSaveSet(id xproto.Window, insert bool) error {
	if insert {
		c.saveSet[id] = true
	} else {
		delete(c.saveSet, id)
	}
	return nil
}

func (c *fakeConn) SelectInput(id xproto.Window, mask uint32) error {
	w, err := c.win(id)
	if err != nil {
		return err
	}
	w.mask = mask
	return nil
}

func (c *fakeConn) SetBorderWidth(id xproto.Window, width int) error {
	_, err := c.win(id)
	return err
}

func (c *fakeConn) SetBorderColor(id xproto.Window, col color.Color) error {
	w, err := c.win(id)
	if err != nil {
		return err
	}
	w.border = col
	return nil
}

func (c *fakeConn) Restack(wins []xproto.Window) error {
	c.restacks = append(c.restacks, append([]xproto.Window(nil), wins...))
	return nil
}

func (c *fakeConn) ConfigureWindow(id xproto.Window, mask uint16, values []uint32) error {
	if _, err := c.win(id); err != nil {
		return err
	}
	c.configured[id] = values
	return nil
}

func (c *fakeConn) SendConfigureNotify(id xproto.Window, r Rect) error {
	c.notified[id] = r
	return nil
}

func (c *fakeConn) WindowGeometry(id xproto.Window) (Rect, error) {
	w, err := c.win(id)
	if err != nil {
		return Rect{}, err
	}
	return w.rect, nil
}

func (c *fakeConn) WindowAttributes(id xproto.Window) (Attributes, error) {
	w, err := c.win(id)
	if err != nil {
		return Attributes{}, err
	}
	return Attributes{OverrideRedirect: w.overrideRedir, Viewable: w.mapped}, nil
}

func (c *fakeConn) Children(id xproto.Window) ([]xproto.Window, error) {
	var out []xproto.Window
	for child, w := range c.windows {
		if w.parent == id && child != id {
			out = append(out, child)
		}
	}
	return out, nil
}

func (c *fakeConn) SetInputFocus(id xproto.Window) error {
	if _, err := c.win(id); err != nil {
		return err
	}
	c.focus = id
	return nil
}

func (c *fakeConn) ResetFocus() error {
	c.focus = 0
	return nil
}

func (c *fakeConn) GrabPointer(id, confine xproto.Window, mask uint16) error {
	if c.failPointer {
		return errors.New("AlreadyGrabbed")
	}
	c.pointer = &pointerGrab{win: id, confine: confine}
	return nil
}

func (c *fakeConn) UngrabPointer() error {
	c.pointer = nil
	return nil
}

func (c *fakeConn) GrabKeyboard() error {
	c.keyboard = true
	return nil
}

func (c *fakeConn) UngrabKeyboard() error {
	c.keyboard = false
	return nil
}

func (c *fakeConn) GrabKey(mods uint16, key string) error {
	c.keyGrabs = append(c.keyGrabs, FormatBinding(mods, key))
	return nil
}

func (c *fakeConn) GrabButton(id xproto.Window) error {
	c.buttonGrabs = append(c.buttonGrabs, id)
	return nil
}

func (c *fakeConn) ReplayPointer(xproto.Timestamp) error {
	c.replays++
	return nil
}

func (c *fakeConn) KeyName(code xproto.Keycode, state uint16) string {
	return c.keyNames[code]
}

func (c *fakeConn) AtomName(atom xproto.Atom) string {
	return c.atoms[atom]
}

func (c *fakeConn) WindowName(id xproto.Window) string {
	if w, ok := c.windows[id]; ok {
		return w.name
	}
	return ""
}

func (c *fakeConn) TransientFor(id xproto.Window) xproto.Window {
	if w, ok := c.windows[id]; ok {
		return w.transientFor
	}
	return 0
}

func (c *fakeConn) SupportsDelete(id xproto.Window) bool {
	w, ok := c.windows[id]
	return ok && w.supportsDelete
}

func (c *fakeConn) SendDelete(id xproto.Window) error {
	c.deleted = append(c.deleted, id)
	return nil
}

func (c *fakeConn) KillClient(id xproto.Window) error {
	c.killed = append(c.killed, id)
	return nil
}

func (c *fakeConn) SetWMState(id xproto.Window, iconic bool) error {
	c.iconic[id] = iconic
	return nil
}

func (c *fakeConn) InitHints() error {
	c.hints = true
	return nil
}

func (c *fakeConn) FiniHints() error {
	c.hints = false
	return nil
}

func (c *fakeConn) SetActiveWindow(id xproto.Window) error {
	c.active = id
	return nil
}

func (c *fakeConn) SetClientLists(mapping, stacking []xproto.Window) error {
	c.mapping = mapping
	c.stacking = stacking
	return nil
}

func (c *fakeConn) NewCanvas(id xproto.Window, width, height int) (Canvas, error) {
	fc := &fakeCanvas{width: width, height: height}
	c.canvases[id] = fc
	return fc, nil
}

// fakeCanvas keeps the text drawn since the last full clear.
type fakeCanvas struct {
	width, height int
	texts         []string
	fills         []color.Color
	flushes       int
	released      bool
}

func (c *fakeCanvas) Resize(width, height int) error {
	c.width, c.height = width, height
	return nil
}

func (c *fakeCanvas) FillRect(r Rect, col color.Color) {
	if r.X == 0 && r.Y == 0 && r.Width == c.width && r.Height == c.height {
		c.texts = nil
		c.fills = nil
	}
	c.fills = append(c.fills, col)
}

func (c *fakeCanvas) DrawText(x, y int, col color.Color, text string) {
	c.texts = append(c.texts, text)
}

func (c *fakeCanvas) Flush() error {
	c.flushes++
	return nil
}

func (c *fakeCanvas) Expose(Rect) error { return nil }

func (c *fakeCanvas) Release() { c.released = true }

// fakeFont is a monospaced font seven pixels per rune.
type fakeFont struct{}

func (fakeFont) TextWidth(s string) int { return 7 * len([]rune(s)) }
func (fakeFont) Ascent() int            { return 10 }
func (fakeFont) Descent() int           { return 2 }

var (
	testBlue  = color.RGBA{R: 0x4b, G: 0x69, B: 0x83, A: 0xff}
	testWhite = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	testBlack = color.RGBA{A: 0xff}
	testGrey  = color.RGBA{R: 0xac, G: 0xaa, B: 0xa5, A: 0xff}
	testPale  = color.RGBA{R: 0xc0, G: 0xd0, B: 0xe0, A: 0xff}
)

func testTheme() Theme {
	return Theme{
		TitleActiveFg:         testWhite,
		TitleActiveBg:         testBlue,
		TitleActiveBgBright:   testGrey,
		TitleInactiveFg:       testBlue,
		TitleInactiveBg:       testWhite,
		TitleInactiveBgBright: testPale,
		MenuFg:                testBlack,
		MenuBg:                testWhite,
		MenuSelectionFg:       testWhite,
		MenuSelectionBg:       testBlue,
		BorderWidth:           1,
	}
}

var testTime = time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWM(t *testing.T, cmds ...Command) (*WM, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	wm := New(conn, fakeFont{}, Options{
		Theme:    testTheme(),
		Commands: cmds,
		Logger:   discardLogger(),
		Now:      func() time.Time { return testTime },
	})
	require.NoError(t, wm.Start())
	return wm, conn
}

// mapClient plays a client asking to be mapped and returns its frame.
func mapClient(t *testing.T, wm *WM, conn *fakeConn, r Rect, name string) *Frame {
	t.Helper()
	id := conn.addClient(r, name)
	wm.Dispatch(xproto.MapRequestEvent{Parent: fakeRoot, Window: id})
	f, ok := wm.Find(id, KindFrame).(*Frame)
	require.True(t, ok, "client %d was not framed", id)
	return f
}

// settle runs the end-of-iteration passes of the event loop.
func settle(wm *WM) {
	wm.restack()
	wm.repaintWidgets()
}
