package wm

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

const (
	menuEventMask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease |
		xproto.EventMaskPointerMotion | xproto.EventMaskExposure
	menuGrabMask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease |
		xproto.EventMaskPointerMotion

	untitled = "(untitled)"
)

type menuItem struct {
	label   string
	frame   *Frame
	command *Command
}

// Menu is the popup list of windows followed by launcher commands.
type Menu struct {
	widget
	items   []menuItem
	current int

	// button is the pointer button that opened the menu, zero when it
	// was opened from the keyboard.
	button  xproto.Button
	moved   bool
	grabbed bool

	itemHeight int
	pad        int
}

func (wm *WM) newMenu() (*Menu, error) {
	m := &Menu{current: -1}
	opts := WindowOptions{
		OverrideRedirect: true,
		BorderWidth:      wm.theme.BorderWidth,
		EventMask:        menuEventMask,
		Background:       wm.theme.MenuBg,
	}
	if err := wm.createWidget(m, KindMenu, wm.conn.Root(), Rect{Width: 1, Height: 1}, opts, true); err != nil {
		return nil, err
	}
	m.pad = wm.titlePad + 2*wm.font.Descent()
	m.itemHeight = wm.font.Ascent() + wm.font.Descent() + 2*wm.titlePad
	m.refresh()
	return m, nil
}

// Current returns the selected index, or -1.
func (m *Menu) Current() int { return m.current }

// Len returns the number of items.
func (m *Menu) Len() int { return len(m.items) }

// WindowCount returns the number of window items, which come first.
func (m *Menu) WindowCount() int {
	n := 0
	for _, it := range m.items {
		if it.frame != nil {
			n++
		}
	}
	return n
}

// Labels returns the item labels in display order.
func (m *Menu) Labels() []string {
	labels := make([]string, len(m.items))
	for i, it := range m.items {
		labels[i] = it.label
	}
	return labels
}

// SetCurrent selects item i; out of range values clear the selection.
func (m *Menu) SetCurrent(i int) {
	if i < 0 || i >= len(m.items) {
		i = -1
	}
	if i != m.current {
		m.current = i
		m.wm.RequestRepaint(m)
	}
}

// Cycle moves the selection by delta, wrapping over the window items.
func (m *Menu) Cycle(delta int) {
	n := m.WindowCount()
	if n == 0 {
		return
	}
	cur := max(m.current, 0)
	m.SetCurrent(((cur+delta)%n + n) % n)
}

// refresh rebuilds the items from the activation history and the
// configured commands and resizes the menu to fit them.
func (m *Menu) refresh() {
	wm := m.wm
	m.items = m.items[:0]
	for _, f := range wm.mru {
		label := f.name
		if label == "" {
			label = untitled
		}
		if f.iconified {
			label = "[" + label + "]"
		}
		m.items = append(m.items, menuItem{label: label, frame: f})
	}
	for i := range wm.commands {
		c := &wm.commands[i]
		m.items = append(m.items, menuItem{label: c.Name, command: c})
	}
	if m.current >= len(m.items) {
		m.current = -1
	}

	width := 1
	for _, it := range m.items {
		width = max(width, wm.font.TextWidth(it.label)+2*m.pad)
	}
	height := max(1, len(m.items)*m.itemHeight)
	if width != m.rect.Width || height != m.rect.Height {
		wm.resizeWidget(m, width, height)
	}
	wm.RequestRepaint(m)
}

// Show maps the menu at x, y, kept inside the screen. A non-zero button
// grabs the pointer until the menu is hidden.
func (m *Menu) Show(x, y int, button xproto.Button) {
	wm := m.wm
	m.refresh()
	sw, sh := wm.conn.ScreenSize()
	bw := wm.theme.BorderWidth
	x = clamp(x, 0, sw-m.rect.Width-2*bw)
	y = clamp(y, 0, sh-m.rect.Height-2*bw)
	if x != m.rect.X || y != m.rect.Y {
		wm.moveWidget(m, x, y)
	}
	m.button = button
	m.moved = false
	wm.mapWidget(m)
	if button != 0 && !m.grabbed {
		if err := wm.conn.GrabPointer(m.id, 0, menuGrabMask); err != nil {
			wm.log.Warn("couldn't grab pointer for menu", "error", err)
		} else {
			m.grabbed = true
		}
	}
}

// ShowCentered maps the menu in the middle of the screen without a
// pointer grab.
func (m *Menu) ShowCentered() {
	m.refresh()
	sw, sh := m.wm.conn.ScreenSize()
	m.Show((sw-m.rect.Width)/2, (sh-m.rect.Height)/2, 0)
}

// Hide unmaps the menu and releases its pointer grab.
func (m *Menu) Hide() {
	wm := m.wm
	if m.grabbed {
		m.grabbed = false
		wm.check(wm.conn.UngrabPointer(), "ungrab pointer")
	}
	wm.unmapWidget(m)
}

// SelectCurrent hides the menu and runs the selected item. Running the
// item is the last thing it does.
func (m *Menu) SelectCurrent() {
	if m.current < 0 || m.current >= len(m.items) {
		m.Hide()
		return
	}
	it := m.items[m.current]
	m.Hide()
	m.wm.runMenuItem(it)
}

func (wm *WM) runMenuItem(it menuItem) {
	switch {
	case it.frame != nil:
		if it.frame.destroyed {
			return
		}
		wm.Deiconify(it.frame)
		wm.Activate(it.frame)
	case it.command != nil:
		wm.launch(*it.command)
	}
}

func (m *Menu) itemAt(x, y int) int {
	if x < 0 || x >= m.rect.Width || y < 0 || m.itemHeight == 0 {
		return -1
	}
	i := y / m.itemHeight
	if i >= len(m.items) {
		return -1
	}
	return i
}

func (m *Menu) Event(ev xgb.Event) Disposition {
	switch e := ev.(type) {
	case xproto.MotionNotifyEvent:
		m.moved = true
		m.SetCurrent(m.itemAt(int(e.EventX), int(e.EventY)))
	case xproto.ButtonPressEvent:
		i := m.itemAt(int(e.EventX), int(e.EventY))
		if i < 0 {
			m.Hide()
			break
		}
		m.moved = true
		m.SetCurrent(i)
	case xproto.ButtonReleaseEvent:
		if !m.moved {
			break
		}
		m.SetCurrent(m.itemAt(int(e.EventX), int(e.EventY)))
		m.SelectCurrent()
		return Invalidated
	case xproto.ExposeEvent:
		m.expose(e)
	default:
		m.wm.log.Debug("menu: unhandled event", "type", eventName(ev))
	}
	return Handled
}

func (m *Menu) PrepareRepaint() {}

func (m *Menu) Repaint() {
	if m.canvas == nil {
		return
	}
	wm := m.wm
	th := wm.theme
	m.canvas.FillRect(Rect{Width: m.rect.Width, Height: m.rect.Height}, th.MenuBg)
	for i, it := range m.items {
		row := Rect{Y: i * m.itemHeight, Width: m.rect.Width, Height: m.itemHeight}
		fg := th.MenuFg
		if i == m.current {
			m.canvas.FillRect(row, th.MenuSelectionBg)
			fg = th.MenuSelectionFg
		}
		m.canvas.DrawText(m.pad, row.Y+wm.titlePad, fg, it.label)
	}
	m.flush()
}

func (m *Menu) destroy() {
	m.Hide()
	m.wm.destroyWidget(m)
}
