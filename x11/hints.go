package x11

import (
	"errors"
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/BobdaProgrammer/karmen/wm"
)

// Name is what we announce in _NET_WM_NAME.
const Name = "karmen"

var supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_CLIENT_LIST_STACKING",
}

func (c *Conn) AtomName(atom xproto.Atom) string {
	name, err := xprop.AtomName(c.xu, atom)
	if err != nil {
		return ""
	}
	return name
}

// WindowName prefers _NET_WM_NAME over WM_NAME.
func (c *Conn) WindowName(win xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.xu, win); err == nil && name != "" {
		return name
	}
	name, _ := icccm.WmNameGet(c.xu, win)
	return name
}

func (c *Conn) TransientFor(win xproto.Window) xproto.Window {
	leader, err := icccm.WmTransientForGet(c.xu, win)
	if err != nil {
		return 0
	}
	return leader
}

func (c *Conn) SupportsDelete(win xproto.Window) bool {
	protocols, err := icccm.WmProtocolsGet(c.xu, win)
	if err != nil {
		return false
	}
	return slices.Contains(protocols, "WM_DELETE_WINDOW")
}

// SendDelete sends the ICCCM WM_DELETE_WINDOW message.
func (c *Conn) SendDelete(win xproto.Window) error {
	protocols, err := xprop.Atm(c.xu, "WM_PROTOCOLS")
	if err != nil {
		return err
	}
	del, err := xprop.Atm(c.xu, "WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(del),
			uint32(xproto.TimeCurrentTime),
			0, 0, 0,
		}),
	}
	return xproto.SendEventChecked(c.conn, false, win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

func (c *Conn) KillClient(win xproto.Window) error {
	return xproto.KillClientChecked(c.conn, uint32(win)).Check()
}

func (c *Conn) SetWMState(win xproto.Window, iconic bool) error {
	state := uint(icccm.StateNormal)
	if iconic {
		state = icccm.StateIconic
	}
	return icccm.WmStateSet(c.xu, win, &icccm.WmState{State: state})
}

// InitHints creates the supporting-WM check window and announces what
// we support.
func (c *Conn) InitHints() error {
	win, err := c.CreateWindow(c.root, wm.Rect{X: -1, Y: -1, Width: 1, Height: 1}, wm.WindowOptions{
		InputOnly:        true,
		OverrideRedirect: true,
	})
	if err != nil {
		return fmt.Errorf("couldn't create check window: %w", err)
	}
	c.checkWin = win
	return errors.Join(
		ewmh.SupportingWmCheckSet(c.xu, c.root, win),
		ewmh.SupportingWmCheckSet(c.xu, win, win),
		ewmh.WmNameSet(c.xu, win, Name),
		ewmh.SupportedSet(c.xu, supported),
	)
}

// FiniHints removes what InitHints and the manager left on root.
func (c *Conn) FiniHints() error {
	var errs []error
	for _, name := range []string{"_NET_SUPPORTING_WM_CHECK", "_NET_ACTIVE_WINDOW", "_NET_CLIENT_LIST", "_NET_CLIENT_LIST_STACKING"} {
		atom, err := xprop.Atm(c.xu, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		errs = append(errs, xproto.DeletePropertyChecked(c.conn, c.root, atom).Check())
	}
	if c.checkWin != 0 {
		errs = append(errs, c.DestroyWindow(c.checkWin))
		c.checkWin = 0
	}
	return errors.Join(errs...)
}

func (c *Conn) SetActiveWindow(win xproto.Window) error {
	return ewmh.ActiveWindowSet(c.xu, win)
}

func (c *Conn) SetClientLists(mapping, stacking []xproto.Window) error {
	return errors.Join(
		ewmh.ClientListSet(c.xu, mapping),
		ewmh.ClientListStackingSet(c.xu, stacking),
	)
}
