package wm

import (
	"slices"

	"github.com/BurntSushi/xgb/xproto"
)

// restack reconciles the stacking order with the kept-on-top flags and
// pushes it to the server if it changed since the last pass. A mapped
// menu is always in front.
func (wm *WM) restack() {
	order := make([]*Frame, 0, len(wm.frames))
	for _, f := range wm.frames {
		if f.onTop {
			order = append(order, f)
		}
	}
	for _, f := range wm.frames {
		if !f.onTop {
			order = append(order, f)
		}
	}
	wm.frames = order

	wins := make([]xproto.Window, 0, len(order)+1)
	if wm.menu != nil && wm.menu.mapped {
		wins = append(wins, wm.menu.id)
	}
	for _, f := range order {
		wins = append(wins, f.id)
	}
	if slices.Equal(wins, wm.lastStack) {
		return
	}
	wm.lastStack = wins

	wm.suppressErrors()
	wm.check(wm.conn.Restack(wins), "restack")
	wm.restoreErrors()
	wm.updateClientLists()
}

// updateClientLists publishes the managed clients in mapping order and
// in stacking order, bottom to top.
func (wm *WM) updateClientLists() {
	mapping := make([]xproto.Window, 0, len(wm.managed))
	for _, f := range wm.managed {
		mapping = append(mapping, f.client)
	}
	stacking := make([]xproto.Window, 0, len(wm.frames))
	for i := len(wm.frames) - 1; i >= 0; i-- {
		stacking = append(stacking, wm.frames[i].client)
	}
	wm.check(wm.conn.SetClientLists(mapping, stacking), "set client lists")
}
