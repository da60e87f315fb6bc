package wm

import "github.com/BurntSushi/xgb/xproto"

const fastMoveMask = xproto.EventMaskButtonRelease | xproto.EventMaskButtonMotion

// fastMove is the one outstanding drag grab. The pointer is grabbed for
// the dragging title and confined to a full-screen input-only overlay.
type fastMove struct {
	overlay xproto.Window
	owner   *Title
	active  bool
}

// beginFastMove grabs the pointer for t. It returns false, doing
// nothing, if a grab is already outstanding or the grab fails.
func (wm *WM) beginFastMove(t *Title) bool {
	if wm.grab.active {
		return false
	}
	sw, sh := wm.conn.ScreenSize()
	overlay, err := wm.conn.CreateWindow(wm.conn.Root(), Rect{Width: sw, Height: sh}, WindowOptions{
		InputOnly:        true,
		OverrideRedirect: true,
	})
	if err != nil {
		wm.log.Warn("couldn't create move overlay", "error", err)
		return false
	}
	wm.check(wm.conn.MapWindow(overlay), "map move overlay")
	if err := wm.conn.GrabPointer(t.id, overlay, fastMoveMask); err != nil {
		wm.log.Warn("couldn't grab pointer", "error", err)
		wm.check(wm.conn.DestroyWindow(overlay), "destroy move overlay")
		return false
	}
	wm.grab = fastMove{overlay: overlay, owner: t, active: true}
	return true
}

// endFastMove releases the grab. It is safe to call at any time.
func (wm *WM) endFastMove() {
	if !wm.grab.active {
		return
	}
	g := wm.grab
	wm.grab = fastMove{}
	if g.owner != nil {
		g.owner.moving = false
	}
	wm.check(wm.conn.UngrabPointer(), "ungrab pointer")
	wm.check(wm.conn.DestroyWindow(g.overlay), "destroy move overlay")
}

// FastMoveActive reports whether a drag grab is outstanding.
func (wm *WM) FastMoveActive() bool {
	return wm.grab.active
}
