package wm

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/require"
)

func clickTitle(ti *Title, at xproto.Timestamp) {
	ti.Event(xproto.ButtonPressEvent{Detail: xproto.ButtonIndex1, Time: at, EventX: 10, EventY: 5})
	ti.Event(xproto.ButtonReleaseEvent{Detail: xproto.ButtonIndex1, Time: at + 1})
}

func TestTitleDoubleClickThreshold(t *testing.T) {
	tests := []struct {
		name      string
		gap       xproto.Timestamp
		maximized bool
	}{
		{"just inside", 249, true},
		{"just outside", 251, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wm, conn := newTestWM(t)
			f := mapClient(t, wm, conn, Rect{X: 100, Y: 100, Width: 200, Height: 100}, "a")
			ti := f.Title()

			clickTitle(ti, 1000)
			require.False(t, wm.FastMoveActive())
			ti.Event(xproto.ButtonPressEvent{Detail: xproto.ButtonIndex1, Time: 1000 + tt.gap, EventX: 10, EventY: 5})

			require.Equal(t, tt.maximized, f.Maximized())
			require.Equal(t, !tt.maximized, ti.Moving(), "a press that isn't a double click starts a drag")
			require.Equal(t, !tt.maximized, wm.FastMoveActive())
		})
	}
}

func TestTitleDragMovesFrame(t *testing.T) {
	wm, conn := newTestWM(t)
	f := mapClient(t, wm, conn, Rect{X: 100, Y: 100, Width: 200, Height: 100}, "a")
	ti := f.Title()

	ti.Event(xproto.ButtonPressEvent{Detail: xproto.ButtonIndex1, Time: 10, EventX: 10, EventY: 5, RootX: 111, RootY: 106})
	require.True(t, ti.Moving())
	require.NotNil(t, conn.pointer)
	require.Equal(t, ti.ID(), conn.pointer.win)
	overlay := conn.pointer.confine
	require.True(t, conn.windows[overlay].opts.InputOnly)

	ti.Event(xproto.MotionNotifyEvent{RootX: 500, RootY: 400})
	require.Equal(t, 489, f.Geometry().X)
	require.Equal(t, 394, f.Geometry().Y)

	ti.Event(xproto.MotionNotifyEvent{RootX: -20, RootY: 3})
	require.Equal(t, -31, f.Geometry().X, "frames may leave the screen")

	ti.Event(xproto.ButtonReleaseEvent{Detail: xproto.ButtonIndex1, Time: 20})
	require.False(t, ti.Moving())
	require.False(t, wm.FastMoveActive())
	require.Nil(t, conn.pointer)
	_, alive := conn.windows[overlay]
	require.False(t, alive)
}

func TestTitleControlDragMovesFamily(t *testing.T) {
	wm, conn := newTestWM(t)
	leader, transient := newFamily(t, wm, conn)
	ti := leader.Title()

	ti.Event(xproto.ButtonPressEvent{Detail: xproto.ButtonIndex1, Time: 10})
	ti.Event(xproto.MotionNotifyEvent{RootX: 51, RootY: 61, State: xproto.ModMaskControl})

	require.Equal(t, Rect{X: 50, Y: 60, Width: 300, Height: 217}, leader.Geometry())
	require.Equal(t, 100, transient.Geometry().X)
	require.Equal(t, 110, transient.Geometry().Y)
}

func TestTitleShiftClickTogglesOnTop(t *testing.T) {
	wm, conn := newTestWM(t)
	f := mapClient(t, wm, conn, Rect{X: 100, Y: 100, Width: 200, Height: 100}, "a")

	f.Title().Event(xproto.ButtonPressEvent{Detail: xproto.ButtonIndex1, Time: 10, State: xproto.ModMaskShift})

	require.True(t, f.OnTop())
}

func TestTitleClickWhenMaximizedDoesNotDrag(t *testing.T) {
	wm, conn := newTestWM(t)
	f := mapClient(t, wm, conn, Rect{X: 100, Y: 100, Width: 200, Height: 100}, "a")
	wm.Maximize(f)

	f.Title().Event(xproto.ButtonPressEvent{Detail: xproto.ButtonIndex1, Time: 10})

	require.False(t, f.Title().Moving())
	require.True(t, f.Maximized())
}

func TestTitleSecondaryClickOpensMenu(t *testing.T) {
	wm, conn := newTestWM(t)
	f := mapClient(t, wm, conn, Rect{X: 100, Y: 100, Width: 200, Height: 100}, "a")

	f.Title().Event(xproto.ButtonPressEvent{Detail: xproto.ButtonIndex3, RootX: 150, RootY: 110})

	require.True(t, wm.Menu().Mapped())
	require.False(t, f.Title().Moving())
}

func TestTitleRepaint(t *testing.T) {
	wm, conn := newTestWM(t)
	a := mapClient(t, wm, conn, Rect{X: 10, Y: 10, Width: 600, Height: 100}, "xterm")
	b := mapClient(t, wm, conn, Rect{X: 20, Y: 20, Width: 600, Height: 100}, "editor")
	settle(wm)

	require.Equal(t, []string{"xterm"}, conn.canvases[a.Title().ID()].texts)
	require.Equal(t, []string{"2024-03-09 14:05:06 Saturday", "editor"}, conn.canvases[b.Title().ID()].texts)
	require.Equal(t, []string{"#"}, conn.canvases[b.Buttons()[1].ID()].texts)
}

func TestTitleElidesLongNames(t *testing.T) {
	wm, conn := newTestWM(t)
	f := mapClient(t, wm, conn, Rect{X: 10, Y: 10, Width: 100, Height: 100}, "a very long window name")
	wm.SetActive(nil)
	settle(wm)

	// 100 wide frame: 66 px of title minus 12 px of padding.
	texts := conn.canvases[f.Title().ID()].texts
	require.Equal(t, []string{"a ve..."}, texts)
	require.LessOrEqual(t, fakeFont{}.TextWidth(texts[0]), 54)
}

func TestTickRepaintsActiveTitle(t *testing.T) {
	wm, conn := newTestWM(t)
	f := mapClient(t, wm, conn, Rect{X: 10, Y: 10, Width: 600, Height: 100}, "a")
	settle(wm)
	flushes := conn.canvases[f.Title().ID()].flushes

	wm.tick()
	settle(wm)

	require.Equal(t, flushes+1, conn.canvases[f.Title().ID()].flushes)
}
