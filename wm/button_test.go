package wm

import (
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/require"
)

func TestButtonClickProtocol(t *testing.T) {
	press := func(b xproto.Button) xgb.Event { return xproto.ButtonPressEvent{Detail: b} }
	release := func(b xproto.Button) xgb.Event { return xproto.ButtonReleaseEvent{Detail: b} }
	enter := xproto.EnterNotifyEvent{}
	leave := xproto.LeaveNotifyEvent{}

	tests := []struct {
		name   string
		events []xgb.Event
		fires  bool
	}{
		{"click", []xgb.Event{press(1), release(1)}, true},
		{"leave and come back", []xgb.Event{press(1), leave, enter, release(1)}, true},
		{"release outside", []xgb.Event{press(1), leave, release(1)}, false},
		{"released with another button", []xgb.Event{press(1), release(3)}, false},
		{"other button in between", []xgb.Event{press(1), press(2), release(1)}, false},
		{"release without press", []xgb.Event{enter, release(1)}, false},
		{"secondary click", []xgb.Event{press(2), release(2)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wm, conn := newTestWM(t)
			f := mapClient(t, wm, conn, Rect{X: 10, Y: 10, Width: 100, Height: 100}, "a")
			b := f.Buttons()[0]
			fired := 0
			b.SetClickHandler(func() { fired++ })

			for _, ev := range tt.events {
				b.Event(ev)
			}

			require.Equal(t, tt.fires, fired == 1)
			require.LessOrEqual(t, fired, 1)
			require.False(t, b.Acting())
			require.False(t, b.Pressed())
		})
	}
}

func TestButtonLeaveKeepsArmed(t *testing.T) {
	wm, conn := newTestWM(t)
	b := mapClient(t, wm, conn, Rect{X: 10, Y: 10, Width: 100, Height: 100}, "a").Buttons()[0]

	b.Event(xproto.ButtonPressEvent{Detail: xproto.ButtonIndex1})
	require.True(t, b.Acting())
	require.True(t, b.Pressed())

	b.Event(xproto.LeaveNotifyEvent{})
	require.True(t, b.Acting())
	require.False(t, b.Pressed())

	b.Event(xproto.EnterNotifyEvent{})
	require.True(t, b.Pressed())
}

func TestButtonColours(t *testing.T) {
	wm, conn := newTestWM(t)
	f := mapClient(t, wm, conn, Rect{X: 10, Y: 10, Width: 100, Height: 100}, "a")
	b := f.Buttons()[1]
	theme := testTheme()

	settle(wm)
	require.Equal(t, theme.TitleActiveFg, b.fg)
	require.Equal(t, theme.TitleActiveBg, b.bg)

	wm.Dispatch(xproto.EnterNotifyEvent{Event: b.ID()})
	settle(wm)
	require.True(t, b.Hover())
	require.Equal(t, theme.TitleActiveBgBright, b.bg)

	wm.Dispatch(xproto.ButtonPressEvent{Event: b.ID(), Detail: xproto.ButtonIndex1})
	settle(wm)
	require.Equal(t, theme.TitleActiveBg, b.fg)
	require.Equal(t, theme.TitleActiveFg, b.bg)

	wm.SetActive(nil)
	settle(wm)
	require.Equal(t, theme.TitleInactiveBg, b.fg)
	require.Equal(t, theme.TitleInactiveFg, b.bg)
	require.Equal(t, []string{"#"}, conn.canvases[b.ID()].texts)
}

func TestButtonHandlerMayDestroyButton(t *testing.T) {
	wm, conn := newTestWM(t)
	f := mapClient(t, wm, conn, Rect{X: 10, Y: 10, Width: 100, Height: 100}, "a")
	b := f.Buttons()[1]
	b.SetClickHandler(func() { wm.unmanage(f, false) })

	b.Event(xproto.ButtonPressEvent{Detail: xproto.ButtonIndex1})
	got := b.Event(xproto.ButtonReleaseEvent{Detail: xproto.ButtonIndex1})

	require.Equal(t, Invalidated, got)
	require.True(t, b.Destroyed())
	require.Nil(t, wm.Find(b.ID(), KindAny))
	require.NotPanics(t, func() { settle(wm) })
}

func TestButtonSecondaryClickOpensMenu(t *testing.T) {
	wm, conn := newTestWM(t)
	b := mapClient(t, wm, conn, Rect{X: 10, Y: 10, Width: 100, Height: 100}, "a").Buttons()[0]

	b.Event(xproto.ButtonPressEvent{Detail: xproto.ButtonIndex3, RootX: 40, RootY: 30})

	require.True(t, wm.Menu().Mapped())
	require.Equal(t, 40, wm.Menu().Geometry().X)
	require.Equal(t, wm.Menu().ID(), conn.pointer.win)
}

func TestButtonSetGlyph(t *testing.T) {
	wm, conn := newTestWM(t)
	b := mapClient(t, wm, conn, Rect{X: 10, Y: 10, Width: 100, Height: 100}, "a").Buttons()[0]
	settle(wm)
	require.Equal(t, []string{"<"}, conn.canvases[b.ID()].texts)

	b.SetGlyph(textGlyph("x"))
	settle(wm)
	require.Equal(t, []string{"x"}, conn.canvases[b.ID()].texts)
}
