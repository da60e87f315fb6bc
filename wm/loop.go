package wm

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Run is the event loop. Each iteration restacks, flushes pending
// repaints and then blocks until an event, a signal or a tick arrives.
// It returns ErrConnectionLost when events is closed and a SignalError
// when a signal is received. A nil channel never fires.
func (wm *WM) Run(events <-chan Event, signals <-chan os.Signal, tick <-chan time.Time) error {
	for {
		wm.restack()
		wm.repaintWidgets()

		select {
		case ev, ok := <-events:
			if !ok {
				return ErrConnectionLost
			}
			if ev.Err != nil {
				wm.protocolError(ev.Err)
				continue
			}
			if ev.Event != nil {
				wm.Dispatch(ev.Event)
			}
		case sig := <-signals:
			wm.log.Info("received signal", "signal", sig)
			return SignalError{Signal: sig}
		case <-tick:
			wm.tick()
		}
	}
}

// Dispatch routes one event to the widget that owns its window. Events
// for windows the manager doesn't own are handled at the top level.
func (wm *WM) Dispatch(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		wm.handleKeyPress(e)
		return
	case xproto.KeyReleaseEvent:
		wm.handleKeyRelease(e)
		return
	case xproto.MapRequestEvent:
		if wm.reg.Find(e.Window, KindAny) == nil {
			if _, err := wm.manage(e.Window, false); err != nil {
				wm.log.Warn("couldn't manage window", "window", e.Window, "error", err)
			}
			return
		}
	case xproto.ConfigureRequestEvent:
		if wm.reg.Find(e.Window, KindFrame) == nil {
			wm.configRequest(e)
			return
		}
	}

	id := eventWindow(ev)
	w := wm.reg.Find(id, KindAny)
	if w == nil {
		wm.unhandled(ev, id)
		return
	}
	// w must not be used once Event returns Invalidated.
	w.Event(ev)
}

func (wm *WM) unhandled(ev xgb.Event, id xproto.Window) {
	switch e := ev.(type) {
	case xproto.ButtonPressEvent:
		if e.Event == wm.conn.Root() && e.Detail == xproto.ButtonIndex3 {
			wm.menu.Show(int(e.RootX), int(e.RootY), e.Detail)
			return
		}
	case xproto.ClientMessageEvent:
		wm.log.Debug("ignoring client message", "window", id, "type", wm.conn.AtomName(e.Type))
		return
	}
	wm.log.Debug("ignoring event", "type", eventName(ev), "window", id)
}

// tick redraws the clock in the active title.
func (wm *WM) tick() {
	if wm.active != nil && wm.active.title != nil {
		wm.RequestRepaint(wm.active.title)
	}
}

func (wm *WM) protocolError(err xgb.Error) {
	if !wm.reportingErrors() {
		wm.log.Debug("suppressed protocol error", "error", err)
		return
	}
	wm.log.Warn("protocol error", "error", err)
}

// eventWindow returns the window an event is about.
func eventWindow(ev xgb.Event) xproto.Window {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		return e.Event
	case xproto.KeyReleaseEvent:
		return e.Event
	case xproto.ButtonPressEvent:
		return e.Event
	case xproto.ButtonReleaseEvent:
		return e.Event
	case xproto.MotionNotifyEvent:
		return e.Event
	case xproto.EnterNotifyEvent:
		return e.Event
	case xproto.LeaveNotifyEvent:
		return e.Event
	case xproto.ExposeEvent:
		return e.Window
	case xproto.MapRequestEvent:
		return e.Window
	case xproto.ConfigureRequestEvent:
		return e.Window
	case xproto.UnmapNotifyEvent:
		return e.Window
	case xproto.DestroyNotifyEvent:
		return e.Window
	case xproto.PropertyNotifyEvent:
		return e.Window
	case xproto.ClientMessageEvent:
		return e.Window
	case xproto.ConfigureNotifyEvent:
		return e.Window
	case xproto.MapNotifyEvent:
		return e.Window
	case xproto.ReparentNotifyEvent:
		return e.Window
	case xproto.CreateNotifyEvent:
		return e.Window
	}
	return 0
}

func eventName(ev xgb.Event) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", ev), "xproto.")
}
