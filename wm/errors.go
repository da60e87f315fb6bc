package wm

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrAnotherWM is returned by Start when another client already
	// manages the root window.
	ErrAnotherWM = errors.New("another window manager is already running")
	// ErrConnectionLost is returned by Run when the event stream ends.
	ErrConnectionLost = errors.New("connection to the display was lost")
)

// SignalError is returned by Run when a termination signal arrives.
type SignalError struct {
	Signal os.Signal
}

func (e SignalError) Error() string {
	return fmt.Sprintf("terminated by signal %v", e.Signal)
}

// suppressErrors opens a scope in which protocol errors are not
// reported. Scopes nest; the server is grabbed while the outermost one
// is open so the batch is applied atomically.
func (wm *WM) suppressErrors() {
	if wm.errDepth == 0 {
		if err := wm.conn.GrabServer(); err != nil {
			wm.log.Warn("couldn't grab server", "error", err)
		}
	}
	wm.errDepth++
}

// restoreErrors closes a scope opened by suppressErrors.
func (wm *WM) restoreErrors() {
	if wm.errDepth == 0 {
		panic("wm: restoreErrors without suppressErrors")
	}
	wm.errDepth--
	if wm.errDepth == 0 {
		if err := wm.conn.Sync(); err != nil {
			wm.log.Debug("sync after batch failed", "error", err)
		}
		if err := wm.conn.UngrabServer(); err != nil {
			wm.log.Warn("couldn't ungrab server", "error", err)
		}
	}
}

// reportingErrors reports whether errors are currently reported.
func (wm *WM) reportingErrors() bool {
	return wm.errDepth == 0
}

// check logs err unless an ignore-errors scope is open. Protocol errors
// are never fatal.
func (wm *WM) check(err error, what string, args ...any) {
	if err == nil || !wm.reportingErrors() {
		return
	}
	wm.log.Warn(what+" failed", append(args, "error", err)...)
}
