package x11

import "github.com/BobdaProgrammer/karmen/wm"

// Events starts the goroutine that reads from the connection and
// returns the channel it feeds. The channel is closed when the
// connection goes away.
func (c *Conn) Events() <-chan wm.Event {
	ch := make(chan wm.Event, 64)
	go func() {
		defer close(ch)
		for {
			ev, err := c.conn.WaitForEvent()
			if ev == nil && err == nil {
				return
			}
			ch <- wm.Event{Event: ev, Err: err}
		}
	}()
	return ch
}
