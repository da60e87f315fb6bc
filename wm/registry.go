package wm

import "github.com/BurntSushi/xgb/xproto"

// Registry maps window ids to the widgets that own them. Client windows
// are indexed separately and resolve to their frame.
type Registry struct {
	widgets map[xproto.Window]Widget
	clients map[xproto.Window]*Frame
	dirty   []Widget
}

func newRegistry() *Registry {
	return &Registry{
		widgets: map[xproto.Window]Widget{},
		clients: map[xproto.Window]*Frame{},
	}
}

func (r *Registry) add(w Widget) {
	r.widgets[w.ID()] = w
}

func (r *Registry) remove(w Widget) {
	if cur, ok := r.widgets[w.ID()]; ok && cur == w {
		delete(r.widgets, w.ID())
	}
	if f, ok := w.(*Frame); ok {
		if cur, ok := r.clients[f.client]; ok && cur == f {
			delete(r.clients, f.client)
		}
	}
	for i, d := range r.dirty {
		if d == w {
			r.dirty = append(r.dirty[:i], r.dirty[i+1:]...)
			break
		}
	}
}

func (r *Registry) addClient(f *Frame) {
	r.clients[f.client] = f
}

// Find returns the widget owning id, or nil. A client window id
// resolves to its frame when kind is KindAny or KindFrame.
func (r *Registry) Find(id xproto.Window, kind Kind) Widget {
	if w, ok := r.widgets[id]; ok && (kind == KindAny || w.Kind() == kind) {
		return w
	}
	if kind == KindAny || kind == KindFrame {
		if f, ok := r.clients[id]; ok {
			return f
		}
	}
	return nil
}

// Len returns the number of registered widgets.
func (r *Registry) Len() int {
	return len(r.widgets)
}
