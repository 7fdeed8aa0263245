package compositor

import (
	"log"

	"github.com/FoxMoss/DoteWM/internal/protocol"
)

// EventOps is the set of X operations the event dispatcher needs beyond
// plain state bookkeeping: grabbing input on newly created windows,
// replaying or forwarding button events, and refreshing _NET_CLIENT_LIST.
type EventOps interface {
	XOps
	SelectFocusAndPointerInput(id WindowID) error
	GrabAllButtons(id WindowID) error
	UpdateClientList(ids []WindowID) error
	QueryAttributes(id WindowID) (geom Geometry, visible bool, name string, hasName bool, winTypeAtoms []string, err error)
	QueryPointer(id WindowID) (x, y int32, err error)
	MoveWindow(id WindowID, x, y int32) error
	ReleasePixmaps(w *ManagedWindow)
	ForwardButtonEvent(target WindowID, button uint32, x, y int32) error
	ReplayPointer(sync bool) error
	CreateMesh() Mesh
	DestroyMesh(m Mesh)
}

// EventKind is a tagged union over the X event kinds the compositor
// actually reacts to; every other X event type is a no-op at the caller.
type EventKind int

const (
	EventCreateNotify EventKind = iota
	EventConfigureNotify
	EventMapNotify
	EventUnmapNotify
	EventDestroyNotify
	EventButtonPress
	EventButtonRelease
	EventMotionNotify
)

// Event is the narrow shape every handled X event is reduced to before
// reaching HandleEvent.
type Event struct {
	Kind EventKind
	ID   WindowID

	Button    uint32
	X, Y      int32
	RawMotion bool
}

// HandleEvent applies one X event to state, performing the X operations the
// event table assigns to each kind, and returns any reply segments that
// should be queued toward the shell as a result.
func (s *State) HandleEvent(ops EventOps, ev Event) []protocol.Segment {
	switch ev.Kind {
	case EventCreateNotify:
		s.onCreateNotify(ops, ev.ID)
	case EventConfigureNotify, EventMapNotify, EventUnmapNotify:
		return s.onGeometryEvent(ops, ev.ID)
	case EventDestroyNotify:
		return s.onDestroyNotify(ops, ev.ID)
	case EventButtonPress, EventButtonRelease:
		return s.onButtonEvent(ops, ev)
	case EventMotionNotify:
		if ev.RawMotion {
			return s.onRawMotion(ops)
		}
		// Motion delivered directly to the base window is dropped: it only
		// ever receives motion via the synthesized forward above.
	}
	return nil
}

func (s *State) onCreateNotify(ops EventOps, id WindowID) {
	if s.IsBlacklisted(id) {
		return
	}
	w, created := s.Insert(id)
	if !created {
		return
	}
	w.Mesh = ops.CreateMesh()
	if err := ops.SelectFocusAndPointerInput(id); err != nil {
		log.Printf("compositor: select input on %d: %v", id, err)
	}
	if err := ops.GrabAllButtons(id); err != nil {
		log.Printf("compositor: grab buttons on %d: %v", id, err)
	}
	if err := ops.UpdateClientList(s.clientListIDs()); err != nil {
		log.Printf("compositor: update client list: %v", err)
	}
	if base, ok := s.BaseWindow(); ok {
		if err := ops.StackBelow(base); err != nil {
			log.Printf("compositor: re-lower base window: %v", err)
		}
	}
}

func (s *State) onGeometryEvent(ops EventOps, id WindowID) []protocol.Segment {
	if s.IsBlacklisted(id) {
		return nil
	}
	w, ok := s.Lookup(id)
	if !ok {
		return nil
	}

	wasVisible := w.Visible

	geom, visible, name, hasName, winTypeAtoms, err := ops.QueryAttributes(id)
	if err != nil {
		log.Printf("compositor: query attributes of %d: %v", id, err)
		return nil
	}
	w.Geometry = geom
	w.Visible = visible
	w.Name = name
	w.HasName = hasName
	w.Type = resolveWindowType(winTypeAtoms)

	recenterIfOrigin(ops, w, wasVisible)

	ops.ReleasePixmaps(w)
	w.Pixmaps = Pixmaps{}

	if base, ok := s.BaseWindow(); ok {
		if err := ops.StackBelow(base); err != nil {
			log.Printf("compositor: re-lower base window: %v", err)
		}
	}

	if s.IsBaseWindow(id) {
		return nil
	}
	return []protocol.Segment{protocol.WindowMapReply{
		Window: id, Visible: w.Visible,
		X: w.Geometry.X, Y: w.Geometry.Y,
		Width: w.Geometry.Width, Height: w.Geometry.Height,
		Name: w.Name, HasName: w.HasName,
		HasBorder: w.HasBorder, Type: w.Type,
	}}
}

func (s *State) onDestroyNotify(ops EventOps, id WindowID) []protocol.Segment {
	w, ok := s.Lookup(id)
	if !ok {
		return nil
	}
	// Capture before Remove: Remove clears hasBase as soon as id matches
	// the base window, so checking IsBaseWindow afterward would always see
	// false and wrongly emit a close reply for the base window's own
	// destruction.
	wasBase := s.IsBaseWindow(id)
	ops.ReleasePixmaps(w)
	ops.DestroyMesh(w.Mesh)
	s.Remove(id)
	if err := ops.UpdateClientList(s.clientListIDs()); err != nil {
		log.Printf("compositor: update client list: %v", err)
	}
	if wasBase || id == 0 {
		return nil
	}
	return []protocol.Segment{protocol.WindowCloseReply{Window: id}}
}

func (s *State) onButtonEvent(ops EventOps, ev Event) []protocol.Segment {
	hit, ok := s.HitTest(ev.X, ev.Y)
	if !ok {
		if err := ops.ReplayPointer(false); err != nil {
			log.Printf("compositor: replay pointer: %v", err)
		}
		return nil
	}

	base, hasBase := s.BaseWindow()
	if hit.Kind == HitBorder && hasBase && hit.Window != base {
		if err := ops.ForwardButtonEvent(base, ev.Button, ev.X, ev.Y); err != nil {
			log.Printf("compositor: forward button event to base window: %v", err)
		}
		if err := ops.ReplayPointer(true); err != nil {
			log.Printf("compositor: sync-replay pointer: %v", err)
		}
		return []protocol.Segment{protocol.MousePressReply{State: ev.Button, X: ev.X, Y: ev.Y}}
	}

	if err := ops.ReplayPointer(false); err != nil {
		log.Printf("compositor: replay pointer: %v", err)
	}
	if hit.Kind == HitContent {
		if _, err := s.AcceptFocus(ops, hit.Window); err != nil {
			log.Printf("compositor: accept focus on %d: %v", hit.Window, err)
		}
	}
	return nil
}

// onRawMotion forwards root pointer motion (a root MotionNotify, which the
// loop flags as RawMotion) to the base window (so
// the shell's embedded browser sees a global cursor regardless of which X
// window currently owns input) and mirrors the same coordinates as a
// mouse_move_reply over IPC.
func (s *State) onRawMotion(ops EventOps) []protocol.Segment {
	base, ok := s.BaseWindow()
	if !ok {
		return nil
	}
	x, y, err := ops.QueryPointer(base)
	if err != nil {
		log.Printf("compositor: query pointer for raw motion forward: %v", err)
		return nil
	}
	if err := ops.ForwardButtonEvent(base, 0, x, y); err != nil {
		log.Printf("compositor: forward motion to base window: %v", err)
	}
	return []protocol.Segment{protocol.MouseMoveReply{X: x, Y: y}}
}

func (s *State) clientListIDs() []WindowID {
	ids := make([]WindowID, 0, len(s.windows))
	for id := range s.windows {
		ids = append(ids, id)
	}
	return ids
}

// recenterIfOrigin implements the "newly mapped at the X origin" special
// case: a window that transitions to visible while still sitting at (0,0)
// is re-centered on the current pointer position instead of being left
// stacked in the corner. A window that specifies real placement never
// triggers this.
func recenterIfOrigin(ops EventOps, w *ManagedWindow, wasVisible bool) {
	if !(w.Visible && !wasVisible && w.Geometry.X == 0 && w.Geometry.Y == 0) {
		return
	}
	px, py, err := ops.QueryPointer(w.ID)
	if err != nil {
		log.Printf("compositor: query pointer for recenter of %d: %v", w.ID, err)
		return
	}
	w.Geometry.X = px - int32(w.Geometry.Width)/2
	w.Geometry.Y = py - int32(w.Geometry.Height)/2
	if err := ops.MoveWindow(w.ID, w.Geometry.X, w.Geometry.Y); err != nil {
		log.Printf("compositor: recenter move of %d: %v", w.ID, err)
	}
}
