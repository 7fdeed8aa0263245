package compositor

import (
	"log"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/FoxMoss/DoteWM/internal/ipc"
	"github.com/FoxMoss/DoteWM/internal/protocol"
)

// Loop drives one compositor session end to end: X events, then IPC
// messages, then at most one reload signal, then a render pass, repeated
// until the X connection is lost or ctx-style cancellation is added by the
// caller via Stop.
type Loop struct {
	display *Display
	state   *State
	sock    *ipc.Socket
	reload  *ReloadWatcher
	spawner ProcessSpawner

	stop bool
}

// NewLoop assembles a Loop from its already-opened components. Callers are
// expected to have called Open, ipc.Bind, and NewReloadWatcher first; Loop
// itself only sequences them.
func NewLoop(display *Display, state *State, sock *ipc.Socket, reload *ReloadWatcher, spawner ProcessSpawner) *Loop {
	return &Loop{display: display, state: state, sock: sock, reload: reload, spawner: spawner}
}

// Stop requests the loop exit after its current iteration.
func (l *Loop) Stop() { l.stop = true }

// Run executes iterations until Stop is called or the X connection reports
// an unrecoverable error. Each iteration follows the fixed order: drain all
// X events pending at the iteration's start, then all queued IPC messages,
// then poll the reload watcher once, then perform one render pass.
func (l *Loop) Run() error {
	for !l.stop {
		if err := l.drainXEvents(); err != nil {
			return err
		}
		l.drainIPC()
		l.pollReload()
		l.render()
	}
	return nil
}

func (l *Loop) drainXEvents() error {
	conn := l.display.conn
	for {
		ev, err := conn.PollForEvent()
		if err != nil {
			if xerr, ok := err.(xgb.Error); ok {
				logXError(xerr)
				continue
			}
			return err
		}
		if ev == nil {
			return nil
		}
		l.dispatchXEvent(ev)
	}
}

// logXError handles an asynchronous X protocol error the way an installed
// X error handler would (§7): logged with its code/text and the offending
// resource id, non-fatal, and never propagated out of the loop. An error on
// resource id 0 (no specific resource, e.g. a stale request racing a
// window's own destruction) is routine in a compositing WM and is silently
// ignored rather than logged.
func logXError(xerr xgb.Error) {
	if xerr.BadId() == 0 {
		return
	}
	log.Printf("compositor: X protocol error: %s (resource %d, sequence %d)", xerr.Error(), xerr.BadId(), xerr.SequenceId())
}

func (l *Loop) dispatchXEvent(raw xgb.Event) {
	var ev Event
	switch e := raw.(type) {
	case xproto.CreateNotifyEvent:
		ev = Event{Kind: EventCreateNotify, ID: WindowID(e.Window)}
	case xproto.ConfigureNotifyEvent:
		ev = Event{Kind: EventConfigureNotify, ID: WindowID(e.Window)}
	case xproto.MapNotifyEvent:
		ev = Event{Kind: EventMapNotify, ID: WindowID(e.Window)}
	case xproto.UnmapNotifyEvent:
		ev = Event{Kind: EventUnmapNotify, ID: WindowID(e.Window)}
	case xproto.DestroyNotifyEvent:
		ev = Event{Kind: EventDestroyNotify, ID: WindowID(e.Window)}
	case xproto.ButtonPressEvent:
		ev = Event{Kind: EventButtonPress, ID: WindowID(e.Event), Button: uint32(e.Detail), X: int32(e.RootX), Y: int32(e.RootY)}
	case xproto.ButtonReleaseEvent:
		ev = Event{Kind: EventButtonRelease, ID: WindowID(e.Event), Button: uint32(e.Detail), X: int32(e.RootX), Y: int32(e.RootY)}
	case xproto.MotionNotifyEvent:
		// Every MotionNotify the compositor receives is on the root window
		// (the only window it ever selects PointerMotion on), so it always
		// represents the global pointer position rather than motion inside
		// a particular client - the same role XInput2 raw motion would
		// play, without depending on an extension this corpus never wires.
		ev = Event{Kind: EventMotionNotify, ID: WindowID(e.Event), X: int32(e.RootX), Y: int32(e.RootY), RawMotion: true}
	default:
		return
	}

	replies := l.state.HandleEvent(l.display, ev)
	if len(replies) > 0 {
		if err := l.sock.Send(protocol.Packet{Segments: replies}); err != nil {
			log.Printf("compositor: send X-derived reply packet: %v", err)
		}
	}
}

func (l *Loop) drainIPC() {
	err := l.sock.DrainAll(func(pkt protocol.Packet) error {
		reply := l.state.HandlePacket(l.display, l.spawner, l.reload, pkt)
		if len(reply.Segments) == 0 {
			return nil
		}
		return l.sock.Send(reply)
	})
	if err != nil {
		log.Printf("compositor: drain IPC socket: %v", err)
	}
}

func (l *Loop) pollReload() {
	if l.reload == nil {
		return
	}
	segments, err := l.reload.Poll(l.state)
	if err != nil {
		log.Printf("compositor: poll reload watcher: %v", err)
		return
	}
	if len(segments) == 0 {
		return
	}
	if err := l.sock.Send(protocol.Packet{Segments: segments}); err != nil {
		log.Printf("compositor: send reload reply: %v", err)
	}
}

func (l *Loop) render() {
	width, height := l.display.ScreenSize()
	ops := l.state.BuildRenderList(width, height)
	l.display.Present(ops, l.state.Lookup)
}
