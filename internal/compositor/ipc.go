package compositor

import (
	"log"

	"github.com/FoxMoss/DoteWM/internal/protocol"
)

// XOps is the set of X operations the IPC pump needs performed on its
// behalf, separated out so the request-handling policy below can be
// exercised against a fake in tests instead of a live display connection.
type XOps interface {
	FocusOps
	ConfigureWindow(id WindowID, x, y int32, width, height uint32) error
	DestroyWindow(id WindowID) error
	StackBelow(id WindowID) error
	DisableInput(id WindowID) error
	ScreenSize() (width, height uint32)
}

// ProcessSpawner runs a detached child process for run_program_request. A
// spawn failure only terminates the child (the original exec()-in-fork
// model); it is logged, not propagated to the shell.
type ProcessSpawner interface {
	Spawn(argv []string) error
}

// FileWatcher is the subset of the reload watcher the IPC pump drives for
// file_register_request.
type FileWatcher interface {
	AddWatch(path string) (wd int32, err error)
}

// HandlePacket applies every request segment in pkt to state via ops,
// spawner, and watcher, returning the reply packet to send back to the
// shell (possibly empty). Segments that are not requests are silently
// ignored. A request naming an unknown window id produces no reply; map
// and close requests are still passed to X for that id, the others leave
// state unchanged.
func (s *State) HandlePacket(ops XOps, spawner ProcessSpawner, watcher FileWatcher, pkt protocol.Packet) protocol.Packet {
	var replies []protocol.Segment

	for _, seg := range pkt.Segments {
		switch v := seg.(type) {
		case protocol.WindowRequest:
			s.handleWindowRequest(ops, v.Window)

		case protocol.WindowMapRequest:
			if err := ops.ConfigureWindow(v.Window, v.X, v.Y, v.Width, v.Height); err != nil {
				log.Printf("compositor: configure window %d: %v", v.Window, err)
			}

		case protocol.WindowReorderRequest:
			s.ApplyReorder(v.Windows)

		case protocol.WindowFocusRequest:
			accepted, err := s.AcceptFocus(ops, v.Window)
			if err != nil {
				log.Printf("compositor: accept focus on %d: %v", v.Window, err)
				continue
			}
			if accepted {
				replies = append(replies, protocol.WindowFocusReply{Window: v.Window})
			}

		case protocol.WindowRegisterBorderRequest:
			if w, ok := s.Lookup(v.Window); ok {
				w.Border = &Border{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
				w.HasBorder = true
			}

		case protocol.RenderRequest:
			// No side effect; the surrounding render pass already runs every
			// iteration. Reserved for future pacing control.

		case protocol.WindowCloseRequest:
			if err := ops.DestroyWindow(v.Window); err != nil {
				log.Printf("compositor: destroy window %d: %v", v.Window, err)
			}

		case protocol.RunProgramRequest:
			if err := spawner.Spawn(v.Command); err != nil {
				log.Printf("compositor: spawn %v: %v", v.Command, err)
			}

		case protocol.FileRegisterRequest:
			wd, err := watcher.AddWatch(v.FilePath)
			if err != nil {
				log.Printf("compositor: watch %s: %v", v.FilePath, err)
				continue
			}
			s.WatchFile(wd, v.FilePath)

		case protocol.BrowserStartRequest:
			replies = append(replies, s.repopulationReplies()...)
		}
	}

	return protocol.Packet{Segments: replies}
}

func (s *State) handleWindowRequest(ops XOps, id WindowID) {
	s.SetBaseWindow(id)
	if err := ops.DisableInput(id); err != nil {
		log.Printf("compositor: disable input hint on base window %d: %v", id, err)
	}
	w, h := ops.ScreenSize()
	if err := ops.ConfigureWindow(id, 0, 0, w, h); err != nil {
		log.Printf("compositor: resize base window %d: %v", id, err)
	}
	if err := ops.StackBelow(id); err != nil {
		log.Printf("compositor: stack base window %d below: %v", id, err)
	}
}

// repopulationReplies builds one window_map_reply per non-blacklisted,
// non-base managed window, for browser_start_request's "fresh shell
// repopulates its view" handshake.
func (s *State) repopulationReplies() []protocol.Segment {
	var out []protocol.Segment
	for id, w := range s.windows {
		if s.IsBlacklisted(id) || s.IsBaseWindow(id) {
			continue
		}
		out = append(out, protocol.WindowMapReply{
			Window:    id,
			Visible:   w.Visible,
			X:         w.Geometry.X,
			Y:         w.Geometry.Y,
			Width:     w.Geometry.Width,
			Height:    w.Geometry.Height,
			Name:      w.Name,
			HasName:   w.HasName,
			HasBorder: w.HasBorder,
			Type:      w.Type,
		})
	}
	return out
}
