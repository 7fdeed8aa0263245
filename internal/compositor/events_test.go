package compositor

import (
	"testing"

	"github.com/FoxMoss/DoteWM/internal/protocol"
)

func TestOnCreateNotifyInsertsAndGrabsInput(t *testing.T) {
	s := NewState()
	ops := newFakeOps()

	s.HandleEvent(ops, Event{Kind: EventCreateNotify, ID: 5})

	if _, ok := s.Lookup(5); !ok {
		t.Fatal("expected window 5 to be inserted")
	}
	if len(ops.selectedInput) != 1 || ops.selectedInput[0] != 5 {
		t.Fatal("expected SelectFocusAndPointerInput(5)")
	}
	if len(ops.grabbed) != 1 || ops.grabbed[0] != 5 {
		t.Fatal("expected GrabAllButtons(5)")
	}
	if len(ops.clientLists) != 1 {
		t.Fatal("expected one UpdateClientList call")
	}
	if ops.meshesMade != 1 {
		t.Fatalf("meshesMade = %d, want 1", ops.meshesMade)
	}
}

func TestOnCreateNotifyIgnoresBlacklisted(t *testing.T) {
	s := NewState()
	s.Blacklist(9)
	ops := newFakeOps()

	s.HandleEvent(ops, Event{Kind: EventCreateNotify, ID: 9})

	if _, ok := s.Lookup(9); ok {
		t.Fatal("expected blacklisted window to never be admitted")
	}
	if len(ops.selectedInput) != 0 {
		t.Fatal("expected no input selection for a blacklisted window")
	}
}

func TestOnGeometryEventUpdatesStateAndRepliesMap(t *testing.T) {
	s := NewState()
	s.Insert(3)
	ops := newFakeOps()
	ops.attrs[3] = attrResult{
		Geom:    Geometry{X: 10, Y: 20, Width: 300, Height: 200},
		Visible: true,
		Name:    "term", HasName: true,
	}

	replies := s.HandleEvent(ops, Event{Kind: EventConfigureNotify, ID: 3})

	w, _ := s.Lookup(3)
	if w.Geometry.X != 10 || w.Geometry.Width != 300 || !w.Visible {
		t.Fatalf("window state after geometry event = %+v", w)
	}
	if len(replies) != 1 {
		t.Fatalf("expected one reply segment, got %d", len(replies))
	}
	mapReply, ok := replies[0].(protocol.WindowMapReply)
	if !ok || mapReply.Window != 3 || mapReply.Width != 300 {
		t.Fatalf("reply = %+v, want WindowMapReply for window 3", replies[0])
	}
	if len(ops.released) != 1 {
		t.Fatal("expected pixmaps released so the next bind picks up fresh geometry")
	}
}

func TestOnGeometryEventBaseWindowProducesNoReply(t *testing.T) {
	s := NewState()
	s.Insert(1)
	s.SetBaseWindow(1)
	ops := newFakeOps()
	ops.attrs[1] = attrResult{Geom: Geometry{Width: 1920, Height: 1080}, Visible: true}

	replies := s.HandleEvent(ops, Event{Kind: EventMapNotify, ID: 1})
	if len(replies) != 0 {
		t.Fatalf("expected no reply for the base window's own geometry event, got %v", replies)
	}
}

func TestOnGeometryEventRecentersWindowAtOrigin(t *testing.T) {
	s := NewState()
	s.Insert(4)
	ops := newFakeOps()
	ops.pointerX, ops.pointerY = 500, 400
	ops.attrs[4] = attrResult{
		Geom:    Geometry{X: 0, Y: 0, Width: 100, Height: 60},
		Visible: true,
	}

	s.HandleEvent(ops, Event{Kind: EventMapNotify, ID: 4})

	w, _ := s.Lookup(4)
	wantX, wantY := int32(500-50), int32(400-30)
	if w.Geometry.X != wantX || w.Geometry.Y != wantY {
		t.Fatalf("recentered geometry = (%d,%d), want (%d,%d)", w.Geometry.X, w.Geometry.Y, wantX, wantY)
	}
	if len(ops.moved) != 1 {
		t.Fatal("expected MoveWindow to be called to apply the recenter")
	}
}

func TestOnGeometryEventDoesNotRecenterWhenPlacedExplicitly(t *testing.T) {
	s := NewState()
	s.Insert(4)
	ops := newFakeOps()
	ops.attrs[4] = attrResult{
		Geom:    Geometry{X: 50, Y: 50, Width: 100, Height: 60},
		Visible: true,
	}

	s.HandleEvent(ops, Event{Kind: EventMapNotify, ID: 4})

	if len(ops.moved) != 0 {
		t.Fatal("expected no recenter for a window placed away from the origin")
	}
}

func TestOnDestroyNotifyCleansUpAndReplies(t *testing.T) {
	s := NewState()
	s.Insert(6)

	replies := s.HandleEvent(newFakeOps(), Event{Kind: EventDestroyNotify, ID: 6})
	if _, ok := s.Lookup(6); ok {
		t.Fatal("expected window removed from state")
	}
	if len(replies) != 1 {
		t.Fatalf("expected one WindowCloseReply, got %d", len(replies))
	}
	if got, ok := replies[0].(protocol.WindowCloseReply); !ok || got.Window != 6 {
		t.Fatalf("reply = %+v, want WindowCloseReply{Window: 6}", replies[0])
	}
}

func TestOnDestroyNotifyUnknownWindowIsNoOp(t *testing.T) {
	s := NewState()
	replies := s.HandleEvent(newFakeOps(), Event{Kind: EventDestroyNotify, ID: 123})
	if replies != nil {
		t.Fatalf("expected nil replies for an unknown destroyed window, got %v", replies)
	}
}

func TestOnDestroyNotifyOfBaseWindowEmitsNoCloseReply(t *testing.T) {
	s := NewState()
	s.Insert(7)
	s.SetBaseWindow(7)

	replies := s.HandleEvent(newFakeOps(), Event{Kind: EventDestroyNotify, ID: 7})
	if _, ok := s.Lookup(7); ok {
		t.Fatal("expected base window removed from state")
	}
	if replies != nil {
		t.Fatalf("expected no WindowCloseReply for the base window's own destruction, got %v", replies)
	}
}

func TestOnButtonEventForwardsBorderHitToBaseWindow(t *testing.T) {
	s := NewState()
	base := makeVisible(s, 1, Geometry{X: 0, Y: 0, Width: 1920, Height: 1080}, DefaultDepth)
	base.HasBorder = false
	s.SetBaseWindow(1)

	client := makeVisible(s, 2, Geometry{X: 100, Y: 100, Width: 50, Height: 50}, 0.2)
	client.HasBorder = true
	client.Border = &Border{X: -10, Y: -10, Width: 20, Height: 20}

	ops := newFakeOps()
	replies := s.HandleEvent(ops, Event{Kind: EventButtonPress, Button: 1, X: 95, Y: 120})

	if len(ops.forwarded) != 1 || ops.forwarded[0].Target != 1 {
		t.Fatalf("forwarded = %v, want one forward to base window 1", ops.forwarded)
	}
	if len(ops.replays) != 1 || !ops.replays[0] {
		t.Fatalf("replays = %v, want one sync replay", ops.replays)
	}
	if len(replies) != 1 {
		t.Fatalf("expected one MousePressReply, got %d", len(replies))
	}
	if _, ok := replies[0].(protocol.MousePressReply); !ok {
		t.Fatalf("reply = %+v, want MousePressReply", replies[0])
	}
}

func TestOnButtonEventFocusesContentHit(t *testing.T) {
	s := NewState()
	client := makeVisible(s, 2, Geometry{X: 0, Y: 0, Width: 50, Height: 50}, 0.2)
	_ = client

	ops := newFakeOps()
	replies := s.HandleEvent(ops, Event{Kind: EventButtonPress, Button: 1, X: 10, Y: 10})

	if got, ok := s.Focused(); !ok || got != 2 {
		t.Fatalf("Focused() = (%v, %v), want (2, true)", got, ok)
	}
	if len(ops.replays) != 1 || ops.replays[0] {
		t.Fatalf("replays = %v, want one non-sync replay", ops.replays)
	}
	if replies != nil {
		t.Fatalf("expected no reply segments for a plain content click, got %v", replies)
	}
}

func TestOnButtonEventMissStillReplaysPointer(t *testing.T) {
	s := NewState()
	ops := newFakeOps()
	s.HandleEvent(ops, Event{Kind: EventButtonPress, Button: 1, X: 900, Y: 900})

	if len(ops.replays) != 1 || ops.replays[0] {
		t.Fatal("expected a non-sync replay even when the click hits nothing")
	}
}

func TestOnRawMotionForwardsToBaseAndReplies(t *testing.T) {
	s := NewState()
	makeVisible(s, 1, Geometry{X: 0, Y: 0, Width: 1920, Height: 1080}, BaseDepth)
	s.SetBaseWindow(1)

	ops := newFakeOps()
	ops.pointerX, ops.pointerY = 42, 84

	replies := s.HandleEvent(ops, Event{Kind: EventMotionNotify, RawMotion: true})

	if len(ops.forwarded) != 1 || ops.forwarded[0].X != 42 || ops.forwarded[0].Y != 84 {
		t.Fatalf("forwarded = %v, want one forward with (42,84)", ops.forwarded)
	}
	if len(replies) != 1 {
		t.Fatalf("expected one MouseMoveReply, got %d", len(replies))
	}
	got, ok := replies[0].(protocol.MouseMoveReply)
	if !ok || got.X != 42 || got.Y != 84 {
		t.Fatalf("reply = %+v, want MouseMoveReply{42,84}", replies[0])
	}
}

func TestOnRawMotionWithoutBaseWindowIsNoOp(t *testing.T) {
	s := NewState()
	ops := newFakeOps()
	replies := s.HandleEvent(ops, Event{Kind: EventMotionNotify, RawMotion: true})
	if replies != nil {
		t.Fatalf("expected nil replies with no base window designated, got %v", replies)
	}
	if len(ops.forwarded) != 0 {
		t.Fatal("expected no forward without a base window")
	}
}
