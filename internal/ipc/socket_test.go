package ipc

import (
	"testing"
	"time"

	"github.com/FoxMoss/DoteWM/internal/protocol"
)

func TestBindDialSendRecv(t *testing.T) {
	url := "ipc:///tmp/noko-test-bind-dial.ipc"

	srv, err := Bind(url)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer srv.Close()

	cli, err := Dial(url)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer cli.Close()

	// Give the transport a moment to complete the handshake; the
	// underlying AIO pipe connect is asynchronous.
	time.Sleep(50 * time.Millisecond)

	want := protocol.Packet{Segments: []protocol.Segment{
		protocol.WindowFocusRequest{Window: 3},
	}}
	if err := cli.Send(want); err != nil {
		t.Fatalf("Send: %v", err)
	}

	var got protocol.Packet
	var ok bool
	for i := 0; i < 20 && !ok; i++ {
		got, ok, err = srv.TryRecv()
		if err != nil {
			t.Fatalf("TryRecv: %v", err)
		}
		if !ok {
			time.Sleep(10 * time.Millisecond)
		}
	}
	if !ok {
		t.Fatal("expected a packet to arrive, got none")
	}
	if len(got.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(got.Segments))
	}
	req, ok := got.Segments[0].(protocol.WindowFocusRequest)
	if !ok || req.Window != 3 {
		t.Fatalf("unexpected segment: %#v", got.Segments[0])
	}
}

func TestTryRecvNonBlockingWhenEmpty(t *testing.T) {
	url := "ipc:///tmp/noko-test-empty.ipc"

	srv, err := Bind(url)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer srv.Close()

	cli, err := Dial(url)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer cli.Close()

	start := time.Now()
	_, ok, err := srv.TryRecv()
	if err != nil {
		t.Fatalf("TryRecv: %v", err)
	}
	if ok {
		t.Fatal("expected no packet to be available")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("TryRecv blocked for %v, want near-instant return", elapsed)
	}
}

func TestDrainAllStopsWhenEmpty(t *testing.T) {
	url := "ipc:///tmp/noko-test-drain.ipc"

	srv, err := Bind(url)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer srv.Close()

	cli, err := Dial(url)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer cli.Close()

	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := cli.Send(protocol.Packet{Segments: []protocol.Segment{protocol.RenderRequest{}}}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	time.Sleep(50 * time.Millisecond)

	count := 0
	deadline := time.Now().Add(2 * time.Second)
	for count < 3 && time.Now().Before(deadline) {
		err := srv.DrainAll(func(p protocol.Packet) error {
			count += len(p.Segments)
			return nil
		})
		if err != nil {
			t.Fatalf("DrainAll: %v", err)
		}
		if count < 3 {
			time.Sleep(10 * time.Millisecond)
		}
	}
	if count != 3 {
		t.Fatalf("expected 3 segments drained total, got %d", count)
	}
}
