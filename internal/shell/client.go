package shell

import (
	"fmt"

	"github.com/FoxMoss/DoteWM/internal/protocol"
)

// Sender is the minimal surface RegisterBaseWindow needs: a one-shot,
// fire-and-forget send. internal/ipc.Socket and Transport both satisfy it.
type Sender interface {
	Send(p protocol.Packet) error
}

// RegisterBaseWindow performs the shell host process's startup handshake:
// announce its own top-level X window as the compositor's base window
// (§4.4's window_request handling). It is the first packet the shell
// ever sends on a freshly dialed socket.
func RegisterBaseWindow(sender Sender, window protocol.WindowID) error {
	if err := sender.Send(protocol.Packet{
		Segments: []protocol.Segment{protocol.WindowRequest{Window: window}},
	}); err != nil {
		return fmt.Errorf("shell: register base window %d: %w", window, err)
	}
	return nil
}
