// Package ipc wraps a PAIR socket over a Unix-domain path for the
// compositor<->shell-bridge transport (§6.1, §5): the Go counterpart of a
// nanomsg `nn_socket(AF_SP, NN_PAIR)` / `nn_bind`/`nn_connect` pair, built
// on go.nanomsg.org/mangos/v3, the maintained Go port of the same nanomsg
// protocol family.
package ipc

import (
	"fmt"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pair"
	_ "go.nanomsg.org/mangos/v3/transport/ipc"

	"github.com/FoxMoss/DoteWM/internal/protocol"
)

// Path returns the Unix-domain socket URL for a given IPC name, matching
// the original's ipc:///tmp/<name>.ipc convention.
func Path(name string) string {
	return fmt.Sprintf("ipc:///tmp/%s.ipc", name)
}

// Socket is one end of a PAIR connection, configured for non-blocking
// receive (§5: "the IPC socket is configured with a zero-length
// receive timeout"). Sends are fire-and-forget: a failed send is logged by
// the caller and never retried (§5 "Cancellation and timeouts").
type Socket struct {
	sock mangos.Socket
}

func newPairSocket() (mangos.Socket, error) {
	sock, err := pair.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("ipc: create pair socket: %w", err)
	}
	if err := sock.SetOption(mangos.OptionRecvDeadline, time.Duration(0)); err != nil {
		sock.Close()
		return nil, fmt.Errorf("ipc: set non-blocking receive: %w", err)
	}
	return sock, nil
}

// Bind creates the listening (compositor) side of the socket.
func Bind(url string) (*Socket, error) {
	sock, err := newPairSocket()
	if err != nil {
		return nil, err
	}
	if err := sock.Listen(url); err != nil {
		sock.Close()
		return nil, fmt.Errorf("ipc: listen %s: %w", url, err)
	}
	return &Socket{sock: sock}, nil
}

// Dial creates the connecting (shell bridge) side of the socket.
func Dial(url string) (*Socket, error) {
	sock, err := newPairSocket()
	if err != nil {
		return nil, err
	}
	if err := sock.Dial(url); err != nil {
		sock.Close()
		return nil, fmt.Errorf("ipc: dial %s: %w", url, err)
	}
	return &Socket{sock: sock}, nil
}

// Send encodes p and sends it. Errors are returned, not retried — the
// caller's job is only to log them (§5).
func (s *Socket) Send(p protocol.Packet) error {
	if err := s.sock.Send(protocol.EncodeBinary(p)); err != nil {
		return fmt.Errorf("ipc: send: %w", err)
	}
	return nil
}

// TryRecv performs a single non-blocking receive attempt. ok is false when
// no message was currently available (not an error — the zero-deadline
// Recv simply timed out immediately).
func (s *Socket) TryRecv() (p protocol.Packet, ok bool, err error) {
	data, err := s.sock.Recv()
	if err != nil {
		if err == mangos.ErrRecvTimeout {
			return protocol.Packet{}, false, nil
		}
		return protocol.Packet{}, false, fmt.Errorf("ipc: recv: %w", err)
	}
	pkt, err := protocol.DecodeBinary(data)
	if err != nil {
		return protocol.Packet{}, false, fmt.Errorf("ipc: decode received packet: %w", err)
	}
	return pkt, true, nil
}

// DrainAll receives every packet currently queued, invoking fn for each, in
// order, until the socket reports no more are available (§5.4's "each
// iteration the compositor non-blockingly receives every available
// packet").
func (s *Socket) DrainAll(fn func(protocol.Packet) error) error {
	for {
		pkt, ok, err := s.TryRecv()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(pkt); err != nil {
			return err
		}
	}
}

// Close releases the underlying socket.
func (s *Socket) Close() error {
	return s.sock.Close()
}
