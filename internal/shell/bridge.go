package shell

import (
	"fmt"
	"time"

	"github.com/FoxMoss/DoteWM/internal/protocol"
)

// Transport is the synchronous request/response surface the bridge drives:
// a non-blocking send paired with a non-blocking poll, the same shape
// internal/ipc.Socket already exposes over the PAIR socket.
type Transport interface {
	Send(p protocol.Packet) error
	TryRecv() (p protocol.Packet, ok bool, err error)
}

// replyPollInterval and replyTimeout bound the bridge's busy-wait for a
// reply packet: the compositor loop is cooperative and single-threaded
// (§5), so a reply can lag behind the send by up to one full iteration; a
// generous timeout avoids wedging the browser's UI thread forever on a
// dropped compositor connection (§5: a dropped shell process means
// subsequent sends fail silently and are never retried).
const (
	replyPollInterval = 2 * time.Millisecond
	replyTimeout      = 500 * time.Millisecond
)

// Bridge implements the web view's query handler (§4.4, §6.2): it mirrors
// CEF's OnQuery by translating a JSON request array to a Packet, sending
// it synchronously over Transport, waiting for the reply packet, and
// translating that back to JSON.
type Bridge struct {
	transport Transport
}

// NewBridge wraps transport for query handling.
func NewBridge(transport Transport) *Bridge {
	return &Bridge{transport: transport}
}

// HandleQuery performs one request/response round trip. On any failure —
// malformed JSON, an unusable segment, a send error, or a reply timeout —
// it returns the -1 error envelope instead of propagating the error to the
// caller: a handler failure surfaces as error code -1 with the failure
// reason as text (§6.2, §7).
func (b *Bridge) HandleQuery(requestJSON []byte) []byte {
	pkt, err := protocol.ParsePacketJSON(requestJSON)
	if err != nil {
		return protocol.EncodeError(err)
	}

	if err := b.transport.Send(pkt); err != nil {
		return protocol.EncodeError(fmt.Errorf("shell: send request: %w", err))
	}

	reply, err := b.awaitReply()
	if err != nil {
		return protocol.EncodeError(err)
	}

	out, err := protocol.EncodeReplyJSON(reply)
	if err != nil {
		return protocol.EncodeError(err)
	}
	return out
}

func (b *Bridge) awaitReply() (protocol.Packet, error) {
	deadline := time.Now().Add(replyTimeout)
	for {
		pkt, ok, err := b.transport.TryRecv()
		if err != nil {
			return protocol.Packet{}, fmt.Errorf("shell: receive reply: %w", err)
		}
		if ok {
			return pkt, nil
		}
		if time.Now().After(deadline) {
			return protocol.Packet{}, fmt.Errorf("shell: timed out waiting for a reply")
		}
		time.Sleep(replyPollInterval)
	}
}
