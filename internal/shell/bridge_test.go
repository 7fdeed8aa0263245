package shell

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/FoxMoss/DoteWM/internal/protocol"
)

type fakeTransport struct {
	sendErr  error
	lastSent protocol.Packet
	reply    protocol.Packet
	hasReply bool
}

func (f *fakeTransport) Send(p protocol.Packet) error {
	f.lastSent = p
	return f.sendErr
}

func (f *fakeTransport) TryRecv() (protocol.Packet, bool, error) {
	if !f.hasReply {
		return protocol.Packet{}, false, nil
	}
	return f.reply, true, nil
}

func TestHandleQueryRoundTripsWindowFocus(t *testing.T) {
	transport := &fakeTransport{
		hasReply: true,
		reply: protocol.Packet{Segments: []protocol.Segment{
			protocol.WindowFocusReply{Window: 7},
		}},
	}
	b := NewBridge(transport)

	out := b.HandleQuery([]byte(`[{"t":"window_focus","window":"7"}]`))

	got, err := unmarshalReplyArray(out)
	if err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if len(got) != 1 || got[0]["t"] != "window_focus" || got[0]["window"] != "7" {
		t.Fatalf("reply = %v, want a single window_focus reply for window 7", got)
	}

	if len(transport.lastSent.Segments) != 1 {
		t.Fatalf("expected exactly one segment sent, got %d", len(transport.lastSent.Segments))
	}
	if _, ok := transport.lastSent.Segments[0].(protocol.WindowFocusRequest); !ok {
		t.Fatalf("sent segment = %+v, want WindowFocusRequest", transport.lastSent.Segments[0])
	}
}

func TestHandleQueryMalformedJSONReturnsErrorEnvelope(t *testing.T) {
	b := NewBridge(&fakeTransport{})
	out := b.HandleQuery([]byte(`not json`))

	env, err := unmarshalErrorEnvelope(out)
	if err != nil {
		t.Fatalf("unmarshal error envelope: %v", err)
	}
	if env.Code != -1 {
		t.Fatalf("Code = %d, want -1", env.Code)
	}
}

func TestHandleQuerySendFailureReturnsErrorEnvelope(t *testing.T) {
	b := NewBridge(&fakeTransport{sendErr: errors.New("socket closed")})
	out := b.HandleQuery([]byte(`[{"t":"render"}]`))

	env, err := unmarshalErrorEnvelope(out)
	if err != nil {
		t.Fatalf("unmarshal error envelope: %v", err)
	}
	if env.Code != -1 {
		t.Fatalf("Code = %d, want -1", env.Code)
	}
}

func TestHandleQueryNoReplyTimesOut(t *testing.T) {
	b := NewBridge(&fakeTransport{})
	out := b.HandleQuery([]byte(`[{"t":"render"}]`))

	env, err := unmarshalErrorEnvelope(out)
	if err != nil {
		t.Fatalf("unmarshal error envelope: %v", err)
	}
	if env.Code != -1 {
		t.Fatalf("Code = %d, want -1 on a reply timeout", env.Code)
	}
}

// unmarshalReplyArray and unmarshalErrorEnvelope avoid re-implementing
// protocol's private JSON shapes; they only need enough structure to assert
// on the fields these tests check.

type rawReplyArray = []map[string]interface{}

func unmarshalReplyArray(data []byte) (rawReplyArray, error) {
	var out rawReplyArray
	err := json.Unmarshal(data, &out)
	return out, err
}

type rawErrorEnvelope struct {
	Code    int
	Message string
}

func unmarshalErrorEnvelope(data []byte) (rawErrorEnvelope, error) {
	var out struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	err := json.Unmarshal(data, &out)
	return rawErrorEnvelope{Code: out.Code, Message: out.Message}, err
}
