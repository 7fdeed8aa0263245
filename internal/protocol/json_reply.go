package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

type jsonWindowFocusReply struct {
	T      string `json:"t"`
	Window string `json:"window"`
}

type jsonWindowMapReply struct {
	T         string  `json:"t"`
	Window    string  `json:"window"`
	Visible   bool    `json:"visible"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Name      string  `json:"name"`
	HasBorder bool    `json:"has_border"`
	WinT      string  `json:"win_t"`
}

type jsonWindowCloseReply struct {
	T      string `json:"t"`
	Window string `json:"window"`
}

type jsonMouseMoveReply struct {
	T string  `json:"t"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonMousePressReply struct {
	T     string  `json:"t"`
	State uint32  `json:"state"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type jsonRenderReply struct {
	T                 string `json:"t"`
	LastFrameObserved uint64 `json:"last_frame_observed"`
}

type jsonLogMessageReply struct {
	T       string `json:"t"`
	Message string `json:"message"`
}

type jsonWindowIconReply struct {
	T      string `json:"t"`
	Window string `json:"window"`
	Image  string `json:"image"` // base64-encoded
}

// EncodeReplyJSON renders a Packet of reply segments as the JSON array the
// bridge hands back to web content (§6.2). Every segment must be one of the
// reply types; a request segment makes the whole call fail with an error
// rather than being dropped.
func EncodeReplyJSON(p Packet) ([]byte, error) {
	out := make([]json.RawMessage, 0, len(p.Segments))
	for _, seg := range p.Segments {
		obj, err := replySegmentToJSON(seg)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			continue
		}
		out = append(out, obj)
	}
	return json.Marshal(out)
}

func replySegmentToJSON(seg Segment) (json.RawMessage, error) {
	switch v := seg.(type) {
	case WindowFocusReply:
		return json.Marshal(jsonWindowFocusReply{T: "window_focus", Window: windowIDToJSON(v.Window)})
	case WindowMapReply:
		return json.Marshal(jsonWindowMapReply{
			T: "window_map", Window: windowIDToJSON(v.Window),
			Visible: v.Visible,
			X:       float64(v.X), Y: float64(v.Y),
			Width: float64(v.Width), Height: float64(v.Height),
			Name: v.Name, HasBorder: v.HasBorder, WinT: v.Type.String(),
		})
	case WindowCloseReply:
		return json.Marshal(jsonWindowCloseReply{T: "window_close", Window: windowIDToJSON(v.Window)})
	case MouseMoveReply:
		return json.Marshal(jsonMouseMoveReply{T: "mouse_move", X: float64(v.X), Y: float64(v.Y)})
	case MousePressReply:
		return json.Marshal(jsonMousePressReply{T: "mouse_press", State: v.State, X: float64(v.X), Y: float64(v.Y)})
	case RenderReply:
		return json.Marshal(jsonRenderReply{T: "render", LastFrameObserved: v.LastFrameObserved})
	case ReloadReply:
		return json.Marshal(jsonTagged{T: "reload"})
	case LogMessageReply:
		return json.Marshal(jsonLogMessageReply{T: "log_message", Message: v.Message})
	case WindowIconReply:
		return json.Marshal(jsonWindowIconReply{
			T: "window_icon", Window: windowIDToJSON(v.Window),
			Image: base64.StdEncoding.EncodeToString(v.Image),
		})
	default:
		return nil, fmt.Errorf("protocol: %T is not a reply segment", seg)
	}
}

// ErrorEnvelope is the shape returned to web content when the bridge fails
// to decode or process a query (§6.2 "A handler failure surfaces an
// error code -1 with the exception message as text", grounded on
// original_source's `callback->Failure(-1, e.what())`).
type ErrorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// EncodeError renders the failure envelope.
func EncodeError(err error) []byte {
	b, _ := json.Marshal(ErrorEnvelope{Code: -1, Message: err.Error()})
	return b
}
