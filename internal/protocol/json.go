package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// This file implements the shell-side JSON envelope (§6.2): the web
// view hands the bridge a JSON array of {"t": ..., ...} objects, one per
// request segment, and receives a JSON array of reply objects back. Window
// ids cross this boundary as decimal strings to dodge float64's 53-bit
// mantissa; every other numeric field is a plain JSON number.
//
// The "t" discriminator is the segment's wire tag name with its
// "_request"/"_reply" suffix stripped, per §6.2's "minus the _request
// suffix" rule applied symmetrically to replies.

func windowIDToJSON(id WindowID) string { return strconv.FormatUint(uint64(id), 10) }

func windowIDFromJSON(s string) (WindowID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("protocol: invalid window id %q: %w", s, err)
	}
	return WindowID(v), nil
}

func windowIDsFromJSON(ss []string) ([]WindowID, error) {
	ids := make([]WindowID, len(ss))
	for i, s := range ss {
		id, err := windowIDFromJSON(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func windowIDsToJSON(ids []WindowID) []string {
	ss := make([]string, len(ids))
	for i, id := range ids {
		ss[i] = windowIDToJSON(id)
	}
	return ss
}

type jsonTagged struct {
	T string `json:"t"`
}

type jsonWindowRequest struct {
	T      string `json:"t"`
	Window string `json:"window"`
}

type jsonWindowMapRequest struct {
	T      string  `json:"t"`
	Window string  `json:"window"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonWindowReorderRequest struct {
	T       string   `json:"t"`
	Windows []string `json:"windows"`
}

type jsonWindowFocusRequest struct {
	T      string `json:"t"`
	Window string `json:"window"`
}

type jsonWindowRegisterBorderRequest struct {
	T      string  `json:"t"`
	Window string  `json:"window"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonRunProgramRequest struct {
	T       string   `json:"t"`
	Command []string `json:"command"`
}

type jsonWindowCloseRequest struct {
	T      string `json:"t"`
	Window string `json:"window"`
}

type jsonFileRegisterRequest struct {
	T        string `json:"t"`
	FilePath string `json:"file_path"`
}

// ParsePacketJSON decodes a JSON array of tagged request objects into a
// Packet. An object whose "t" value doesn't name a known request tag is
// dropped without error (§7 "Unknown or malformed segment").
func ParsePacketJSON(data []byte) (Packet, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Packet{}, fmt.Errorf("protocol: parse request array: %w", err)
	}

	var segs []Segment
	for i, item := range raw {
		var tagged jsonTagged
		if err := json.Unmarshal(item, &tagged); err != nil {
			return Packet{}, fmt.Errorf("protocol: parse element %d: %w", i, err)
		}

		seg, err := parseRequestObject(tagged.T, item)
		if err != nil {
			return Packet{}, err
		}
		if seg == nil {
			continue // unknown "t": dropped, not an error
		}
		segs = append(segs, seg)
	}
	return Packet{Segments: segs}, nil
}

func parseRequestObject(t string, item json.RawMessage) (Segment, error) {
	switch t {
	case "window":
		var v jsonWindowRequest
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, err
		}
		win, err := windowIDFromJSON(v.Window)
		if err != nil {
			return nil, err
		}
		return WindowRequest{Window: win}, nil

	case "window_map":
		var v jsonWindowMapRequest
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, err
		}
		win, err := windowIDFromJSON(v.Window)
		if err != nil {
			return nil, err
		}
		return WindowMapRequest{
			Window: win,
			X:      int32(v.X), Y: int32(v.Y),
			Width: uint32(v.Width), Height: uint32(v.Height),
		}, nil

	case "window_reorder":
		var v jsonWindowReorderRequest
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, err
		}
		ids, err := windowIDsFromJSON(v.Windows)
		if err != nil {
			return nil, err
		}
		return WindowReorderRequest{Windows: ids}, nil

	case "window_focus":
		var v jsonWindowFocusRequest
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, err
		}
		win, err := windowIDFromJSON(v.Window)
		if err != nil {
			return nil, err
		}
		return WindowFocusRequest{Window: win}, nil

	case "window_register_border":
		var v jsonWindowRegisterBorderRequest
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, err
		}
		win, err := windowIDFromJSON(v.Window)
		if err != nil {
			return nil, err
		}
		return WindowRegisterBorderRequest{
			Window: win,
			X:      int32(v.X), Y: int32(v.Y),
			Width: int32(v.Width), Height: int32(v.Height),
		}, nil

	case "render":
		return RenderRequest{}, nil

	case "window_close":
		var v jsonWindowCloseRequest
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, err
		}
		win, err := windowIDFromJSON(v.Window)
		if err != nil {
			return nil, err
		}
		return WindowCloseRequest{Window: win}, nil

	case "run_program":
		var v jsonRunProgramRequest
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, err
		}
		return RunProgramRequest{Command: v.Command}, nil

	case "file_register":
		var v jsonFileRegisterRequest
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, err
		}
		return FileRegisterRequest{FilePath: v.FilePath}, nil

	case "browser_start":
		return BrowserStartRequest{}, nil

	default:
		return nil, nil
	}
}

// EncodePacketJSON re-serializes a Packet of request segments back to the
// JSON array form, preserving order (used to round-trip a decoded request
// array back to JSON for verification; on the shell side proper, encoding
// replies uses EncodeReplyJSON instead).
func EncodePacketJSON(p Packet) ([]byte, error) {
	out := make([]json.RawMessage, 0, len(p.Segments))
	for _, seg := range p.Segments {
		obj, err := requestSegmentToJSON(seg)
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

func requestSegmentToJSON(seg Segment) (json.RawMessage, error) {
	switch v := seg.(type) {
	case WindowRequest:
		return json.Marshal(jsonWindowRequest{T: "window", Window: windowIDToJSON(v.Window)})
	case WindowMapRequest:
		return json.Marshal(jsonWindowMapRequest{
			T: "window_map", Window: windowIDToJSON(v.Window),
			X: float64(v.X), Y: float64(v.Y),
			Width: float64(v.Width), Height: float64(v.Height),
		})
	case WindowReorderRequest:
		return json.Marshal(jsonWindowReorderRequest{T: "window_reorder", Windows: windowIDsToJSON(v.Windows)})
	case WindowFocusRequest:
		return json.Marshal(jsonWindowFocusRequest{T: "window_focus", Window: windowIDToJSON(v.Window)})
	case WindowRegisterBorderRequest:
		return json.Marshal(jsonWindowRegisterBorderRequest{
			T: "window_register_border", Window: windowIDToJSON(v.Window),
			X: float64(v.X), Y: float64(v.Y),
			Width: float64(v.Width), Height: float64(v.Height),
		})
	case RenderRequest:
		return json.Marshal(jsonTagged{T: "render"})
	case WindowCloseRequest:
		return json.Marshal(jsonWindowCloseRequest{T: "window_close", Window: windowIDToJSON(v.Window)})
	case RunProgramRequest:
		return json.Marshal(jsonRunProgramRequest{T: "run_program", Command: v.Command})
	case FileRegisterRequest:
		return json.Marshal(jsonFileRegisterRequest{T: "file_register", FilePath: v.FilePath})
	case BrowserStartRequest:
		return json.Marshal(jsonTagged{T: "browser_start"})
	default:
		return nil, fmt.Errorf("protocol: %T is not a request segment", seg)
	}
}
