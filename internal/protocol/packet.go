package protocol

import (
	"fmt"
)

func encodeSegment(w *wireWriter, s Segment) {
	w.u8(uint8(s.Tag()))
	switch v := s.(type) {
	case WindowRequest:
		w.u32(uint32(v.Window))
	case WindowMapRequest:
		w.u32(uint32(v.Window))
		w.i32(v.X)
		w.i32(v.Y)
		w.u32(v.Width)
		w.u32(v.Height)
	case WindowReorderRequest:
		w.windowIDs(v.Windows)
	case WindowFocusRequest:
		w.u32(uint32(v.Window))
	case WindowRegisterBorderRequest:
		w.u32(uint32(v.Window))
		w.i32(v.X)
		w.i32(v.Y)
		w.i32(v.Width)
		w.i32(v.Height)
	case RenderRequest:
		// no fields
	case WindowCloseRequest:
		w.u32(uint32(v.Window))
	case RunProgramRequest:
		w.strs(v.Command)
	case FileRegisterRequest:
		w.str(v.FilePath)
	case BrowserStartRequest:
		// no fields
	case WindowFocusReply:
		w.u32(uint32(v.Window))
	case WindowMapReply:
		w.u32(uint32(v.Window))
		w.boolean(v.Visible)
		w.i32(v.X)
		w.i32(v.Y)
		w.u32(v.Width)
		w.u32(v.Height)
		w.boolean(v.HasName)
		w.str(v.Name)
		w.boolean(v.HasBorder)
		w.u8(uint8(v.Type))
	case WindowCloseReply:
		w.u32(uint32(v.Window))
	case MouseMoveReply:
		w.i32(v.X)
		w.i32(v.Y)
	case MousePressReply:
		w.u32(v.State)
		w.i32(v.X)
		w.i32(v.Y)
	case RenderReply:
		w.u64(v.LastFrameObserved)
	case ReloadReply:
		// no fields
	case LogMessageReply:
		w.str(v.Message)
	case WindowIconReply:
		w.u32(uint32(v.Window))
		w.bytes(v.Image)
	default:
		panic(fmt.Sprintf("protocol: encodeSegment: unhandled segment type %T", s))
	}
}

// decodeSegment reads one segment given its already-consumed tag byte. An
// unrecognized tag returns nil, which DecodeBinary reports as an error.
func decodeSegment(r *wireReader, tag Tag) Segment {
	switch tag {
	case TagWindowRequest:
		return WindowRequest{Window: WindowID(r.u32())}
	case TagWindowMapRequest:
		win := WindowID(r.u32())
		x := r.i32()
		y := r.i32()
		width := r.u32()
		height := r.u32()
		return WindowMapRequest{Window: win, X: x, Y: y, Width: width, Height: height}
	case TagWindowReorderRequest:
		return WindowReorderRequest{Windows: r.windowIDs()}
	case TagWindowFocusRequest:
		return WindowFocusRequest{Window: WindowID(r.u32())}
	case TagWindowRegisterBorderRequest:
		win := WindowID(r.u32())
		x := r.i32()
		y := r.i32()
		width := r.i32()
		height := r.i32()
		return WindowRegisterBorderRequest{Window: win, X: x, Y: y, Width: width, Height: height}
	case TagRenderRequest:
		return RenderRequest{}
	case TagWindowCloseRequest:
		return WindowCloseRequest{Window: WindowID(r.u32())}
	case TagRunProgramRequest:
		return RunProgramRequest{Command: r.strs()}
	case TagFileRegisterRequest:
		return FileRegisterRequest{FilePath: r.str()}
	case TagBrowserStartRequest:
		return BrowserStartRequest{}
	case TagWindowFocusReply:
		return WindowFocusReply{Window: WindowID(r.u32())}
	case TagWindowMapReply:
		win := WindowID(r.u32())
		visible := r.boolean()
		x := r.i32()
		y := r.i32()
		width := r.u32()
		height := r.u32()
		hasName := r.boolean()
		name := r.str()
		hasBorder := r.boolean()
		typ := WindowType(r.u8())
		return WindowMapReply{
			Window: win, Visible: visible, X: x, Y: y, Width: width, Height: height,
			HasName: hasName, Name: name, HasBorder: hasBorder, Type: typ,
		}
	case TagWindowCloseReply:
		return WindowCloseReply{Window: WindowID(r.u32())}
	case TagMouseMoveReply:
		x := r.i32()
		y := r.i32()
		return MouseMoveReply{X: x, Y: y}
	case TagMousePressReply:
		state := r.u32()
		x := r.i32()
		y := r.i32()
		return MousePressReply{State: state, X: x, Y: y}
	case TagRenderReply:
		return RenderReply{LastFrameObserved: r.u64()}
	case TagReloadReply:
		return ReloadReply{}
	case TagLogMessageReply:
		return LogMessageReply{Message: r.str()}
	case TagWindowIconReply:
		win := WindowID(r.u32())
		img := r.bytes()
		return WindowIconReply{Window: win, Image: img}
	default:
		return nil
	}
}

// EncodeBinary serializes p as a flat byte slice: a uint32 segment count
// followed by each segment's tag byte and fields. It is the payload of one
// IPC send (the transport itself provides message framing — see
// internal/ipc).
func EncodeBinary(p Packet) []byte {
	w := &wireWriter{}
	w.u32(uint32(len(p.Segments)))
	for _, seg := range p.Segments {
		encodeSegment(w, seg)
	}
	return w.buf.Bytes()
}

// DecodeBinary is the inverse of EncodeBinary. A segment with an
// unrecognized tag is not skipped: since the binary format has no explicit
// per-segment length, an unknown tag is unrecoverable (there is no way to
// tell how many bytes to skip), so the whole packet fails with a decode
// error and none of its segments are returned. The registry above is kept
// total over the Tag constants, not to support forward-compatible unknown
// segments on the wire. (JSON is the layer that tolerates arbitrary unknown
// "t" values — see json.go.)
func DecodeBinary(data []byte) (Packet, error) {
	r := &wireReader{r: bytesReader(data)}
	count := r.u32()
	if err := r.err(); err != nil {
		return Packet{}, fmt.Errorf("protocol: decode packet header: %w", err)
	}
	if count > maxWireLen {
		return Packet{}, fmt.Errorf("protocol: segment count %d exceeds max", count)
	}
	segs := make([]Segment, 0, count)
	for i := uint32(0); i < count; i++ {
		tag := Tag(r.u8())
		if err := r.err(); err != nil {
			return Packet{}, fmt.Errorf("protocol: decode segment %d tag: %w", i, err)
		}
		seg := decodeSegment(r, tag)
		if err := r.err(); err != nil {
			return Packet{}, fmt.Errorf("protocol: decode segment %d (tag %d): %w", i, tag, err)
		}
		if seg == nil {
			return Packet{}, fmt.Errorf("protocol: decode segment %d: unknown tag %d", i, tag)
		}
		segs = append(segs, seg)
	}
	return Packet{Segments: segs}, nil
}
