package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// wireWriter accumulates the binary encoding of a Packet. Field order
// matches the table in §6.1 for each segment.
type wireWriter struct {
	buf bytes.Buffer
}

func (w *wireWriter) u8(v uint8)   { w.buf.WriteByte(v) }
func (w *wireWriter) u32(v uint32) { binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *wireWriter) i32(v int32)  { binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *wireWriter) u64(v uint64) { binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *wireWriter) boolean(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}
func (w *wireWriter) bytes(b []byte) {
	w.u32(uint32(len(b)))
	w.buf.Write(b)
}
func (w *wireWriter) str(s string) { w.bytes([]byte(s)) }
func (w *wireWriter) windowIDs(ids []WindowID) {
	w.u32(uint32(len(ids)))
	for _, id := range ids {
		w.u32(uint32(id))
	}
}
func (w *wireWriter) strs(ss []string) {
	w.u32(uint32(len(ss)))
	for _, s := range ss {
		w.str(s)
	}
}

// wireReader consumes a Packet's binary encoding. The first error
// encountered is sticky: all subsequent reads become no-ops that return the
// zero value, and callers check err() once at the end.
type wireReader struct {
	r       io.Reader
	sticky  error
}

func (r *wireReader) u8() uint8 {
	if r.sticky != nil {
		return 0
	}
	var b [1]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		r.sticky = err
		return 0
	}
	return b[0]
}

func (r *wireReader) u32() uint32 {
	if r.sticky != nil {
		return 0
	}
	var v uint32
	if err := binary.Read(r.r, binary.LittleEndian, &v); err != nil {
		r.sticky = err
		return 0
	}
	return v
}

func (r *wireReader) i32() int32 {
	if r.sticky != nil {
		return 0
	}
	var v int32
	if err := binary.Read(r.r, binary.LittleEndian, &v); err != nil {
		r.sticky = err
		return 0
	}
	return v
}

func (r *wireReader) u64() uint64 {
	if r.sticky != nil {
		return 0
	}
	var v uint64
	if err := binary.Read(r.r, binary.LittleEndian, &v); err != nil {
		r.sticky = err
		return 0
	}
	return v
}

func (r *wireReader) boolean() bool { return r.u8() != 0 }

const maxWireLen = 64 << 20 // guards against a corrupt length prefix

func (r *wireReader) bytes() []byte {
	n := r.u32()
	if r.sticky != nil {
		return nil
	}
	if n > maxWireLen {
		r.sticky = fmt.Errorf("protocol: field length %d exceeds max %d", n, maxWireLen)
		return nil
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r.r, buf); err != nil {
			r.sticky = err
			return nil
		}
	}
	return buf
}

func (r *wireReader) str() string { return string(r.bytes()) }

func (r *wireReader) windowIDs() []WindowID {
	n := r.u32()
	if r.sticky != nil {
		return nil
	}
	if n > maxWireLen {
		r.sticky = fmt.Errorf("protocol: windowIDs count %d exceeds max", n)
		return nil
	}
	ids := make([]WindowID, n)
	for i := range ids {
		ids[i] = WindowID(r.u32())
	}
	return ids
}

func (r *wireReader) strs() []string {
	n := r.u32()
	if r.sticky != nil {
		return nil
	}
	if n > maxWireLen {
		r.sticky = fmt.Errorf("protocol: string count %d exceeds max", n)
		return nil
	}
	ss := make([]string, n)
	for i := range ss {
		ss[i] = r.str()
	}
	return ss
}

func (r *wireReader) err() error { return r.sticky }

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }
