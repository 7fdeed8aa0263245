// Package protocol implements the length-framed, tagged-segment wire format
// exchanged between the compositor and the shell bridge (see §6.1) and
// the JSON envelope the shell bridge translates it to and from for web
// content (§6.2).
package protocol

// WindowID identifies an X11 resource. It is opaque to the protocol layer:
// the compositor is the only component that interprets it against a live X
// display.
type WindowID uint32

// Tag identifies which variant a Segment carries. The set is closed — every
// value here must have exactly one registered encoder and decoder, and both
// the request and reply dispatch tables (see packet.go) must be total over
// the tags they're responsible for.
type Tag uint8

const (
	TagWindowRequest Tag = iota + 1
	TagWindowMapRequest
	TagWindowReorderRequest
	TagWindowFocusRequest
	TagWindowRegisterBorderRequest
	TagRenderRequest
	TagWindowCloseRequest
	TagRunProgramRequest
	TagFileRegisterRequest
	TagBrowserStartRequest

	TagWindowFocusReply
	TagWindowMapReply
	TagWindowCloseReply
	TagMouseMoveReply
	TagMousePressReply
	TagRenderReply
	TagReloadReply
	TagLogMessageReply
	TagWindowIconReply
)

// Segment is one tagged unit inside a Packet. Concrete types are defined in
// requests.go and replies.go; each carries exactly the fields named for its
// tag in §6.1.
type Segment interface {
	Tag() Tag
}

// Packet is an ordered, possibly empty sequence of Segments. Packets are not
// nested.
type Packet struct {
	Segments []Segment
}
