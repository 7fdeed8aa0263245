package protocol

// Reply segments are sent compositor -> shell.

// WindowFocusReply confirms a focus change landed on Window.
type WindowFocusReply struct {
	Window WindowID
}

func (WindowFocusReply) Tag() Tag { return TagWindowFocusReply }

// WindowMapReply carries a window's current mapped state. Name is optional,
// its presence reported by HasName; HasBorder and Type are always encoded.
type WindowMapReply struct {
	Window        WindowID
	Visible       bool
	X, Y          int32
	Width, Height uint32

	Name      string
	HasName   bool
	HasBorder bool
	Type      WindowType
}

func (WindowMapReply) Tag() Tag { return TagWindowMapReply }

// WindowCloseReply confirms Window was destroyed.
type WindowCloseReply struct {
	Window WindowID
}

func (WindowCloseReply) Tag() Tag { return TagWindowCloseReply }

// MouseMoveReply forwards a synthesized pointer position to the base
// window.
type MouseMoveReply struct {
	X, Y int32
}

func (MouseMoveReply) Tag() Tag { return TagMouseMoveReply }

// MousePressReply forwards a synthesized button event to the base window.
type MousePressReply struct {
	State uint32
	X, Y  int32
}

func (MousePressReply) Tag() Tag { return TagMousePressReply }

// RenderReply carries a frame counter, LastFrameObserved. The compositor
// emits none: a render_request produces no reply.
type RenderReply struct {
	LastFrameObserved uint64
}

func (RenderReply) Tag() Tag { return TagRenderReply }

// ReloadReply signals that a watched file changed. It carries no fields; at
// most one is emitted per compositor iteration (§4.5), no matter how many
// files changed or how many inotify events were queued.
type ReloadReply struct{}

func (ReloadReply) Tag() Tag { return TagReloadReply }

// LogMessageReply carries a free-form diagnostic string toward the shell.
type LogMessageReply struct {
	Message string
}

func (LogMessageReply) Tag() Tag { return TagLogMessageReply }

// WindowIconReply carries Window's icon image bytes. No operation in scope
// currently produces one (see SPEC_FULL.md §4) — it is implemented as a
// complete, tested, addressable segment so the reply variant set stays
// total.
type WindowIconReply struct {
	Window WindowID
	Image  []byte
}

func (WindowIconReply) Tag() Tag { return TagWindowIconReply }
