package protocol

// Request segments are sent shell -> compositor.

// WindowRequest designates the sender's window as the base (shell) window.
type WindowRequest struct {
	Window WindowID
}

func (WindowRequest) Tag() Tag { return TagWindowRequest }

// WindowMapRequest asks the compositor to XConfigureWindow the target to the
// given rectangle.
type WindowMapRequest struct {
	Window        WindowID
	X, Y          int32
	Width, Height uint32
}

func (WindowMapRequest) Tag() Tag { return TagWindowMapRequest }

// WindowReorderRequest supplies a front-to-back ordering; the compositor
// recomputes depths for every listed id (§4.1).
type WindowReorderRequest struct {
	Windows []WindowID
}

func (WindowReorderRequest) Tag() Tag { return TagWindowReorderRequest }

// WindowFocusRequest asks the compositor to focus a window (refused for the
// base window — §4.3).
type WindowFocusRequest struct {
	Window WindowID
}

func (WindowFocusRequest) Tag() Tag { return TagWindowFocusRequest }

// WindowRegisterBorderRequest records a chrome pass-through rectangle in
// window-local coordinates (§4.2).
type WindowRegisterBorderRequest struct {
	Window        WindowID
	X, Y          int32
	Width, Height int32
}

func (WindowRegisterBorderRequest) Tag() Tag { return TagWindowRegisterBorderRequest }

// RenderRequest carries no fields; it is reserved for render pacing.
type RenderRequest struct{}

func (RenderRequest) Tag() Tag { return TagRenderRequest }

// WindowCloseRequest asks the compositor to XDestroyWindow the target.
type WindowCloseRequest struct {
	Window WindowID
}

func (WindowCloseRequest) Tag() Tag { return TagWindowCloseRequest }

// RunProgramRequest spawns argv as a detached child with DISPLAY=:1 set.
type RunProgramRequest struct {
	Command []string
}

func (RunProgramRequest) Tag() Tag { return TagRunProgramRequest }

// FileRegisterRequest registers path for inotify IN_MODIFY watching.
type FileRegisterRequest struct {
	FilePath string
}

func (FileRegisterRequest) Tag() Tag { return TagFileRegisterRequest }

// BrowserStartRequest asks the compositor to re-advertise every managed,
// non-blacklisted, non-base window via window_map replies.
type BrowserStartRequest struct{}

func (BrowserStartRequest) Tag() Tag { return TagBrowserStartRequest }
