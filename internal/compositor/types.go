// Package compositor implements the X11 compositing event loop: it redirects
// client windows off-screen, textures them via GLX pixmaps, draws them in
// depth order onto a full-screen overlay, and bridges their lifecycle to the
// shell bridge over the IPC transport.
package compositor

import (
	"github.com/FoxMoss/DoteWM/internal/protocol"
)

// WindowID identifies an X resource. It is an alias of protocol.WindowID,
// so a decoded wire id indexes window state directly, with no conversion.
type WindowID = protocol.WindowID

// Border is an additive rectangle in window-local pixel offsets describing
// the chrome pass-through region around a window's content (see the border
// hit-testing rules in hittest.go). bx/by are top-left offsets (usually
// negative, extending outward); bw/bh are additive extensions of the
// content width/height, not absolute dimensions.
type Border struct {
	X, Y          int32
	Width, Height int32
}

// Geometry is a window's screen-space rectangle.
type Geometry struct {
	X, Y          int32
	Width, Height uint32
}

// Mesh is the GPU-side full-window quad: a VAO/VBO/IBO triple created and
// filled once per window. Geometry changes reach the draw through shader
// uniforms; the mesh itself is not re-filled.
type Mesh struct {
	VAO, VBO, IBO uint32
	IndexCount    int32
}

// Pixmaps holds the GPU-bound off-screen copies of a window's contents. Both
// are lazily (re)created on size change and released on window destruction.
type Pixmaps struct {
	XPixmap  uint32 // Pixmap XID
	GLPixmap uintptr
	Bound    bool
}

// ManagedWindow is the compositor's per-window record.
type ManagedWindow struct {
	ID      WindowID
	Exists  bool
	Visible bool

	Geometry Geometry
	Depth    float64
	Opacity  float32

	Name    string
	HasName bool

	Type protocol.WindowType

	Border    *Border
	HasBorder bool

	Pixmaps Pixmaps
	Mesh    Mesh
}

// DefaultDepth is the depth newly created (non-base) windows start at,
// before any reorder request repositions them.
const DefaultDepth = 0.1

// BaseDepth is fixed for the designated base window and is never altered by
// a reorder request.
const BaseDepth = 0.9

func newManagedWindow(id WindowID) *ManagedWindow {
	return &ManagedWindow{
		ID:      id,
		Exists:  true,
		Opacity: 1.0,
		Depth:   DefaultDepth,
	}
}
