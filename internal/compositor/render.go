package compositor

// NDCRect is a window's position and size in OpenGL normalized device
// coordinates, ready to hand to the quad mesh's transform uniforms.
type NDCRect struct {
	X, Y          float32
	Width, Height float32
}

// pixelToNDC converts a pixel-space coordinate to the [-1,1] NDC axis, adding a
// half-pixel offset when the pixel extent is odd so texel centers still
// align with the sample grid.
func pixelToNDC(originPixels, extentPixels int32, screenExtent uint32) (float32, float32) {
	half := float32(0)
	if extentPixels%2 != 0 {
		half = 0.5
	}
	x := (float32(originPixels)+half)/float32(screenExtent)*2 - 1
	w := float32(extentPixels) / float32(screenExtent) * 2
	return x, w
}

// ComputeNDC derives a window's on-screen rectangle in NDC space from its
// pixel geometry and the screen dimensions.
func ComputeNDC(g Geometry, screenWidth, screenHeight uint32) NDCRect {
	x, w := pixelToNDC(g.X, int32(g.Width), screenWidth)
	// Y is flipped: X11 origin is top-left, NDC origin is bottom-left.
	yPixelFlipped := int32(screenHeight) - g.Y - int32(g.Height)
	y, h := pixelToNDC(yPixelFlipped, int32(g.Height), screenHeight)
	return NDCRect{X: x, Y: y, Width: w, Height: h}
}

// DrawOp is one instruction in a render pass's draw list: either the
// window's own full-quad content at its depth, or — when it has a
// registered border and a base window exists — a preceding crop of the
// base window's texture to the border's screen rectangle, drawn at a
// slightly greater depth so it appears underneath the window's own
// content.
type DrawOp struct {
	Window WindowID
	Depth  float64
	Rect   NDCRect
	// CropOf names the window whose texture is sampled: the base window for
	// a border backdrop draw, the window itself for a content draw.
	CropOf    WindowID
	IsBackdrop bool
}

// borderEpsilon nudges a border backdrop draw behind the window's own
// content without letting it escape in front of anything else at a lesser
// depth.
const borderEpsilon = 0.0001

// BuildRenderList produces the ordered list of draw operations for one
// frame: windows that do not exist or are not visible are skipped (this is
// the invariant that rendering never touches a non-existent or hidden
// entry).
func (s *State) BuildRenderList(screenWidth, screenHeight uint32) []DrawOp {
	base, hasBase := s.BaseWindow()
	var ops []DrawOp

	for id, w := range s.windows {
		if !w.Exists || !w.Visible {
			continue
		}
		depth := w.Depth
		if s.IsBaseWindow(id) {
			depth = BaseDepth
		}

		if w.HasBorder && w.Border != nil && hasBase {
			borderGeom := Geometry{
				X:      w.Geometry.X + w.Border.X,
				Y:      w.Geometry.Y + w.Border.Y,
				Width:  uint32(int32(w.Geometry.Width) + w.Border.Width),
				Height: uint32(int32(w.Geometry.Height) + w.Border.Height),
			}
			ops = append(ops, DrawOp{
				Window: id, Depth: depth + borderEpsilon,
				Rect: ComputeNDC(borderGeom, screenWidth, screenHeight),
				CropOf: base, IsBackdrop: true,
			})
		}

		ops = append(ops, DrawOp{
			Window: id, Depth: depth,
			Rect: ComputeNDC(w.Geometry, screenWidth, screenHeight),
			CropOf: id,
		})
	}
	return ops
}
