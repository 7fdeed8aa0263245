package compositor

// HitKind distinguishes a click landing on a window's declared chrome
// (border) region from one landing on its content.
type HitKind int

const (
	HitNone HitKind = iota
	HitBorder
	HitContent
)

// Hit is the result of testing a screen point against one managed window.
type Hit struct {
	Window WindowID
	Kind   HitKind
	Depth  float64
}

func rectContains(x0, y0, x1, y1, px, py int32) bool {
	return px >= x0 && px < x1 && py >= y0 && py < y1
}

// classify tests a single point against one window's content rectangle and,
// if present, its border rectangle. The border's screen rectangle is
// [wx+bx, wy+by] .. [wx+W+bw, wy+H+bh] — bx/by are top-left offsets and
// bw/bh are additive extensions of the content width/height.
func classify(w *ManagedWindow, px, py int32) HitKind {
	x0, y0 := w.Geometry.X, w.Geometry.Y
	x1 := x0 + int32(w.Geometry.Width)
	y1 := y0 + int32(w.Geometry.Height)
	content := rectContains(x0, y0, x1, y1, px, py)

	if !w.HasBorder || w.Border == nil {
		if content {
			return HitContent
		}
		return HitNone
	}

	bx0 := x0 + w.Border.X
	by0 := y0 + w.Border.Y
	bx1 := x1 + w.Border.Width
	by1 := y1 + w.Border.Height
	border := rectContains(bx0, by0, bx1, by1, px, py)

	switch {
	case content:
		return HitContent
	case border:
		return HitBorder
	default:
		return HitNone
	}
}

// HitTest finds the winning hit for a screen point among every existing,
// visible managed window: the minimum-depth candidate, with content hits
// winning ties against border hits at the same depth.
func (s *State) HitTest(px, py int32) (Hit, bool) {
	var best Hit
	found := false

	for id, w := range s.windows {
		if !w.Exists || !w.Visible {
			continue
		}
		kind := classify(w, px, py)
		if kind == HitNone {
			continue
		}
		depth := w.Depth
		if s.IsBaseWindow(id) {
			depth = BaseDepth
		}
		cand := Hit{Window: id, Kind: kind, Depth: depth}
		if !found {
			best, found = cand, true
			continue
		}
		if cand.Depth < best.Depth {
			best = cand
		} else if cand.Depth == best.Depth && cand.Kind == HitContent && best.Kind == HitBorder {
			best = cand
		}
	}
	return best, found
}
