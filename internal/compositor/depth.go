package compositor

// ApplyReorder recomputes depths for an ordered list of window ids, per the
// front-to-back convention: the first id assigned a depth gets the largest
// depth of the batch, each subsequent assigned id a smaller one, evenly
// spaced over n = len(ids) slots. An id absent from the window table (a
// shell can race a close with a reorder) or naming the base window is
// skipped without consuming a depth slot — it never decrements depth —
// matching the original's table-hit-only decrement. The base window's
// depth is never touched even if it appears in the list — BaseDepth is
// always the maximum depth in the table.
func (s *State) ApplyReorder(ids []WindowID) {
	n := len(ids)
	if n == 0 {
		return
	}
	inc := 0.8 / float64(n)
	depth := 0.8
	for _, id := range ids {
		w, ok := s.windows[id]
		if !ok || s.IsBaseWindow(id) {
			continue
		}
		w.Depth = depth
		depth -= inc
	}
}
