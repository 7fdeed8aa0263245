package compositor

import "fmt"

// FocusOps is the set of X operations focus acceptance needs performed on
// its behalf. Separated from the rest of the X11 bootstrap so the policy in
// AcceptFocus (refuse the base window, otherwise raise and record) can be
// exercised without a live display connection.
type FocusOps interface {
	SetInputFocus(id WindowID) error
	MapRaise(id WindowID) error
}

// AcceptFocus implements the focus policy: the base window never accepts
// focus; any other known window is raised, given input focus, and recorded
// as the current focus target. accepted is false when the request was
// refused (base window or unknown id) rather than failed.
func (s *State) AcceptFocus(ops FocusOps, id WindowID) (accepted bool, err error) {
	if s.IsBaseWindow(id) {
		return false, nil
	}
	if _, ok := s.windows[id]; !ok {
		return false, nil // unknown window id: silently ignored
	}
	if err := ops.SetInputFocus(id); err != nil {
		return false, fmt.Errorf("compositor: set input focus on %d: %w", id, err)
	}
	if err := ops.MapRaise(id); err != nil {
		return false, fmt.Errorf("compositor: map-raise %d: %w", id, err)
	}
	s.SetFocused(id)
	return true, nil
}
