package compositor

// State is the authoritative window table plus the handful of singleton
// pieces of compositor state (the base window designation, current focus,
// and the inotify watch table). A single instance is constructed at startup
// and passed explicitly to every handler — there is no package-level
// mutable state, which is what makes the single-threaded-cooperative
// scheduling model locally checkable instead of merely assumed.
type State struct {
	windows   map[WindowID]*ManagedWindow
	blacklist map[WindowID]struct{}

	baseWindow  WindowID
	hasBase     bool
	focused     WindowID
	hasFocused  bool
	watchedFile map[int32]string

	renderOrder []WindowID
}

// NewState builds an empty window table.
func NewState() *State {
	return &State{
		windows:     make(map[WindowID]*ManagedWindow),
		blacklist:   make(map[WindowID]struct{}),
		watchedFile: make(map[int32]string),
	}
}

// Blacklist marks id as compositor-owned infrastructure (overlay window,
// output window, WM-check support window) that must never be admitted into
// the managed window table.
func (s *State) Blacklist(id WindowID) {
	s.blacklist[id] = struct{}{}
}

// IsBlacklisted reports whether id was marked via Blacklist.
func (s *State) IsBlacklisted(id WindowID) bool {
	_, ok := s.blacklist[id]
	return ok
}

// Insert admits a new managed window. It is a no-op (returning false) for a
// blacklisted id or one already present.
func (s *State) Insert(id WindowID) (*ManagedWindow, bool) {
	if s.IsBlacklisted(id) {
		return nil, false
	}
	if w, ok := s.windows[id]; ok {
		return w, false
	}
	w := newManagedWindow(id)
	s.windows[id] = w
	return w, true
}

// Lookup returns the managed window for id, if any.
func (s *State) Lookup(id WindowID) (*ManagedWindow, bool) {
	w, ok := s.windows[id]
	return w, ok
}

// Remove erases id's table entry. Callers are responsible for releasing any
// GPU pixmap/mesh resources on w before calling Remove — this method only
// clears bookkeeping state (focus, base designation) that referenced it.
func (s *State) Remove(id WindowID) {
	delete(s.windows, id)
	if s.hasFocused && s.focused == id {
		s.hasFocused = false
	}
	if s.hasBase && s.baseWindow == id {
		s.hasBase = false
	}
}

// All returns every managed window, in map order; the order is not
// defined and may differ between calls.
func (s *State) All() []*ManagedWindow {
	out := make([]*ManagedWindow, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, w)
	}
	return out
}

// Len reports the number of managed windows.
func (s *State) Len() int {
	return len(s.windows)
}

// SetBaseWindow designates id as the shell's full-screen surface. The
// window must already be managed.
func (s *State) SetBaseWindow(id WindowID) {
	s.baseWindow = id
	s.hasBase = true
}

// BaseWindow returns the current base window designation, if any.
func (s *State) BaseWindow() (WindowID, bool) {
	return s.baseWindow, s.hasBase
}

// IsBaseWindow reports whether id is the designated base window.
func (s *State) IsBaseWindow(id WindowID) bool {
	return s.hasBase && s.baseWindow == id
}

// SetFocused records id as the last-focused non-base client.
func (s *State) SetFocused(id WindowID) {
	s.focused = id
	s.hasFocused = true
}

// Focused returns the current focus target, if any.
func (s *State) Focused() (WindowID, bool) {
	return s.focused, s.hasFocused
}

// WatchFile records a new inotify watch descriptor -> path mapping.
func (s *State) WatchFile(wd int32, path string) {
	s.watchedFile[wd] = path
}

// WatchedPath returns the path registered for wd, if any.
func (s *State) WatchedPath(wd int32) (string, bool) {
	p, ok := s.watchedFile[wd]
	return p, ok
}
