package compositor

// fakeOps is an in-memory stand-in for the X11/GL side of EventOps/XOps,
// recording every call it receives so test bodies can assert on it without
// a live display connection.
type fakeOps struct {
	width, height uint32

	focused       []WindowID
	raised        []WindowID
	configured    []configureCall
	destroyed     []WindowID
	stackedBelow  []WindowID
	inputDisabled []WindowID

	selectedInput []WindowID
	grabbed       []WindowID
	clientLists   [][]WindowID
	pointerX, pointerY int32
	moved         []moveCall
	forwarded     []forwardCall
	replays       []bool
	released      []WindowID
	meshesMade    int
	meshesFreed   int

	attrs map[WindowID]attrResult

	focusErr error
	raiseErr error
}

type configureCall struct {
	ID            WindowID
	X, Y          int32
	Width, Height uint32
}

type moveCall struct {
	ID   WindowID
	X, Y int32
}

type forwardCall struct {
	Target WindowID
	Button uint32
	X, Y   int32
}

type attrResult struct {
	Geom     Geometry
	Visible  bool
	Name     string
	HasName  bool
	TypeAtoms []string
}

func newFakeOps() *fakeOps {
	return &fakeOps{width: 1920, height: 1080, attrs: make(map[WindowID]attrResult)}
}

func (f *fakeOps) SetInputFocus(id WindowID) error {
	if f.focusErr != nil {
		return f.focusErr
	}
	f.focused = append(f.focused, id)
	return nil
}

func (f *fakeOps) MapRaise(id WindowID) error {
	if f.raiseErr != nil {
		return f.raiseErr
	}
	f.raised = append(f.raised, id)
	return nil
}

func (f *fakeOps) ConfigureWindow(id WindowID, x, y int32, width, height uint32) error {
	f.configured = append(f.configured, configureCall{id, x, y, width, height})
	return nil
}

func (f *fakeOps) DestroyWindow(id WindowID) error {
	f.destroyed = append(f.destroyed, id)
	return nil
}

func (f *fakeOps) StackBelow(id WindowID) error {
	f.stackedBelow = append(f.stackedBelow, id)
	return nil
}

func (f *fakeOps) DisableInput(id WindowID) error {
	f.inputDisabled = append(f.inputDisabled, id)
	return nil
}

func (f *fakeOps) ScreenSize() (uint32, uint32) { return f.width, f.height }

func (f *fakeOps) SelectFocusAndPointerInput(id WindowID) error {
	f.selectedInput = append(f.selectedInput, id)
	return nil
}

func (f *fakeOps) GrabAllButtons(id WindowID) error {
	f.grabbed = append(f.grabbed, id)
	return nil
}

func (f *fakeOps) UpdateClientList(ids []WindowID) error {
	cp := append([]WindowID(nil), ids...)
	f.clientLists = append(f.clientLists, cp)
	return nil
}

func (f *fakeOps) QueryAttributes(id WindowID) (Geometry, bool, string, bool, []string, error) {
	r := f.attrs[id]
	return r.Geom, r.Visible, r.Name, r.HasName, r.TypeAtoms, nil
}

func (f *fakeOps) QueryPointer(id WindowID) (int32, int32, error) {
	return f.pointerX, f.pointerY, nil
}

func (f *fakeOps) MoveWindow(id WindowID, x, y int32) error {
	f.moved = append(f.moved, moveCall{id, x, y})
	return nil
}

func (f *fakeOps) ReleasePixmaps(w *ManagedWindow) {
	f.released = append(f.released, w.ID)
}

func (f *fakeOps) ForwardButtonEvent(target WindowID, button uint32, x, y int32) error {
	f.forwarded = append(f.forwarded, forwardCall{target, button, x, y})
	return nil
}

func (f *fakeOps) ReplayPointer(sync bool) error {
	f.replays = append(f.replays, sync)
	return nil
}

func (f *fakeOps) CreateMesh() Mesh {
	f.meshesMade++
	return Mesh{VAO: uint32(f.meshesMade), IndexCount: 6}
}

func (f *fakeOps) DestroyMesh(m Mesh) {
	f.meshesFreed++
}

// fakeSpawner records spawned argv slices instead of forking a process.
type fakeSpawner struct {
	spawned [][]string
	err     error
}

func (s *fakeSpawner) Spawn(argv []string) error {
	if s.err != nil {
		return s.err
	}
	s.spawned = append(s.spawned, argv)
	return nil
}

// fakeWatcher hands out sequential watch descriptors without touching
// inotify.
type fakeWatcher struct {
	next    int32
	watched []string
}

func (w *fakeWatcher) AddWatch(path string) (int32, error) {
	w.next++
	w.watched = append(w.watched, path)
	return w.next, nil
}
