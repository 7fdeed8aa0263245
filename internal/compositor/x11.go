package compositor

import (
	"fmt"
	"log"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/composite"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xproto"
)

const wmName = "noko"

// Display owns the X connection, the composite/overlay setup, and the
// window bookkeeping EventOps/XOps/FocusOps need to do their jobs. It is
// the concrete EventOps implementation the event loop drives; the State it
// is paired with stays pure and testable.
type Display struct {
	xu   *xgbutil.XUtil
	conn *xgb.Conn
	root xproto.Window

	screen int
	width  uint32
	height uint32

	overlay xproto.Window
	output  xproto.Window

	supportWindow xproto.Window
	screenOwner   xproto.Window

	clientListAtom xproto.Atom

	gl *glState
}

// Open performs the full compositor startup sequence: connect to the X
// display, claim the composite-manager selection, redirect subwindows,
// acquire the overlay window, create the GL output window and context, and
// blacklist every window the compositor itself created.
func Open(state *State) (*Display, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("compositor: open X display: %w", err)
	}
	conn := xu.Conn()
	root := xu.RootWin()
	screen := xu.Screen()

	d := &Display{
		xu: xu, conn: conn, root: root,
		screen: xu.Conn().DefaultScreen,
		width:  uint32(screen.WidthInPixels), height: uint32(screen.HeightInPixels),
	}

	if err := composite.Init(conn); err != nil {
		return nil, fmt.Errorf("compositor: init composite extension: %w", err)
	}
	if err := xfixes.Init(conn); err != nil {
		return nil, fmt.Errorf("compositor: init xfixes extension: %w", err)
	}
	if err := shape.Init(conn); err != nil {
		return nil, fmt.Errorf("compositor: init shape extension: %w", err)
	}

	if err := xproto.ChangeWindowAttributesChecked(conn, root, xproto.CwEventMask,
		[]uint32{xproto.EventMaskSubstructureNotify | xproto.EventMaskPointerMotion |
			xproto.EventMaskButtonMotion | xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease},
	).Check(); err != nil {
		return nil, fmt.Errorf("compositor: select root input: %w", err)
	}

	if err := d.setupEWMH(state); err != nil {
		return nil, err
	}

	if err := composite.RedirectSubwindowsChecked(conn, root, composite.RedirectManual).Check(); err != nil {
		return nil, fmt.Errorf("compositor: redirect subwindows: %w", err)
	}

	overlayReply, err := composite.GetOverlayWindow(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("compositor: get overlay window: %w", err)
	}
	d.overlay = overlayReply.OverlayWin
	state.Blacklist(WindowID(d.overlay))

	regionID, err := xproto.NewRegionId(conn)
	if err != nil {
		return nil, fmt.Errorf("compositor: allocate region id: %w", err)
	}
	if err := xfixes.CreateRegionChecked(conn, regionID, nil).Check(); err != nil {
		return nil, fmt.Errorf("compositor: create empty region: %w", err)
	}
	if err := xfixes.SetWindowShapeRegionChecked(conn, d.overlay, shape.SkInput, 0, 0, regionID).Check(); err != nil {
		return nil, fmt.Errorf("compositor: set overlay input shape: %w", err)
	}
	if err := xfixes.DestroyRegionChecked(conn, regionID).Check(); err != nil {
		log.Printf("compositor: destroy scratch region: %v", err)
	}

	gl, output, err := newGLOutput(conn, root, d.overlay, d.width, d.height)
	if err != nil {
		return nil, fmt.Errorf("compositor: create GL output: %w", err)
	}
	d.gl = gl
	d.output = output
	state.Blacklist(WindowID(output))

	return d, nil
}

func (d *Display) setupEWMH(state *State) error {
	conn := d.conn
	xu := d.xu

	d.clientListAtom, _ = xu.Atm.Atom("_NET_CLIENT_LIST", false)

	if err := ewmh.SupportedSet(xu, []string{"_NET_SUPPORTED", "_NET_CLIENT_LIST"}); err != nil {
		return fmt.Errorf("compositor: set _NET_SUPPORTED: %w", err)
	}

	supportID, err := xproto.NewWindowId(conn)
	if err != nil {
		return fmt.Errorf("compositor: allocate support window id: %w", err)
	}
	if err := xproto.CreateWindowChecked(conn, xproto.WindowClassCopyFromParent, supportID, d.root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, 0, 0, nil).Check(); err != nil {
		return fmt.Errorf("compositor: create support window: %w", err)
	}
	d.supportWindow = supportID
	state.Blacklist(WindowID(supportID))

	if err := ewmh.SupportingWmCheckSet(xu, d.root, supportID); err != nil {
		return fmt.Errorf("compositor: set root _NET_SUPPORTING_WM_CHECK: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(xu, supportID, supportID); err != nil {
		return fmt.Errorf("compositor: set support window _NET_SUPPORTING_WM_CHECK: %w", err)
	}
	if err := ewmh.WmNameSet(xu, supportID, wmName); err != nil {
		return fmt.Errorf("compositor: set _NET_WM_NAME: %w", err)
	}

	ownerID, err := xproto.NewWindowId(conn)
	if err != nil {
		return fmt.Errorf("compositor: allocate selection-owner window id: %w", err)
	}
	if err := xproto.CreateWindowChecked(conn, xproto.WindowClassCopyFromParent, ownerID, d.root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, 0, 0, nil).Check(); err != nil {
		return fmt.Errorf("compositor: create selection-owner window: %w", err)
	}
	d.screenOwner = ownerID
	state.Blacklist(WindowID(ownerID))
	if err := icccm.WmClassSet(xu, ownerID, &icccm.WmClass{Instance: "xcompmgr", Class: "xcompmgr"}); err != nil {
		log.Printf("compositor: set selection-owner WM_CLASS: %v", err)
	}

	cmAtomName := fmt.Sprintf("_NET_WM_CM_S%d", d.screen)
	cmAtom, err := xu.Atm.Atom(cmAtomName, false)
	if err != nil {
		return fmt.Errorf("compositor: intern %s: %w", cmAtomName, err)
	}
	if err := xproto.SetSelectionOwnerChecked(conn, ownerID, cmAtom, 0).Check(); err != nil {
		return fmt.Errorf("compositor: claim composite-manager selection: %w", err)
	}

	return nil
}

// ScreenSize satisfies XOps.
func (d *Display) ScreenSize() (uint32, uint32) { return d.width, d.height }

// ConfigureWindow satisfies XOps.
func (d *Display) ConfigureWindow(id WindowID, x, y int32, width, height uint32) error {
	return xproto.ConfigureWindowChecked(d.conn, xproto.Window(id),
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32ToUint32(x)), uint32(int32ToUint32(y)), width, height},
	).Check()
}

func int32ToUint32(v int32) uint32 { return uint32(v) }

// DestroyWindow satisfies XOps.
func (d *Display) DestroyWindow(id WindowID) error {
	return xproto.DestroyWindowChecked(d.conn, xproto.Window(id)).Check()
}

// StackBelow satisfies XOps: used both to keep the base window behind newly
// mapped clients and to re-lower it after any geometry change.
func (d *Display) StackBelow(id WindowID) error {
	return xproto.ConfigureWindowChecked(d.conn, xproto.Window(id),
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeBelow}).Check()
}

// DisableInput clears WM_HINTS.input on id, the base-window designation
// step that tells the X server the base window never wants input focus
// through normal ICCCM channels (all input to it arrives synthesized).
func (d *Display) DisableInput(id WindowID) error {
	return icccm.WmHintsSet(d.xu, xproto.Window(id), &icccm.Hints{
		Flags: icccm.HintInput, Input: false,
	})
}

// SetInputFocus satisfies FocusOps.
func (d *Display) SetInputFocus(id WindowID) error {
	return xproto.SetInputFocusChecked(d.conn, xproto.InputFocusParent, xproto.Window(id), xproto.TimeCurrentTime).Check()
}

// MapRaise satisfies FocusOps.
func (d *Display) MapRaise(id WindowID) error {
	if err := xproto.MapWindowChecked(d.conn, xproto.Window(id)).Check(); err != nil {
		return err
	}
	return xproto.ConfigureWindowChecked(d.conn, xproto.Window(id),
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
}

// SelectFocusAndPointerInput satisfies EventOps, run once per newly created
// client window.
func (d *Display) SelectFocusAndPointerInput(id WindowID) error {
	return xproto.ChangeWindowAttributesChecked(d.conn, xproto.Window(id), xproto.CwEventMask,
		[]uint32{xproto.EventMaskFocusChange}).Check()
}

// GrabAllButtons satisfies EventOps.
func (d *Display) GrabAllButtons(id WindowID) error {
	return xproto.GrabButtonChecked(d.conn, false, xproto.Window(id),
		xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskButtonMotion,
		xproto.GrabModeSync, xproto.GrabModeSync, 0, 0,
		xproto.ButtonIndexAny, xproto.ModMaskAny,
	).Check()
}

// UpdateClientList satisfies EventOps.
func (d *Display) UpdateClientList(ids []WindowID) error {
	wins := make([]xproto.Window, len(ids))
	for i, id := range ids {
		wins[i] = xproto.Window(id)
	}
	return ewmh.ClientListSet(d.xu, wins)
}

// QueryAttributes satisfies EventOps.
func (d *Display) QueryAttributes(id WindowID) (Geometry, bool, string, bool, []string, error) {
	attrs, err := xproto.GetWindowAttributes(d.conn, xproto.Window(id)).Reply()
	if err != nil {
		return Geometry{}, false, "", false, nil, fmt.Errorf("get window attributes: %w", err)
	}
	geomReply, err := xproto.GetGeometry(d.conn, xproto.Drawable(id)).Reply()
	if err != nil {
		return Geometry{}, false, "", false, nil, fmt.Errorf("get geometry: %w", err)
	}

	visible := attrs.MapState == xproto.MapStateViewable
	geom := Geometry{
		X: int32(geomReply.X), Y: int32(geomReply.Y),
		Width: uint32(geomReply.Width), Height: uint32(geomReply.Height),
	}

	name, err := ewmh.WmNameGet(d.xu, xproto.Window(id))
	hasName := err == nil && name != ""

	var typeNames []string
	if atoms, err := ewmh.WmWindowTypeGet(d.xu, xproto.Window(id)); err == nil {
		typeNames = atoms
	}

	return geom, visible, name, hasName, typeNames, nil
}

// QueryPointer satisfies EventOps.
func (d *Display) QueryPointer(id WindowID) (int32, int32, error) {
	reply, err := xproto.QueryPointer(d.conn, xproto.Window(id)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int32(reply.RootX), int32(reply.RootY), nil
}

// MoveWindow satisfies EventOps.
func (d *Display) MoveWindow(id WindowID, x, y int32) error {
	return xproto.ConfigureWindowChecked(d.conn, xproto.Window(id),
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(x), uint32(y)}).Check()
}

// ForwardButtonEvent synthesizes a button/motion event toward target,
// mirroring the original's XSendEvent-based forwarding to the base window.
// Button 0 is sent as a MotionNotify; any other button as a ButtonPress.
func (d *Display) ForwardButtonEvent(target WindowID, button uint32, x, y int32) error {
	if button == 0 {
		mev := xproto.MotionNotifyEvent{
			Detail: xproto.MotionNormal,
			Time:   xproto.TimeCurrentTime,
			Root:   d.root, Event: xproto.Window(target), Child: 0,
			RootX: int16(x), RootY: int16(y), EventX: int16(x), EventY: int16(y),
			State: 0, SameScreen: true,
		}
		return xproto.SendEventChecked(d.conn, false, xproto.Window(target),
			xproto.EventMaskPointerMotion, string(mev.Bytes())).Check()
	}
	ev := xproto.ButtonPressEvent{
		Detail: xproto.Button(button),
		Time:   xproto.TimeCurrentTime,
		Root:   d.root, Event: xproto.Window(target), Child: 0,
		RootX: int16(x), RootY: int16(y), EventX: int16(x), EventY: int16(y),
		State: 0, SameScreen: true,
	}
	return xproto.SendEventChecked(d.conn, false, xproto.Window(target),
		xproto.EventMaskButtonPress, string(ev.Bytes())).Check()
}

// ReplayPointer satisfies EventOps: with sync it issues AllowSyncPointer,
// so the grabbed press is not delivered to the client after being
// forwarded to the base window; otherwise it issues AllowReplayPointer,
// replaying the grabbed press to the window under the pointer.
func (d *Display) ReplayPointer(sync bool) error {
	mode := xproto.AllowReplayPointer
	if sync {
		mode = xproto.AllowSyncPointer
	}
	return xproto.AllowEventsChecked(d.conn, byte(mode), xproto.TimeCurrentTime).Check()
}

// ReleasePixmaps satisfies EventOps: frees the X pixmap and GLX pixmap (if
// any) so the next texture bind recreates them against fresh geometry.
func (d *Display) ReleasePixmaps(w *ManagedWindow) {
	if w.Pixmaps.XPixmap != 0 {
		_ = xproto.FreePixmapChecked(d.conn, xproto.Pixmap(w.Pixmaps.XPixmap)).Check()
	}
	if w.Pixmaps.Bound {
		d.gl.destroyGLXPixmap(w.Pixmaps.GLPixmap)
	}
	w.Pixmaps = Pixmaps{}
}

// Close tears down both X connections: the xgb protocol connection and the
// separate Xlib connection GLX runs against. There is nothing else to
// release on the Go side; the X server reclaims every resource either
// connection owned.
func (d *Display) Close() error {
	if d.gl != nil {
		glxCloseDisplay(d.gl.display)
	}
	d.conn.Close()
	return nil
}
