package compositor

import "github.com/FoxMoss/DoteWM/internal/protocol"

// ewmhWindowTypeAtoms maps each full _NET_WM_WINDOW_TYPE_* atom name to the
// protocol's window-type enum.
var ewmhWindowTypeAtoms = map[string]protocol.WindowType{
	"_NET_WM_WINDOW_TYPE_DESKTOP":        protocol.WindowTypeDesktop,
	"_NET_WM_WINDOW_TYPE_DOCK":           protocol.WindowTypeDock,
	"_NET_WM_WINDOW_TYPE_TOOLBAR":        protocol.WindowTypeToolbar,
	"_NET_WM_WINDOW_TYPE_MENU":           protocol.WindowTypeMenu,
	"_NET_WM_WINDOW_TYPE_UTILITY":        protocol.WindowTypeUtility,
	"_NET_WM_WINDOW_TYPE_SPLASH":         protocol.WindowTypeSplash,
	"_NET_WM_WINDOW_TYPE_DIALOG":         protocol.WindowTypeDialog,
	"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU":  protocol.WindowTypeDropdownMenu,
	"_NET_WM_WINDOW_TYPE_POPUP_MENU":     protocol.WindowTypePopupMenu,
	"_NET_WM_WINDOW_TYPE_TOOLTIP":        protocol.WindowTypeTooltip,
	"_NET_WM_WINDOW_TYPE_NOTIFICATION":   protocol.WindowTypeNotification,
	"_NET_WM_WINDOW_TYPE_COMBO":          protocol.WindowTypeCombo,
	"_NET_WM_WINDOW_TYPE_DND":            protocol.WindowTypeDND,
	"_NET_WM_WINDOW_TYPE_NORMAL":         protocol.WindowTypeNormal,
}

// resolveWindowType maps the ordered list of atom names a
// _NET_WM_WINDOW_TYPE property can carry (a client may list several,
// most-specific first) to a single protocol.WindowType, taking the first
// recognized entry. An empty or entirely unrecognized list resolves to
// WindowTypeNormal.
func resolveWindowType(atomNames []string) protocol.WindowType {
	for _, name := range atomNames {
		if t, ok := ewmhWindowTypeAtoms[name]; ok {
			return t
		}
	}
	return protocol.WindowTypeNormal
}
