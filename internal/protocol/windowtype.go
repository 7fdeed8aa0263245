package protocol

// WindowType is the fixed EWMH-aligned enum carried by WindowMapReply.Type
// (§6.1's win_t). The binary decoder keeps the raw byte; String and
// ParseWindowType map unknown values to NORMAL (§9 open question (b): derive from
// _NET_WM_WINDOW_TYPE, resolved — see internal/compositor/windowtype.go).
type WindowType uint8

const (
	WindowTypeNormal WindowType = iota
	WindowTypeDesktop
	WindowTypeDock
	WindowTypeToolbar
	WindowTypeMenu
	WindowTypeUtility
	WindowTypeSplash
	WindowTypeDialog
	WindowTypeDropdownMenu
	WindowTypePopupMenu
	WindowTypeTooltip
	WindowTypeNotification
	WindowTypeCombo
	WindowTypeDND
)

var windowTypeNames = map[WindowType]string{
	WindowTypeDesktop:      "DESKTOP",
	WindowTypeDock:         "DOCK",
	WindowTypeToolbar:      "TOOLBAR",
	WindowTypeMenu:         "MENU",
	WindowTypeUtility:      "UTILITY",
	WindowTypeSplash:       "SPLASH",
	WindowTypeDialog:       "DIALOG",
	WindowTypeDropdownMenu: "DROPDOWN_MENU",
	WindowTypePopupMenu:    "POPUP_MENU",
	WindowTypeTooltip:      "TOOLTIP",
	WindowTypeNotification: "NOTIFICATION",
	WindowTypeCombo:        "COMBO",
	WindowTypeDND:          "DND",
	WindowTypeNormal:       "NORMAL",
}

var windowTypeByName = func() map[string]WindowType {
	m := make(map[string]WindowType, len(windowTypeNames))
	for t, n := range windowTypeNames {
		m[n] = t
	}
	return m
}()

// String renders the EWMH-style name, defaulting to NORMAL.
func (t WindowType) String() string {
	if n, ok := windowTypeNames[t]; ok {
		return n
	}
	return "NORMAL"
}

// ParseWindowType is the inverse of String. Unknown names resolve to
// WindowTypeNormal.
func ParseWindowType(name string) WindowType {
	if t, ok := windowTypeByName[name]; ok {
		return t
	}
	return WindowTypeNormal
}
