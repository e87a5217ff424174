package wm

// EWMH source indication for requests coming from a normal application.
const sourceApplication = 1

// ICCCM WM_STATE value of a minimized window.
const wmStateIconic = 3

// desktopAll is the _NET_WM_DESKTOP value of sticky windows.
const desktopAll = 0xFFFFFFFF

// ClientMessage is a 32-bit format client message addressed to a window.
type ClientMessage struct {
	Type   uint32
	Window uint32
	Data   [5]uint32
}

// DesktopMessage asks the window manager to move window to desktop.
func DesktopMessage(window, desktop, netWmDesktop uint32) ClientMessage {
	return ClientMessage{
		Type:   netWmDesktop,
		Window: window,
		Data:   [5]uint32{desktop, sourceApplication, 0, 0, 0},
	}
}

// ActivateMessage asks the window manager to raise and focus window.
// Timestamp and requestor are left at zero.
func ActivateMessage(window, netActiveWindow uint32) ClientMessage {
	return ClientMessage{
		Type:   netActiveWindow,
		Window: window,
		Data:   [5]uint32{sourceApplication, 0, 0, 0, 0},
	}
}

// IconifyMessage is the ICCCM WM_CHANGE_STATE request to minimize window.
func IconifyMessage(window, wmChangeState uint32) ClientMessage {
	return ClientMessage{
		Type:   wmChangeState,
		Window: window,
		Data:   [5]uint32{wmStateIconic, 0, 0, 0, 0},
	}
}

// haveAll reports whether every required atom is in supported.
func haveAll[T comparable](supported, required []T) bool {
	set := make(map[T]struct{}, len(supported))
	for _, s := range supported {
		set[s] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}
