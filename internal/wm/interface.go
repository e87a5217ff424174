package wm

// Handle identifies a window within one backend. Values are only meaningful
// to the backend that produced them.
type Handle uint64

// WindowManager is the backend contract used by the toggle logic. Every
// method is synchronous and tolerates stale handles: queries report false
// and actions do nothing.
type WindowManager interface {
	// Name returns the backend name for logging/display
	Name() string
	// FindWindow returns the preferred window matching pattern
	FindWindow(pattern string) (Handle, bool)
	IsOnCurrentWorkspace(h Handle) bool
	IsVisible(h Handle) bool
	MoveToCurrentWorkspace(h Handle)
	Show(h Handle)
	Hide(h Handle)
	// LaunchApp starts path detached from the daemon
	LaunchApp(path string)
}
