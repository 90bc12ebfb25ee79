// Package window tracks and restores foreground window focus.
//
// Handles are opaque identity tokens: the caller compares them, it never
// dereferences them. All operations are best effort and report failure
// through booleans, never through panics or errors.
package window

// Handle identifies the application that owned the foreground window at
// capture time. The zero value is invalid.
type Handle struct {
	pid int32
}

// Valid reports whether the handle refers to a captured window.
func (h Handle) Valid() bool { return h.pid > 0 }

// Manager captures and restores foreground focus.
type Manager interface {
	// Active returns a handle to the current foreground window,
	// or ok=false when the query fails.
	Active() (Handle, bool)

	// Focus brings the window behind the handle back to the foreground.
	// Returns true when the window is (or already was) foreground.
	Focus(h Handle) bool

	// IsFocused is a cheap identity recheck used between keystrokes.
	IsFocused(h Handle) bool
}

// New returns the platform focus manager.
func New() Manager {
	return newManager()
}
