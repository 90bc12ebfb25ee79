//go:build !darwin

package window

// manager is the fallback for platforms without a focus backend. Capture
// fails, so the session controller types without refocusing.
type manager struct{}

func newManager() Manager {
	return manager{}
}

func (manager) Active() (Handle, bool) { return Handle{}, false }

func (manager) Focus(Handle) bool { return false }

func (manager) IsFocused(Handle) bool { return false }
