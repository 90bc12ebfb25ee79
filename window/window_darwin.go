//go:build darwin

package window

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework AppKit -framework Foundation

#import <AppKit/AppKit.h>

static int voxFrontmostPid(void) {
	NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
	if (app == nil) {
		return -1;
	}
	return (int)[app processIdentifier];
}

// voxActivatePid activates the application owning pid. Activation brings the
// app's windows forward and un-minimizes the key window.
static int voxActivatePid(int pid) {
	NSRunningApplication *app =
		[NSRunningApplication runningApplicationWithProcessIdentifier:(pid_t)pid];
	if (app == nil || [app isTerminated]) {
		return 0;
	}
	if ([app isActive]) {
		return 1;
	}
	BOOL ok = [app activateWithOptions:NSApplicationActivateIgnoringOtherApps];
	return ok ? 1 : 0;
}
*/
import "C"

// manager is the macOS implementation. Focus is tracked per application
// process: activation on macOS is an application-level operation, and pid
// identity is all the recheck needs.
type manager struct{}

func newManager() Manager {
	return manager{}
}

func (manager) Active() (Handle, bool) {
	pid := int32(C.voxFrontmostPid())
	if pid <= 0 {
		return Handle{}, false
	}
	return Handle{pid: pid}, true
}

func (manager) Focus(h Handle) bool {
	if !h.Valid() {
		return false
	}
	return C.voxActivatePid(C.int(h.pid)) == 1
}

func (m manager) IsFocused(h Handle) bool {
	if !h.Valid() {
		return false
	}
	active, ok := m.Active()
	return ok && active == h
}
