//go:build darwin

package typer

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation

#include <CoreGraphics/CoreGraphics.h>

// voxPostRune posts key-down/key-up events carrying the rune as a unicode
// string, so layout-independent characters type correctly.
static int voxPostRune(unsigned int c) {
	UniChar units[2];
	int n;
	if (c > 0xFFFF) {
		c -= 0x10000;
		units[0] = (UniChar)(0xD800 + (c >> 10));
		units[1] = (UniChar)(0xDC00 + (c & 0x3FF));
		n = 2;
	} else {
		units[0] = (UniChar)c;
		n = 1;
	}

	CGEventRef down = CGEventCreateKeyboardEvent(NULL, 0, true);
	if (down == NULL) {
		return 0;
	}
	CGEventKeyboardSetUnicodeString(down, n, units);
	CGEventPost(kCGHIDEventTap, down);
	CFRelease(down);

	CGEventRef up = CGEventCreateKeyboardEvent(NULL, 0, false);
	if (up == NULL) {
		return 0;
	}
	CGEventKeyboardSetUnicodeString(up, n, units);
	CGEventPost(kCGHIDEventTap, up);
	CFRelease(up);
	return 1;
}
*/
import "C"

import "fmt"

// keyEmitter posts CGEvents on macOS. Requires accessibility permission.
type keyEmitter struct{}

// NewEmitter returns the platform keystroke emitter.
func NewEmitter() (Emitter, error) {
	return keyEmitter{}, nil
}

func (keyEmitter) EmitRune(r rune) error {
	if C.voxPostRune(C.uint(r)) != 1 {
		return fmt.Errorf("post key event for %q", r)
	}
	return nil
}
