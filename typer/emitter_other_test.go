//go:build !darwin

package typer

import (
	"testing"

	"github.com/micmonay/keybd_event"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		r      rune
		wantVK int
		shift  bool
		mapped bool
	}{
		{'a', keybd_event.VK_A, false, true},
		{'Z', keybd_event.VK_Z, true, true},
		{'5', keybd_event.VK_5, false, true},
		{'!', keybd_event.VK_1, true, true},
		{':', keybd_event.VK_SEMICOLON, true, true},
		{' ', keybd_event.VK_SPACE, false, true},
		{'é', 0, false, false},
		{'中', 0, false, false},
		{'🎤', 0, false, false},
	}
	for _, tt := range tests {
		ks, ok := lookup(tt.r)
		if ok != tt.mapped {
			t.Errorf("lookup(%q) mapped = %v, want %v", tt.r, ok, tt.mapped)
			continue
		}
		if !ok {
			continue
		}
		if ks.vk != tt.wantVK || ks.shift != tt.shift {
			t.Errorf("lookup(%q) = {vk:%d shift:%v}, want {vk:%d shift:%v}",
				tt.r, ks.vk, ks.shift, tt.wantVK, tt.shift)
		}
	}
}

func TestEmitRune_UnmappedRuneSkippedWithoutError(t *testing.T) {
	// Unmapped runes are dropped rather than aborting the whole typing
	// pass; the key bonding is never touched on that path.
	e := &keyEmitter{}
	for _, r := range "中é🎤" {
		if err := e.EmitRune(r); err != nil {
			t.Errorf("EmitRune(%q) = %v, want nil (skip)", r, err)
		}
	}
}
