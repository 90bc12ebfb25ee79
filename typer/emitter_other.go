//go:build !darwin

package typer

import (
	"fmt"
	"unicode"

	"github.com/micmonay/keybd_event"
)

// keyEmitter synthesizes keystrokes through keybd_event (uinput on Linux,
// SendInput on Windows). Coverage is the printable US layout; runes outside
// it are skipped rather than failing the whole typing pass.
type keyEmitter struct {
	kb keybd_event.KeyBonding
}

// NewEmitter returns the platform keystroke emitter.
func NewEmitter() (Emitter, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("init key bonding: %w", err)
	}
	return &keyEmitter{kb: kb}, nil
}

type keystroke struct {
	vk    int
	shift bool
}

var strokes = map[rune]keystroke{
	' ':  {keybd_event.VK_SPACE, false},
	'\n': {keybd_event.VK_ENTER, false},
	'\t': {keybd_event.VK_TAB, false},
	'-':  {keybd_event.VK_MINUS, false},
	'_':  {keybd_event.VK_MINUS, true},
	'=':  {keybd_event.VK_EQUAL, false},
	'+':  {keybd_event.VK_EQUAL, true},
	'[':  {keybd_event.VK_LEFTBRACE, false},
	'{':  {keybd_event.VK_LEFTBRACE, true},
	']':  {keybd_event.VK_RIGHTBRACE, false},
	'}':  {keybd_event.VK_RIGHTBRACE, true},
	';':  {keybd_event.VK_SEMICOLON, false},
	':':  {keybd_event.VK_SEMICOLON, true},
	'\'': {keybd_event.VK_APOSTROPHE, false},
	'"':  {keybd_event.VK_APOSTROPHE, true},
	'`':  {keybd_event.VK_GRAVE, false},
	'~':  {keybd_event.VK_GRAVE, true},
	'\\': {keybd_event.VK_BACKSLASH, false},
	'|':  {keybd_event.VK_BACKSLASH, true},
	',':  {keybd_event.VK_COMMA, false},
	'<':  {keybd_event.VK_COMMA, true},
	'.':  {keybd_event.VK_DOT, false},
	'>':  {keybd_event.VK_DOT, true},
	'/':  {keybd_event.VK_SLASH, false},
	'?':  {keybd_event.VK_SLASH, true},
	'!':  {keybd_event.VK_1, true},
	'@':  {keybd_event.VK_2, true},
	'#':  {keybd_event.VK_3, true},
	'$':  {keybd_event.VK_4, true},
	'%':  {keybd_event.VK_5, true},
	'^':  {keybd_event.VK_6, true},
	'&':  {keybd_event.VK_7, true},
	'*':  {keybd_event.VK_8, true},
	'(':  {keybd_event.VK_9, true},
	')':  {keybd_event.VK_0, true},
}

var letterVK = map[rune]int{
	'a': keybd_event.VK_A, 'b': keybd_event.VK_B, 'c': keybd_event.VK_C,
	'd': keybd_event.VK_D, 'e': keybd_event.VK_E, 'f': keybd_event.VK_F,
	'g': keybd_event.VK_G, 'h': keybd_event.VK_H, 'i': keybd_event.VK_I,
	'j': keybd_event.VK_J, 'k': keybd_event.VK_K, 'l': keybd_event.VK_L,
	'm': keybd_event.VK_M, 'n': keybd_event.VK_N, 'o': keybd_event.VK_O,
	'p': keybd_event.VK_P, 'q': keybd_event.VK_Q, 'r': keybd_event.VK_R,
	's': keybd_event.VK_S, 't': keybd_event.VK_T, 'u': keybd_event.VK_U,
	'v': keybd_event.VK_V, 'w': keybd_event.VK_W, 'x': keybd_event.VK_X,
	'y': keybd_event.VK_Y, 'z': keybd_event.VK_Z,
}

var digitVK = map[rune]int{
	'0': keybd_event.VK_0, '1': keybd_event.VK_1, '2': keybd_event.VK_2,
	'3': keybd_event.VK_3, '4': keybd_event.VK_4, '5': keybd_event.VK_5,
	'6': keybd_event.VK_6, '7': keybd_event.VK_7, '8': keybd_event.VK_8,
	'9': keybd_event.VK_9,
}

func lookup(r rune) (keystroke, bool) {
	if ks, ok := strokes[r]; ok {
		return ks, true
	}
	if vk, ok := digitVK[r]; ok {
		return keystroke{vk, false}, true
	}
	lower := unicode.ToLower(r)
	if vk, ok := letterVK[lower]; ok {
		return keystroke{vk, unicode.IsUpper(r)}, true
	}
	return keystroke{}, false
}

func (e *keyEmitter) EmitRune(r rune) error {
	ks, ok := lookup(r)
	if !ok {
		return nil
	}
	e.kb.Clear()
	e.kb.SetKeys(ks.vk)
	e.kb.HasSHIFT(ks.shift)
	if err := e.kb.Launching(); err != nil {
		return fmt.Errorf("emit %q: %w", r, err)
	}
	return nil
}
