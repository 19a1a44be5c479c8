package main

import (
	"fmt"
	"sort"
)

// Virtual key codes the parser and the backends refer to directly
const (
	vkBack     = 0x08
	vkTab      = 0x09
	vkEnter    = 0x0D
	vkShift    = 0x10
	vkControl  = 0x11
	vkMenu     = 0x12 // Alt
	vkCapsLock = 0x14
	vkSpace    = 0x20
	vkNumLock  = 0x90
)

// defaultPauseSeconds is used by {PAUSE} when no duration is given
const defaultPauseSeconds = 0.05

// Upper bounds for the count in {NAME n} and {PAUSE s}
const (
	maxBraceRepeat  = 10000
	maxPauseSeconds = 24 * 60 * 60
)

// keyCodes maps the names accepted inside braces ({ENTER}, {F5 3}) to
// virtual key codes. Names are case-sensitive.
var keyCodes = withFunctionKeys(map[string]int{
	"BACK":       vkBack,
	"BACKSPACE":  vkBack,
	"BS":         vkBack,
	"BKSP":       vkBack,
	"BREAK":      0x03,
	"CAP":        vkCapsLock,
	"CAPSLOCK":   vkCapsLock,
	"DEL":        0x2E,
	"DELETE":     0x2E,
	"DOWN":       0x28,
	"END":        0x23,
	"ENTER":      vkEnter,
	"RETURN":     vkEnter,
	"ESC":        0x1B,
	"ESCAPE":     0x1B,
	"HELP":       0x2F,
	"HOME":       0x24,
	"INS":        0x2D,
	"INSERT":     0x2D,
	"LEFT":       0x25,
	"LWIN":       0x5B,
	"RWIN":       0x5C,
	"APPS":       0x5D,
	"NUMLOCK":    vkNumLock,
	"PGDN":       0x22,
	"PAGEDOWN":   0x22,
	"PGUP":       0x21,
	"PAGEUP":     0x21,
	"PRTSC":      0x2C,
	"RIGHT":      0x27,
	"RMENU":      0xA5,
	"SCROLLLOCK": 0x91,
	"SPACE":      vkSpace,
	"TAB":        vkTab,
	"UP":         0x26,

	// Numeric keypad
	"NUMPAD0":  0x60,
	"NUMPAD1":  0x61,
	"NUMPAD2":  0x62,
	"NUMPAD3":  0x63,
	"NUMPAD4":  0x64,
	"NUMPAD5":  0x65,
	"NUMPAD6":  0x66,
	"NUMPAD7":  0x67,
	"NUMPAD8":  0x68,
	"NUMPAD9":  0x69,
	"MULTIPLY": 0x6A,
	"ADD":      0x6B,
	"SUBTRACT": 0x6D,
	"DECIMAL":  0x6E,
	"DIVIDE":   0x6F,
})

// withFunctionKeys adds F1 = 0x70 through F24 = 0x87.
func withFunctionKeys(codes map[string]int) map[string]int {
	for n := 1; n <= 24; n++ {
		codes[fmt.Sprintf("F%d", n)] = 0x70 + n - 1
	}
	return codes
}

// shiftedChars maps characters typed with shift on a US layout to the
// character on the same key without shift.
var shiftedChars = map[rune]rune{
	'!': '1',
	'@': '2',
	'#': '3',
	'$': '4',
	'%': '5',
	'^': '6',
	'&': '7',
	'*': '8',
	'(': '9',
	')': '0',
	'_': '-',
	'+': '=',
	'|': '\\',
	':': ';',
	'"': '\'',
	'<': ',',
	'>': '.',
	'?': '/',
	'~': '`',
	'{': '[',
	'}': ']',
}

// modifierOrder is the order held modifiers are released in
var modifierOrder = [...]rune{'+', '^', '%'}

var modifierKeys = map[rune]int{
	'+': vkShift,
	'^': vkControl,
	'%': vkMenu,
}

// LookupKeyCode returns the virtual key code for a brace name such as "ENTER".
func LookupKeyCode(name string) (int, bool) {
	code, ok := keyCodes[name]
	return code, ok
}

// KeyNames returns every name accepted inside braces, sorted.
func KeyNames() []string {
	names := make([]string, 0, len(keyCodes)+1)
	for name := range keyCodes {
		names = append(names, name)
	}
	names = append(names, "PAUSE")
	sort.Strings(names)
	return names
}

var displayNames = buildDisplayNames()

// preferredNames fixes the display name of keys with several aliases
var preferredNames = map[int]string{
	vkShift:   "SHIFT",
	vkControl: "CONTROL",
	vkMenu:    "ALT",
	vkEnter:   "ENTER",
	0x1B:      "ESC",
}

// buildDisplayNames picks one name per key code. Outside preferredNames the
// longest alias wins (BACKSPACE over BS), ties break alphabetically.
func buildDisplayNames() map[int]string {
	names := make(map[int]string, len(keyCodes))
	all := make([]string, 0, len(keyCodes))
	for name := range keyCodes {
		all = append(all, name)
	}
	sort.Strings(all)
	for _, name := range all {
		code := keyCodes[name]
		if current, ok := names[code]; !ok || len(name) > len(current) {
			names[code] = name
		}
	}
	for code, name := range preferredNames {
		names[code] = name
	}
	return names
}

// KeyName renders a virtual key code for humans: letters and digits as
// themselves, named keys by their table name, anything else in hex.
func KeyName(code int) string {
	if (code >= 'A' && code <= 'Z') || (code >= '0' && code <= '9') {
		return string(rune(code))
	}
	if name, ok := displayNames[code]; ok {
		return name
	}
	return fmt.Sprintf("VK_%02X", code)
}
