package main

import (
	"fmt"
)

// KeyPresser generates key-down and key-up events for virtual key codes
type KeyPresser interface {
	Press(code int) error
	Release(code int) error
}

// CharMapper resolves an unshifted character to the virtual key code that
// produces it on the current keyboard layout
type CharMapper interface {
	CharToKeyCode(r rune) (int, error)
}

// NumLocker queries and changes the NUMLOCK toggle
type NumLocker interface {
	NumLockState() (bool, error)
	SetNumLockState(on bool) error
}

// Keyboard is everything keystroker needs from the operating system
type Keyboard interface {
	KeyPresser
	CharMapper
	NumLocker
}

// USLayout maps characters to virtual key codes as a US keyboard would.
// It is used where the platform offers no layout lookup, and for dry runs.
var USLayout CharMapper = usLayout{}

type usLayout struct{}

var usPunctuation = map[rune]int{
	';':  0xBA,
	'=':  0xBB,
	',':  0xBC,
	'-':  0xBD,
	'.':  0xBE,
	'/':  0xBF,
	'`':  0xC0,
	'[':  0xDB,
	'\\': 0xDC,
	']':  0xDD,
	'\'': 0xDE,
}

func (usLayout) CharToKeyCode(r rune) (int, error) {
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a' + 'A'), nil
	case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return int(r), nil
	case r == ' ':
		return vkSpace, nil
	case r == '\t':
		return vkTab, nil
	case r == '\n':
		return vkEnter, nil
	}
	if code, ok := usPunctuation[r]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("character %q is not on a US keyboard", r)
}
