//go:build darwin || linux

package main

import (
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"
)

// robotgoKeyboard toggles keys by name through robotgo (Quartz on macOS,
// XTest on X11). It has no NUMLOCK to manage.
type robotgoKeyboard struct{}

func newRobotgoKeyboard(log *LogManager) (Keyboard, error) {
	log.LogDebug("Using robotgo keyboard backend")
	return robotgoKeyboard{}, nil
}

func (robotgoKeyboard) Press(code int) error {
	name, err := robotgoKeyName(code)
	if err != nil {
		return err
	}
	return robotgo.KeyToggle(name, "down")
}

func (robotgoKeyboard) Release(code int) error {
	name, err := robotgoKeyName(code)
	if err != nil {
		return err
	}
	return robotgo.KeyToggle(name, "up")
}

func (robotgoKeyboard) CharToKeyCode(r rune) (int, error) {
	return USLayout.CharToKeyCode(r)
}

func (robotgoKeyboard) NumLockState() (bool, error) {
	return false, nil
}

func (robotgoKeyboard) SetNumLockState(on bool) error {
	return nil
}

func robotgoKeyName(vk int) (string, error) {
	switch {
	case vk >= 'A' && vk <= 'Z':
		return strings.ToLower(string(rune(vk))), nil
	case vk >= '0' && vk <= '9':
		return string(rune(vk)), nil
	case vk >= 0x70 && vk <= 0x87:
		return fmt.Sprintf("f%d", vk-0x70+1), nil
	}
	if name, ok := robotgoKeyNames[vk]; ok {
		return name, nil
	}
	return "", fmt.Errorf("no robotgo key for %s", KeyName(vk))
}

var robotgoKeyNames = map[int]string{
	vkBack:     "backspace",
	vkTab:      "tab",
	vkEnter:    "enter",
	vkShift:    "shift",
	vkControl:  "ctrl",
	vkMenu:     "alt",
	vkCapsLock: "capslock",
	vkSpace:    "space",
	0x1B:       "esc",
	0x21:       "pageup",
	0x22:       "pagedown",
	0x23:       "end",
	0x24:       "home",
	0x25:       "left",
	0x26:       "up",
	0x27:       "right",
	0x28:       "down",
	0x2C:       "printscreen",
	0x2D:       "insert",
	0x2E:       "delete",
	0x2F:       "help",
	0x5B:       "cmd",
	0x5C:       "rcmd",
	0x5D:       "menu",
	0x60:       "num0",
	0x61:       "num1",
	0x62:       "num2",
	0x63:       "num3",
	0x64:       "num4",
	0x65:       "num5",
	0x66:       "num6",
	0x67:       "num7",
	0x68:       "num8",
	0x69:       "num9",
	0x6A:       "num_multiply",
	0x6B:       "num_plus",
	0x6D:       "num_minus",
	0x6E:       "num_decimal",
	0x6F:       "num_divide",
	vkNumLock:  "num_lock",
	0xA5:       "ralt",
	0xBA:       ";",
	0xBB:       "=",
	0xBC:       ",",
	0xBD:       "-",
	0xBE:       ".",
	0xBF:       "/",
	0xC0:       "`",
	0xDB:       "[",
	0xDC:       "\\",
	0xDD:       "]",
	0xDE:       "'",
}
