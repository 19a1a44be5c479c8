//go:build windows

package main

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procKeybdEvent     = user32.NewProc("keybd_event")
	procMapVirtualKeyW = user32.NewProc("MapVirtualKeyW")
	procGetKeyState    = user32.NewProc("GetKeyState")
	procVkKeyScanW     = user32.NewProc("VkKeyScanW")
)

const (
	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002
	mapvkVkToVsc         = 0
	numLockScanCode      = 0x45
)

// win32Keyboard injects keys with user32 keybd_event
type win32Keyboard struct{}

func newSystemKeyboard(log *LogManager) (Keyboard, error) {
	if err := procKeybdEvent.Find(); err != nil {
		return nil, fmt.Errorf("user32 keybd_event unavailable: %w", err)
	}
	log.LogDebug("Using user32 keyboard backend")
	return win32Keyboard{}, nil
}

func (win32Keyboard) Press(code int) error {
	return sendVirtualKey(code, 0)
}

func (win32Keyboard) Release(code int) error {
	return sendVirtualKey(code, keyeventfKeyUp)
}

// sendVirtualKey sends one keybd_event with the scan code the layout
// assigns to vk.
func sendVirtualKey(vk int, flags uintptr) error {
	if vk < 1 || vk > 0xFE {
		return fmt.Errorf("virtual key %d out of range", vk)
	}
	scan, _, _ := procMapVirtualKeyW.Call(uintptr(vk), mapvkVkToVsc)
	procKeybdEvent.Call(uintptr(vk), scan, flags, 0) //nolint:errcheck
	return nil
}

// CharToKeyCode uses VkKeyScanW; the low byte is the virtual key, the high
// byte the shift state, which the parser decides on its own.
func (win32Keyboard) CharToKeyCode(r rune) (int, error) {
	if r > 0xFFFF {
		return 0, fmt.Errorf("character %q has no virtual key", r)
	}
	ret, _, _ := procVkKeyScanW.Call(uintptr(r))
	if int16(ret) == -1 {
		return 0, fmt.Errorf("character %q has no key on the current layout", r)
	}
	return int(ret & 0xFF), nil
}

func (win32Keyboard) NumLockState() (bool, error) {
	ret, _, _ := procGetKeyState.Call(uintptr(vkNumLock))
	// The low-order bit is the toggle state
	return ret&0x0001 != 0, nil
}

func (k win32Keyboard) SetNumLockState(on bool) error {
	current, err := k.NumLockState()
	if err != nil {
		return err
	}
	if current == on {
		return nil
	}
	procKeybdEvent.Call(uintptr(vkNumLock), numLockScanCode, keyeventfExtendedKey, 0)                //nolint:errcheck
	procKeybdEvent.Call(uintptr(vkNumLock), numLockScanCode, keyeventfExtendedKey|keyeventfKeyUp, 0) //nolint:errcheck
	return nil
}
