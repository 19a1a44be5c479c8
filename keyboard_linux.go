//go:build linux

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/micmonay/keybd_event"
)

// uinput needs a moment before the new virtual device receives events
const uinputSettleDelay = 2 * time.Second

// numLockLEDGlob matches the numlock LED of every input device
const numLockLEDGlob = "/sys/class/leds/*::numlock/brightness"

// uinputKeyboard injects keys through a keybd_event uinput device
type uinputKeyboard struct {
	kb keybd_event.KeyBonding
}

// newSystemKeyboard prefers uinput and falls back to X11 through robotgo
// when /dev/uinput cannot be opened.
func newSystemKeyboard(log *LogManager) (Keyboard, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		log.LogWarning("uinput unavailable, falling back to X11", "error", err.Error())
		return newRobotgoKeyboard(log)
	}
	log.LogDebug("Using uinput keyboard backend", "settle", uinputSettleDelay.String())
	time.Sleep(uinputSettleDelay)
	return &uinputKeyboard{kb: kb}, nil
}

func (k *uinputKeyboard) Press(code int) error {
	ev, err := evdevCode(code)
	if err != nil {
		return err
	}
	k.kb.Clear()
	k.kb.SetKeys(ev)
	return k.kb.Press()
}

func (k *uinputKeyboard) Release(code int) error {
	ev, err := evdevCode(code)
	if err != nil {
		return err
	}
	k.kb.Clear()
	k.kb.SetKeys(ev)
	return k.kb.Release()
}

func (k *uinputKeyboard) CharToKeyCode(r rune) (int, error) {
	return USLayout.CharToKeyCode(r)
}

func (k *uinputKeyboard) NumLockState() (bool, error) {
	return readNumLockLED()
}

func (k *uinputKeyboard) SetNumLockState(on bool) error {
	current, err := k.NumLockState()
	if err != nil {
		return err
	}
	if current == on {
		return nil
	}
	if err := k.Press(vkNumLock); err != nil {
		return err
	}
	return k.Release(vkNumLock)
}

// readNumLockLED reports whether any keyboard shows its numlock LED lit.
// Machines without LEDs in sysfs read as off.
func readNumLockLED() (bool, error) {
	paths, err := filepath.Glob(numLockLEDGlob)
	if err != nil {
		return false, err
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" && v != "0" {
			return true, nil
		}
	}
	return false, nil
}

func evdevCode(vk int) (int, error) {
	switch {
	case vk >= 'A' && vk <= 'Z':
		return evdevLetters[vk-'A'], nil
	case vk >= '1' && vk <= '9':
		return keybd_event.VK_1 + vk - '1', nil
	case vk == '0':
		return keybd_event.VK_0, nil
	case vk >= 0x70 && vk <= 0x7B: // F1-F12
		return evdevFunctionKeys[vk-0x70], nil
	case vk >= 0x7C && vk <= 0x87: // F13-F24 are contiguous in evdev
		return 183 + vk - 0x7C, nil
	}
	if ev, ok := evdevKeys[vk]; ok {
		return ev, nil
	}
	return 0, fmt.Errorf("no uinput key for %s", KeyName(vk))
}

var evdevLetters = [26]int{
	keybd_event.VK_A, keybd_event.VK_B, keybd_event.VK_C, keybd_event.VK_D,
	keybd_event.VK_E, keybd_event.VK_F, keybd_event.VK_G, keybd_event.VK_H,
	keybd_event.VK_I, keybd_event.VK_J, keybd_event.VK_K, keybd_event.VK_L,
	keybd_event.VK_M, keybd_event.VK_N, keybd_event.VK_O, keybd_event.VK_P,
	keybd_event.VK_Q, keybd_event.VK_R, keybd_event.VK_S, keybd_event.VK_T,
	keybd_event.VK_U, keybd_event.VK_V, keybd_event.VK_W, keybd_event.VK_X,
	keybd_event.VK_Y, keybd_event.VK_Z,
}

var evdevFunctionKeys = [12]int{
	keybd_event.VK_F1, keybd_event.VK_F2, keybd_event.VK_F3, keybd_event.VK_F4,
	keybd_event.VK_F5, keybd_event.VK_F6, keybd_event.VK_F7, keybd_event.VK_F8,
	keybd_event.VK_F9, keybd_event.VK_F10, keybd_event.VK_F11, keybd_event.VK_F12,
}

// evdevKeys covers the remaining virtual keys. Codes without a keybd_event
// constant are taken from linux/input-event-codes.h.
var evdevKeys = map[int]int{
	vkBack:     keybd_event.VK_BACKSPACE,
	vkTab:      keybd_event.VK_TAB,
	vkEnter:    keybd_event.VK_ENTER,
	vkShift:    42, // KEY_LEFTSHIFT
	vkControl:  29, // KEY_LEFTCTRL
	vkMenu:     56, // KEY_LEFTALT
	vkCapsLock: keybd_event.VK_CAPSLOCK,
	vkSpace:    keybd_event.VK_SPACE,
	vkNumLock:  keybd_event.VK_NUMLOCK,
	0x03:       119, // KEY_PAUSE
	0x1B:       keybd_event.VK_ESC,
	0x21:       104, // KEY_PAGEUP
	0x22:       109, // KEY_PAGEDOWN
	0x23:       107, // KEY_END
	0x24:       102, // KEY_HOME
	0x25:       105, // KEY_LEFT
	0x26:       103, // KEY_UP
	0x27:       106, // KEY_RIGHT
	0x28:       108, // KEY_DOWN
	0x2C:       99,  // KEY_SYSRQ
	0x2D:       110, // KEY_INSERT
	0x2E:       111, // KEY_DELETE
	0x2F:       138, // KEY_HELP
	0x5B:       125, // KEY_LEFTMETA
	0x5C:       126, // KEY_RIGHTMETA
	0x5D:       127, // KEY_COMPOSE
	0x60:       82,  // KEY_KP0
	0x61:       79,  // KEY_KP1
	0x62:       80,  // KEY_KP2
	0x63:       81,  // KEY_KP3
	0x64:       75,  // KEY_KP4
	0x65:       76,  // KEY_KP5
	0x66:       77,  // KEY_KP6
	0x67:       71,  // KEY_KP7
	0x68:       72,  // KEY_KP8
	0x69:       73,  // KEY_KP9
	0x6A:       55,  // KEY_KPASTERISK
	0x6B:       78,  // KEY_KPPLUS
	0x6D:       74,  // KEY_KPMINUS
	0x6E:       83,  // KEY_KPDOT
	0x6F:       98,  // KEY_KPSLASH
	0x91:       70,  // KEY_SCROLLLOCK
	0xA5:       100, // KEY_RIGHTALT
	0xBA:       39,  // KEY_SEMICOLON
	0xBB:       13,  // KEY_EQUAL
	0xBC:       51,  // KEY_COMMA
	0xBD:       12,  // KEY_MINUS
	0xBE:       52,  // KEY_DOT
	0xBF:       53,  // KEY_SLASH
	0xC0:       41,  // KEY_GRAVE
	0xDB:       26,  // KEY_LEFTBRACE
	0xDC:       43,  // KEY_BACKSLASH
	0xDD:       27,  // KEY_RIGHTBRACE
	0xDE:       40,  // KEY_APOSTROPHE
}
