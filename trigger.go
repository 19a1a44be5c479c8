package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	hook "github.com/robotn/gohook"
)

// TriggerHotkey is a global key combination the CLI waits for before typing
type TriggerHotkey struct {
	Name      string   // as configured, e.g. "ctrl+shift+f9"
	Modifiers []string // gohook names
	Key       string   // gohook name
}

// Keys returns the modifiers followed by the key, as gohook registers them
func (t *TriggerHotkey) Keys() []string {
	keys := append([]string{}, t.Modifiers...)
	return append(keys, t.Key)
}

var triggerModifiers = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"shift":   "shift",
	"cmd":     "cmd",
	"win":     "cmd",
}

var triggerKeys = map[string]string{
	"home":      "home",
	"end":       "end",
	"insert":    "insert",
	"delete":    "delete",
	"backspace": "backspace",
	"tab":       "tab",
	"enter":     "enter",
	"space":     "space",
	"escape":    "esc",
	"esc":       "esc",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
	"pageup":    "pageup",
	"pagedown":  "pagedown",
}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		triggerKeys[string(c)] = string(c)
	}
	for c := '0'; c <= '9'; c++ {
		triggerKeys[string(c)] = string(c)
	}
	for n := 1; n <= 12; n++ {
		f := fmt.Sprintf("f%d", n)
		triggerKeys[f] = f
	}
}

// ParseTriggerHotkey parses a "+"-joined combination such as "ctrl+shift+f9".
// The last element is the key, everything before it must be a modifier.
func ParseTriggerHotkey(s string) (*TriggerHotkey, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return nil, fmt.Errorf("malformed hotkey: %q", s)
		}
	}

	last := parts[len(parts)-1]
	key, ok := triggerKeys[last]
	if !ok {
		return nil, fmt.Errorf("unsupported key: %s", last)
	}

	hk := &TriggerHotkey{Name: s, Key: key}
	seen := map[string]bool{}
	for _, m := range parts[:len(parts)-1] {
		mod, ok := triggerModifiers[m]
		if !ok {
			return nil, fmt.Errorf("unsupported modifier: %s", m)
		}
		if seen[mod] {
			return nil, fmt.Errorf("duplicate modifier: %s", m)
		}
		seen[mod] = true
		hk.Modifiers = append(hk.Modifiers, mod)
	}
	return hk, nil
}

// TriggerWaiter blocks until a hotkey is pressed
type TriggerWaiter interface {
	Wait(ctx context.Context, hk *TriggerHotkey) error
}

// hookTrigger listens for the hotkey through a global gohook event hook
type hookTrigger struct {
	log *LogManager

	register func(when uint8, keys []string, cb func(hook.Event))
	start    func(tm ...int) chan hook.Event
	process  func(evChan <-chan hook.Event) chan bool
	end      func()
}

// NewHookTrigger returns a TriggerWaiter backed by gohook
func NewHookTrigger(log *LogManager) TriggerWaiter {
	return &hookTrigger{
		log:      log,
		register: hook.Register,
		start:    hook.Start,
		process:  hook.Process,
		end:      hook.End,
	}
}

// Wait returns once the hotkey's key is released with its modifiers held,
// so the combination is no longer down when typing starts.
func (t *hookTrigger) Wait(ctx context.Context, hk *TriggerHotkey) error {
	fired := make(chan struct{}, 1)
	t.register(hook.KeyUp, hk.Keys(), func(e hook.Event) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	t.log.LogInfo("Waiting for trigger hotkey", "hotkey", hk.Name)
	evChan := t.start()
	done := t.process(evChan)
	stopped := false
	defer func() {
		t.end()
		// Process sends on done once the event channel closes
		if !stopped {
			go func() { <-done }()
		}
	}()

	select {
	case <-fired:
		t.log.LogDebug("Trigger hotkey detected", "hotkey", hk.Name)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		stopped = true
		return errors.New("keyboard hook stopped before the hotkey was pressed")
	}
}
