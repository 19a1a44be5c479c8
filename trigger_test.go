package main

import (
	"context"
	"sync"
	"testing"
	"time"

	hook "github.com/robotn/gohook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTriggerHotkey(t *testing.T) {
	tests := []struct {
		in        string
		modifiers []string
		key       string
	}{
		{"ctrl+shift+f9", []string{"ctrl", "shift"}, "f9"},
		{"F5", nil, "f5"},
		{"win+escape", []string{"cmd"}, "esc"},
		{"Control + Alt + Delete", []string{"ctrl", "alt"}, "delete"},
		{"alt+k", []string{"alt"}, "k"},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			hk, err := ParseTriggerHotkey(test.in)
			require.NoError(t, err)
			assert.Equal(t, test.in, hk.Name)
			assert.Equal(t, test.modifiers, hk.Modifiers)
			assert.Equal(t, test.key, hk.Key)
			assert.Equal(t, append(append([]string{}, test.modifiers...), test.key), hk.Keys())
		})
	}
}

func TestParseTriggerHotkeyErrors(t *testing.T) {
	for _, in := range []string{"", "ctrl+", "+a", "ctrl+nope", "hyper+a", "ctrl+ctrl+a", "control+ctrl+a", "f13"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTriggerHotkey(in)
			assert.Error(t, err)
		})
	}
}

// fakeHook stands in for gohook. Its process loop ends with an unbuffered
// send on the done channel, like hook.Process.
type fakeHook struct {
	cb       func(hook.Event)
	events   chan hook.Event
	closeMu  sync.Once
	exited   chan struct{}
	endCalls int
}

func newFakeHook(press, stopEarly bool) *fakeHook {
	f := &fakeHook{events: make(chan hook.Event, 1), exited: make(chan struct{})}
	if press {
		f.events <- hook.Event{Kind: hook.KeyUp}
	}
	if stopEarly {
		f.close()
	}
	return f
}

func (f *fakeHook) close() {
	f.closeMu.Do(func() { close(f.events) })
}

func (f *fakeHook) trigger() *hookTrigger {
	return &hookTrigger{
		log:      discardLogManager(),
		register: func(_ uint8, _ []string, cb func(hook.Event)) { f.cb = cb },
		start:    func(...int) chan hook.Event { return f.events },
		process: func(evChan <-chan hook.Event) chan bool {
			out := make(chan bool)
			go func() {
				defer close(f.exited)
				for ev := range evChan {
					f.cb(ev)
				}
				out <- true
			}()
			return out
		},
		end: func() {
			f.endCalls++
			f.close()
		},
	}
}

func TestHookTriggerWaitReleasesProcessLoop(t *testing.T) {
	hk, err := ParseTriggerHotkey("f9")
	require.NoError(t, err)

	tests := []struct {
		name      string
		press     bool
		stopEarly bool
		cancel    bool
		wantErr   string
	}{
		{name: "fired", press: true},
		{name: "cancelled", cancel: true, wantErr: context.Canceled.Error()},
		{name: "hook stopped", stopEarly: true, wantErr: "keyboard hook stopped"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFakeHook(test.press, test.stopEarly)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if test.cancel {
				cancel()
			}

			err := f.trigger().Wait(ctx, hk)
			if test.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.wantErr)
			}
			assert.Equal(t, 1, f.endCalls)

			select {
			case <-f.exited:
			case <-time.After(2 * time.Second):
				t.Fatal("hook process loop still blocked after Wait returned")
			}
		})
	}
}
