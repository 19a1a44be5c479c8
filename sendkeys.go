package main

import (
	"context"
	"fmt"
	"time"
)

// SendOptions configures SendKeys
type SendOptions struct {
	Pause          time.Duration // wait after each key release
	WithSpaces     bool
	WithTabs       bool
	WithNewlines   bool
	TurnOffNumLock bool
}

// DefaultSendOptions pauses 50ms between keys and turns NUMLOCK off while
// sending.
func DefaultSendOptions() SendOptions {
	return SendOptions{
		Pause:          time.Duration(defaultPauseSeconds * float64(time.Second)),
		TurnOffNumLock: true,
	}
}

// ParseOptions returns the whitespace handling part of the options
func (o SendOptions) ParseOptions() ParseOptions {
	return ParseOptions{
		WithSpaces:   o.WithSpaces,
		WithTabs:     o.WithTabs,
		WithNewlines: o.WithNewlines,
	}
}

// SendKeys types keys into the active window, e.g.
//
//	SendKeys(ctx, kb, "+hello{SPACE}+world+1", DefaultSendOptions())
//
// types "Hello World!". A syntax error is returned before anything is sent.
func SendKeys(ctx context.Context, kb Keyboard, keys string, opts SendOptions) error {
	events, err := ParseKeys(keys, opts.ParseOptions(), kb)
	if err != nil {
		return err
	}
	return SendEvents(ctx, kb, events, opts)
}

// SendEvents plays already parsed events. When opts.TurnOffNumLock is set
// NUMLOCK is switched off first and restored on every way out, including
// playback failures.
func SendEvents(ctx context.Context, kb Keyboard, events []KeyEvent, opts SendOptions) (err error) {
	if opts.TurnOffNumLock {
		numLock := NewNumLockManager(kb)
		if err := numLock.DisableNumLock(); err != nil {
			return fmt.Errorf("turn off numlock: %w", err)
		}
		defer func() {
			if rerr := numLock.RestoreNumLock(); rerr != nil && err == nil {
				err = fmt.Errorf("restore numlock: %w", rerr)
			}
		}()
	}

	return NewPlayer(kb, opts.Pause).Play(ctx, events)
}
