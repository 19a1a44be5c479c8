package main

import (
	"context"
	"fmt"
	"time"
)

// Player sends parsed key events to a keyboard, one at a time
type Player struct {
	kb    KeyPresser
	pause time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPlayer creates a player that waits pause after every key release.
func NewPlayer(kb KeyPresser, pause time.Duration) *Player {
	return &Player{
		kb:    kb,
		pause: pause,
		sleep: sleepContext,
	}
}

// Play sends events in order. Pauses and the inter-key pause block until
// they elapse or ctx is done. If playback stops early, keys that were
// pressed and not yet released are released before returning.
func (p *Player) Play(ctx context.Context, events []KeyEvent) (err error) {
	var down []int
	defer func() {
		if err != nil {
			p.releaseAll(down)
		}
	}()

	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}

		if ev.Kind == EventPause {
			if err := p.sleep(ctx, ev.Delay); err != nil {
				return err
			}
			continue
		}

		if ev.Pressed {
			if err := p.kb.Press(ev.Code); err != nil {
				return fmt.Errorf("event %d: press %s: %w", i, KeyName(ev.Code), err)
			}
			down = append(down, ev.Code)
			continue
		}

		if err := p.kb.Release(ev.Code); err != nil {
			return fmt.Errorf("event %d: release %s: %w", i, KeyName(ev.Code), err)
		}
		down = removeLast(down, ev.Code)
		if p.pause > 0 {
			if err := p.sleep(ctx, p.pause); err != nil {
				return err
			}
		}
	}
	return nil
}

// releaseAll lifts keys still down, newest first. Errors are ignored; the
// keyboard has already failed or the caller gave up.
func (p *Player) releaseAll(down []int) {
	for i := len(down) - 1; i >= 0; i-- {
		_ = p.kb.Release(down[i])
	}
}

func removeLast(codes []int, code int) []int {
	for i := len(codes) - 1; i >= 0; i-- {
		if codes[i] == code {
			return append(codes[:i], codes[i+1:]...)
		}
	}
	return codes
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
