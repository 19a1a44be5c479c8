package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSleeps replaces the player's sleep with one that only records
func recordSleeps(p *Player) *[]time.Duration {
	var slept []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return &slept
}

func TestPlayerPlaysInOrder(t *testing.T) {
	kb := newFakeKeyboard()
	events := concat(shifted('A'), []KeyEvent{PauseFor(2 * time.Second)}, tapEvents('B'))

	p := NewPlayer(kb, 0)
	slept := recordSleeps(p)

	require.NoError(t, p.Play(context.Background(), events))
	assert.Equal(t, concat(shifted('A'), tapEvents('B')), kb.events)
	assert.Equal(t, []time.Duration{2 * time.Second}, *slept)
}

func TestPlayerPausesAfterEveryRelease(t *testing.T) {
	kb := newFakeKeyboard()
	p := NewPlayer(kb, 10*time.Millisecond)
	slept := recordSleeps(p)

	require.NoError(t, p.Play(context.Background(), concat(tapEvents('A'), tapEvents('B'))))
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond}, *slept)
}

func TestPlayerReleasesHeldKeysOnFailure(t *testing.T) {
	kb := newFakeKeyboard()
	kb.failAt = 2 // pressing A

	p := NewPlayer(kb, 0)
	err := p.Play(context.Background(), shifted('A'))

	require.Error(t, err)
	assert.ErrorIs(t, err, errFakeKeyboard)
	assert.Contains(t, err.Error(), "event 1: press A")
	assert.Equal(t, []KeyEvent{KeyDown(vkShift), KeyUp(vkShift)}, kb.events)
}

func TestPlayerStopsOnCancelledContext(t *testing.T) {
	kb := newFakeKeyboard()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPlayer(kb, 0).Play(ctx, tapEvents('A'))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, kb.events)
}

func TestPlayerCancelledDuringPause(t *testing.T) {
	kb := newFakeKeyboard()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPlayer(kb, 0)
	p.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	events := concat(
		[]KeyEvent{KeyDown(vkControl)},
		tapEvents('A'),
		[]KeyEvent{PauseFor(time.Second)},
		tapEvents('B'),
		[]KeyEvent{KeyUp(vkControl)})
	err := p.Play(ctx, events)

	assert.ErrorIs(t, err, context.Canceled)
	want := concat([]KeyEvent{KeyDown(vkControl)}, tapEvents('A'), []KeyEvent{KeyUp(vkControl)})
	assert.Equal(t, want, kb.events)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

func TestPlayerOrderIsRepeatable(t *testing.T) {
	events, err := ParseKeys("^+(ab){PAUSE 1}%{F4}~", ParseOptions{}, USLayout)
	require.NoError(t, err)

	var runs [][]KeyEvent
	for i := 0; i < 3; i++ {
		kb := newFakeKeyboard()
		p := NewPlayer(kb, time.Millisecond)
		recordSleeps(p)
		require.NoError(t, p.Play(context.Background(), events))
		runs = append(runs, kb.events)
	}
	assert.Equal(t, runs[0], runs[1])
	assert.Equal(t, runs[0], runs[2])
}
