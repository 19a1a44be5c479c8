package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryManager(t *testing.T) {
	rm := NewRetryManager(3, 0, discardLogManager())

	calls := 0
	err := rm.Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return ErrLockHeld
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = rm.Retry(context.Background(), func() error {
		calls++
		return ErrLockHeld
	})
	assert.ErrorIs(t, err, ErrLockHeld)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestRetryManagerStopsOnCancel(t *testing.T) {
	rm := NewRetryManager(5, 1<<40, discardLogManager())
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := rm.Retry(ctx, func() error {
		calls++
		cancel()
		return ErrLockHeld
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNotificationManager(t *testing.T) {
	type sent struct{ kind, title, message string }

	tests := []struct {
		name    string
		enabled bool
		success bool
		errors  bool
		want    []sent
	}{
		{"disabled", false, true, true, nil},
		{"all", true, true, true, []sent{
			{"notify", "Keystroker", "done"},
			{"alert", "Keystroker Error", "broken"},
		}},
		{"errors only", true, false, true, []sent{{"alert", "Keystroker Error", "broken"}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Notifications.Enabled = test.enabled
			config.Notifications.ShowSuccess = test.success
			config.Notifications.ShowErrors = test.errors

			var got []sent
			nm := NewNotificationManager(config, discardLogManager())
			nm.notify = func(title, message, _ string) error {
				got = append(got, sent{"notify", title, message})
				return nil
			}
			nm.alert = func(title, message, _ string) error {
				got = append(got, sent{"alert", title, message})
				return errors.New("no notification daemon")
			}

			nm.NotifySuccess("done")
			nm.NotifyError("broken")
			assert.Equal(t, test.want, got)
		})
	}
}
