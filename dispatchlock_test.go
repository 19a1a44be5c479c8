package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystroker.lock")
	first := NewDispatchLock(path)
	require.NoError(t, first.TryLock())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	pid, running, err := first.Owner()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
	assert.True(t, running)

	second := NewDispatchLock(path)
	assert.ErrorIs(t, second.TryLock(), ErrLockHeld)

	// releasing a lock that was never acquired leaves the file alone
	second.Release()
	assert.FileExists(t, path)

	first.Release()
	assert.NoFileExists(t, path)
	first.Release()

	require.NoError(t, second.TryLock())
	second.Release()
}

func TestDispatchLockReclaimsStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"dead owner", "4194304"},
		{"garbage", "not a pid"},
		{"empty", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "keystroker.lock")
			require.NoError(t, os.WriteFile(path, []byte(test.content), 0600))

			lock := NewDispatchLock(path)
			lock.isRunning = func(int) bool { return false }
			require.NoError(t, lock.TryLock())
			defer lock.Release()

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))
		})
	}
}

func TestDispatchLockOwnerWithoutFile(t *testing.T) {
	lock := NewDispatchLock(filepath.Join(t.TempDir(), "keystroker.lock"))
	pid, running, err := lock.Owner()
	require.NoError(t, err)
	assert.Zero(t, pid)
	assert.False(t, running)
}
