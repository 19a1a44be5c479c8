package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrLockHeld is returned by TryLock while another live process holds the lock
var ErrLockHeld = errors.New("another keystroker is typing")

// DispatchLock keeps two keystroker processes from typing into the same
// session at once. The lock file holds the PID of its owner.
type DispatchLock struct {
	lockFile  *os.File
	lockPath  string
	isRunning func(pid int) bool
}

// NewDispatchLock creates a lock backed by the file at lockPath
func NewDispatchLock(lockPath string) *DispatchLock {
	return &DispatchLock{
		lockPath:  lockPath,
		isRunning: isProcessRunning,
	}
}

// TryLock attempts to acquire the lock. A lock file left behind by a process
// that is no longer running is removed and taken over.
func (dl *DispatchLock) TryLock() error {
	return dl.tryLock(true)
}

func (dl *DispatchLock) tryLock(reclaim bool) error {
	file, err := os.OpenFile(dl.lockPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) && reclaim {
			return dl.checkExistingOwner()
		}
		if os.IsExist(err) {
			return ErrLockHeld
		}
		return fmt.Errorf("create lock file: %w", err)
	}

	if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		file.Close()
		os.Remove(dl.lockPath)
		return fmt.Errorf("write PID to lock file: %w", err)
	}

	dl.lockFile = file
	return nil
}

// checkExistingOwner takes the lock over when its owner is gone
func (dl *DispatchLock) checkExistingOwner() error {
	pid, err := dl.readOwner()
	if err == nil && dl.isRunning(pid) {
		return ErrLockHeld
	}

	// unreadable, garbage or dead owner: stale
	os.Remove(dl.lockPath)
	return dl.tryLock(false)
}

func (dl *DispatchLock) readOwner() (int, error) {
	data, err := os.ReadFile(dl.lockPath)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return 0, fmt.Errorf("invalid PID in lock file: %s", pidStr)
	}
	return pid, nil
}

// Owner returns the PID recorded in the lock file and whether it is alive
func (dl *DispatchLock) Owner() (int, bool, error) {
	pid, err := dl.readOwner()
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return pid, dl.isRunning(pid), nil
}

// Release releases the lock. It is a no-op when the lock is not held.
func (dl *DispatchLock) Release() {
	if dl.lockFile == nil {
		return
	}
	dl.lockFile.Close()
	dl.lockFile = nil
	os.Remove(dl.lockPath)
}
