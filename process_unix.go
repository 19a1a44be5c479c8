//go:build !windows

package main

import (
	"os"
	"syscall"
)

// isProcessRunning sends signal 0 to pid
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || err == syscall.EPERM
}
