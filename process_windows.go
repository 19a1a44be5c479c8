//go:build windows

package main

import (
	"golang.org/x/sys/windows"
)

const stillActive = 259

// isProcessRunning opens pid and checks it has not exited. FindProcess
// cannot answer this on Windows.
func isProcessRunning(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == stillActive
}
