//go:build darwin

package main

func newSystemKeyboard(log *LogManager) (Keyboard, error) {
	return newRobotgoKeyboard(log)
}
