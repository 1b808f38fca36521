//go:build !windows

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// detectTerminalWidth reports the width of stdout and whether it is a terminal.
func detectTerminalWidth() (int, bool) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws == nil {
		return columnsEnv(), false
	}
	if ws.Col == 0 {
		return columnsEnv(), true
	}
	return int(ws.Col), true
}
