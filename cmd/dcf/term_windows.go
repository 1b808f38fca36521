//go:build windows

package main

// detectTerminalWidth falls back to COLUMNS; output is treated as uncolored.
func detectTerminalWidth() (int, bool) {
	return columnsEnv(), false
}
