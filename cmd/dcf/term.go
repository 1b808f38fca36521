package main

import (
	"os"
	"strconv"
)

// columnsEnv reads the COLUMNS variable set by most shells.
func columnsEnv() int {
	if cols, ok := os.LookupEnv("COLUMNS"); ok {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// colWidthFor picks the cell wrap width for a terminal of the given width.
func colWidthFor(termWidth int) int {
	const minWidth, maxWidth = 16, 40
	w := termWidth / 5
	switch {
	case termWidth <= 0, w > maxWidth:
		return maxWidth
	case w < minWidth:
		return minWidth
	}
	return w
}
