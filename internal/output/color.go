package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// sprintfFunc matches fmt.Sprintf so plain and colored formatting interchange.
type sprintfFunc func(format string, a ...interface{}) string

// ColorScheme provides color functions for the output elements of a report:
// barcodes, success and error status, table headers, and durations.
type ColorScheme struct {
	Barcode  sprintfFunc
	Success  sprintfFunc
	Error    sprintfFunc
	Header   sprintfFunc
	Duration sprintfFunc

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme
// Colors are automatically disabled for non-TTY outputs or when noColor is true
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	if noColor || !isTTY(w) {
		return plainScheme()
	}
	return ansiScheme()
}

// plainScheme formats everything with fmt.Sprintf, no escape codes.
func plainScheme() *ColorScheme {
	return &ColorScheme{
		Barcode:  fmt.Sprintf,
		Success:  fmt.Sprintf,
		Error:    fmt.Sprintf,
		Header:   fmt.Sprintf,
		Duration: fmt.Sprintf,
		Disabled: true,
	}
}

func ansiScheme() *ColorScheme {
	return &ColorScheme{
		Barcode:  color.New(color.FgCyan, color.Bold).Sprintf,
		Success:  color.New(color.FgGreen).Sprintf,
		Error:    color.New(color.FgRed, color.Bold).Sprintf,
		Header:   color.New(color.FgWhite, color.Bold).Sprintf,
		Duration: color.New(color.FgBlue).Sprintf,
	}
}

// isTTY checks if the writer is a TTY
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// StatusColor returns the error or success function based on outcome status
func (cs *ColorScheme) StatusColor(hasError bool) sprintfFunc {
	if hasError {
		return cs.Error
	}
	return cs.Success
}
