// Package styled holds the console styles of the tblexport CLI.
package styled

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// DimmedColor returns a dimmed *color.Color to print secondary information.
func DimmedColor() *color.Color {
	return color.RGB(128, 128, 128)
}

// Success prints a status line prefixed with a check mark.
func Success(w io.Writer, format string, a ...any) {
	successColor.Fprintf(w, "✅ "+format+"\n", a...)
}

// Failure prints a status line prefixed with a cross mark.
func Failure(w io.Writer, format string, a ...any) {
	failureColor.Fprintf(w, "❌ "+format+"\n", a...)
}

// Info prints a status line prefixed with marker.
func Info(w io.Writer, marker string, format string, a ...any) {
	fmt.Fprint(w, marker+" ")
	infoColor.Fprintf(w, format+"\n", a...)
}
