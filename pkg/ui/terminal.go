package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

// ASCIILogo is printed before interactive runs
const ASCIILogo = `
 _                         _
| | ___ __   _____      __| | ____ _ _ __ _ __ ___   __ _
| |/ / '_ \ / _ \ \ /\ / /| |/ / _' | '__| '_ ' _ \ / _' |
|   <| | | |  __/\ V  V / |   < (_| | |  | | | | | | (_| |
|_|\_\_| |_|\___| \_/\_/  |_|\_\__,_|_|  |_| |_| |_|\__,_|
        Reddit data retrieval from the command line
`

var (
	mu     sync.Mutex
	out    io.Writer = os.Stdout
	colors           = IsTerminal(os.Stdout)
)

// Color functions for terminal output
var (
	Cyan    = colorize(text.FgCyan)
	Yellow  = colorize(text.FgYellow)
	Red     = colorize(text.FgRed)
	Green   = colorize(text.FgGreen)
	Magenta = colorize(text.FgMagenta)
	Dim     = colorize(text.Faint)
)

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// SetOutput redirects console output. Passing nil restores stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// SetColor turns colored output on or off
func SetColor(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	colors = enabled
}

// ColorEnabled reports whether output is currently colored
func ColorEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return colors
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

// colorize returns a function that wraps text with the given attribute while
// colors are enabled
func colorize(attr text.Color) func(string) string {
	return func(s string) string {
		if !ColorEnabled() {
			return s
		}
		return attr.Sprint(s)
	}
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	fmt.Fprint(writer(), Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(writer(), Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(writer(), Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(writer(), Green(msg))
}

// PrintInfo prints a labelled value
func PrintInfo(label string, value string) {
	fmt.Fprintf(writer(), "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(writer(), Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(writer(), Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	fmt.Fprintln(writer(), Magenta(msg))
}

// PrintElapsed prints how long a run took, rounded to milliseconds
func PrintElapsed(d time.Duration) {
	fmt.Fprintln(writer(), Dim("Elapsed "+d.Round(time.Millisecond).String()))
}
