package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

// The log levels used by the tools. Higher levels are more verbose.
const (
	Quiet   = 0
	Info    = 1
	Verbose = 2
	Detail  = 3
	Debug   = 4
)

// Level is the current logging level - the maximum level of logs that
// will actually be output.
var Level int = Info

// Target is where the logging will be output to.
var Target io.Writer = os.Stdout

// Enabled reports whether logs at the given level are being output.
func Enabled(level int) bool {
	return Level >= level
}

// Log outputs v like fmt.Print if level is enabled.
func Log(level int, v ...any) {
	if Enabled(level) {
		fmt.Fprint(Target, v...)
	}
}

// Ln outputs v like fmt.Println if level is enabled.
func Ln(level int, v ...any) {
	if Enabled(level) {
		fmt.Fprintln(Target, v...)
	}
}

// F outputs v formatted by f like fmt.Printf if level is enabled.
func F(level int, f string, v ...any) {
	if Enabled(level) {
		fmt.Fprintf(Target, f, v...)
	}
}

// Warn outputs a warning, unless the level is below Quiet.
func Warn(v ...any) {
	if Enabled(Quiet) {
		fmt.Fprintln(Target, append([]any{"Warning:"}, v...)...)
	}
}

// Time outputs the given message, and returns a function that outputs
// its arguments followed by the time elapsed since then. Typical use:
//
//	defer log.Time(log.Info, "Loading...")(" done in")
func Time(level int, f string, v ...any) func(...any) {
	if !Enabled(level) {
		return func(...any) {}
	}
	fmt.Fprintf(Target, f, v...)
	start := time.Now()
	return func(v ...any) {
		dur := time.Since(start)
		fmt.Fprintln(Target, append(v, dur)...)
	}
}
