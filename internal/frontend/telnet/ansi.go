// Package telnet serves player sessions over plain Telnet, handling
// option negotiation, line-based input, and ANSI-colored output.
package telnet

import (
	"fmt"
	"strings"
)

// ANSI SGR escape sequences used when rendering to the client.
const (
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Dim       = "\033[2m"
	Italic    = "\033[3m"
	Underline = "\033[4m"

	// Foreground colors
	Black   = "\033[30m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	// Bright foreground colors
	BrightBlack   = "\033[90m"
	BrightRed     = "\033[91m"
	BrightGreen   = "\033[92m"
	BrightYellow  = "\033[93m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
	BrightWhite   = "\033[97m"

	// Background colors
	BgBlack   = "\033[40m"
	BgRed     = "\033[41m"
	BgGreen   = "\033[42m"
	BgYellow  = "\033[43m"
	BgBlue    = "\033[44m"
	BgMagenta = "\033[45m"
	BgCyan    = "\033[46m"
	BgWhite   = "\033[47m"
)

// Colorize styles text with an ANSI color code, appending a reset so
// the styling does not bleed into subsequent output.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf is Colorize over a fmt.Sprintf-formatted string.
func Colorf(color, format string, args ...interface{}) string {
	return color + fmt.Sprintf(format, args...) + Reset
}

// StripANSI removes every \033[...m escape sequence from s, leaving
// only printable text. The battle renderer uses it to measure the
// visible width of styled lines.
//
// Postcondition: The result contains no ANSI escape sequences.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			end := strings.IndexByte(s[i+2:], 'm')
			if end >= 0 {
				i += end + 3
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
