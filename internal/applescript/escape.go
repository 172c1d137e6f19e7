// Package applescript builds AppleScript source and runs it through an
// external interpreter.
package applescript

import "strings"

// lineJoin rebuilds a literal newline when the interpreter evaluates the
// expression. linefeed is ASCII 10; AppleScript's return would yield CR.
const lineJoin = " & linefeed & "

// crJoin rebuilds a bare carriage return.
const crJoin = " & return & "

// Escape renders text as an AppleScript string expression that evaluates
// back to exactly text.
//
// Single-line input becomes one quoted literal. Input containing LF or CR
// becomes a parenthesized concatenation of literals joined with linefeed
// and return, so no literal spans a line.
func Escape(text string) string {
	if !strings.ContainsAny(text, "\r\n") {
		return quote(text)
	}

	lines := strings.Split(text, "\n")
	parts := make([]string, len(lines))
	for i, line := range lines {
		segs := strings.Split(line, "\r")
		for j, seg := range segs {
			segs[j] = quote(seg)
		}
		parts[i] = strings.Join(segs, crJoin)
	}
	return "(" + strings.Join(parts, lineJoin) + ")"
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
