package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"muc/internal/ast"
)

// ErrorLevel is the severity of a reported diagnostic.
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError is a structured diagnostic with source context and
// optional suggestions, grounded on the teacher's errors.CompilerError.
type CompilerError struct {
	Level       ErrorLevel
	Code        string
	Message     string
	Position    ast.Position
	Length      int
	Suggestions []Suggestion
	Notes       []string
	HelpText    string
}

func (e CompilerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Level, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Level, e.Message)
}

// Suggestion is a proposed fix attached to a CompilerError.
type Suggestion struct {
	Message     string
	Replacement string
	Position    ast.Position
	Length      int
}

// ErrorReporter renders CompilerErrors against one source file as a
// Rust-style caret diagnostic: a colored header, a "-->" location
// line, a small window of surrounding source, and an optional trailer
// of suggestions/notes/help text. Grounded on the teacher's
// errors.ErrorReporter, but built around a shared gutter prefix
// ("<indent> │") and a contextWindow helper instead of repeating the
// same three near-identical before/current/after blocks inline.
type ErrorReporter struct {
	filename string
	lines    []string
}

func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// sourceLine is one line of the context window shown around a
// diagnostic's position, carat marked when it is the offending line.
type sourceLine struct {
	num    int
	text   string
	marked bool
}

// contextWindow returns up to three sourceLines: the line before pos
// (if any), the offending line itself (if pos is in range), and the
// line after (if any) — mirroring a compiler's "one line of before/
// after context" convention without three copy-pasted branches.
func (er *ErrorReporter) contextWindow(pos ast.Position) []sourceLine {
	var window []sourceLine
	if pos.Line > 1 && pos.Line-1 < len(er.lines) {
		window = append(window, sourceLine{num: pos.Line - 1, text: er.lines[pos.Line-2]})
	}
	if pos.Line > 0 && pos.Line <= len(er.lines) {
		window = append(window, sourceLine{num: pos.Line, text: er.lines[pos.Line-1], marked: true})
	}
	if pos.Line < len(er.lines) {
		window = append(window, sourceLine{num: pos.Line + 1, text: er.lines[pos.Line]})
	}
	return window
}

// FormatError renders err as a multi-line, colorized diagnostic.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var out strings.Builder
	dim := color.New(color.Faint)
	gutter := er.gutterWidth(err.Position.Line)
	indent := strings.Repeat(" ", gutter)

	out.WriteString(er.header(err))
	fmt.Fprintf(&out, "%s %s %s:%d:%d\n", indent, dim.Sprint("-->"), er.filename, err.Position.Line, err.Position.Column)
	fmt.Fprintf(&out, "%s %s\n", indent, dim.Sprint("│"))

	for _, line := range er.contextWindow(err.Position) {
		er.writeSourceLine(&out, gutter, dim, line)
		if line.marked {
			fmt.Fprintf(&out, "%s %s %s\n", indent, dim.Sprint("│"), er.marker(err.Position.Column, err.Length, err.Level))
		}
	}

	er.writeTrailer(&out, indent, dim, err)

	out.WriteString("\n")
	return out.String()
}

// header renders "<level>[<code>]: <message>" (or without the
// bracketed code when err.Code is empty).
func (er *ErrorReporter) header(err CompilerError) string {
	levelColor := er.levelColor(err.Level)
	if err.Code != "" {
		return fmt.Sprintf("%s[%s]: %s\n", levelColor.Sprint(string(err.Level)), err.Code, err.Message)
	}
	return fmt.Sprintf("%s: %s\n", levelColor.Sprint(string(err.Level)), err.Message)
}

func (er *ErrorReporter) writeSourceLine(out *strings.Builder, gutter int, dim *color.Color, line sourceLine) {
	number := fmt.Sprintf("%*d", gutter, line.num)
	if line.marked {
		fmt.Fprintf(out, "%s %s %s\n", color.New(color.Bold).Sprint(number), dim.Sprint("│"), line.text)
		return
	}
	fmt.Fprintf(out, "%s %s %s\n", dim.Sprint(number), dim.Sprint("│"), line.text)
}

// writeTrailer appends the suggestions block, then notes, then help
// text, each guarded on being non-empty — the three trailer sections
// share the same "<indent> │" gutter as the source window above them.
func (er *ErrorReporter) writeTrailer(out *strings.Builder, indent string, dim *color.Color, err CompilerError) {
	if len(err.Suggestions) > 0 {
		fmt.Fprintf(out, "%s %s\n", indent, dim.Sprint("│"))
		cyan := color.New(color.FgCyan)
		for i, s := range err.Suggestions {
			if i == 0 {
				fmt.Fprintf(out, "%s %s %s: %s\n", indent, cyan.Sprint("help"), cyan.Sprint("try"), s.Message)
			} else {
				fmt.Fprintf(out, "%s %s %s\n", indent, cyan.Sprint("    "), s.Message)
			}
			if s.Replacement != "" {
				fmt.Fprintf(out, "%s %s\n", indent, dim.Sprint("│"))
				replacement := strings.ReplaceAll(s.Replacement, "\n", fmt.Sprintf("\n%s %s ", indent, dim.Sprint("│")))
				fmt.Fprintf(out, "%s %s %s\n", indent, cyan.Sprint("│"), cyan.Sprint(replacement))
			}
		}
	}

	blue := color.New(color.FgBlue)
	for _, note := range err.Notes {
		fmt.Fprintf(out, "%s %s %s %s\n", indent, dim.Sprint("│"), blue.Sprint("note:"), note)
	}

	if err.HelpText != "" {
		green := color.New(color.FgGreen)
		fmt.Fprintf(out, "%s %s %s %s\n", indent, dim.Sprint("│"), green.Sprint("help:"), err.HelpText)
	}
}

func (er *ErrorReporter) levelColor(level ErrorLevel) *color.Color {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold)
	case Note:
		return color.New(color.FgBlue, color.Bold)
	case Help:
		return color.New(color.FgGreen, color.Bold)
	default: // Error, and anything unrecognized, reads as an error
		return color.New(color.FgRed, color.Bold)
	}
}

// marker underlines the offending span with length carets (at least
// one), indented to column.
func (er *ErrorReporter) marker(column, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))

	markerColor := color.New(color.FgRed, color.Bold)
	if level == Warning {
		markerColor = color.New(color.FgYellow, color.Bold)
	}
	return spaces + markerColor.Sprint(strings.Repeat("^", length))
}

// gutterWidth picks the line-number column width, at least 3 for
// visual alignment with short files.
func (er *ErrorReporter) gutterWidth(line int) int {
	return max(3, len(fmt.Sprintf("%d", line)))
}
