package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of an error.
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// Position is a line/column location in a textual IR source file. It is
// the zero value ({0, 0}) for diagnostics about JSON IR, which carries no
// source text to point into.
type Position struct {
	Line   int
	Column int
}

// IsZero reports whether p carries no source location.
func (p Position) IsZero() bool { return p.Line == 0 && p.Column == 0 }

// CompilerError represents a structured diagnostic with suggestions and
// context. A diagnostic about textual IR carries a Position into source;
// one about JSON IR instead names the Function and InstrIndex it concerns.
type CompilerError struct {
	Level       ErrorLevel
	Code        string
	Message     string
	Position    Position
	Length      int
	Function    string
	InstrIndex  int // -1 when not applicable
	Suggestions []Suggestion
	Notes       []string
	HelpText    string
}

// Error implements the error interface, returning the diagnostic's
// message so a CompilerError can be used directly as a Go error.
func (e CompilerError) Error() string {
	return e.Message
}

// Suggestion represents a suggested fix.
type Suggestion struct {
	Message     string
	Replacement string
	Position    Position
	Length      int
}

// ErrorReporter formats diagnostics against an optional textual source.
// When no source was given (the JSON IR case), FormatError falls back to
// a location line naming the function and instruction index instead of a
// source-line excerpt.
type ErrorReporter struct {
	filename string
	source   string
	lines    []string
}

// NewErrorReporter creates a reporter for a textual source file.
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

// NewIRReporter creates a reporter with no source text, for diagnostics
// about JSON IR where there is nothing to point a caret at.
func NewIRReporter(filename string) *ErrorReporter {
	return &ErrorReporter{filename: filename}
}

// FormatError formats a diagnostic with Rust-like styling and suggestions.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var result strings.Builder

	levelColor := er.getLevelColor(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if err.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(err.Level)), err.Code, err.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n", levelColor(string(err.Level)), err.Message))
	}

	if !err.Position.IsZero() && len(er.lines) > 0 {
		er.formatSourceContext(&result, err, dim, bold)
	} else if err.Function != "" {
		loc := er.filename
		if loc == "" {
			loc = "<program>"
		}
		if err.InstrIndex >= 0 {
			result.WriteString(fmt.Sprintf(" %s %s, function %q, instruction %d\n", dim("-->"), loc, err.Function, err.InstrIndex))
		} else {
			result.WriteString(fmt.Sprintf(" %s %s, function %q\n", dim("-->"), loc, err.Function))
		}
	}

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		result.WriteString(fmt.Sprintf(" %s %s %s\n", dim("│"), noteColor("note:"), note))
	}

	if len(err.Suggestions) > 0 {
		suggestionColor := color.New(color.FgCyan).SprintFunc()
		for i, suggestion := range err.Suggestions {
			if i == 0 {
				result.WriteString(fmt.Sprintf(" %s %s: %s\n", suggestionColor("help"), suggestionColor("try"), suggestion.Message))
			} else {
				result.WriteString(fmt.Sprintf("      %s\n", suggestion.Message))
			}
		}
	}

	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf(" %s %s\n", dim("│"), helpColor("help: ")+err.HelpText))
	}

	result.WriteString("\n")
	return result.String()
}

func (er *ErrorReporter) formatSourceContext(result *strings.Builder, err CompilerError, dim, bold func(...interface{}) string) {
	lineNumberWidth := er.getLineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", lineNumberWidth)

	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", indent, dim("-->"), er.filename, err.Position.Line, err.Position.Column))
	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if err.Position.Line > 1 && err.Position.Line-1 < len(er.lines) {
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", lineNumberWidth, err.Position.Line-1)), dim("│"), er.lines[err.Position.Line-2]))
	}

	if err.Position.Line <= len(er.lines) && err.Position.Line > 0 {
		lineContent := er.lines[err.Position.Line-1]
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", lineNumberWidth, err.Position.Line)), dim("│"), lineContent))

		marker := er.createMarker(err.Position.Column, err.Length, err.Level)
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), marker))
	}

	if err.Position.Line < len(er.lines) {
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", lineNumberWidth, err.Position.Line+1)), dim("│"), er.lines[err.Position.Line]))
	}
}

func (er *ErrorReporter) getLevelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))

	markerColor := color.New(color.FgRed, color.Bold).SprintFunc()
	if level == Warning {
		markerColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	}

	marker := strings.Repeat("^", length)
	return spaces + markerColor(marker)
}

func (er *ErrorReporter) getLineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
