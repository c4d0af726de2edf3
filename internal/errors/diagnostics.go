package errors

import "fmt"

// DiagnosticBuilder provides a fluent interface for attaching suggestions
// and notes to a diagnostic before it's reported.
type DiagnosticBuilder struct {
	err CompilerError
}

func newDiagnostic(code, message string) *DiagnosticBuilder {
	return &DiagnosticBuilder{err: CompilerError{Level: Error, Code: code, Message: message, InstrIndex: -1}}
}

// WithFunction attaches the function a diagnostic concerns.
func (b *DiagnosticBuilder) WithFunction(name string) *DiagnosticBuilder {
	b.err.Function = name
	return b
}

// WithInstrIndex attaches the offending instruction's index within its
// function.
func (b *DiagnosticBuilder) WithInstrIndex(i int) *DiagnosticBuilder {
	b.err.InstrIndex = i
	return b
}

// WithPosition attaches a textual-source location.
func (b *DiagnosticBuilder) WithPosition(pos Position, length int) *DiagnosticBuilder {
	b.err.Position = pos
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggested fix.
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a context note.
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp sets the diagnostic's help text.
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed diagnostic.
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// PreconditionMissing reports a pass invoked without the section it
// depends on (e.g. "cfg" without "blocks" having run first). Reported on
// stderr with a non-zero exit and no partial output, per the precondition
// failure contract.
func PreconditionMissing(pass, missingSection string) CompilerError {
	return newDiagnostic(ErrorPreconditionMissing,
		fmt.Sprintf("pass %q requires a %q section, which is not present", pass, missingSection)).
		WithSuggestion(fmt.Sprintf("run the %q pass first", missingSection)).
		Build()
}

// UnknownCommand reports an unrecognized pass/subcommand name.
func UnknownCommand(name string) CompilerError {
	return newDiagnostic(ErrorUnknownCommand, fmt.Sprintf("unrecognized command %q", name)).Build()
}

// MalformedInstruction reports an instruction missing a field its op
// requires. The core does not attempt recovery once this is detected;
// behavior is defined only on well-formed IR.
func MalformedInstruction(function string, index int, op, missingField string) CompilerError {
	return newDiagnostic(ErrorMalformedInstruction,
		fmt.Sprintf("%q instruction is missing required field %q", op, missingField)).
		WithFunction(function).
		WithInstrIndex(index).
		WithHelp(fmt.Sprintf("a %q instruction must carry %q", op, missingField)).
		Build()
}

// MalformedDocument reports a program/function document that doesn't
// match the expected wire shape at all.
func MalformedDocument(reason string) CompilerError {
	return newDiagnostic(ErrorMalformedDocument, fmt.Sprintf("malformed program: %s", reason)).Build()
}

// InternalInvariant reports a state the implementation believes it can
// never reach given well-formed input. This indicates a bug in the
// toolchain, not a problem with the user's input; callers should treat it
// as a panic-equivalent rather than a recoverable diagnostic.
func InternalInvariant(where, detail string) CompilerError {
	return newDiagnostic(ErrorInternalInvariant, fmt.Sprintf("internal invariant violated in %s: %s", where, detail)).Build()
}

// TextSyntaxError reports a syntax error in the textual IR surface.
func TextSyntaxError(message string, pos Position) CompilerError {
	return newDiagnostic(ErrorTextSyntax, message).WithPosition(pos, 1).Build()
}
