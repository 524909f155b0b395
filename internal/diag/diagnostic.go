package diag

import (
	"github.com/Tomok/cad-dsl/internal/source"
)

// Note attaches a secondary span with an explanation to a diagnostic,
// e.g. the first declaration site of a duplicated name.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one record of the compilation's error stream. The semantic
// core only appends these; rendering is the CLI's business.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// New builds a diagnostic without notes.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// NewError is the common case: every semantic condition here is a hard error.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns a copy with an extra note appended.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
