package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := prettyPrinter{w: w, fs: fs, opts: opts}
	for _, d := range bag.Items() {
		p.diagnostic(d)
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p *prettyPrinter) diagnostic(d diag.Diagnostic) {
	p.header(d.Primary, d.Severity, d.Code, d.Message)
	if p.opts.ShowSource {
		p.sourceLine(d.Primary)
	}
	if p.opts.ShowNotes {
		for _, note := range d.Notes {
			p.note(note)
		}
	}
}

func (p *prettyPrinter) header(span source.Span, sev diag.Severity, code diag.Code, msg string) {
	start, _ := p.fs.Resolve(span)
	path := formatPath(p.fs.Get(span.File), p.opts.PathMode, p.fs.BaseDir())
	fmt.Fprintf(p.w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		p.severity(sev), code.String(), msg)
}

func (p *prettyPrinter) note(n diag.Note) {
	start, _ := p.fs.Resolve(n.Span)
	path := formatPath(p.fs.Get(n.Span.File), p.opts.PathMode, p.fs.BaseDir())
	fmt.Fprintf(p.w, "  %s:%d:%d: note: %s\n", path, start.Line, start.Col, n.Msg)
	if p.opts.ShowSource {
		p.sourceLine(n.Span)
	}
}

// sourceLine prints the first line the span touches with a ^~~~ underline.
// Многострочные span'ы подчёркиваются до конца первой строки.
func (p *prettyPrinter) sourceLine(span source.Span) {
	start, end := p.fs.Resolve(span)
	file := p.fs.Get(span.File)
	line := file.GetLine(start.Line)
	if line == "" && start.Line != 1 {
		return
	}

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	} else if end.Line > start.Line {
		width = len(line) - int(start.Col) + 1
	}
	if width < 1 {
		width = 1
	}

	// табы в префиксе портят выравнивание каретки; заменяем на пробел
	prefix := strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		return r
	}, line[:min(int(start.Col)-1, len(line))])

	fmt.Fprintf(p.w, "  %s\n", line)
	underline := "^" + strings.Repeat("~", width-1)
	if p.opts.Color {
		underline = color.New(color.FgHiGreen, color.Bold).Sprint(underline)
	}
	fmt.Fprintf(p.w, "  %s%s\n", strings.Repeat(" ", len(prefix)), underline)
}

func (p *prettyPrinter) severity(sev diag.Severity) string {
	s := sev.String()
	if !p.opts.Color {
		return s
	}
	switch sev {
	case diag.SevError:
		return color.New(color.FgHiRed, color.Bold).Sprint(s)
	case diag.SevWarning:
		return color.New(color.FgHiYellow, color.Bold).Sprint(s)
	default:
		return color.New(color.FgHiCyan).Sprint(s)
	}
}
