package ast

import (
	"github.com/Tomok/cad-dsl/internal/source"
)

// File is the root of one parsed source file.
type File struct {
	Span  source.Span
	Items []ItemID
}

// Files manages allocation of file nodes.
type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	if capHint == 0 {
		capHint = 4
	}
	return &Files{Arena: NewArena[File](capHint)}
}

func (f *Files) New(span source.Span) FileID {
	return FileID(f.Arena.Allocate(File{Span: span}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
