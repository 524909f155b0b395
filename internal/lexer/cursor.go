package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/Tomok/cad-dsl/internal/source"
)

// Cursor — позиция в байтах внутри одного файла.
type Cursor struct {
	File *source.File
	Off  uint32
}

// NewCursor creates a cursor at the beginning of f.
func NewCursor(f *source.File) Cursor {
	return Cursor{File: f}
}

func (c *Cursor) limit() uint32 {
	n, err := safecast.Conv[uint32](len(c.File.Content))
	if err != nil {
		panic(fmt.Errorf("file content length overflow: %w", err))
	}
	return n
}

// EOF reports whether the cursor is past the last byte.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt returns the byte n positions ahead, or 0 past EOF.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.limit() {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Bump advances by one byte.
func (c *Cursor) Bump() {
	if !c.EOF() {
		c.Off++
	}
}

// Slice returns the raw bytes in [start, c.Off).
func (c *Cursor) Slice(start uint32) []byte {
	return c.File.Content[start:c.Off]
}

// SpanFrom builds a span from start to the current offset.
func (c *Cursor) SpanFrom(start uint32) source.Span {
	return source.Span{File: c.File.ID, Start: start, End: c.Off}
}
