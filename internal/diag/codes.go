package diag

import (
	"fmt"
)

// Code identifies a diagnostic class. Ranges: 1xxx lexical, 2xxx syntax,
// 3xxx semantic (resolution and typing).
type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexUnknownUnit        Code = 1004

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectType         Code = 2004
	SynExpectExpression   Code = 2005
	SynUnclosedDelimiter  Code = 2006
	SynForMissingIn       Code = 2007
	SynUnexpectedTopLevel Code = 2008
	SynExpectColon        Code = 2009
	SynBadArraySize       Code = 2010

	// Семантические: разрешение имён
	SemaInfo                Code = 3000
	SemaUndefinedName       Code = 3001
	SemaDuplicateDefinition Code = 3002
	SemaUnknownType         Code = 3003
	SemaContainerConflict   Code = 3004

	// Семантические: типизация
	SemaTypeMismatch          Code = 3100
	SemaInvalidOperation      Code = 3101
	SemaArgumentCountMismatch Code = 3102
	SemaInvalidReference      Code = 3103
	SemaUnknownField          Code = 3104
	SemaNotCallable           Code = 3105
	SemaIndexOutOfBounds      Code = 3106
	SemaArraySizeMismatch     Code = 3107
)

func (c Code) String() string {
	switch {
	case c >= 3000:
		return fmt.Sprintf("SEMA%04d", uint16(c))
	case c >= 2000:
		return fmt.Sprintf("SYN%04d", uint16(c))
	case c >= 1000:
		return fmt.Sprintf("LEX%04d", uint16(c))
	default:
		return fmt.Sprintf("DIAG%04d", uint16(c))
	}
}
