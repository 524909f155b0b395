package parser

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет.
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precComparison     = 3 // == != < <= > >=
	precAdditive       = 4 // + -
	precMultiplicative = 5 // * / %
	precPower          = 6 // ^ (правоассоциативно)
)

// binaryPrec возвращает (приоритет, правоассоциативный);
// (-1, false) если токен — не бинарный оператор.
func binaryPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.OrOr:
		return precLogicalOr, false
	case token.AndAnd:
		return precLogicalAnd, false
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false
	case token.Caret:
		return precPower, true
	default:
		return -1, false
	}
}

func binaryOp(kind token.Kind) ast.BinaryOp {
	switch kind {
	case token.Plus:
		return ast.BinaryAdd
	case token.Minus:
		return ast.BinarySub
	case token.Star:
		return ast.BinaryMul
	case token.Slash:
		return ast.BinaryDiv
	case token.Percent:
		return ast.BinaryMod
	case token.Caret:
		return ast.BinaryPow
	case token.EqEq:
		return ast.BinaryEq
	case token.BangEq:
		return ast.BinaryNe
	case token.Lt:
		return ast.BinaryLt
	case token.Gt:
		return ast.BinaryGt
	case token.LtEq:
		return ast.BinaryLe
	case token.GtEq:
		return ast.BinaryGe
	case token.AndAnd:
		return ast.BinaryAnd
	case token.OrOr:
		return ast.BinaryOr
	default:
		// таблица приоритетов не должна была нас сюда пустить
		return ast.BinaryAdd
	}
}

func unaryOp(kind token.Kind) (ast.UnaryOp, bool) {
	switch kind {
	case token.Minus:
		return ast.UnaryNeg, true
	case token.Bang:
		return ast.UnaryNot, true
	case token.Amp:
		return ast.UnaryRef, true
	case token.Star:
		return ast.UnaryDeref, true
	default:
		return ast.UnaryNeg, false
	}
}
