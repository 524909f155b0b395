package types

import "github.com/Tomok/cad-dsl/internal/ast"

// binKey addresses the binary operator table by exact operand kinds.
type binKey struct {
	Op    ast.BinaryOp
	Left  Kind
	Right Kind
}

// binTable — таблица арифметики с учётом размерностей.
// Неявных числовых промоушенов нет: I32 + F64 — ошибка.
var binTable = map[binKey]Kind{
	{ast.BinaryAdd, KindLength, KindLength}: KindLength,
	{ast.BinaryAdd, KindAngle, KindAngle}:   KindAngle,
	{ast.BinaryAdd, KindArea, KindArea}:     KindArea,
	{ast.BinaryAdd, KindI32, KindI32}:       KindI32,
	{ast.BinaryAdd, KindF64, KindF64}:       KindF64,
	{ast.BinaryAdd, KindReal, KindReal}:     KindReal,

	{ast.BinarySub, KindLength, KindLength}: KindLength,
	{ast.BinarySub, KindAngle, KindAngle}:   KindAngle,
	{ast.BinarySub, KindArea, KindArea}:     KindArea,
	{ast.BinarySub, KindI32, KindI32}:       KindI32,
	{ast.BinarySub, KindF64, KindF64}:       KindF64,
	{ast.BinarySub, KindReal, KindReal}:     KindReal,

	// Length * Length даёт площадь; скаляр сохраняет размерность.
	{ast.BinaryMul, KindLength, KindLength}: KindArea,
	{ast.BinaryMul, KindLength, KindF64}:    KindLength,
	{ast.BinaryMul, KindF64, KindLength}:    KindLength,
	{ast.BinaryMul, KindI32, KindI32}:       KindI32,
	{ast.BinaryMul, KindF64, KindF64}:       KindF64,
	{ast.BinaryMul, KindReal, KindReal}:     KindReal,

	// Length / Length — безразмерное отношение.
	{ast.BinaryDiv, KindLength, KindLength}: KindF64,
	{ast.BinaryDiv, KindLength, KindF64}:    KindLength,
	{ast.BinaryDiv, KindArea, KindLength}:   KindLength,
	{ast.BinaryDiv, KindI32, KindI32}:       KindI32,
	{ast.BinaryDiv, KindF64, KindF64}:       KindF64,
	{ast.BinaryDiv, KindReal, KindReal}:     KindReal,

	{ast.BinaryMod, KindI32, KindI32}: KindI32,

	{ast.BinaryPow, KindF64, KindF64}:   KindF64,
	{ast.BinaryPow, KindReal, KindReal}: KindReal,
}

// BinaryResult computes the result kind of an arithmetic operator.
// Unknown/Error просачиваются без диагностики; ok=false означает, что
// комбинация запрещена и нужен SemaInvalidOperation.
func BinaryResult(op ast.BinaryOp, left, right Kind) (Kind, bool) {
	if left == KindUnknown || right == KindUnknown {
		return KindUnknown, true
	}
	if left == KindError || right == KindError {
		return KindError, true
	}
	if k, ok := binTable[binKey{op, left, right}]; ok {
		return k, true
	}
	return KindError, false
}
