package types

import (
	"testing"

	"github.com/Tomok/cad-dsl/internal/ast"
)

func TestBinaryResultArithmetic(t *testing.T) {
	tests := []struct {
		name        string
		op          ast.BinaryOp
		left, right Kind
		want        Kind
		ok          bool
	}{
		{"length plus length", ast.BinaryAdd, KindLength, KindLength, KindLength, true},
		{"angle minus angle", ast.BinarySub, KindAngle, KindAngle, KindAngle, true},
		{"area plus area", ast.BinaryAdd, KindArea, KindArea, KindArea, true},
		{"length times scalar", ast.BinaryMul, KindLength, KindF64, KindLength, true},
		{"scalar times length", ast.BinaryMul, KindF64, KindLength, KindLength, true},
		{"length times length is area", ast.BinaryMul, KindLength, KindLength, KindArea, true},
		{"length over length is scalar", ast.BinaryDiv, KindLength, KindLength, KindF64, true},
		{"length over scalar", ast.BinaryDiv, KindLength, KindF64, KindLength, true},
		{"area over length", ast.BinaryDiv, KindArea, KindLength, KindLength, true},
		{"int modulo", ast.BinaryMod, KindI32, KindI32, KindI32, true},
		{"float power", ast.BinaryPow, KindF64, KindF64, KindF64, true},

		// без неявных повышений
		{"int plus float rejected", ast.BinaryAdd, KindI32, KindF64, KindError, false},
		{"length plus angle rejected", ast.BinaryAdd, KindLength, KindAngle, KindError, false},
		{"length plus scalar rejected", ast.BinaryAdd, KindLength, KindF64, KindError, false},
		{"angle times angle rejected", ast.BinaryMul, KindAngle, KindAngle, KindError, false},
		{"float modulo rejected", ast.BinaryMod, KindF64, KindF64, KindError, false},
		{"int power rejected", ast.BinaryPow, KindI32, KindI32, KindError, false},
		{"bool plus bool rejected", ast.BinaryAdd, KindBool, KindBool, KindError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BinaryResult(tt.op, tt.left, tt.right)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("BinaryResult(%v, %v, %v) = (%v, %v), want (%v, %v)",
					tt.op, tt.left, tt.right, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBinaryResultErrorCascade(t *testing.T) {
	// ошибочный операнд даёт Error без повторной диагностики
	got, ok := BinaryResult(ast.BinaryAdd, KindError, KindLength)
	if !ok || got != KindError {
		t.Fatalf("Error operand: got (%v, %v), want (KindError, true)", got, ok)
	}
	got, ok = BinaryResult(ast.BinaryMul, KindUnknown, KindLength)
	if !ok || got != KindUnknown {
		t.Fatalf("Unknown operand: got (%v, %v), want (KindUnknown, true)", got, ok)
	}
}

func TestKindIsNumeric(t *testing.T) {
	numeric := []Kind{KindI32, KindF64, KindReal, KindAlgebraic, KindLength, KindAngle, KindArea}
	for _, k := range numeric {
		if !k.IsNumeric() {
			t.Fatalf("%v should be numeric", k)
		}
	}
	other := []Kind{KindBool, KindUnit, KindPoint, KindStruct, KindArray, KindReference, KindFn}
	for _, k := range other {
		if k.IsNumeric() {
			t.Fatalf("%v should not be numeric", k)
		}
	}
}
