package types

import (
	"testing"

	"github.com/Tomok/cad-dsl/internal/source"
)

func TestInternerBuiltinsSeeded(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	tests := []struct {
		id   TypeID
		kind Kind
	}{
		{b.Bool, KindBool},
		{b.I32, KindI32},
		{b.F64, KindF64},
		{b.Length, KindLength},
		{b.Angle, KindAngle},
		{b.Area, KindArea},
		{b.Point, KindPoint},
		{b.Unknown, KindUnknown},
		{b.Error, KindError},
	}
	for _, tt := range tests {
		if tt.id == NoTypeID {
			t.Fatalf("builtin for %v not seeded", tt.kind)
		}
		if got := in.KindOf(tt.id); got != tt.kind {
			t.Fatalf("KindOf(%d) = %v, want %v", tt.id, got, tt.kind)
		}
	}
}

func TestInternerStructuralDedup(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	a1 := in.Intern(MakeArray(b.Length, 3))
	a2 := in.Intern(MakeArray(b.Length, 3))
	if a1 != a2 {
		t.Fatalf("same array shape interned twice: %d vs %d", a1, a2)
	}
	a3 := in.Intern(MakeArray(b.Length, 4))
	if a3 == a1 {
		t.Fatal("different count collapsed into same TypeID")
	}

	r1 := in.Intern(MakeReference(b.Point))
	r2 := in.Intern(MakeReference(b.Point))
	if r1 != r2 {
		t.Fatalf("same reference shape interned twice: %d vs %d", r1, r2)
	}
}

func TestInternerCompatible(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	if !in.Compatible(b.Length, b.Length) {
		t.Fatal("Length incompatible with itself")
	}
	if in.Compatible(b.Length, b.Angle) {
		t.Fatal("Length compatible with Angle")
	}
	// Unknown и Error совместимы со всем — подавление каскада
	if !in.Compatible(b.Length, b.Unknown) || !in.Compatible(b.Unknown, b.Length) {
		t.Fatal("Unknown must be compatible with everything")
	}
	if !in.Compatible(b.Length, b.Error) || !in.Compatible(b.Error, b.Length) {
		t.Fatal("Error must be compatible with everything")
	}
}

func TestInternerFormat(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	strings := source.NewInterner()

	arr := in.Intern(MakeArray(b.Point, 3))
	ref := in.Intern(MakeReference(b.Point))

	tests := []struct {
		id   TypeID
		want string
	}{
		{b.Length, "Length"},
		{b.Bool, "Bool"},
		{arr, "[Point; 3]"},
		{ref, "&Point"},
	}
	for _, tt := range tests {
		if got := in.Format(tt.id, strings); got != tt.want {
			t.Fatalf("Format(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRegisterStructAndFields(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	strings := source.NewInterner()

	name := strings.Intern("Rect")
	id := in.RegisterStruct(name, source.Span{})
	if in.KindOf(id) != KindStruct {
		t.Fatalf("KindOf(struct) = %v", in.KindOf(id))
	}

	w := strings.Intern("width")
	h := strings.Intern("height")
	in.SetStructFields(id, []StructField{
		{Name: w, Type: b.Length},
		{Name: h, Type: b.Length, Container: false},
	})

	field, ok := in.StructFieldByName(id, w)
	if !ok || field.Type != b.Length {
		t.Fatalf("StructFieldByName(width) = (%+v, %v)", field, ok)
	}
	if _, ok := in.StructFieldByName(id, strings.Intern("depth")); ok {
		t.Fatal("found a field that was never set")
	}
	if got := in.Format(id, strings); got != "Rect" {
		t.Fatalf("Format(struct) = %q, want %q", got, "Rect")
	}
}

func TestRegisterFn(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	sig := in.RegisterFn([]TypeID{b.Angle}, b.F64)
	info, ok := in.FnInfo(sig)
	if !ok {
		t.Fatal("FnInfo missed a registered fn")
	}
	if len(info.Params) != 1 || info.Params[0] != b.Angle || info.Ret != b.F64 {
		t.Fatalf("FnInfo = %+v", info)
	}

	// без возвращаемого типа — Unit
	sig2 := in.RegisterFn(nil, NoTypeID)
	info2, _ := in.FnInfo(sig2)
	if in.KindOf(info2.Ret) != KindUnit {
		t.Fatalf("default return = %v, want Unit", in.KindOf(info2.Ret))
	}
}

func TestContainerField(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	strings := source.NewInterner()

	id := in.RegisterStruct(strings.Intern("Assembly"), source.Span{})
	parts := strings.Intern("parts")
	in.SetStructFields(id, []StructField{
		{Name: strings.Intern("origin"), Type: b.Point},
		{Name: parts, Type: b.Point, Container: true},
	})

	field, ok := in.ContainerField(id)
	if !ok || field.Name != parts {
		t.Fatalf("ContainerField = (%+v, %v)", field, ok)
	}
	if _, ok := in.ContainerField(b.Length); ok {
		t.Fatal("non-struct type has a container field")
	}
}
