package wire

import (
	"testing"
)

func TestDecoder_ReadValue_Atom(t *testing.T) {
	d := newTestDecoder(t, "FOO ")
	v, err := d.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue() error: %v", err)
	}
	if v.Kind != KindAtom || v.Atom() != "FOO" {
		t.Errorf("ReadValue() = %+v, want atom FOO", v)
	}
}

func TestDecoder_ReadValue_Nil(t *testing.T) {
	d := newTestDecoder(t, "NIL ")
	v, err := d.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue() error: %v", err)
	}
	if v.Kind != KindNil {
		t.Errorf("ReadValue() kind = %v, want KindNil", v.Kind)
	}
}

func TestDecoder_ReadValue_NestedList(t *testing.T) {
	d := newTestDecoder(t, `(1 (2 3 (4 5)) NIL "six")`)
	v, err := d.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue() error: %v", err)
	}
	if v.Kind != KindList || len(v.List) != 4 {
		t.Fatalf("ReadValue() = %+v, want a 4-element list", v)
	}
	if v.List[0].Atom() != "1" {
		t.Errorf("List[0] = %+v, want atom 1", v.List[0])
	}
	inner := v.List[1]
	if inner.Kind != KindList || len(inner.List) != 3 {
		t.Fatalf("List[1] = %+v, want a 3-element list", inner)
	}
	deepest := inner.List[2]
	if deepest.Kind != KindList || len(deepest.List) != 2 {
		t.Fatalf("List[1].List[2] = %+v, want a 2-element list", deepest)
	}
	if v.List[2].Kind != KindNil {
		t.Errorf("List[2] kind = %v, want KindNil", v.List[2].Kind)
	}
	if v.List[3].Kind != KindString || v.List[3].Str() != "six" {
		t.Errorf("List[3] = %+v, want string \"six\"", v.List[3])
	}
}

func TestDecoder_ReadValue_DeeplyNested(t *testing.T) {
	// 200 levels deep — exercises the explicit-stack parser rather than
	// native recursion, which would risk a stack overflow at this depth
	// in a naive implementation.
	depth := 200
	input := ""
	for i := 0; i < depth; i++ {
		input += "("
	}
	input += "X"
	for i := 0; i < depth; i++ {
		input += ")"
	}
	input += " "

	d := newTestDecoder(t, input)
	v, err := d.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue() error: %v", err)
	}
	got := 0
	for v.Kind == KindList {
		if len(v.List) != 1 {
			t.Fatalf("unexpected list shape at depth %d: %d items", got, len(v.List))
		}
		v = v.List[0]
		got++
	}
	if got != depth {
		t.Errorf("parsed depth = %d, want %d", got, depth)
	}
	if v.Atom() != "X" {
		t.Errorf("innermost value = %+v, want atom X", v)
	}
}
