package classfile

import "testing"

func TestParseType_Primitives(t *testing.T) {
	cases := map[string]Primitive{
		"boolean": Boolean,
		"byte":    Byte,
		"short":   Short,
		"char":    Char,
		"int":     Int,
		"long":    Long,
		"float":   Float,
		"double":  Double,
		"void":    Void,
	}
	for name, want := range cases {
		got, err := ParseType(name)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", name, err)
		}
		if !got.IsPrimitive() || got.Primitive() != want {
			t.Errorf("ParseType(%q) = %v, want primitive %v", name, got, want)
		}
	}
}

func TestParseType_Class(t *testing.T) {
	got, err := ParseType("java/lang/String")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if !got.IsClass() || got.ClassName() != "java/lang/String" {
		t.Errorf("ParseType(java/lang/String) = %v", got)
	}

	got, err = ParseType("Ljava/lang/Object;")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if !got.IsClass() || got.ClassName() != "java/lang/Object" {
		t.Errorf("ParseType(L...;) = %v", got)
	}
}

func TestParseType_Array(t *testing.T) {
	got, err := ParseType("int[]")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if !got.IsArray() {
		t.Fatalf("ParseType(int[]) not array: %v", got)
	}
	comp := got.Component()
	if !comp.IsPrimitive() || comp.Primitive() != Int {
		t.Errorf("component = %v, want int", comp)
	}

	got, err = ParseType("java/lang/String[]")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if got.String() != "java/lang/String[]" {
		t.Errorf("String() = %q", got.String())
	}
}

func TestParseType_Invalid(t *testing.T) {
	if _, err := ParseType(""); err == nil {
		t.Error("expected error for empty type")
	}
	if _, err := ParseType("nonsense-type"); err == nil {
		t.Error("expected error for unrecognized type")
	}
}

func TestParseDescriptor(t *testing.T) {
	d, err := ParseDescriptor("(int,java/lang/String)boolean")
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	if len(d.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(d.Params))
	}
	if d.Params[0].Primitive() != Int {
		t.Errorf("param 0 = %v", d.Params[0])
	}
	if d.Params[1].ClassName() != "java/lang/String" {
		t.Errorf("param 1 = %v", d.Params[1])
	}
	if d.Return.Primitive() != Boolean {
		t.Errorf("return = %v", d.Return)
	}
}

func TestParseDescriptor_NoArgs(t *testing.T) {
	d, err := ParseDescriptor("()void")
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	if len(d.Params) != 0 {
		t.Errorf("params = %d, want 0", len(d.Params))
	}
}

func TestParseDescriptor_Malformed(t *testing.T) {
	if _, err := ParseDescriptor("int)void"); err == nil {
		t.Error("expected error for descriptor missing leading (")
	}
}

func TestSignature_String(t *testing.T) {
	sig := Signature{Name: "add", Descriptor: Descriptor{
		Params: []Type{PrimitiveType(Int), PrimitiveType(Int)},
		Return: PrimitiveType(Int),
	}}
	want := "add(int,int)int"
	if got := sig.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestType_Equal(t *testing.T) {
	a := ArrayType(ClassType("java/lang/String"))
	b := ArrayType(ClassType("java/lang/String"))
	if !a.Equal(b) {
		t.Error("expected equal array types")
	}
	c := ArrayType(ClassType("java/lang/Object"))
	if a.Equal(c) {
		t.Error("expected unequal array types")
	}
}
