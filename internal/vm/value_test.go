package vm

import "testing"

func TestValue_IntRoundTrip(t *testing.T) {
	v := MakeInt(-42)
	if v.Int() != -42 {
		t.Errorf("Int() = %d, want -42", v.Int())
	}
	if v.Width() != 1 {
		t.Errorf("Width() = %d, want 1", v.Width())
	}
}

func TestValue_LongRoundTrip(t *testing.T) {
	v := MakeLong(1 << 40)
	if v.Long() != 1<<40 {
		t.Errorf("Long() = %d, want %d", v.Long(), int64(1)<<40)
	}
	if v.Width() != 2 {
		t.Errorf("Width() = %d, want 2", v.Width())
	}
}

func TestValue_FloatDoubleRoundTrip(t *testing.T) {
	f := MakeFloat(3.5)
	if f.Float() != 3.5 {
		t.Errorf("Float() = %v, want 3.5", f.Float())
	}
	d := MakeDouble(-2.75)
	if d.Double() != -2.75 {
		t.Errorf("Double() = %v, want -2.75", d.Double())
	}
}

func TestValue_ReferenceWidthAlwaysOne(t *testing.T) {
	r := MakeRef(Ref(7))
	if !r.IsReference() {
		t.Fatal("expected IsReference")
	}
	if r.Ref() != 7 {
		t.Errorf("Ref() = %d, want 7", r.Ref())
	}
	if r.Width() != 1 {
		t.Errorf("Width() = %d, want 1", r.Width())
	}
}

func TestZeroValue(t *testing.T) {
	ref := ZeroValue(true, 1)
	if !ref.IsReference() || ref.Ref() != NullRef {
		t.Errorf("ZeroValue(ref) = %v, want null reference", ref)
	}
	prim := ZeroValue(false, 1)
	if prim.IsReference() || prim.Int() != 0 {
		t.Errorf("ZeroValue(prim) = %v, want zero int", prim)
	}
}

func TestValue_CellsRoundTrip(t *testing.T) {
	one := MakeInt(123)
	cs := one.cells()
	if len(cs) != 1 {
		t.Fatalf("cells() len = %d, want 1", len(cs))
	}
	back := primitiveFromCells(1, cs...)
	if back.Int() != 123 {
		t.Errorf("round trip Int() = %d, want 123", back.Int())
	}

	wide := MakeLong(-9)
	cs = wide.cells()
	if len(cs) != 2 {
		t.Fatalf("cells() len = %d, want 2", len(cs))
	}
	back = primitiveFromCells(2, cs...)
	if back.Long() != -9 {
		t.Errorf("round trip Long() = %d, want -9", back.Long())
	}

	ref := MakeRef(Ref(5))
	cs = ref.cells()
	if len(cs) != 1 {
		t.Fatalf("cells() len = %d, want 1", len(cs))
	}
	backRef := referenceFromCell(cs[0])
	if backRef.Ref() != 5 {
		t.Errorf("round trip Ref() = %d, want 5", backRef.Ref())
	}
}
