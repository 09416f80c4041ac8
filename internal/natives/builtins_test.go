package natives

import (
	"testing"

	"github.com/cnkfz/lumen/internal/classfile"
	"github.com/cnkfz/lumen/internal/vm"
)

// bootstrapClasspath is the minimal fixture Default()'s doc comment
// promises: java/lang/Object, java/lang/Class (field "name"), and
// java/lang/String (field "value"), plus one ordinary class for
// exercising object-touching natives.
var bootstrapClasspath = classfile.MapLoader{
	"java/lang/Object": []byte(`{"name":"java/lang/Object"}`),
	"java/lang/Class": []byte(`{
		"name": "java/lang/Class", "super": "java/lang/Object",
		"fields": [{"name": "name", "type": "java/lang/String"}]
	}`),
	"java/lang/String": []byte(`{
		"name": "java/lang/String", "super": "java/lang/Object",
		"fields": [{"name": "value", "type": "char[]"}]
	}`),
	"Point": []byte(`{
		"name": "Point", "super": "java/lang/Object",
		"fields": [{"name": "x", "type": "int"}, {"name": "y", "type": "int"}]
	}`),
}

func newTestMachine(t *testing.T) *vm.Machine {
	t.Helper()
	return vm.New(vm.Options{
		Loader:  bootstrapClasspath,
		Parser:  classfile.JSONParser{},
		Natives: Default(),
	})
}

func TestFloatDoubleBitConversions(t *testing.T) {
	i, err := nativeFloatToIntBits(nil, []vm.Value{vm.MakeFloat(1.5)})
	if err != nil {
		t.Fatalf("floatToIntBits: %v", err)
	}
	f, err := nativeIntBitsToFloat(nil, []vm.Value{i})
	if err != nil {
		t.Fatalf("intBitsToFloat: %v", err)
	}
	if f.Float() != 1.5 {
		t.Errorf("round trip = %v, want 1.5", f.Float())
	}

	l, err := nativeDoubleToLongBits(nil, []vm.Value{vm.MakeDouble(-3.25)})
	if err != nil {
		t.Fatalf("doubleToLongBits: %v", err)
	}
	d, err := nativeLongBitsToDouble(nil, []vm.Value{l})
	if err != nil {
		t.Fatalf("longBitsToDouble: %v", err)
	}
	if d.Double() != -3.25 {
		t.Errorf("round trip = %v, want -3.25", d.Double())
	}
}

func TestNativeAddressSize(t *testing.T) {
	v, err := nativeAddressSize(nil, []vm.Value{vm.MakeRef(vm.NullRef)})
	if err != nil {
		t.Fatalf("addressSize: %v", err)
	}
	if v.Int() != 4 {
		t.Errorf("addressSize() = %d, want 4 (§8's literal native-trap scenario)", v.Int())
	}
}

func TestNativeIdentityHash(t *testing.T) {
	v, err := nativeIdentityHash(nil, []vm.Value{vm.MakeRef(vm.Ref(17))})
	if err != nil {
		t.Fatalf("identityHash: %v", err)
	}
	if v.Int() != 17 {
		t.Errorf("identityHash = %d, want 17", v.Int())
	}
}

func TestNativeNullReturn(t *testing.T) {
	v, err := nativeNullReturn(nil, nil)
	if err != nil {
		t.Fatalf("nullReturn: %v", err)
	}
	if v.Ref() != vm.NullRef {
		t.Error("expected a null reference")
	}
}

func TestNativeGetClassAndClassGetName(t *testing.T) {
	m := newTestMachine(t)
	pointRC, err := m.Classes.Resolve("Point")
	if err != nil {
		t.Fatalf("Resolve(Point): %v", err)
	}
	obj, err := m.AllocateObject(pointRC)
	if err != nil {
		t.Fatalf("AllocateObject: %v", err)
	}

	classVal, err := nativeGetClass(m, []vm.Value{vm.MakeRef(obj)})
	if err != nil {
		t.Fatalf("getClass: %v", err)
	}

	nameVal, err := nativeClassGetName(m, []vm.Value{classVal})
	if err != nil {
		t.Fatalf("getName: %v", err)
	}
	name, err := javaStringValue(m, nameVal.Ref())
	if err != nil {
		t.Fatalf("javaStringValue: %v", err)
	}
	if name != "Point" {
		t.Errorf("getClass().getName() = %q, want Point", name)
	}
}

func TestNativeGetClassOnNullIsNullPointer(t *testing.T) {
	m := newTestMachine(t)
	if _, err := nativeGetClass(m, []vm.Value{vm.MakeRef(vm.NullRef)}); err == nil {
		t.Error("expected a null-pointer error")
	}
}

func TestNativeClone(t *testing.T) {
	m := newTestMachine(t)
	pointRC, err := m.Classes.Resolve("Point")
	if err != nil {
		t.Fatalf("Resolve(Point): %v", err)
	}
	obj, err := m.AllocateObject(pointRC)
	if err != nil {
		t.Fatalf("AllocateObject: %v", err)
	}
	if err := m.PutField(obj, "x", vm.MakeInt(7)); err != nil {
		t.Fatalf("PutField: %v", err)
	}

	cloneVal, err := nativeClone(m, []vm.Value{vm.MakeRef(obj)})
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if cloneVal.Ref() == obj {
		t.Fatal("clone must allocate a distinct object")
	}
	x, err := m.GetField(cloneVal.Ref(), "x")
	if err != nil {
		t.Fatalf("GetField(x): %v", err)
	}
	if x.Int() != 7 {
		t.Errorf("cloned x = %d, want 7", x.Int())
	}
}

func TestNativeStringInternKeepsCanonicalReference(t *testing.T) {
	m := newTestMachine(t)
	a, err := m.NewString("hello")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	v, err := nativeStringIntern(m, []vm.Value{vm.MakeRef(a)})
	if err != nil {
		t.Fatalf("intern: %v", err)
	}
	if v.Ref() != a {
		t.Errorf("interning an already-canonical string changed its reference")
	}
}

func TestNativeCompareAndSwapInt(t *testing.T) {
	m := newTestMachine(t)
	pointRC, err := m.Classes.Resolve("Point")
	if err != nil {
		t.Fatalf("Resolve(Point): %v", err)
	}
	obj, err := m.AllocateObject(pointRC)
	if err != nil {
		t.Fatalf("AllocateObject: %v", err)
	}
	if err := m.PutField(obj, "x", vm.MakeInt(5)); err != nil {
		t.Fatalf("PutField: %v", err)
	}

	ok, err := nativeCompareAndSwapInt(m, []vm.Value{
		vm.MakeRef(obj), vm.Value{}, vm.MakeLong(1), vm.MakeInt(5), vm.MakeInt(9),
	})
	if err != nil {
		t.Fatalf("compareAndSwapInt: %v", err)
	}
	if ok.Int() != 1 {
		t.Fatal("expected a successful swap when the expected value matches")
	}
	x, err := m.GetField(obj, "x")
	if err != nil {
		t.Fatalf("GetField(x): %v", err)
	}
	if x.Int() != 9 {
		t.Errorf("x after swap = %d, want 9", x.Int())
	}

	failed, err := nativeCompareAndSwapInt(m, []vm.Value{
		vm.MakeRef(obj), vm.Value{}, vm.MakeLong(1), vm.MakeInt(123), vm.MakeInt(0),
	})
	if err != nil {
		t.Fatalf("compareAndSwapInt: %v", err)
	}
	if failed.Int() != 0 {
		t.Error("expected a failed swap when the expected value does not match")
	}
}
