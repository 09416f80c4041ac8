package natives

import (
	"testing"

	"github.com/cnkfz/lumen/internal/classfile"
	"github.com/cnkfz/lumen/internal/vm"
)

func sigFor(name string, ret classfile.Type, params ...classfile.Type) classfile.Signature {
	return classfile.Signature{Name: name, Descriptor: classfile.Descriptor{Params: params, Return: ret}}
}

func TestRegistry_LookupHit(t *testing.T) {
	r := NewRegistry()
	called := false
	fn := vm.NativeFunc(func(m *vm.Machine, args []vm.Value) (vm.Value, error) {
		called = true
		return vm.Value{}, nil
	})
	sig := sigFor("addressSize", classfile.PrimitiveType(classfile.Int), classfile.ClassType(classfile.ObjectClassName))
	r.Register("sun/misc/Unsafe", sig, 1, fn)

	got, arity, ok := r.Lookup("sun/misc/Unsafe", sig)
	if !ok {
		t.Fatal("expected lookup hit")
	}
	if arity != 1 {
		t.Errorf("arity = %d, want 1", arity)
	}
	if _, err := got(nil, nil); err != nil {
		t.Fatalf("calling looked-up fn: %v", err)
	}
	if !called {
		t.Error("expected the registered function to run")
	}
}

func TestRegistry_LookupMissClassAndSignature(t *testing.T) {
	r := NewRegistry()
	sig := sigFor("foo", classfile.PrimitiveType(classfile.Void))
	r.Register("a/b/C", sig, 0, vm.NativeFunc(func(*vm.Machine, []vm.Value) (vm.Value, error) { return vm.Value{}, nil }))

	if _, _, ok := r.Lookup("a/b/Wrong", sig); ok {
		t.Error("expected miss for an unregistered class")
	}
	other := sigFor("bar", classfile.PrimitiveType(classfile.Void))
	if _, _, ok := r.Lookup("a/b/C", other); ok {
		t.Error("expected miss for an unregistered signature")
	}
}

// TestRegistry_DescriptorSlashesNotSplit exercises §4.8's path-splitting
// rule: the owner's '/' segments form the tree path, but a signature that
// itself references a slash-bearing class name (via its descriptor string)
// is stored as one unsplit leaf key.
func TestRegistry_DescriptorSlashesNotSplit(t *testing.T) {
	r := NewRegistry()
	sig := sigFor("getName", classfile.ClassType("java/lang/String"), classfile.ClassType("java/lang/Class"))
	fn := vm.NativeFunc(func(*vm.Machine, []vm.Value) (vm.Value, error) { return vm.Value{}, nil })
	r.Register("java/lang/Class", sig, 1, fn)

	if _, _, ok := r.Lookup("java/lang/Class", sig); !ok {
		t.Fatal("expected exact-signature lookup to hit")
	}
	// A class path that happens to share a prefix with the descriptor's
	// embedded class name must not match.
	if _, _, ok := r.Lookup("java/lang", sig); ok {
		t.Error("lookup must not treat descriptor slashes as owner path segments")
	}
}

func TestRegistry_MultipleLeavesSameOwner(t *testing.T) {
	r := NewRegistry()
	a := sigFor("foo", classfile.PrimitiveType(classfile.Void))
	b := sigFor("foo", classfile.PrimitiveType(classfile.Int))
	fnA := vm.NativeFunc(func(*vm.Machine, []vm.Value) (vm.Value, error) { return vm.MakeInt(1), nil })
	fnB := vm.NativeFunc(func(*vm.Machine, []vm.Value) (vm.Value, error) { return vm.MakeInt(2), nil })
	r.Register("X", a, 0, fnA)
	r.Register("X", b, 0, fnB)

	gotA, _, ok := r.Lookup("X", a)
	if !ok {
		t.Fatal("expected hit for signature a")
	}
	va, _ := gotA(nil, nil)
	if va.Int() != 1 {
		t.Errorf("signature a returned %d, want 1", va.Int())
	}

	gotB, _, ok := r.Lookup("X", b)
	if !ok {
		t.Fatal("expected hit for signature b (different return type, same name)")
	}
	vb, _ := gotB(nil, nil)
	if vb.Int() != 2 {
		t.Errorf("signature b returned %d, want 2", vb.Int())
	}
}
