package vm_test

import (
	"context"
	"testing"

	"github.com/cnkfz/lumen/internal/bytecode"
	"github.com/cnkfz/lumen/internal/classfile"
	"github.com/cnkfz/lumen/internal/natives"
	"github.com/cnkfz/lumen/internal/vm"
)

// newFixtureMachine builds a Machine backed by a fixed set of
// pre-built ClassDescriptors, bridging classfile.Builder output through
// the Loader/Parser interface pair by keying on the class name itself.
func newFixtureMachine(classes map[string]*classfile.ClassDescriptor, reg vm.NativeRegistry) *vm.Machine {
	loader := classfile.LoaderFunc(func(name string) ([]byte, error) {
		if _, ok := classes[name]; !ok {
			return nil, classfile.ErrClassNotFound
		}
		return []byte(name), nil
	})
	parser := classfile.ParserFunc(func(data []byte) (*classfile.ClassDescriptor, error) {
		return classes[string(data)], nil
	})
	return vm.New(vm.Options{Loader: loader, Parser: parser, Natives: reg})
}

func objectClass() *classfile.ClassDescriptor {
	return classfile.NewBuilder(classfile.ObjectClassName, "").Build()
}

func voidSig(name string) classfile.Signature {
	return classfile.Signature{Name: name, Descriptor: classfile.Descriptor{Return: classfile.PrimitiveType(classfile.Void)}}
}

func intSig(name string, params ...classfile.Type) classfile.Signature {
	return classfile.Signature{Name: name, Descriptor: classfile.Descriptor{Params: params, Return: classfile.PrimitiveType(classfile.Int)}}
}

// TestInvoke_EmptyMain is scenario 1 of §8's literal end-to-end
// scenarios: a class declaring static void main() with body `return;`
// completes and returns the unit value.
func TestInvoke_EmptyMain(t *testing.T) {
	hello := classfile.NewBuilder("Hello", classfile.ObjectClassName).
		MethodBuilder(voidSig("main"), classfile.Public|classfile.Static).
		Op(bytecode.Return).
		Locals(0).Stack(0).
		Done().Build()

	classes := map[string]*classfile.ClassDescriptor{
		classfile.ObjectClassName: objectClass(),
		"Hello":                   hello,
	}
	m := newFixtureMachine(classes, natives.NewRegistry())
	v, err := m.Invoke(context.Background(), "Hello", "main", voidSig("main").Descriptor, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if v != (vm.Value{}) {
		t.Errorf("expected the zero unit value from a void return, got %v", v)
	}
}

// TestInvoke_IntegerReturn is scenario 2: a method that pushes 42 and
// returns it.
func TestInvoke_IntegerReturn(t *testing.T) {
	m1 := classfile.NewBuilder("M", classfile.ObjectClassName).
		MethodBuilder(intSig("answer"), classfile.Public|classfile.Static).
		Imm(bytecode.Bipush, 42).
		Op(bytecode.Ireturn).
		Locals(0).Stack(1).
		Done().Build()

	classes := map[string]*classfile.ClassDescriptor{
		classfile.ObjectClassName: objectClass(),
		"M":                       m1,
	}
	m := newFixtureMachine(classes, natives.NewRegistry())
	v, err := m.Invoke(context.Background(), "M", "answer", intSig("answer").Descriptor, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if v.Int() != 42 {
		t.Errorf("answer() = %d, want 42", v.Int())
	}
}

// TestInvoke_VirtualDispatch is scenario 3: A.f() returns 1, B extends
// A overrides f() to return 2; a static pick(A a) forwards to a.f()
// and must observe the receiver's runtime class, not its static type.
func TestInvoke_VirtualDispatch(t *testing.T) {
	pickSig := intSig("pick", classfile.ClassType("A"))

	a := classfile.NewBuilder("A", classfile.ObjectClassName).
		MethodBuilder(classfile.Signature{Name: "f", Descriptor: classfile.Descriptor{Return: classfile.PrimitiveType(classfile.Int)}}, classfile.Public).
		Imm(bytecode.Bipush, 1).
		Op(bytecode.Ireturn).
		Locals(1).Stack(1).
		Done().
		MethodBuilder(pickSig, classfile.Public|classfile.Static).
		Imm(bytecode.Aload, 0).
		Sym(bytecode.Invokevirtual, "A#f()int").
		Op(bytecode.Ireturn).
		Locals(1).Stack(1).
		Done().Build()

	b := classfile.NewBuilder("B", "A").
		MethodBuilder(classfile.Signature{Name: "f", Descriptor: classfile.Descriptor{Return: classfile.PrimitiveType(classfile.Int)}}, classfile.Public).
		Imm(bytecode.Bipush, 2).
		Op(bytecode.Ireturn).
		Locals(1).Stack(1).
		Done().Build()

	classes := map[string]*classfile.ClassDescriptor{
		classfile.ObjectClassName: objectClass(),
		"A":                       a,
		"B":                       b,
	}
	m := newFixtureMachine(classes, natives.NewRegistry())

	arc, err := m.Classes.Resolve("A")
	if err != nil {
		t.Fatalf("Resolve(A): %v", err)
	}
	brc, err := m.Classes.Resolve("B")
	if err != nil {
		t.Fatalf("Resolve(B): %v", err)
	}
	aInst, err := m.AllocateObject(arc)
	if err != nil {
		t.Fatalf("AllocateObject(A): %v", err)
	}
	bInst, err := m.AllocateObject(brc)
	if err != nil {
		t.Fatalf("AllocateObject(B): %v", err)
	}

	got, err := m.Invoke(context.Background(), "A", "pick", pickSig.Descriptor, []vm.Value{vm.MakeRef(bInst)})
	if err != nil {
		t.Fatalf("Invoke(pick, B instance): %v", err)
	}
	if got.Int() != 2 {
		t.Errorf("pick(new B()) = %d, want 2 (override wins)", got.Int())
	}

	got, err = m.Invoke(context.Background(), "A", "pick", pickSig.Descriptor, []vm.Value{vm.MakeRef(aInst)})
	if err != nil {
		t.Fatalf("Invoke(pick, A instance): %v", err)
	}
	if got.Int() != 1 {
		t.Errorf("pick(new A()) = %d, want 1 (base implementation)", got.Int())
	}
}

// TestInvoke_NativeTrap is scenario 5: sun/misc/Unsafe.addressSize()
// is a registered native that returns 4, reached through an ordinary
// invokevirtual bytecode instruction.
func TestInvoke_NativeTrap(t *testing.T) {
	unsafeClass := classfile.NewBuilder("sun/misc/Unsafe", classfile.ObjectClassName).Build()
	addressSizeSig := classfile.Signature{
		Name: "addressSize",
		Descriptor: classfile.Descriptor{
			Return: classfile.PrimitiveType(classfile.Int),
		},
	}
	caller := classfile.NewBuilder("NativeCaller", classfile.ObjectClassName).
		MethodBuilder(intSig("callAddressSize"), classfile.Public|classfile.Static).
		Sym(bytecode.New, "sun/misc/Unsafe").
		Sym(bytecode.Invokevirtual, callSymbol("sun/misc/Unsafe", addressSizeSig)).
		Op(bytecode.Ireturn).
		Locals(0).Stack(1).
		Done().Build()

	classes := map[string]*classfile.ClassDescriptor{
		classfile.ObjectClassName: objectClass(),
		"sun/misc/Unsafe":         unsafeClass,
		"NativeCaller":            caller,
	}
	m := newFixtureMachine(classes, natives.Default())
	v, err := m.Invoke(context.Background(), "NativeCaller", "callAddressSize", intSig("callAddressSize").Descriptor, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if v.Int() != 4 {
		t.Errorf("callAddressSize() = %d, want 4", v.Int())
	}
}

// TestInvoke_UncaughtException is scenario 6: a method throws an
// instance of E with no handler; invoke surfaces an UncaughtException
// naming E.
func TestInvoke_UncaughtException(t *testing.T) {
	e := classfile.NewBuilder("E", classfile.ObjectClassName).Build()
	thrower := classfile.NewBuilder("Thrower", classfile.ObjectClassName).
		MethodBuilder(voidSig("boom"), classfile.Public|classfile.Static).
		Sym(bytecode.New, "E").
		Op(bytecode.Athrow).
		Locals(0).Stack(1).
		Done().Build()

	classes := map[string]*classfile.ClassDescriptor{
		classfile.ObjectClassName: objectClass(),
		"E":                       e,
		"Thrower":                 thrower,
	}
	m := newFixtureMachine(classes, natives.NewRegistry())
	_, err := m.Invoke(context.Background(), "Thrower", "boom", voidSig("boom").Descriptor, nil)
	if err == nil {
		t.Fatal("expected an UncaughtException")
	}
	uncaught, ok := err.(*vm.UncaughtException)
	if !ok {
		t.Fatalf("error = %T (%v), want *vm.UncaughtException", err, err)
	}
	if uncaught.ClassName != "E" {
		t.Errorf("UncaughtException.ClassName = %q, want E", uncaught.ClassName)
	}
}

// callSymbol mirrors the unexported packing internal/vm uses for
// Invoke* operands ("owner#name(params)ret"); tests build it directly
// since MethodBuilder.Sym takes the packed form.
func callSymbol(owner string, sig classfile.Signature) string {
	return owner + "#" + sig.String()
}
