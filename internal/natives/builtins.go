package natives

import (
	"context"
	"math"
	"time"

	"github.com/cnkfz/lumen/internal/classfile"
	"github.com/cnkfz/lumen/internal/vm"
)

// Default returns a Registry populated with the bindings §4.8 requires
// at minimum: class-metadata queries, primitive-class lookup, identity
// hash, array copy, time queries, floating-point bit conversions,
// string interning, stack-trace fill-in, privileged-action
// trampolining, reflection caller-class queries, unsafe CAS/field-
// offset stubs, and noOp/noOp1/noOp2.
//
// It assumes the loaded classpath provides bootstrap classes
// "java/lang/Object", "java/lang/Class" (a single reference field
// "name"), and "java/lang/String" (a single reference field "value",
// per vm's stringClassName contract).
func Default() *Registry {
	r := NewRegistry()

	obj := classfile.ClassType(classfile.ObjectClassName)
	classType := classfile.ClassType("java/lang/Class")
	stringType := classfile.ClassType("java/lang/String")
	intType := classfile.PrimitiveType(classfile.Int)
	longType := classfile.PrimitiveType(classfile.Long)
	floatType := classfile.PrimitiveType(classfile.Float)
	doubleType := classfile.PrimitiveType(classfile.Double)
	boolType := classfile.PrimitiveType(classfile.Boolean)
	voidType := classfile.PrimitiveType(classfile.Void)

	sig := func(name string, ret classfile.Type, params ...classfile.Type) classfile.Signature {
		return classfile.Signature{Name: name, Descriptor: classfile.Descriptor{Params: params, Return: ret}}
	}

	// --- java/lang/Object: identity hash, class metadata, clone ---
	r.Register("java/lang/Object", sig("getClass", classType, obj), 1, nativeGetClass)
	r.Register("java/lang/Object", sig("hashCode", intType, obj), 1, nativeIdentityHash)
	r.Register("java/lang/Object", sig("clone", obj, obj), 1, nativeClone)

	// --- java/lang/Class: name/is-array queries ---
	r.Register("java/lang/Class", sig("getName", stringType, classType), 1, nativeClassGetName)
	r.Register("java/lang/Class", sig("isArray", boolType, classType), 1, nativeClassIsArray)
	r.Register("java/lang/Class", sig("forName", classType, stringType), 1, nativeClassForName)

	// --- java/lang/System: array copy, time queries ---
	r.Register("java/lang/System", sig("arraycopy", voidType, obj, intType, obj, intType, intType), 5, nativeArraycopy)
	r.Register("java/lang/System", sig("currentTimeMillis", longType), 0, nativeCurrentTimeMillis)
	r.Register("java/lang/System", sig("nanoTime", longType), 0, nativeNanoTime)
	r.Register("java/lang/System", sig("identityHashCode", intType, obj), 1, nativeIdentityHash)

	// --- floating-point bit conversions ---
	r.Register("java/lang/Float", sig("floatToIntBits", intType, floatType), 1, nativeFloatToIntBits)
	r.Register("java/lang/Float", sig("intBitsToFloat", floatType, intType), 1, nativeIntBitsToFloat)
	r.Register("java/lang/Double", sig("doubleToLongBits", longType, doubleType), 1, nativeDoubleToLongBits)
	r.Register("java/lang/Double", sig("longBitsToDouble", doubleType, longType), 1, nativeLongBitsToDouble)

	// --- string interning ---
	r.Register("java/lang/String", sig("intern", stringType, stringType), 1, nativeStringIntern)

	// --- stack-trace fill-in, no-op in a VM with no captured backtrace ---
	r.Register("java/lang/Throwable", sig("fillInStackTrace", obj, obj), 1, nativeFillInStackTrace)

	// --- privileged-action trampolining ---
	r.Register("java/security/AccessController", sig("doPrivileged", obj, obj), 1, nativeDoPrivileged)

	// --- reflection caller-class query, unsupported without a frame walk ---
	r.Register("sun/reflect/Reflection", sig("getCallerClass", classType), 0, nativeNullReturn)

	// --- unsafe stubs ---
	r.Register("sun/misc/Unsafe", sig("addressSize", intType), 1, nativeAddressSize)
	r.Register("sun/misc/Unsafe", sig("objectFieldOffset", longType, obj, obj), 2, nativeObjectFieldOffset)
	r.Register("sun/misc/Unsafe", sig("compareAndSwapInt", boolType, obj, obj, longType, intType, intType), 5, nativeCompareAndSwapInt)

	// --- generic no-ops, per §4.8's noOp/noOp1/noOp2 ---
	r.Register("lumen/Native", sig("noOp", voidType), 0, nativeNoOp0)
	r.Register("lumen/Native", sig("noOp1", voidType, obj), 1, nativeNoOp0)
	r.Register("lumen/Native", sig("noOp2", voidType, obj, obj), 2, nativeNoOp0)

	return r
}

func nullPointer() error {
	return &vm.VMError{Code: vm.InternalErrorCode, Message: "null pointer"}
}

func nativeGetClass(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	recv := args[0]
	if recv.Ref() == vm.NullRef {
		return vm.Value{}, nullPointer()
	}
	rc, err := m.ClassOf(recv.Ref())
	if err != nil {
		return vm.Value{}, err
	}
	return newClassObject(m, rc.Name())
}

func nativeClassGetName(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	recv := args[0]
	if recv.Ref() == vm.NullRef {
		return vm.Value{}, nullPointer()
	}
	name, err := m.GetField(recv.Ref(), "name")
	if err != nil {
		return vm.Value{}, err
	}
	return name, nil
}

func nativeClassIsArray(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	recv := args[0]
	if recv.Ref() == vm.NullRef {
		return vm.Value{}, nullPointer()
	}
	name, err := m.GetField(recv.Ref(), "name")
	if err != nil {
		return vm.Value{}, err
	}
	s, err := javaStringValue(m, name.Ref())
	if err != nil {
		return vm.Value{}, err
	}
	isArray := len(s) > 0 && s[len(s)-1] == ']'
	if isArray {
		return vm.MakeInt(1), nil
	}
	return vm.MakeInt(0), nil
}

func nativeClassForName(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	name, err := javaStringValue(m, args[0].Ref())
	if err != nil {
		return vm.Value{}, err
	}
	if _, err := m.Classes.Resolve(name); err != nil {
		return vm.Value{}, err
	}
	return newClassObject(m, name)
}

// newClassObject allocates (or would ideally cache) a java/lang/Class
// instance naming className. Class identity is not interned across
// calls: two getClass() calls on instances of the same runtime class
// yield distinct heap objects with equal names, a simplification noted
// in DESIGN.md.
func newClassObject(m *vm.Machine, className string) (vm.Value, error) {
	classRC, err := m.Classes.Resolve("java/lang/Class")
	if err != nil {
		return vm.Value{}, err
	}
	obj, err := m.AllocateObject(classRC)
	if err != nil {
		return vm.Value{}, err
	}
	nameRef, err := m.NewString(className)
	if err != nil {
		return vm.Value{}, err
	}
	if err := m.PutField(obj, "name", vm.MakeRef(nameRef)); err != nil {
		return vm.Value{}, err
	}
	return vm.MakeRef(obj), nil
}

func javaStringValue(m *vm.Machine, ref vm.Ref) (string, error) {
	if ref == vm.NullRef {
		return "", nullPointer()
	}
	canon, err := m.Intern(ref)
	if err != nil {
		return "", err
	}
	value, err := m.GetField(canon, "value")
	if err != nil {
		return "", err
	}
	length, err := m.ArrayLength(value.Ref())
	if err != nil {
		return "", err
	}
	runes := make([]rune, length)
	for i := 0; i < length; i++ {
		el, err := m.GetElement(value.Ref(), i, classfile.PrimitiveType(classfile.Char))
		if err != nil {
			return "", err
		}
		runes[i] = rune(el.Int())
	}
	return string(runes), nil
}

func nativeIdentityHash(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return vm.MakeInt(int32(args[0].Ref())), nil
}

func nativeClone(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	recv := args[0]
	if recv.Ref() == vm.NullRef {
		return vm.Value{}, nullPointer()
	}
	rc, err := m.ClassOf(recv.Ref())
	if err != nil {
		return vm.Value{}, err
	}
	clone, err := m.AllocateObject(rc)
	if err != nil {
		return vm.Value{}, err
	}
	for _, f := range rc.InstanceFields() {
		v, err := m.GetField(recv.Ref(), f.Name)
		if err != nil {
			return vm.Value{}, err
		}
		if err := m.PutField(clone, f.Name, v); err != nil {
			return vm.Value{}, err
		}
	}
	return vm.MakeRef(clone), nil
}

func nativeArraycopy(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	src, srcPos, dst, dstPos, length := args[0], args[1], args[2], args[3], args[4]
	if src.Ref() == vm.NullRef || dst.Ref() == vm.NullRef {
		return vm.Value{}, nullPointer()
	}
	n := int(length.Int())
	sp, dp := int(srcPos.Int()), int(dstPos.Int())
	comp := classfile.ClassType(classfile.ObjectClassName)
	for i := 0; i < n; i++ {
		v, err := m.GetElement(src.Ref(), sp+i, comp)
		if err != nil {
			return vm.Value{}, err
		}
		if err := m.SetElement(dst.Ref(), dp+i, comp, v); err != nil {
			return vm.Value{}, err
		}
	}
	return vm.Value{}, nil
}

func nativeCurrentTimeMillis(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return vm.MakeLong(time.Now().UnixMilli()), nil
}

func nativeNanoTime(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return vm.MakeLong(time.Now().UnixNano()), nil
}

func nativeFloatToIntBits(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return vm.MakeInt(int32(math.Float32bits(args[0].Float()))), nil
}

func nativeIntBitsToFloat(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return vm.MakeFloat(math.Float32frombits(uint32(args[0].Int()))), nil
}

func nativeDoubleToLongBits(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return vm.MakeLong(int64(math.Float64bits(args[0].Double()))), nil
}

func nativeLongBitsToDouble(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return vm.MakeDouble(math.Float64frombits(uint64(args[0].Long()))), nil
}

func nativeStringIntern(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	canon, err := m.Intern(args[0].Ref())
	if err != nil {
		return vm.Value{}, err
	}
	return vm.MakeRef(canon), nil
}

func nativeFillInStackTrace(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return args[0], nil // no captured backtrace to fill in (§5: no in-band cancellation, single frame stack)
}

// nativeDoPrivileged re-enters the interpreter to run the action's
// run()Ljava/lang/Object; method, the only re-entrant call in this
// native surface. It uses a fresh background context: privileged
// actions are not expected to observe the caller's cancellation.
func nativeDoPrivileged(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	action := args[0]
	if action.Ref() == vm.NullRef {
		return vm.Value{}, nullPointer()
	}
	rc, err := m.ClassOf(action.Ref())
	if err != nil {
		return vm.Value{}, err
	}
	desc := classfile.Descriptor{Return: classfile.ClassType(classfile.ObjectClassName)}
	return m.Invoke(context.Background(), rc.Name(), "run", desc, []vm.Value{action})
}

func nativeNullReturn(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return vm.MakeRef(vm.NullRef), nil
}

func nativeAddressSize(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return vm.MakeInt(4), nil // §8's literal native-trap scenario: addressSize()I returns 4
}

func nativeObjectFieldOffset(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return vm.MakeLong(0), nil // field layout is opaque to bytecode; offsets are not meaningful outside the VM
}

func nativeCompareAndSwapInt(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	obj, offset, expect, update := args[0], args[2], args[3], args[4]
	if obj.Ref() == vm.NullRef {
		return vm.Value{}, nullPointer()
	}
	target := obj.Ref() + vm.Ref(offset.Long())
	cur, err := m.Heap.Read(target)
	if err != nil {
		return vm.Value{}, err
	}
	if int32(cur) != expect.Int() {
		return vm.MakeInt(0), nil
	}
	if err := m.Heap.Write(target, vm.Cell(uint32(update.Int()))); err != nil {
		return vm.Value{}, err
	}
	return vm.MakeInt(1), nil
}

func nativeNoOp0(m *vm.Machine, args []vm.Value) (vm.Value, error) {
	return vm.Value{}, nil
}
