package vm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cnkfz/lumen/internal/bytecode"
	"github.com/cnkfz/lumen/internal/classfile"
)

// invokeSymbol packs the callee's owner class name and signature into
// the single interned string an Invoke* operand indexes, in
// "owner#name(params)ret" form. The MethodBuilder/JSONParser both write
// this format via callSymbol.
func callSymbol(owner string, sig classfile.Signature) string {
	return owner + "#" + sig.String()
}

func parseCallSymbol(sym string) (owner string, sig classfile.Signature, err error) {
	parts := strings.SplitN(sym, "#", 2)
	if len(parts) != 2 {
		return "", classfile.Signature{}, fmt.Errorf("malformed call symbol %q", sym)
	}
	owner = parts[0]
	rest := parts[1]
	paren := strings.IndexByte(rest, '(')
	if paren < 0 {
		return "", classfile.Signature{}, fmt.Errorf("malformed call symbol %q", sym)
	}
	name := rest[:paren]
	desc, err := classfile.ParseDescriptor(rest[paren:])
	if err != nil {
		return "", classfile.Signature{}, err
	}
	return owner, classfile.Signature{Name: name, Descriptor: desc}, nil
}

// popArgs pops len(params) values off the operand stack, in declaration
// order (the deepest-pushed argument comes first in the caller's
// evaluation, so it sits deepest on the stack).
func popArgs(frame *Frame, params []classfile.Type) ([]Value, error) {
	args := make([]Value, len(params))
	for i := len(params) - 1; i >= 0; i-- {
		v, err := frame.Pop()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (t *Thread) invokeDirect(frame *Frame, op bytecode.Op, pc, next int) (Value, bool, error) {
	sym := frame.Method.ConstantAt(int(bytecode.U16(frame.Method.Bytecode, pc+1)))
	owner, sig, err := parseCallSymbol(sym)
	if err != nil {
		return Value{}, false, wrapf(InternalErrorCode, err, "invoke")
	}
	rc, err := t.m.Classes.Resolve(owner)
	if err != nil {
		return Value{}, false, err
	}
	args, err := popArgs(frame, sig.Descriptor.Params)
	if err != nil {
		return Value{}, false, err
	}
	if op == bytecode.Invokespecial {
		// Instance methods (constructors, super calls) still carry the
		// receiver as an implicit leading argument on the stack.
		receiver, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		args = append([]Value{receiver}, args...)
	}
	v, err := t.invoke(t.ctx, rc, sig, args)
	if err != nil {
		return Value{}, false, err
	}
	if sig.Descriptor.Return.Kind() == classfile.KindPrimitive && sig.Descriptor.Return.Primitive() == classfile.Void {
		frame.PC = next
		return Value{}, false, nil
	}
	return t.finishPush(frame, next, v)
}

func (t *Thread) invokeVirtual(frame *Frame, op bytecode.Op, pc, next int) (Value, bool, error) {
	sym := frame.Method.ConstantAt(int(bytecode.U16(frame.Method.Bytecode, pc+1)))
	_, sig, err := parseCallSymbol(sym)
	if err != nil {
		return Value{}, false, wrapf(InternalErrorCode, err, "invoke")
	}
	args, err := popArgs(frame, sig.Descriptor.Params)
	if err != nil {
		return Value{}, false, err
	}
	receiver, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	if receiver.Ref() == NullRef {
		return Value{}, false, errorf(InternalErrorCode, "null pointer: invoke on null receiver")
	}
	rc, err := t.m.ClassOf(receiver.Ref())
	if err != nil {
		return Value{}, false, err
	}
	resolved, err := t.m.ResolveVirtual(rc, sig)
	if err != nil {
		return Value{}, false, err
	}
	full := append([]Value{receiver}, args...)
	var v Value
	if resolved.IsNative() {
		v, err = t.invokeNative(resolved, full)
	} else {
		v, err = t.dispatchBytecode(resolved, full)
	}
	if err != nil {
		return Value{}, false, err
	}
	if sig.Descriptor.Return.Kind() == classfile.KindPrimitive && sig.Descriptor.Return.Primitive() == classfile.Void {
		frame.PC = next
		return Value{}, false, nil
	}
	return t.finishPush(frame, next, v)
}

// dispatchBytecode runs an already-resolved bytecode method (used by
// virtual dispatch, which resolves once and must not re-resolve).
func (t *Thread) dispatchBytecode(resolved ResolvedMethod, args []Value) (Value, error) {
	return t.invokeBytecode(t.ctx, resolved, args)
}
