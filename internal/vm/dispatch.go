package vm

import (
	"github.com/cnkfz/lumen/internal/bytecode"
	"github.com/cnkfz/lumen/internal/classfile"
)

// step executes the instruction at frame.PC, advances PC by its
// encoded length, and reports either the frame's return value (done),
// or that execution continues. A returned *thrownObject signals an
// in-flight exception for the caller to route to handleThrow; any other
// error is a *VMError (InternalError, ClassNotFound, OutOfMemory, ...)
// that aborts the invocation.
func (t *Thread) step(frame *Frame) (result Value, done bool, err error) {
	code := frame.Method.Bytecode
	pc := frame.PC
	if pc < 0 || pc >= len(code) {
		return Value{}, false, errorf(InternalErrorCode, "PC out of range: %d", pc)
	}
	op := bytecode.Op(code[pc])
	next := pc + bytecode.Len(code, pc)

	switch op {
	case bytecode.Nop:
		frame.PC = next
		return Value{}, false, nil

	case bytecode.Pop:
		if _, err := frame.Pop(); err != nil {
			return Value{}, false, err
		}
	case bytecode.Dup:
		v, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		if err := frame.Push(v); err != nil {
			return Value{}, false, err
		}
		if err := frame.Push(v); err != nil {
			return Value{}, false, err
		}
	case bytecode.Swap:
		b, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		a, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		if err := frame.Push(b); err != nil {
			return Value{}, false, err
		}
		if err := frame.Push(a); err != nil {
			return Value{}, false, err
		}

	case bytecode.AconstNull:
		return t.finishPush(frame, next, MakeRef(NullRef))
	case bytecode.IconstM1:
		return t.finishPush(frame, next, MakeInt(-1))
	case bytecode.Iconst0:
		return t.finishPush(frame, next, MakeInt(0))
	case bytecode.Iconst1:
		return t.finishPush(frame, next, MakeInt(1))
	case bytecode.Iconst2:
		return t.finishPush(frame, next, MakeInt(2))
	case bytecode.Iconst3:
		return t.finishPush(frame, next, MakeInt(3))
	case bytecode.Iconst4:
		return t.finishPush(frame, next, MakeInt(4))
	case bytecode.Iconst5:
		return t.finishPush(frame, next, MakeInt(5))
	case bytecode.LconstConst:
		return t.finishPush(frame, next, MakeLong(bytecode.I64(code, pc+1)))
	case bytecode.FconstConst:
		return t.finishPush(frame, next, MakeFloat(bytecode.F32(code, pc+1)))
	case bytecode.DconstConst:
		return t.finishPush(frame, next, MakeDouble(bytecode.F64(code, pc+1)))
	case bytecode.Bipush:
		return t.finishPush(frame, next, MakeInt(int32(bytecode.I8(code, pc+1))))
	case bytecode.Sipush:
		return t.finishPush(frame, next, MakeInt(int32(bytecode.I16(code, pc+1))))
	case bytecode.Ldc:
		idx := bytecode.U16(code, pc+1)
		lit := frame.Method.ConstantAt(int(idx))
		ref, err := t.m.NewString(lit)
		if err != nil {
			return Value{}, false, err
		}
		return t.finishPush(frame, next, MakeRef(ref))

	case bytecode.Iload, bytecode.Lload, bytecode.Fload, bytecode.Dload, bytecode.Aload:
		idx := bytecode.U8(code, pc+1)
		if int(idx) >= len(frame.Locals) {
			return Value{}, false, errorf(InternalErrorCode, "local index out of range: %d", idx)
		}
		return t.finishPush(frame, next, frame.Locals[idx])
	case bytecode.Istore, bytecode.Lstore, bytecode.Fstore, bytecode.Dstore, bytecode.Astore:
		idx := bytecode.U8(code, pc+1)
		v, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		if int(idx) >= len(frame.Locals) {
			return Value{}, false, errorf(InternalErrorCode, "local index out of range: %d", idx)
		}
		frame.Locals[idx] = v
		frame.PC = next
		return Value{}, false, nil

	case bytecode.New:
		name := frame.Method.ConstantAt(int(bytecode.U16(code, pc+1)))
		rc, err := t.m.Classes.Resolve(name)
		if err != nil {
			return Value{}, false, err
		}
		ref, err := t.m.AllocateObject(rc)
		if err != nil {
			return Value{}, false, err
		}
		return t.finishPush(frame, next, MakeRef(ref))

	case bytecode.Newarray:
		length, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		component := classfile.PrimitiveType(classfile.Primitive(bytecode.U8(code, pc+1)))
		ref, err := t.m.AllocateArray(component, int(length.Int()))
		if err != nil {
			return Value{}, false, err
		}
		return t.finishPush(frame, next, MakeRef(ref))

	case bytecode.Anewarray:
		length, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		name := frame.Method.ConstantAt(int(bytecode.U16(code, pc+1)))
		ref, err := t.m.AllocateArray(classfile.ClassType(name), int(length.Int()))
		if err != nil {
			return Value{}, false, err
		}
		return t.finishPush(frame, next, MakeRef(ref))

	case bytecode.Arraylength:
		arr, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		n, err := t.m.ArrayLength(arr.Ref())
		if err != nil {
			return Value{}, false, err
		}
		return t.finishPush(frame, next, MakeInt(int32(n)))

	case bytecode.Iaload, bytecode.Laload, bytecode.Faload, bytecode.Daload, bytecode.Aaload,
		bytecode.Baload, bytecode.Caload, bytecode.Saload:
		return t.arrayLoad(frame, op, next)

	case bytecode.Iastore, bytecode.Lastore, bytecode.Fastore, bytecode.Dastore, bytecode.Aastore,
		bytecode.Bastore, bytecode.Castore, bytecode.Sastore:
		return t.arrayStore(frame, op, next)

	case bytecode.Getfield:
		name := frame.Method.ConstantAt(int(bytecode.U16(code, pc+1)))
		ref, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		v, err := t.m.GetField(ref.Ref(), name)
		if err != nil {
			return Value{}, false, err
		}
		return t.finishPush(frame, next, v)

	case bytecode.Putfield:
		name := frame.Method.ConstantAt(int(bytecode.U16(code, pc+1)))
		v, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		ref, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		if err := t.m.PutField(ref.Ref(), name, v); err != nil {
			return Value{}, false, err
		}
		frame.PC = next
		return Value{}, false, nil

	case bytecode.Getstatic:
		name := frame.Method.ConstantAt(int(bytecode.U16(code, pc+1)))
		v, err := t.m.GetStatic(frame.Class, name)
		if err != nil {
			return Value{}, false, err
		}
		return t.finishPush(frame, next, v)

	case bytecode.Putstatic:
		name := frame.Method.ConstantAt(int(bytecode.U16(code, pc+1)))
		v, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		if err := t.m.PutStatic(frame.Class, name, v); err != nil {
			return Value{}, false, err
		}
		frame.PC = next
		return Value{}, false, nil

	case bytecode.Ifeq, bytecode.Ifne, bytecode.Iflt, bytecode.Ifge, bytecode.Ifgt, bytecode.Ifle:
		return t.branchUnary(frame, op, pc, next)
	case bytecode.IfIcmpeq, bytecode.IfIcmpne, bytecode.IfIcmplt, bytecode.IfIcmpge, bytecode.IfIcmpgt, bytecode.IfIcmple:
		return t.branchICmp(frame, op, pc, next)
	case bytecode.IfAcmpeq, bytecode.IfAcmpne:
		return t.branchACmp(frame, op, pc, next)
	case bytecode.Ifnull, bytecode.Ifnonnull:
		return t.branchNull(frame, op, pc, next)
	case bytecode.Goto:
		offset := bytecode.I16(code, pc+1)
		frame.PC = pc + int(offset)
		return Value{}, false, nil

	case bytecode.Tableswitch:
		v, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		sw := bytecode.DecodeTableswitch(code, pc)
		key := v.Int()
		if key < sw.Low || key > sw.High {
			frame.PC = pc + int(sw.Default)
		} else {
			frame.PC = pc + int(sw.Targets[key-sw.Low])
		}
		return Value{}, false, nil
	case bytecode.Lookupswitch:
		v, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		sw := bytecode.DecodeLookupswitch(code, pc)
		if target, ok := sw.Pairs[v.Int()]; ok {
			frame.PC = pc + int(target)
		} else {
			frame.PC = pc + int(sw.Default)
		}
		return Value{}, false, nil

	case bytecode.Invokestatic, bytecode.Invokespecial:
		return t.invokeDirect(frame, op, pc, next)
	case bytecode.Invokevirtual, bytecode.Invokeinterface:
		return t.invokeVirtual(frame, op, pc, next)

	case bytecode.Ireturn, bytecode.Lreturn, bytecode.Freturn, bytecode.Dreturn, bytecode.Areturn:
		v, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		return v, true, nil
	case bytecode.Return:
		return Value{}, true, nil

	case bytecode.Athrow:
		ref, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		if ref.Ref() == NullRef {
			return Value{}, false, errorf(InternalErrorCode, "null pointer: athrow of null")
		}
		rc, err := t.m.ClassOf(ref.Ref())
		if err != nil {
			return Value{}, false, err
		}
		return Value{}, false, &thrownObject{class: rc, ref: ref.Ref()}

	case bytecode.Monitorenter, bytecode.Monitorexit:
		if _, err := frame.Pop(); err != nil {
			return Value{}, false, err
		}
		frame.PC = next
		return Value{}, false, nil

	case bytecode.Checkcast:
		return t.checkcast(frame, pc, next)
	case bytecode.Instanceof:
		return t.instanceof(frame, pc, next)

	case bytecode.I2l, bytecode.I2f, bytecode.I2d, bytecode.L2i, bytecode.L2f, bytecode.L2d,
		bytecode.F2i, bytecode.F2l, bytecode.F2d, bytecode.D2i, bytecode.D2l, bytecode.D2f,
		bytecode.I2b, bytecode.I2c, bytecode.I2s:
		return t.convert(frame, op, next)

	case bytecode.Iadd, bytecode.Isub, bytecode.Imul, bytecode.Idiv, bytecode.Irem, bytecode.Ineg,
		bytecode.Iand, bytecode.Ior, bytecode.Ixor, bytecode.Ishl, bytecode.Ishr, bytecode.Iushr,
		bytecode.Ladd, bytecode.Lsub, bytecode.Lmul, bytecode.Ldiv, bytecode.Lrem, bytecode.Lneg,
		bytecode.Land, bytecode.Lor, bytecode.Lxor, bytecode.Lshl, bytecode.Lshr, bytecode.Lushr,
		bytecode.Fadd, bytecode.Fsub, bytecode.Fmul, bytecode.Fdiv, bytecode.Frem, bytecode.Fneg,
		bytecode.Dadd, bytecode.Dsub, bytecode.Dmul, bytecode.Ddiv, bytecode.Drem, bytecode.Dneg:
		return t.arithmetic(frame, op, next)

	case bytecode.Lcmp, bytecode.Fcmpl, bytecode.Fcmpg, bytecode.Dcmpl, bytecode.Dcmpg:
		return t.compare(frame, op, next)

	default:
		return Value{}, false, errorf(InternalErrorCode, "unimplemented opcode %d at pc %d", op, pc)
	}

	frame.PC = next
	return Value{}, false, nil
}

func (t *Thread) finishPush(frame *Frame, next int, v Value) (Value, bool, error) {
	if err := frame.Push(v); err != nil {
		return Value{}, false, err
	}
	frame.PC = next
	return Value{}, false, nil
}

func (t *Thread) checkcast(frame *Frame, pc, next int) (Value, bool, error) {
	name := frame.Method.ConstantAt(int(bytecode.U16(frame.Method.Bytecode, pc+1)))
	v, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	if v.Ref() != NullRef {
		rc, err := t.m.ClassOf(v.Ref())
		if err != nil {
			return Value{}, false, err
		}
		if !t.m.Classes.Check(classfile.ClassType(rc.Descriptor.Name), classfile.ClassType(name)) {
			return Value{}, false, errorf(InternalErrorCode, "class cast exception: %s is not a %s", rc.Descriptor.Name, name)
		}
	}
	return t.finishPush(frame, next, v)
}

func (t *Thread) instanceof(frame *Frame, pc, next int) (Value, bool, error) {
	name := frame.Method.ConstantAt(int(bytecode.U16(frame.Method.Bytecode, pc+1)))
	v, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	if v.Ref() == NullRef {
		return t.finishPush(frame, next, MakeInt(0))
	}
	rc, err := t.m.ClassOf(v.Ref())
	if err != nil {
		return Value{}, false, err
	}
	ok := t.m.Classes.Check(classfile.ClassType(rc.Descriptor.Name), classfile.ClassType(name))
	if ok {
		return t.finishPush(frame, next, MakeInt(1))
	}
	return t.finishPush(frame, next, MakeInt(0))
}
