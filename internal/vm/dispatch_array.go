package vm

import (
	"github.com/cnkfz/lumen/internal/bytecode"
	"github.com/cnkfz/lumen/internal/classfile"
)

// componentOf returns the static component type implied by a typed
// array opcode. The heap array itself carries no type tag (§3); the
// opcode alone determines how many cells an element occupies and how
// its bits are interpreted.
func componentOf(op bytecode.Op) classfile.Type {
	switch op {
	case bytecode.Iaload, bytecode.Iastore:
		return classfile.PrimitiveType(classfile.Int)
	case bytecode.Laload, bytecode.Lastore:
		return classfile.PrimitiveType(classfile.Long)
	case bytecode.Faload, bytecode.Fastore:
		return classfile.PrimitiveType(classfile.Float)
	case bytecode.Daload, bytecode.Dastore:
		return classfile.PrimitiveType(classfile.Double)
	case bytecode.Baload, bytecode.Bastore:
		return classfile.PrimitiveType(classfile.Byte)
	case bytecode.Caload, bytecode.Castore:
		return classfile.PrimitiveType(classfile.Char)
	case bytecode.Saload, bytecode.Sastore:
		return classfile.PrimitiveType(classfile.Short)
	default: // Aaload, Aastore
		return classfile.ClassType(classfile.ObjectClassName)
	}
}

func (t *Thread) arrayLoad(frame *Frame, op bytecode.Op, next int) (Value, bool, error) {
	index, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	arr, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	if arr.Ref() == NullRef {
		return Value{}, false, errorf(InternalErrorCode, "null pointer: array load on null")
	}
	v, err := t.m.GetElement(arr.Ref(), int(index.Int()), componentOf(op))
	if err != nil {
		return Value{}, false, err
	}
	return t.finishPush(frame, next, v)
}

func (t *Thread) arrayStore(frame *Frame, op bytecode.Op, next int) (Value, bool, error) {
	v, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	index, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	arr, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	if arr.Ref() == NullRef {
		return Value{}, false, errorf(InternalErrorCode, "null pointer: array store on null")
	}
	if err := t.m.SetElement(arr.Ref(), int(index.Int()), componentOf(op), v); err != nil {
		return Value{}, false, err
	}
	frame.PC = next
	return Value{}, false, nil
}
