package vm

import (
	"math"

	"github.com/cnkfz/lumen/internal/bytecode"
)

// arithmetic dispatches one arithmetic opcode (§4.7: "arithmetic on all
// primitive kinds"). Unary (neg) pops one operand; binary ops pop two,
// left operand pushed first.
func (t *Thread) arithmetic(frame *Frame, op bytecode.Op, next int) (Value, bool, error) {
	unary := op == bytecode.Ineg || op == bytecode.Lneg || op == bytecode.Fneg || op == bytecode.Dneg
	if unary {
		a, err := frame.Pop()
		if err != nil {
			return Value{}, false, err
		}
		return t.finishPush(frame, next, negate(op, a))
	}
	b, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	a, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	v, err := binaryOp(op, a, b)
	if err != nil {
		return Value{}, false, err
	}
	return t.finishPush(frame, next, v)
}

func negate(op bytecode.Op, a Value) Value {
	switch op {
	case bytecode.Ineg:
		return MakeInt(-a.Int())
	case bytecode.Lneg:
		return MakeLong(-a.Long())
	case bytecode.Fneg:
		return MakeFloat(-a.Float())
	case bytecode.Dneg:
		return MakeDouble(-a.Double())
	}
	return Value{}
}

func binaryOp(op bytecode.Op, a, b Value) (Value, error) {
	switch op {
	case bytecode.Iadd:
		return MakeInt(a.Int() + b.Int()), nil
	case bytecode.Isub:
		return MakeInt(a.Int() - b.Int()), nil
	case bytecode.Imul:
		return MakeInt(a.Int() * b.Int()), nil
	case bytecode.Idiv:
		if b.Int() == 0 {
			return Value{}, errorf(InternalErrorCode, "division by zero")
		}
		return MakeInt(a.Int() / b.Int()), nil
	case bytecode.Irem:
		if b.Int() == 0 {
			return Value{}, errorf(InternalErrorCode, "division by zero")
		}
		return MakeInt(a.Int() % b.Int()), nil
	case bytecode.Iand:
		return MakeInt(a.Int() & b.Int()), nil
	case bytecode.Ior:
		return MakeInt(a.Int() | b.Int()), nil
	case bytecode.Ixor:
		return MakeInt(a.Int() ^ b.Int()), nil
	case bytecode.Ishl:
		return MakeInt(a.Int() << (uint32(b.Int()) & 31)), nil
	case bytecode.Ishr:
		return MakeInt(a.Int() >> (uint32(b.Int()) & 31)), nil
	case bytecode.Iushr:
		return MakeInt(int32(uint32(a.Int()) >> (uint32(b.Int()) & 31))), nil

	case bytecode.Ladd:
		return MakeLong(a.Long() + b.Long()), nil
	case bytecode.Lsub:
		return MakeLong(a.Long() - b.Long()), nil
	case bytecode.Lmul:
		return MakeLong(a.Long() * b.Long()), nil
	case bytecode.Ldiv:
		if b.Long() == 0 {
			return Value{}, errorf(InternalErrorCode, "division by zero")
		}
		return MakeLong(a.Long() / b.Long()), nil
	case bytecode.Lrem:
		if b.Long() == 0 {
			return Value{}, errorf(InternalErrorCode, "division by zero")
		}
		return MakeLong(a.Long() % b.Long()), nil
	case bytecode.Land:
		return MakeLong(a.Long() & b.Long()), nil
	case bytecode.Lor:
		return MakeLong(a.Long() | b.Long()), nil
	case bytecode.Lxor:
		return MakeLong(a.Long() ^ b.Long()), nil
	case bytecode.Lshl:
		return MakeLong(a.Long() << (uint64(b.Int()) & 63)), nil
	case bytecode.Lshr:
		return MakeLong(a.Long() >> (uint64(b.Int()) & 63)), nil
	case bytecode.Lushr:
		return MakeLong(int64(uint64(a.Long()) >> (uint64(b.Int()) & 63))), nil

	case bytecode.Fadd:
		return MakeFloat(a.Float() + b.Float()), nil
	case bytecode.Fsub:
		return MakeFloat(a.Float() - b.Float()), nil
	case bytecode.Fmul:
		return MakeFloat(a.Float() * b.Float()), nil
	case bytecode.Fdiv:
		return MakeFloat(a.Float() / b.Float()), nil
	case bytecode.Frem:
		return MakeFloat(float32(math.Mod(float64(a.Float()), float64(b.Float())))), nil

	case bytecode.Dadd:
		return MakeDouble(a.Double() + b.Double()), nil
	case bytecode.Dsub:
		return MakeDouble(a.Double() - b.Double()), nil
	case bytecode.Dmul:
		return MakeDouble(a.Double() * b.Double()), nil
	case bytecode.Ddiv:
		return MakeDouble(a.Double() / b.Double()), nil
	case bytecode.Drem:
		return MakeDouble(math.Mod(a.Double(), b.Double())), nil
	}
	return Value{}, errorf(InternalErrorCode, "unhandled arithmetic opcode %d", op)
}

// convert dispatches a widening/narrowing conversion opcode.
func (t *Thread) convert(frame *Frame, op bytecode.Op, next int) (Value, bool, error) {
	a, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	var out Value
	switch op {
	case bytecode.I2l:
		out = MakeLong(int64(a.Int()))
	case bytecode.I2f:
		out = MakeFloat(float32(a.Int()))
	case bytecode.I2d:
		out = MakeDouble(float64(a.Int()))
	case bytecode.L2i:
		out = MakeInt(int32(a.Long()))
	case bytecode.L2f:
		out = MakeFloat(float32(a.Long()))
	case bytecode.L2d:
		out = MakeDouble(float64(a.Long()))
	case bytecode.F2i:
		out = MakeInt(int32(a.Float()))
	case bytecode.F2l:
		out = MakeLong(int64(a.Float()))
	case bytecode.F2d:
		out = MakeDouble(float64(a.Float()))
	case bytecode.D2i:
		out = MakeInt(int32(a.Double()))
	case bytecode.D2l:
		out = MakeLong(int64(a.Double()))
	case bytecode.D2f:
		out = MakeFloat(float32(a.Double()))
	case bytecode.I2b:
		out = MakeInt(int32(int8(a.Int())))
	case bytecode.I2c:
		out = MakeInt(int32(uint16(a.Int())))
	case bytecode.I2s:
		out = MakeInt(int32(int16(a.Int())))
	default:
		return Value{}, false, errorf(InternalErrorCode, "unhandled conversion opcode %d", op)
	}
	return t.finishPush(frame, next, out)
}

// compare dispatches the four-outcome comparison opcodes that push -1,
// 0, or 1 (§4.7's "comparisons producing an int on the stack"). The
// *g/*l suffix distinguishes NaN handling: cmpg treats NaN as greater,
// cmpl treats it as less, matching the target platform's convention.
func (t *Thread) compare(frame *Frame, op bytecode.Op, next int) (Value, bool, error) {
	b, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	a, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	var result int32
	switch op {
	case bytecode.Lcmp:
		result = cmp3Long(a.Long(), b.Long())
	case bytecode.Fcmpl:
		result = fcmp3(float64(a.Float()), float64(b.Float()), -1)
	case bytecode.Fcmpg:
		result = fcmp3(float64(a.Float()), float64(b.Float()), 1)
	case bytecode.Dcmpl:
		result = fcmp3(a.Double(), b.Double(), -1)
	case bytecode.Dcmpg:
		result = fcmp3(a.Double(), b.Double(), 1)
	default:
		return Value{}, false, errorf(InternalErrorCode, "unhandled comparison opcode %d", op)
	}
	return t.finishPush(frame, next, MakeInt(result))
}

func cmp3Long(a, b int64) int32 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func fcmp3(a, b float64, nanResult int32) int32 {
	if a != a || b != b { // either is NaN
		return nanResult
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
