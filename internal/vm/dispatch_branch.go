package vm

import "github.com/cnkfz/lumen/internal/bytecode"

func branchTarget(pc int, code []byte) int {
	return pc + int(bytecode.I16(code, pc+1))
}

// branchUnary handles the six single-operand int comparisons against
// zero (Ifeq..Ifle).
func (t *Thread) branchUnary(frame *Frame, op bytecode.Op, pc, next int) (Value, bool, error) {
	v, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	taken := false
	switch op {
	case bytecode.Ifeq:
		taken = v.Int() == 0
	case bytecode.Ifne:
		taken = v.Int() != 0
	case bytecode.Iflt:
		taken = v.Int() < 0
	case bytecode.Ifge:
		taken = v.Int() >= 0
	case bytecode.Ifgt:
		taken = v.Int() > 0
	case bytecode.Ifle:
		taken = v.Int() <= 0
	}
	return t.finishBranch(frame, op, pc, next, taken, frame.Method.Bytecode)
}

// branchICmp handles the six two-operand int comparisons.
func (t *Thread) branchICmp(frame *Frame, op bytecode.Op, pc, next int) (Value, bool, error) {
	b, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	a, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	taken := false
	switch op {
	case bytecode.IfIcmpeq:
		taken = a.Int() == b.Int()
	case bytecode.IfIcmpne:
		taken = a.Int() != b.Int()
	case bytecode.IfIcmplt:
		taken = a.Int() < b.Int()
	case bytecode.IfIcmpge:
		taken = a.Int() >= b.Int()
	case bytecode.IfIcmpgt:
		taken = a.Int() > b.Int()
	case bytecode.IfIcmple:
		taken = a.Int() <= b.Int()
	}
	return t.finishBranch(frame, op, pc, next, taken, frame.Method.Bytecode)
}

// branchACmp handles reference equality/inequality.
func (t *Thread) branchACmp(frame *Frame, op bytecode.Op, pc, next int) (Value, bool, error) {
	b, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	a, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	taken := a.Ref() == b.Ref()
	if op == bytecode.IfAcmpne {
		taken = !taken
	}
	return t.finishBranch(frame, op, pc, next, taken, frame.Method.Bytecode)
}

// branchNull handles null/non-null reference tests.
func (t *Thread) branchNull(frame *Frame, op bytecode.Op, pc, next int) (Value, bool, error) {
	v, err := frame.Pop()
	if err != nil {
		return Value{}, false, err
	}
	taken := v.Ref() == NullRef
	if op == bytecode.Ifnonnull {
		taken = !taken
	}
	return t.finishBranch(frame, op, pc, next, taken, frame.Method.Bytecode)
}

func (t *Thread) finishBranch(frame *Frame, op bytecode.Op, pc, next int, taken bool, code []byte) (Value, bool, error) {
	if taken {
		frame.PC = branchTarget(pc, code)
	} else {
		frame.PC = next
	}
	return Value{}, false, nil
}
