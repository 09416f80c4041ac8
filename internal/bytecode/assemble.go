package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Instr is one symbolic instruction, as produced by the reference class
// parser (internal/classfile) or written by hand in tests. Only the
// fields relevant to Op are populated; Assemble validates nothing beyond
// basic shape, matching the teacher's small-assembler-helper spirit.
type Instr struct {
	Op      Op
	Operand int64  // generic immediate: bipush/sipush/local index/primitive tag/array-type tag
	Symbol  string // resolved to a u16 index into Constants by Assemble (ldc, ldc-class, getfield, ...)
	Label   string // branch target, for the conditional/unconditional jumps and Goto
	Switch  *SwitchSpec
}

// SwitchSpec describes a tableswitch or lookupswitch's case structure in
// symbolic (label-based) form.
type SwitchSpec struct {
	// Tableswitch: Low/High set, Targets has High-Low+1 labels.
	Low, High int32
	Targets   []string
	// Lookupswitch: Keys/Targets parallel, Low==High==0, Targets has len(Keys) labels.
	Keys []int32

	Default string
}

func (s *SwitchSpec) isTable() bool { return s.Keys == nil }

// Constants is the per-method constant pool the reference parser builds:
// a flat, order-assigned table of symbol strings (class names, field
// names, method signatures, literal strings) referenced by u16 index from
// Ldc/Getfield/New/Invoke*/Checkcast/Instanceof operands.
type Constants struct {
	values []string
	index  map[string]int
}

// NewConstants returns an empty constant pool.
func NewConstants() *Constants {
	return &Constants{index: make(map[string]int)}
}

// Intern assigns (or reuses) a stable index for s.
func (c *Constants) Intern(s string) int {
	if i, ok := c.index[s]; ok {
		return i
	}
	i := len(c.values)
	c.values = append(c.values, s)
	c.index[s] = i
	return i
}

// At returns the constant at index i.
func (c *Constants) At(i int) string {
	if i < 0 || i >= len(c.values) {
		return ""
	}
	return c.values[i]
}

// Len reports the number of interned constants.
func (c *Constants) Len() int { return len(c.values) }

// Values returns the constants in index order.
func (c *Constants) Values() []string {
	out := make([]string, len(c.values))
	copy(out, c.values)
	return out
}

// Assemble lowers a symbolic instruction list plus labeled basic-block
// boundaries into the byte-encoded stream the interpreter's PC walks.
// Labels are instruction-list positions named by labelOf (instruction
// index -> label name; a label names the instruction at that index);
// branch/switch instructions reference that name in their Label field.
func Assemble(instrs []Instr, labelOf map[int]string, consts *Constants) ([]byte, error) {
	// Pass 1: assign a provisional PC to every instruction and, in the
	// same pass, the PC each label name resolves to.
	pcs := make([]int, len(instrs))
	labelPC := make(map[string]int, len(labelOf))
	pc := 0
	for i, in := range instrs {
		if name, ok := labelOf[i]; ok {
			labelPC[name] = pc
		}
		pcs[i] = pc
		n, err := instrLen(in, pc)
		if err != nil {
			return nil, fmt.Errorf("instr %d (%v): %w", i, in.Op, err)
		}
		pc += n
	}
	total := pc

	buf := make([]byte, total)
	for i, in := range instrs {
		p := pcs[i]
		if err := encodeInstr(buf, p, in, labelPC, consts); err != nil {
			return nil, fmt.Errorf("instr %d (%v): %w", i, in.Op, err)
		}
	}
	return buf, nil
}

func instrLen(in Instr, pc int) (int, error) {
	switch in.Op {
	case Tableswitch:
		count := int(in.Switch.High-in.Switch.Low) + 1
		p := pc + 1
		pad := (4 - (p % 4)) % 4
		return 1 + pad + 12 + count*4, nil
	case Lookupswitch:
		n := len(in.Switch.Keys)
		p := pc + 1
		pad := (4 - (p % 4)) % 4
		return 1 + pad + 8 + n*8, nil
	default:
		return 1 + OperandSize(in.Op), nil
	}
}

func encodeInstr(buf []byte, pc int, in Instr, labelPC map[string]int, consts *Constants) error {
	buf[pc] = byte(in.Op)
	p := pc + 1
	switch in.Op {
	case LconstConst:
		binary.BigEndian.PutUint64(buf[p:], uint64(in.Operand))
	case FconstConst:
		// Operand carries the raw float32 bits, zero-extended; see FConst.
		binary.BigEndian.PutUint32(buf[p:], uint32(in.Operand))
	case DconstConst:
		// Operand carries the raw float64 bits; see DConst.
		binary.BigEndian.PutUint64(buf[p:], uint64(in.Operand))
	case Bipush:
		buf[p] = byte(int8(in.Operand))
	case Sipush:
		binary.BigEndian.PutUint16(buf[p:], uint16(int16(in.Operand)))
	case Iload, Lload, Fload, Dload, Aload, Istore, Lstore, Fstore, Dstore, Astore, Newarray:
		buf[p] = byte(uint8(in.Operand))
	case Ldc, Anewarray, New, Getfield, Putfield, Getstatic, Putstatic,
		Invokestatic, Invokevirtual, Invokespecial, Invokeinterface,
		Checkcast, Instanceof:
		idx := consts.Intern(in.Symbol)
		if idx > math.MaxUint16 {
			return fmt.Errorf("constant pool overflow")
		}
		binary.BigEndian.PutUint16(buf[p:], uint16(idx))
	case Ifeq, Ifne, Iflt, Ifge, Ifgt, Ifle,
		IfIcmpeq, IfIcmpne, IfIcmplt, IfIcmpge, IfIcmpgt, IfIcmple,
		IfAcmpeq, IfAcmpne, Ifnull, Ifnonnull, Goto:
		target, ok := labelPC[in.Label]
		if !ok {
			return fmt.Errorf("undefined label %q", in.Label)
		}
		offset := int32(target - pc)
		binary.BigEndian.PutUint16(buf[p:], uint16(int16(offset)))
	case Tableswitch:
		pad := (4 - (p % 4)) % 4
		p += pad
		def, ok := labelPC[in.Switch.Default]
		if !ok {
			return fmt.Errorf("undefined default label %q", in.Switch.Default)
		}
		binary.BigEndian.PutUint32(buf[p:], uint32(int32(def-pc)))
		binary.BigEndian.PutUint32(buf[p+4:], uint32(in.Switch.Low))
		binary.BigEndian.PutUint32(buf[p+8:], uint32(in.Switch.High))
		base := p + 12
		for i, label := range in.Switch.Targets {
			t, ok := labelPC[label]
			if !ok {
				return fmt.Errorf("undefined case label %q", label)
			}
			binary.BigEndian.PutUint32(buf[base+i*4:], uint32(int32(t-pc)))
		}
	case Lookupswitch:
		pad := (4 - (p % 4)) % 4
		p += pad
		def, ok := labelPC[in.Switch.Default]
		if !ok {
			return fmt.Errorf("undefined default label %q", in.Switch.Default)
		}
		binary.BigEndian.PutUint32(buf[p:], uint32(int32(def-pc)))
		binary.BigEndian.PutUint32(buf[p+4:], uint32(len(in.Switch.Keys)))
		base := p + 8
		for i, key := range in.Switch.Keys {
			t, ok := labelPC[in.Switch.Targets[i]]
			if !ok {
				return fmt.Errorf("undefined case label %q", in.Switch.Targets[i])
			}
			binary.BigEndian.PutUint32(buf[base+i*8:], uint32(key))
			binary.BigEndian.PutUint32(buf[base+i*8+4:], uint32(int32(t-pc)))
		}
	}
	return nil
}

// FConst builds an Fconst instruction carrying v's IEEE-754 bit pattern.
func FConst(v float32) Instr {
	return Instr{Op: FconstConst, Operand: int64(math.Float32bits(v))}
}

// DConst builds a Dconst instruction carrying v's IEEE-754 bit pattern.
func DConst(v float64) Instr {
	return Instr{Op: DconstConst, Operand: int64(math.Float64bits(v))}
}
