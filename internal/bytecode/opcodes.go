// Package bytecode defines the instruction set the interpreter dispatches
// (spec.md §4.7) and the tiny assembler/decoder that turns symbolic
// instructions into the byte-encoded stream a Frame's PC walks.
//
// The operand encoding follows the target bytecode platform's published
// convention: one opcode byte followed by zero or more big-endian operand
// bytes, as in daimatz-gojvm's frame decoding.
package bytecode

// Op identifies one instruction.
type Op byte

const (
	Nop Op = iota
	// Stack manipulation.
	Pop
	Dup
	Swap
	// Constants.
	AconstNull
	IconstM1
	Iconst0
	Iconst1
	Iconst2
	Iconst3
	Iconst4
	Iconst5
	LconstConst // operand: int64 immediate (8 bytes)
	FconstConst // operand: float32 bits (4 bytes)
	DconstConst // operand: float64 bits (8 bytes)
	Bipush      // operand: int8
	Sipush      // operand: int16
	Ldc         // operand: u16 constant-pool-style string index into Method's Constants
	// Locals.
	Iload // operand: u8 local index
	Lload
	Fload
	Dload
	Aload
	Istore
	Lstore
	Fstore
	Dstore
	Astore
	// Arrays.
	Newarray  // operand: u8 Primitive tag
	Anewarray // operand: u16 class-name constant index
	Arraylength
	Iaload
	Laload
	Faload
	Daload
	Aaload
	Baload
	Caload
	Saload
	Iastore
	Lastore
	Fastore
	Dastore
	Aastore
	Bastore
	Castore
	Sastore
	// Objects and fields.
	New       // operand: u16 class-name constant index
	Getfield  // operand: u16 field-name constant index
	Putfield  // operand: u16 field-name constant index
	Getstatic // operand: u16 field-name constant index
	Putstatic // operand: u16 field-name constant index
	// Arithmetic: int.
	Iadd
	Isub
	Imul
	Idiv
	Irem
	Ineg
	Iand
	Ior
	Ixor
	Ishl
	Ishr
	Iushr
	// Arithmetic: long.
	Ladd
	Lsub
	Lmul
	Ldiv
	Lrem
	Lneg
	Land
	Lor
	Lxor
	Lshl
	Lshr
	Lushr
	// Arithmetic: float.
	Fadd
	Fsub
	Fmul
	Fdiv
	Frem
	Fneg
	// Arithmetic: double.
	Dadd
	Dsub
	Dmul
	Ddiv
	Drem
	Dneg
	// Conversions.
	I2l
	I2f
	I2d
	L2i
	L2f
	L2d
	F2i
	F2l
	F2d
	D2i
	D2l
	D2f
	I2b
	I2c
	I2s
	// Comparisons producing an int on the stack.
	Lcmp
	Fcmpl
	Fcmpg
	Dcmpl
	Dcmpg
	// Branches. All take a u16 signed-offset-from-instruction-start operand.
	Ifeq
	Ifne
	Iflt
	Ifge
	Ifgt
	Ifle
	IfIcmpeq
	IfIcmpne
	IfIcmplt
	IfIcmpge
	IfIcmpgt
	IfIcmple
	IfAcmpeq
	IfAcmpne
	Ifnull
	Ifnonnull
	Goto
	// Switches. Operands are assembled specially; see Instr.
	Tableswitch
	Lookupswitch
	// Invocation. Operand: u16 signature-constant index.
	Invokestatic
	Invokevirtual
	Invokespecial
	Invokeinterface
	// Returns.
	Ireturn
	Lreturn
	Freturn
	Dreturn
	Areturn
	Return
	// Exceptions and monitors.
	Athrow
	Monitorenter
	Monitorexit
	// Type checks, wired to the subtype relation (§4.2).
	Checkcast   // operand: u16 class-name constant index
	Instanceof  // operand: u16 class-name constant index
	opCount
)

// operandSizes gives the number of operand bytes following each opcode,
// excluding Tableswitch/Lookupswitch (variable length, decoded specially).
var operandSizes = [opCount]int{
	LconstConst: 8,
	FconstConst: 4,
	DconstConst: 8,
	Bipush:      1,
	Sipush:      2,
	Ldc:         2,
	Iload:       1,
	Lload:       1,
	Fload:       1,
	Dload:       1,
	Aload:       1,
	Istore:      1,
	Lstore:      1,
	Fstore:      1,
	Dstore:      1,
	Astore:      1,
	Newarray:    1,
	Anewarray:   2,
	New:         2,
	Getfield:    2,
	Putfield:    2,
	Getstatic:   2,
	Putstatic:   2,
	Ifeq:        2, Ifne: 2, Iflt: 2, Ifge: 2, Ifgt: 2, Ifle: 2,
	IfIcmpeq: 2, IfIcmpne: 2, IfIcmplt: 2, IfIcmpge: 2, IfIcmpgt: 2, IfIcmple: 2,
	IfAcmpeq: 2, IfAcmpne: 2, Ifnull: 2, Ifnonnull: 2, Goto: 2,
	Invokestatic: 2, Invokevirtual: 2, Invokespecial: 2, Invokeinterface: 2,
	Checkcast: 2, Instanceof: 2,
}

// OperandSize reports how many operand bytes follow op, for ops whose
// size is fixed. Tableswitch/Lookupswitch return -1; decode them with
// DecodeTableswitch/DecodeLookupswitch.
func OperandSize(op Op) int {
	if op == Tableswitch || op == Lookupswitch {
		return -1
	}
	if int(op) >= len(operandSizes) {
		return 0
	}
	return operandSizes[op]
}

// Len returns the total encoded length (opcode byte + operands) of the
// instruction starting at code[pc], or -1 if pc is out of range.
func Len(code []byte, pc int) int {
	if pc < 0 || pc >= len(code) {
		return -1
	}
	op := Op(code[pc])
	switch op {
	case Tableswitch:
		n, _, _, _ := decodeTableswitchHeader(code, pc)
		return n
	case Lookupswitch:
		n, _ := decodeLookupswitchHeader(code, pc)
		return n
	default:
		return 1 + OperandSize(op)
	}
}
