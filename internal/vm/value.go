package vm

import "math"

// valueTag distinguishes Value's two variants, per the redesign in §9:
// "Re-architect as a tagged union over {Primitive(width, bits),
// Reference(index)}; the interpreter's opcode effects dispatch on the
// static opcode, not on the runtime tag." The tag exists only so a
// Value can flow uniformly through locals slots and the operand stack;
// no dispatch code ever switches on it.
type valueTag uint8

const (
	tagPrimitive valueTag = iota
	tagReference
)

// Value is one operand-stack slot or local-variable slot. Two-word
// primitives (long, double) occupy two consecutive slots; callers are
// responsible for slot-width bookkeeping per §4.7 and classfile.Type.Width.
type Value struct {
	tag   valueTag
	width int    // 1 or 2, meaningful for tagPrimitive
	bits  uint64 // raw bit pattern, meaningful for tagPrimitive
	ref   Ref    // meaningful for tagReference
}

// IsReference reports whether v holds a heap reference.
func (v Value) IsReference() bool { return v.tag == tagReference }

// Ref returns the held reference; only meaningful when IsReference.
func (v Value) Ref() Ref { return v.ref }

// Width reports the slot width v occupies (1 or 2).
func (v Value) Width() int {
	if v.tag == tagReference {
		return 1
	}
	return v.width
}

// MakeRef constructs a reference Value.
func MakeRef(r Ref) Value { return Value{tag: tagReference, ref: r, width: 1} }

// MakeInt constructs a one-word int Value (also used for boolean, byte,
// short, char, which the interpreter widens to int on the stack).
func MakeInt(i int32) Value { return Value{tag: tagPrimitive, width: 1, bits: uint64(uint32(i))} }

// Int returns v's int32 payload.
func (v Value) Int() int32 { return int32(uint32(v.bits)) }

// MakeLong constructs a two-word long Value.
func MakeLong(i int64) Value { return Value{tag: tagPrimitive, width: 2, bits: uint64(i)} }

// Long returns v's int64 payload.
func (v Value) Long() int64 { return int64(v.bits) }

// MakeFloat constructs a one-word float Value.
func MakeFloat(f float32) Value {
	return Value{tag: tagPrimitive, width: 1, bits: uint64(math.Float32bits(f))}
}

// Float returns v's float32 payload.
func (v Value) Float() float32 { return math.Float32frombits(uint32(v.bits)) }

// MakeDouble constructs a two-word double Value.
func MakeDouble(f float64) Value {
	return Value{tag: tagPrimitive, width: 2, bits: math.Float64bits(f)}
}

// Double returns v's float64 payload.
func (v Value) Double() float64 { return math.Float64frombits(v.bits) }

// ZeroValue returns the zero-initialized Value for a field or local of
// the given width and reference-ness, matching the object allocator's
// "0 means null for reference fields and numeric zero for primitives"
// rule (§4.4).
func ZeroValue(isRef bool, width int) Value {
	if isRef {
		return MakeRef(NullRef)
	}
	return Value{tag: tagPrimitive, width: width}
}

// cells converts v to the raw Cell(s) an object or array slot stores.
// Two-word values occupy two consecutive cells, high word first,
// matching the reference implementation's 32-bit-word heap layout.
func (v Value) cells() []Cell {
	if v.tag == tagReference {
		return []Cell{Cell(v.ref)}
	}
	if v.width == 2 {
		return []Cell{Cell(v.bits >> 32), Cell(v.bits & 0xffffffff)}
	}
	return []Cell{Cell(v.bits)}
}

// primitiveFromCells reconstructs a primitive Value of the given width
// from one or two heap cells, the inverse of cells().
func primitiveFromCells(width int, cs ...Cell) Value {
	if width == 2 {
		bits := uint64(cs[0])<<32 | (uint64(cs[1]) & 0xffffffff)
		return Value{tag: tagPrimitive, width: 2, bits: bits}
	}
	return Value{tag: tagPrimitive, width: 1, bits: uint64(uint32(cs[0]))}
}

// referenceFromCell reconstructs a reference Value from one heap cell.
func referenceFromCell(c Cell) Value {
	return Value{tag: tagReference, width: 1, ref: Ref(c)}
}
