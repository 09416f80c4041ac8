package bytecode

import (
	"encoding/binary"
	"math"
)

// U8 reads an unsigned byte operand at code[pc].
func U8(code []byte, pc int) uint8 { return code[pc] }

// I8 reads a signed byte operand at code[pc].
func I8(code []byte, pc int) int8 { return int8(code[pc]) }

// U16 reads a big-endian unsigned 16-bit operand at code[pc:pc+2].
func U16(code []byte, pc int) uint16 {
	return binary.BigEndian.Uint16(code[pc : pc+2])
}

// I16 reads a big-endian signed 16-bit operand at code[pc:pc+2].
func I16(code []byte, pc int) int16 {
	return int16(U16(code, pc))
}

// I32 reads a big-endian signed 32-bit operand at code[pc:pc+4].
func I32(code []byte, pc int) int32 {
	return int32(binary.BigEndian.Uint32(code[pc : pc+4]))
}

// I64 reads a big-endian signed 64-bit operand at code[pc:pc+8].
func I64(code []byte, pc int) int64 {
	return int64(binary.BigEndian.Uint64(code[pc : pc+8]))
}

// F32 reads a big-endian IEEE-754 float32 operand at code[pc:pc+4].
func F32(code []byte, pc int) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(code[pc : pc+4]))
}

// F64 reads a big-endian IEEE-754 float64 operand at code[pc:pc+8].
func F64(code []byte, pc int) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(code[pc : pc+8]))
}

// TableswitchCase describes a decoded tableswitch instruction.
type TableswitchCase struct {
	Low, High int32
	Targets   []int32 // PC-relative offsets from the instruction's start
	Default   int32
}

// decodeTableswitchHeader returns the total instruction length, low,
// high, and default offset, without allocating the targets slice; used
// by Len.
func decodeTableswitchHeader(code []byte, pc int) (length int, low, high, def int32) {
	p := pc + 1
	// Align to the next 4-byte boundary relative to the start of the code.
	pad := (4 - (p % 4)) % 4
	p += pad
	def = I32(code, p)
	low = I32(code, p+4)
	high = I32(code, p+8)
	count := int(high-low) + 1
	end := p + 12 + count*4
	return end - pc, low, high, def
}

// DecodeTableswitch fully decodes a tableswitch at code[pc].
func DecodeTableswitch(code []byte, pc int) TableswitchCase {
	p := pc + 1
	pad := (4 - (p % 4)) % 4
	p += pad
	def := I32(code, p)
	low := I32(code, p+4)
	high := I32(code, p+8)
	count := int(high-low) + 1
	targets := make([]int32, count)
	base := p + 12
	for i := 0; i < count; i++ {
		targets[i] = I32(code, base+i*4)
	}
	return TableswitchCase{Low: low, High: high, Targets: targets, Default: def}
}

// LookupswitchCase describes a decoded lookupswitch instruction.
type LookupswitchCase struct {
	Pairs   map[int32]int32
	Default int32
}

func decodeLookupswitchHeader(code []byte, pc int) (length int, def int32) {
	p := pc + 1
	pad := (4 - (p % 4)) % 4
	p += pad
	def = I32(code, p)
	n := int(I32(code, p+4))
	end := p + 8 + n*8
	return end - pc, def
}

// DecodeLookupswitch fully decodes a lookupswitch at code[pc].
func DecodeLookupswitch(code []byte, pc int) LookupswitchCase {
	p := pc + 1
	pad := (4 - (p % 4)) % 4
	p += pad
	def := I32(code, p)
	n := int(I32(code, p+4))
	pairs := make(map[int32]int32, n)
	base := p + 8
	for i := 0; i < n; i++ {
		key := I32(code, base+i*8)
		target := I32(code, base+i*8+4)
		pairs[key] = target
	}
	return LookupswitchCase{Pairs: pairs, Default: def}
}
