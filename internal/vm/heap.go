package vm

// Ref is a heap reference: a non-negative cell index, with 0 meaning
// null (§3, §4.3).
type Ref uint32

// NullRef is the reserved sentinel at heap index 0.
const NullRef Ref = 0

// DefaultHeapCells is the reference implementation's heap size (§4.3:
// "a fixed-size word array of size ≈ 2^20 cells").
const DefaultHeapCells = 1 << 20

// Cell is one machine-word heap slot. Field cells hold either a raw
// numeric payload (primitives) or a Ref (references), disambiguated by
// the reading code's static type knowledge, never by a runtime tag
// stored in the cell itself — matching the bytecode platform's untyped
// heap words.
type Cell uint64

// Heap is the flat, word-indexed, bump-allocated memory of §4.3. It is
// mutated only by the single interpreter thread (§5); no internal
// locking is performed.
type Heap struct {
	cells []Cell
	free  Ref
}

// NewHeap allocates a Heap with the given cell capacity. Index 0 is
// reserved and never handed out.
func NewHeap(cells int) *Heap {
	return &Heap{cells: make([]Cell, cells), free: 1}
}

// Allocate reserves n contiguous cells and returns the index of the
// first one, advancing the free pointer. Allocating zero cells returns
// the current free pointer unchanged (§8 boundary).
func (h *Heap) Allocate(n int) (Ref, error) {
	if n == 0 {
		return h.free, nil
	}
	if n < 0 {
		return NullRef, errorf(InternalErrorCode, "negative allocation size %d", n)
	}
	start := h.free
	end := uint64(start) + uint64(n)
	if end > uint64(len(h.cells)) {
		return NullRef, errorf(OutOfMemory, "heap exhausted: requested %d cells, %d free", n, len(h.cells)-int(start))
	}
	h.free = Ref(end)
	return start, nil
}

// Read returns the cell at i. Reading index 0 always yields the zero
// cell, i.e. the null reference (§8 boundary).
func (h *Heap) Read(i Ref) (Cell, error) {
	if int(i) >= len(h.cells) {
		return 0, errorf(InternalErrorCode, "heap read out of bounds: %d", i)
	}
	return h.cells[i], nil
}

// Write stores v at i. Writing index 0 is refused (§3 invariant: "Heap
// index 0 is never written").
func (h *Heap) Write(i Ref, v Cell) error {
	if i == NullRef {
		return errorf(InternalErrorCode, "attempted write to null heap index 0")
	}
	if int(i) >= len(h.cells) {
		return errorf(InternalErrorCode, "heap write out of bounds: %d", i)
	}
	h.cells[i] = v
	return nil
}

// FreePointer reports the current bump-allocation frontier.
func (h *Heap) FreePointer() Ref { return h.free }

// Cap reports the heap's total cell capacity.
func (h *Heap) Cap() int { return len(h.cells) }
