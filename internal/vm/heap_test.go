package vm

import "testing"

func TestHeap_AllocateAdvancesFreePointer(t *testing.T) {
	h := NewHeap(16)
	if h.FreePointer() != 1 {
		t.Fatalf("initial free pointer = %d, want 1 (index 0 reserved)", h.FreePointer())
	}
	ref, err := h.Allocate(3)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if ref != 1 {
		t.Errorf("first allocation = %d, want 1", ref)
	}
	if h.FreePointer() != 4 {
		t.Errorf("free pointer after alloc = %d, want 4", h.FreePointer())
	}
}

func TestHeap_AllocateZeroIsNoop(t *testing.T) {
	h := NewHeap(16)
	before := h.FreePointer()
	ref, err := h.Allocate(0)
	if err != nil {
		t.Fatalf("Allocate(0): %v", err)
	}
	if ref != before {
		t.Errorf("Allocate(0) = %d, want unchanged free pointer %d", ref, before)
	}
}

func TestHeap_AllocateExhaustion(t *testing.T) {
	h := NewHeap(4)
	if _, err := h.Allocate(2); err != nil {
		t.Fatalf("Allocate(2): %v", err)
	}
	if _, err := h.Allocate(1); err != nil {
		t.Fatalf("Allocate(1): %v", err)
	}
	if _, err := h.Allocate(1); err == nil {
		t.Error("expected OutOfMemory once the heap is exhausted")
	}
}

func TestHeap_ReadNullAlwaysZero(t *testing.T) {
	h := NewHeap(8)
	c, err := h.Read(NullRef)
	if err != nil {
		t.Fatalf("Read(NullRef): %v", err)
	}
	if c != 0 {
		t.Errorf("Read(NullRef) = %d, want 0", c)
	}
}

func TestHeap_WriteNullRefused(t *testing.T) {
	h := NewHeap(8)
	if err := h.Write(NullRef, 42); err == nil {
		t.Error("expected error writing to null index 0")
	}
}

func TestHeap_ReadWriteRoundTrip(t *testing.T) {
	h := NewHeap(8)
	ref, err := h.Allocate(1)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := h.Write(ref, 99); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := h.Read(ref)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != 99 {
		t.Errorf("Read = %d, want 99", got)
	}
}

func TestHeap_OutOfBounds(t *testing.T) {
	h := NewHeap(4)
	if _, err := h.Read(100); err == nil {
		t.Error("expected error reading out of bounds")
	}
	if err := h.Write(100, 1); err == nil {
		t.Error("expected error writing out of bounds")
	}
}
