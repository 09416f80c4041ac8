package vm

import "github.com/cnkfz/lumen/internal/classfile"

// Object model (§4.4): a heap object is a header cell naming the
// runtime class, followed by one cell (or two, for wide fields) per
// instance field in layout order. A heap array is a length cell
// followed by length element cells.

// AllocateObject implements §4.4 allocateObject: header + field-count
// cells, header carrying the runtime-class index, fields zeroed.
func (m *Machine) AllocateObject(rc *RuntimeClass) (Ref, error) {
	fields := rc.InstanceFields()
	n := 1
	for _, f := range fields {
		n += f.Type.Width()
	}
	start, err := m.Heap.Allocate(n)
	if err != nil {
		return NullRef, err
	}
	if err := m.Heap.Write(start, Cell(rc.Index)); err != nil {
		return NullRef, err
	}
	offset := start + 1
	for _, f := range fields {
		zero := ZeroValue(!f.Type.IsPrimitive(), f.Type.Width())
		for _, c := range zero.cells() {
			if err := m.Heap.Write(offset, c); err != nil {
				return NullRef, err
			}
			offset++
		}
	}
	return start, nil
}

// AllocateArray implements §4.4 allocateArray: 1+length cells, header
// carries length, payload zeroed. Reference-component arrays hold one
// cell per element; two-word primitive-component arrays (long, double)
// hold two.
func (m *Machine) AllocateArray(component classfile.Type, length int) (Ref, error) {
	if length < 0 {
		return NullRef, errorf(InternalErrorCode, "negative array length %d", length)
	}
	width := 1
	if component.IsPrimitive() {
		width = component.Width()
	}
	start, err := m.Heap.Allocate(1 + length*width)
	if err != nil {
		return NullRef, err
	}
	if err := m.Heap.Write(start, Cell(length)); err != nil {
		return NullRef, err
	}
	zero := ZeroValue(!component.IsPrimitive(), width)
	offset := start + 1
	for i := 0; i < length; i++ {
		for _, c := range zero.cells() {
			if err := m.Heap.Write(offset, c); err != nil {
				return NullRef, err
			}
			offset++
		}
	}
	return start, nil
}

// ClassOf reads an object's header cell and resolves it to a runtime
// class via byIndex.
func (m *Machine) ClassOf(ref Ref) (*RuntimeClass, error) {
	if ref == NullRef {
		return nil, errorf(InternalErrorCode, "null pointer: class-of on null reference")
	}
	header, err := m.Heap.Read(ref)
	if err != nil {
		return nil, err
	}
	return m.Classes.ByIndex(int(header))
}

// ArrayLength reads an array's length header cell.
func (m *Machine) ArrayLength(ref Ref) (int, error) {
	if ref == NullRef {
		return 0, errorf(InternalErrorCode, "null pointer: length of null array")
	}
	c, err := m.Heap.Read(ref)
	if err != nil {
		return 0, err
	}
	return int(c), nil
}

// fieldOffset locates field's cell offset (relative to the object's
// header) and width within rc's instance-field layout.
func fieldOffset(rc *RuntimeClass, name string) (offset int, field classfile.FieldDescriptor, ok bool) {
	off := 1
	for _, f := range rc.InstanceFields() {
		if f.Name == name {
			return off, f, true
		}
		off += f.Type.Width()
	}
	return 0, classfile.FieldDescriptor{}, false
}

// GetField reads instance field name from ref.
func (m *Machine) GetField(ref Ref, name string) (Value, error) {
	rc, err := m.ClassOf(ref)
	if err != nil {
		return Value{}, err
	}
	off, field, ok := fieldOffset(rc, name)
	if !ok {
		return Value{}, errorf(InternalErrorCode, "no such field %s on %s", name, rc.Descriptor.Name)
	}
	return m.readSlot(ref+Ref(off), field.Type)
}

// PutField writes instance field name on ref.
func (m *Machine) PutField(ref Ref, name string, v Value) error {
	rc, err := m.ClassOf(ref)
	if err != nil {
		return err
	}
	off, _, ok := fieldOffset(rc, name)
	if !ok {
		return errorf(InternalErrorCode, "no such field %s on %s", name, rc.Descriptor.Name)
	}
	return m.writeSlot(ref+Ref(off), v)
}

// GetElement reads array element index from ref.
func (m *Machine) GetElement(ref Ref, index int, component classfile.Type) (Value, error) {
	length, err := m.ArrayLength(ref)
	if err != nil {
		return Value{}, err
	}
	if index < 0 || index >= length {
		return Value{}, errorf(InternalErrorCode, "array index out of bounds: %d of %d", index, length)
	}
	width := 1
	if component.IsPrimitive() {
		width = component.Width()
	}
	offset := ref + 1 + Ref(index*width)
	return m.readSlot(offset, component)
}

// SetElement writes array element index on ref.
func (m *Machine) SetElement(ref Ref, index int, component classfile.Type, v Value) error {
	length, err := m.ArrayLength(ref)
	if err != nil {
		return err
	}
	if index < 0 || index >= length {
		return errorf(InternalErrorCode, "array index out of bounds: %d of %d", index, length)
	}
	width := 1
	if component.IsPrimitive() {
		width = component.Width()
	}
	offset := ref + 1 + Ref(index*width)
	return m.writeSlot(offset, v)
}

func (m *Machine) readSlot(offset Ref, t classfile.Type) (Value, error) {
	if !t.IsPrimitive() {
		c, err := m.Heap.Read(offset)
		if err != nil {
			return Value{}, err
		}
		return referenceFromCell(c), nil
	}
	width := t.Width()
	if width == 2 {
		hi, err := m.Heap.Read(offset)
		if err != nil {
			return Value{}, err
		}
		lo, err := m.Heap.Read(offset + 1)
		if err != nil {
			return Value{}, err
		}
		return primitiveFromCells(2, hi, lo), nil
	}
	c, err := m.Heap.Read(offset)
	if err != nil {
		return Value{}, err
	}
	return primitiveFromCells(1, c), nil
}

func (m *Machine) writeSlot(offset Ref, v Value) error {
	for i, c := range v.cells() {
		if err := m.Heap.Write(offset+Ref(i), c); err != nil {
			return err
		}
	}
	return nil
}
