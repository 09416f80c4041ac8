package vm

import "github.com/cnkfz/lumen/internal/classfile"

// stringClassName is the internal name of the string class new string
// objects are allocated as. It must declare a single reference field
// named "value" holding a char array, per the reference layout this VM
// assumes for extracting character contents (§4.5).
const stringClassName = "java/lang/String"

// StringTable is the interning table of §4.5: a mapping from abstract
// string value to heap reference, monotonic and never reclaimed.
type StringTable struct {
	byValue map[string]Ref
}

// NewStringTable returns an empty interning table.
func NewStringTable() *StringTable {
	return &StringTable{byValue: make(map[string]Ref)}
}

// Intern implements §4.5's intern(reference): extract the character
// sequence, look it up, return the canonical reference (inserting on
// first sight).
func (m *Machine) Intern(ref Ref) (Ref, error) {
	s, err := m.readJavaString(ref)
	if err != nil {
		return NullRef, err
	}
	if canon, ok := m.Strings.byValue[s]; ok {
		return canon, nil
	}
	m.Strings.byValue[s] = ref
	return ref, nil
}

// NewString allocates a fresh string object holding s's characters and
// interns it, returning the canonical reference. This is the entry
// point bytecode's Ldc uses for string-literal constants and natives
// use to hand Go strings back into the heap.
func (m *Machine) NewString(s string) (Ref, error) {
	runes := []rune(s)
	arr, err := m.AllocateArray(classfile.PrimitiveType(classfile.Char), len(runes))
	if err != nil {
		return NullRef, err
	}
	for i, r := range runes {
		if err := m.SetElement(arr, i, classfile.PrimitiveType(classfile.Char), MakeInt(int32(r))); err != nil {
			return NullRef, err
		}
	}
	rc, err := m.Classes.Resolve(stringClassName)
	if err != nil {
		return NullRef, err
	}
	obj, err := m.AllocateObject(rc)
	if err != nil {
		return NullRef, err
	}
	if err := m.PutField(obj, "value", MakeRef(arr)); err != nil {
		return NullRef, err
	}
	return m.Intern(obj)
}

// readJavaString extracts the character sequence back out of a heap
// string object's "value" char-array field.
func (m *Machine) readJavaString(ref Ref) (string, error) {
	if ref == NullRef {
		return "", errorf(InternalErrorCode, "null pointer: intern of null reference")
	}
	v, err := m.GetField(ref, "value")
	if err != nil {
		return "", err
	}
	arr := v.Ref()
	length, err := m.ArrayLength(arr)
	if err != nil {
		return "", err
	}
	runes := make([]rune, length)
	for i := 0; i < length; i++ {
		el, err := m.GetElement(arr, i, classfile.PrimitiveType(classfile.Char))
		if err != nil {
			return "", err
		}
		runes[i] = rune(el.Int())
	}
	return string(runes), nil
}
