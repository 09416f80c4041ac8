package vm

import "github.com/cnkfz/lumen/internal/classfile"

// RuntimeClass is created by the class table (§3): it carries the
// parsed descriptor, a stable load-order index, and its ancestry set.
// A RuntimeClass is created exactly once per class name and never
// destroyed during VM lifetime.
type RuntimeClass struct {
	Descriptor *classfile.ClassDescriptor
	Index      int

	// instanceFields is the full inherited-plus-own instance field
	// layout, superclass fields first, computed once at resolve time
	// (the super chain is guaranteed resolved before this class per
	// §4.1 step 4). Object cell offsets are positions into this slice.
	instanceFields []classfile.FieldDescriptor

	ancestry map[string]bool // populated eagerly by ClassTable.Resolve, never nil afterward

	statics map[string]Value // this class's own static field storage
}

// InstanceFields returns the class's full instance-field layout,
// superclass fields first, static fields excluded.
func (rc *RuntimeClass) InstanceFields() []classfile.FieldDescriptor {
	return rc.instanceFields
}

// Name returns the class's internal name.
func (rc *RuntimeClass) Name() string { return rc.Descriptor.Name }
