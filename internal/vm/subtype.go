package vm

import "github.com/cnkfz/lumen/internal/classfile"

// Check implements the assignability predicate of §4.2: whether a value
// statically of type s may flow into a slot of type t. Rules are tried
// in order; the first match wins.
func (t *ClassTable) Check(s, target classfile.Type) bool {
	switch {
	case s.IsClass() && target.IsClass():
		// Rule 1: Class into Class.
		rc, err := t.Resolve(s.ClassName())
		if err != nil {
			return false
		}
		return rc.Ancestry(target.ClassName())

	case s.IsArray() && target.IsClass():
		// Rule 2: Array into Object (or Cloneable/Serializable).
		switch target.ClassName() {
		case classfile.ObjectClassName, classfile.CloneableClassName, classfile.SerializableClassName:
			return true
		default:
			return false
		}

	case s.IsArray() && target.IsArray():
		sc, tc := s.Component(), target.Component()
		if sc.IsPrimitive() || tc.IsPrimitive() {
			// Rule 3: Array into Array of primitives.
			return sc.IsPrimitive() && tc.IsPrimitive() && sc.Primitive() == tc.Primitive()
		}
		// Rule 4: Array into Array of references, recursively.
		return t.Check(sc, tc)

	default:
		// Rule 5: otherwise false (including any primitive operand,
		// per §4.2's note that primitive assignability is handled by
		// the interpreter's typed opcodes, not Check).
		return false
	}
}
