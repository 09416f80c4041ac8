// Package classfile models the parsed, immutable shape of a loaded class:
// type descriptors, signatures, and the class/field/method descriptors the
// class table and interpreter consume. The real class-file byte format is
// an external concern (see Loader and Parser); this package only fixes the
// shape a parser must produce.
package classfile

import "strings"

// Kind identifies which of Type's three variants is populated.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindClass
	KindArray
)

// Primitive enumerates the closed set of primitive kinds named in §3.
type Primitive uint8

const (
	Boolean Primitive = iota
	Byte
	Short
	Char
	Int
	Long
	Float
	Double
	Void
)

// String returns the canonical lowercase primitive name.
func (p Primitive) String() string {
	switch p {
	case Boolean:
		return "boolean"
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Char:
		return "char"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	case Void:
		return "void"
	default:
		return "invalid"
	}
}

// Width reports how many heap/local-variable slots a value of this
// primitive kind occupies: long and double are two-word, everything
// else is one word (§3, §4.7).
func (p Primitive) Width() int {
	if p == Long || p == Double {
		return 2
	}
	return 1
}

// Type is the tagged, value-equal, immutable type descriptor of §3. It is
// intentionally a small closed sum type (Primitive | Class | Array) rather
// than an interned structural type: the bytecode platform's type system
// has exactly these three shapes, and subtype.Check only ever compares two
// Types directly, so there is nothing for an interner to buy.
type Type struct {
	kind Kind
	prim Primitive
	name string // internal slash-separated class name, only for KindClass
	elem *Type  // component type, only for KindArray
}

// PrimitiveType constructs a primitive Type.
func PrimitiveType(p Primitive) Type {
	return Type{kind: KindPrimitive, prim: p}
}

// ClassType constructs a class Type from an internal name (e.g. "java/lang/Object").
func ClassType(internalName string) Type {
	return Type{kind: KindClass, name: internalName}
}

// ArrayType constructs an array Type with the given component type.
func ArrayType(component Type) Type {
	c := component
	return Type{kind: KindArray, elem: &c}
}

// Kind reports which variant this Type holds.
func (t Type) Kind() Kind { return t.kind }

// IsPrimitive reports whether t is a primitive type.
func (t Type) IsPrimitive() bool { return t.kind == KindPrimitive }

// IsClass reports whether t is a class type.
func (t Type) IsClass() bool { return t.kind == KindClass }

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool { return t.kind == KindArray }

// Primitive returns the primitive kind; only meaningful when IsPrimitive.
func (t Type) Primitive() Primitive { return t.prim }

// ClassName returns the internal class name; only meaningful when IsClass.
func (t Type) ClassName() string { return t.name }

// Component returns the array's component type; only meaningful when IsArray.
func (t Type) Component() Type {
	if t.elem == nil {
		return Type{}
	}
	return *t.elem
}

// Width reports the slot width of a value of this type (§4.7).
func (t Type) Width() int {
	switch t.kind {
	case KindPrimitive:
		return t.prim.Width()
	default:
		return 1
	}
}

// Equal reports structural, value equality between two Types (§3).
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KindPrimitive:
		return t.prim == o.prim
	case KindClass:
		return t.name == o.name
	case KindArray:
		return t.Component().Equal(o.Component())
	default:
		return true
	}
}

// String renders a human-readable form, mainly for diagnostics and tests.
func (t Type) String() string {
	switch t.kind {
	case KindPrimitive:
		return t.prim.String()
	case KindClass:
		return t.name
	case KindArray:
		return t.Component().String() + "[]"
	default:
		return "<invalid type>"
	}
}

// Well-known class names referenced by the subtype rules in §4.2.
const (
	ObjectClassName        = "java/lang/Object"
	CloneableClassName     = "java/lang/Cloneable"
	SerializableClassName  = "java/io/Serializable"
	ThrowableClassName     = "java/lang/Throwable"
)

// Descriptor denotes the parameter and return types of a method (§3).
type Descriptor struct {
	Params []Type
	Return Type
}

// Equal reports whether two descriptors name the same parameter list and
// return type.
func (d Descriptor) Equal(o Descriptor) bool {
	if len(d.Params) != len(o.Params) {
		return false
	}
	for i := range d.Params {
		if !d.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return d.Return.Equal(o.Return)
}

// String renders the descriptor in "(P1,P2)R" form for diagnostics.
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range d.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	b.WriteString(d.Return.String())
	return b.String()
}

// Signature is a (name, descriptor) pair (§3). Two signatures are equal
// iff both components are equal.
type Signature struct {
	Name       string
	Descriptor Descriptor
}

// Equal reports signature equality.
func (s Signature) Equal(o Signature) bool {
	return s.Name == o.Name && s.Descriptor.Equal(o.Descriptor)
}

// String renders "name(P1,P2)R" for diagnostics and native-registry keys.
func (s Signature) String() string {
	return s.Name + s.Descriptor.String()
}
