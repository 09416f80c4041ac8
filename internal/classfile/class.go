package classfile

import "github.com/cnkfz/lumen/internal/bytecode"

// FieldDescriptor describes one declared instance or static field (§3).
type FieldDescriptor struct {
	Name   string
	Type   Type
	Access AccessFlags
}

// ExceptionHandler is one entry of a method's exception-handler table
// (§4.7): the PC range it covers, the handler target, and the declared
// exception type it catches (empty CatchType means catch-all, i.e. a
// finally block).
type ExceptionHandler struct {
	Start     int
	End       int
	Target    int
	CatchType string // internal class name, or "" for catch-all
}

// MethodDescriptor describes one declared method (§3). Bytecode is nil
// for abstract or native-trapped methods; Handlers may be empty.
type MethodDescriptor struct {
	Signature Signature
	Access    AccessFlags
	Bytecode  []byte
	Constants *bytecode.Constants // symbol table for Ldc/Getfield/Invoke*/Checkcast operands; nil for bodyless methods
	Handlers  []ExceptionHandler
	MaxLocals int
	MaxStack  int
}

// ConstantAt resolves a constant-pool-style operand index to its
// symbol string. A nil Constants table (bodyless methods) yields "".
func (m MethodDescriptor) ConstantAt(index int) string {
	if m.Constants == nil {
		return ""
	}
	return m.Constants.At(index)
}

// IsStatic reports whether the method is declared static.
func (m MethodDescriptor) IsStatic() bool { return m.Access.Has(Static) }

// IsAbstract reports whether the method has no body.
func (m MethodDescriptor) IsAbstract() bool { return m.Access.Has(Abstract) }

// IsNative reports whether the method is declared native (a trap target).
func (m MethodDescriptor) IsNative() bool { return m.Access.Has(Native) }

// ClassDescriptor is the immutable, parsed-once record of one class (§3).
type ClassDescriptor struct {
	Name       string // internal slash-form name
	Super      string // "" iff this class has no super (only java/lang/Object)
	Interfaces []string
	Fields     []FieldDescriptor
	Methods    []MethodDescriptor
	Access     AccessFlags
}

// Field looks up a declared field by name, searching only this class (not
// its ancestry).
func (c *ClassDescriptor) Field(name string) (FieldDescriptor, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Method looks up a declared method by signature, searching only this
// class (not its ancestry). Resolution order across ancestry is the
// method resolver's concern, not the descriptor's.
func (c *ClassDescriptor) Method(sig Signature) (*MethodDescriptor, bool) {
	for i := range c.Methods {
		if c.Methods[i].Signature.Equal(sig) {
			return &c.Methods[i], true
		}
	}
	return nil, false
}

// InstanceFields returns the fields that occupy a heap slot on instances
// of this class, i.e. every declared field that is not static.
func (c *ClassDescriptor) InstanceFields() []FieldDescriptor {
	out := make([]FieldDescriptor, 0, len(c.Fields))
	for _, f := range c.Fields {
		if !f.Access.Has(Static) {
			out = append(out, f)
		}
	}
	return out
}
