package classfile

import "github.com/cnkfz/lumen/internal/bytecode"

// Builder constructs a ClassDescriptor programmatically, without going
// through a Parser or filesystem. Tests use it directly.
type Builder struct {
	cls ClassDescriptor
}

// NewBuilder starts a class named name, inheriting from super.
func NewBuilder(name, super string) *Builder {
	return &Builder{cls: ClassDescriptor{Name: name, Super: super}}
}

// Access sets the class's access flags.
func (b *Builder) Access(flags AccessFlags) *Builder {
	b.cls.Access = flags
	return b
}

// Implements adds an interface to the class's interface list.
func (b *Builder) Implements(name string) *Builder {
	b.cls.Interfaces = append(b.cls.Interfaces, name)
	return b
}

// Field appends a field.
func (b *Builder) Field(name string, t Type, flags AccessFlags) *Builder {
	b.cls.Fields = append(b.cls.Fields, FieldDescriptor{Name: name, Type: t, Access: flags})
	return b
}

// MethodBuilder appends a method under construction and returns its
// dedicated builder, letting callers assemble the body inline.
func (b *Builder) MethodBuilder(sig Signature, flags AccessFlags) *MethodBuilder {
	return &MethodBuilder{
		parent: b,
		sig:    sig,
		flags:  flags,
		labels: make(map[string]int),
		consts: bytecode.NewConstants(),
	}
}

// NativeMethod appends a method with no body, marked Native, whose
// implementation lives in the native-binding registry.
func (b *Builder) NativeMethod(sig Signature, flags AccessFlags) *Builder {
	b.cls.Methods = append(b.cls.Methods, MethodDescriptor{
		Signature: sig,
		Access:    flags | Native,
	})
	return b
}

// AbstractMethod appends a method with no body and no native binding.
func (b *Builder) AbstractMethod(sig Signature, flags AccessFlags) *Builder {
	b.cls.Methods = append(b.cls.Methods, MethodDescriptor{
		Signature: sig,
		Access:    flags | Abstract,
	})
	return b
}

// Build finalizes and returns the ClassDescriptor.
func (b *Builder) Build() *ClassDescriptor {
	cls := b.cls
	return &cls
}

// MethodBuilder assembles one method body instruction by instruction,
// resolving labels to PC offsets at Done via bytecode.Assemble.
type MethodBuilder struct {
	parent    *Builder
	sig       Signature
	flags     AccessFlags
	instrs    []bytecode.Instr
	labels    map[string]int // label name -> instruction index
	consts    *bytecode.Constants
	handlers  []ExceptionHandler
	maxLocals int
	maxStack  int
}

// Label marks the next appended instruction with name, for later branch
// targets.
func (m *MethodBuilder) Label(name string) *MethodBuilder {
	m.labels[name] = len(m.instrs)
	return m
}

// Emit appends one instruction as-is.
func (m *MethodBuilder) Emit(in bytecode.Instr) *MethodBuilder {
	m.instrs = append(m.instrs, in)
	return m
}

// Op appends a bare opcode with no operand.
func (m *MethodBuilder) Op(op bytecode.Op) *MethodBuilder {
	return m.Emit(bytecode.Instr{Op: op})
}

// Imm appends an opcode with an integer immediate operand.
func (m *MethodBuilder) Imm(op bytecode.Op, operand int64) *MethodBuilder {
	return m.Emit(bytecode.Instr{Op: op, Operand: operand})
}

// Sym appends an opcode whose operand references a symbol interned into
// the method's constant pool (Ldc, Getfield, Invoke*, Checkcast, ...).
func (m *MethodBuilder) Sym(op bytecode.Op, symbol string) *MethodBuilder {
	return m.Emit(bytecode.Instr{Op: op, Symbol: symbol})
}

// Branch appends a conditional/unconditional jump targeting a label
// established by a later (or earlier) Label call.
func (m *MethodBuilder) Branch(op bytecode.Op, label string) *MethodBuilder {
	return m.Emit(bytecode.Instr{Op: op, Label: label})
}

// Handler registers an exception handler covering [start,end) labels,
// dispatching to target on catchType (empty catchType matches any).
func (m *MethodBuilder) Handler(start, end, target string, catchType string) *MethodBuilder {
	m.handlers = append(m.handlers, ExceptionHandler{
		Start: m.labels[start], End: m.labels[end], Target: m.labels[target], CatchType: catchType,
	})
	return m
}

// Locals sets the frame's local-variable slot count.
func (m *MethodBuilder) Locals(n int) *MethodBuilder {
	m.maxLocals = n
	return m
}

// Stack sets the frame's operand-stack depth.
func (m *MethodBuilder) Stack(n int) *MethodBuilder {
	m.maxStack = n
	return m
}

// Done assembles the accumulated instructions and appends the finished
// method to the parent Builder, returning the parent for chaining.
func (m *MethodBuilder) Done() *Builder {
	labelOf := make(map[int]string, len(m.labels))
	for name, idx := range m.labels {
		labelOf[idx] = name
	}
	code, err := bytecode.Assemble(m.instrs, labelOf, m.consts)
	if err != nil {
		panic(err) // programmer error in a hand-built test fixture
	}
	// Handlers hold instruction indices until here; map them to PCs.
	pcOf := make([]int, 0, len(m.instrs)+1)
	for pc := 0; pc < len(code); pc += bytecode.Len(code, pc) {
		pcOf = append(pcOf, pc)
	}
	pcOf = append(pcOf, len(code))
	handlers := make([]ExceptionHandler, len(m.handlers))
	for i, h := range m.handlers {
		h.Start, h.End, h.Target = pcOf[h.Start], pcOf[h.End], pcOf[h.Target]
		handlers[i] = h
	}
	m.parent.cls.Methods = append(m.parent.cls.Methods, MethodDescriptor{
		Signature: m.sig,
		Access:    m.flags,
		Bytecode:  code,
		Constants: m.consts,
		Handlers:  handlers,
		MaxLocals: m.maxLocals,
		MaxStack:  m.maxStack,
	})
	return m.parent
}
