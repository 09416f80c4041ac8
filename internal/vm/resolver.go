package vm

import "github.com/cnkfz/lumen/internal/classfile"

// ResolvedMethod is the outcome of method resolution (§4.6): either a
// trapped native binding or a bytecode method descriptor, never both.
type ResolvedMethod struct {
	Native  NativeFunc
	Arity   int
	Method  *classfile.MethodDescriptor
	Class   *RuntimeClass
	Sig     classfile.Signature
}

// IsNative reports whether resolution trapped to a native binding.
func (r ResolvedMethod) IsNative() bool { return r.Native != nil }

// ResolveDirect implements §4.6's resolveDirectRef(ownerClassType,
// signature): natives shadow bytecode with the same signature.
func (m *Machine) ResolveDirect(owner *RuntimeClass, sig classfile.Signature) (ResolvedMethod, error) {
	if fn, arity, ok := m.Natives.Lookup(owner.Descriptor.Name, sig); ok {
		return ResolvedMethod{Native: fn, Arity: arity, Class: owner, Sig: sig}, nil
	}
	if md, ok := owner.Descriptor.Method(sig); ok {
		return ResolvedMethod{Method: md, Class: owner, Sig: sig}, nil
	}
	return ResolvedMethod{}, errorf(NoSuchMethod, "%s.%s", owner.Descriptor.Name, sig.String())
}

// ResolveVirtual finds the most specific override of sig starting at
// the receiver's runtime class and walking up through its declared
// super-chain (§4.6: "Virtual dispatch on invocation uses the ancestry
// of the receiver's runtime class"). Natives are still checked first at
// each level, preserving the trap-before-bytecode rule per class.
func (m *Machine) ResolveVirtual(receiver *RuntimeClass, sig classfile.Signature) (ResolvedMethod, error) {
	for rc := receiver; rc != nil; {
		if fn, arity, ok := m.Natives.Lookup(rc.Descriptor.Name, sig); ok {
			return ResolvedMethod{Native: fn, Arity: arity, Class: rc, Sig: sig}, nil
		}
		if md, ok := rc.Descriptor.Method(sig); ok {
			return ResolvedMethod{Method: md, Class: rc, Sig: sig}, nil
		}
		if rc.Descriptor.Super == "" {
			break
		}
		super, err := m.Classes.Resolve(rc.Descriptor.Super)
		if err != nil {
			return ResolvedMethod{}, err
		}
		rc = super
	}
	return ResolvedMethod{}, errorf(NoSuchMethod, "%s.%s", receiver.Descriptor.Name, sig.String())
}
