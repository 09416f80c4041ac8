package vm

import "github.com/cnkfz/lumen/internal/classfile"

// NativeFunc is a host-implemented method body (§4.8). Invocation feeds
// arguments left to right; arity mismatches are tolerated by the
// resolver's caller (Thread.invokeNative), not by NativeFunc itself.
type NativeFunc func(m *Machine, args []Value) (Value, error)

// NativeRegistry is the consumed external collaborator of §4.8 and §6:
// a tree of leaves keyed by class name and signature, fixed at VM
// construction time. internal/natives provides the concrete
// implementation; this interface exists so internal/vm never imports
// internal/natives (avoiding an import cycle, since natives binds
// against *Machine).
//
// Lookup's arity is the leaf's declared argument count (including an
// implicit receiver, for instance natives); Thread.invokeNative pads
// or truncates the actual call arguments to this width before invoking
// the leaf, per §4.8's "substituting null for arity overflow in either
// direction".
type NativeRegistry interface {
	Lookup(className string, sig classfile.Signature) (fn NativeFunc, arity int, ok bool)
}

// emptyRegistry is the zero-value NativeRegistry used when a Machine is
// constructed with no bindings.
type emptyRegistry struct{}

func (emptyRegistry) Lookup(string, classfile.Signature) (NativeFunc, int, bool) {
	return nil, 0, false
}
