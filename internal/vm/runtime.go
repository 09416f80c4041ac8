// Package vm implements the interpretive runtime (spec §1): class
// loading and ancestry resolution, method resolution with native
// interception, the managed heap and object model with interned
// strings, and the frame/thread bytecode execution engine.
package vm

import (
	"context"
	"io"

	"github.com/cnkfz/lumen/internal/classfile"
	"github.com/cnkfz/lumen/internal/trace"
)

// Options configures a Machine at construction time (§6 embedding API:
// "Construct a VM with optional bindings and an optional logging
// callback").
type Options struct {
	Loader    classfile.Loader
	Parser    classfile.Parser
	Natives   NativeRegistry
	Tracer    trace.Tracer
	HeapSize  int       // cell count; 0 means DefaultHeapCells
	NativeLog io.Writer // when set, every native call is appended as a msgpack record (--record-natives)
}

// Machine is one VM instance (§9: "Each VM instance encapsulates its
// own heap, class table, interning table, and thread. No state is
// shared across VM instances; construction is the lifecycle boundary.")
type Machine struct {
	Heap    *Heap
	Classes *ClassTable
	Strings *StringTable
	Natives NativeRegistry

	tracer *tracerAdapter
	log    *NativeCallLog
}

// New constructs a Machine per opts. A zero Options yields a working
// VM with no bindings, a no-op tracer, and the default heap size.
func New(opts Options) *Machine {
	if opts.Natives == nil {
		opts.Natives = emptyRegistry{}
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	if opts.Loader == nil {
		opts.Loader = classfile.MapLoader{}
	}
	if opts.Parser == nil {
		opts.Parser = classfile.JSONParser{}
	}
	size := opts.HeapSize
	if size <= 0 {
		size = DefaultHeapCells
	}

	adapter := &tracerAdapter{t: opts.Tracer}
	m := &Machine{
		Heap:    NewHeap(size),
		Strings: NewStringTable(),
		Natives: opts.Natives,
		tracer:  adapter,
	}
	if opts.NativeLog != nil {
		m.log = NewNativeCallLog(opts.NativeLog)
	}
	m.Classes = NewClassTable(opts.Loader, opts.Parser, adapter)
	return m
}

// Invoke implements the embedding API's invoke(className, methodName,
// args): resolve class and method, run to completion, return the
// result marshalled out of the heap if it is a reference (§6). Failures
// surface as *InternalException or *UncaughtException (§7).
func (m *Machine) Invoke(ctx context.Context, className, methodName string, descriptor classfile.Descriptor, args []Value) (Value, error) {
	rc, err := m.Classes.Resolve(className)
	if err != nil {
		return Value{}, &InternalException{Err: err.(*VMError)}
	}
	sig := classfile.Signature{Name: methodName, Descriptor: descriptor}
	th := newThread(m)
	v, err := th.invoke(ctx, rc, sig, args)
	if err == nil {
		return v, nil
	}
	if thrown, ok := err.(*thrownObject); ok {
		return Value{}, &UncaughtException{ClassName: thrown.class.Descriptor.Name, Object: thrown.ref}
	}
	if ve, ok := err.(*VMError); ok {
		return Value{}, &InternalException{Err: ve}
	}
	return Value{}, &InternalException{Err: wrapf(InternalErrorCode, err, "invoke %s.%s", className, methodName)}
}

// tracerAdapter wraps the ambient trace.Tracer with the VM's domain
// vocabulary (class loading and resolution, thread invokes, native
// arity mismatches), per SPEC_FULL.md's ambient-logging section.
type tracerAdapter struct {
	t   trace.Tracer
	seq uint64
}

func (a *tracerAdapter) classEvent(name, detail string) {
	if a == nil || a.t == nil || !a.t.Enabled() {
		return
	}
	a.t.Emit(&trace.Event{
		Seq:    trace.NextSeq(),
		Kind:   trace.KindPoint,
		Scope:  trace.ScopeClass,
		Name:   name,
		Detail: detail,
	})
}

func (a *tracerAdapter) threadEvent(name, detail string) {
	if a == nil || a.t == nil || !a.t.Enabled() {
		return
	}
	a.t.Emit(&trace.Event{
		Seq:    trace.NextSeq(),
		Kind:   trace.KindPoint,
		Scope:  trace.ScopeThread,
		Name:   name,
		Detail: detail,
	})
}

func (a *tracerAdapter) nativeArityMismatch(class string, sig classfile.Signature, want, got int) {
	if a == nil || a.t == nil || !a.t.Enabled() {
		return
	}
	a.t.Emit(&trace.Event{
		Seq:    trace.NextSeq(),
		Kind:   trace.KindPoint,
		Scope:  trace.ScopeResolve,
		Name:   class + "." + sig.String(),
		Detail: "native arity mismatch",
	})
}
