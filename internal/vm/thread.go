package vm

import (
	"context"

	"github.com/cnkfz/lumen/internal/classfile"
)

// Thread owns a stack of frames and owns no heap cells directly (§3).
// A Machine's Invoke call constructs a fresh Thread per call, matching
// §5's "no operation may be invoked from outside the interpreter's call
// stack once invoke is in progress" — there is exactly one thread alive
// per in-flight top-level invocation.
type Thread struct {
	m      *Machine
	ctx    context.Context
	frames []*Frame
}

func newThread(m *Machine) *Thread {
	return &Thread{m: m, ctx: context.Background()}
}

func (t *Thread) current() *Frame { return t.frames[len(t.frames)-1] }

func (t *Thread) push(f *Frame) { t.frames = append(t.frames, f) }

func (t *Thread) pop() { t.frames = t.frames[:len(t.frames)-1] }

// invoke implements §4.7's invoke(class, signature, args): resolve,
// dispatch to native or bytecode, run to completion.
func (t *Thread) invoke(ctx context.Context, class *RuntimeClass, sig classfile.Signature, args []Value) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Value{}, wrapf(InternalErrorCode, err, "invoke cancelled")
	}
	t.ctx = ctx
	t.m.tracer.threadEvent(class.Descriptor.Name+"."+sig.String(), "invoke")

	resolved, err := t.m.ResolveDirect(class, sig)
	if err != nil {
		return Value{}, err
	}
	if resolved.IsNative() {
		return t.invokeNative(resolved, args)
	}
	return t.invokeBytecode(ctx, resolved, args)
}

// invokeNative applies the host function using the curried, arity-
// tolerant application of §4.7 step 3: missing positional arguments are
// substituted with null, extra ones are dropped. Both directions are
// logged through the tracer per §9's design note.
func (t *Thread) invokeNative(resolved ResolvedMethod, args []Value) (Value, error) {
	want := resolved.Arity
	mismatch := want != len(args)
	if mismatch {
		t.m.tracer.nativeArityMismatch(resolved.Class.Descriptor.Name, resolved.Sig, want, len(args))
	}
	t.m.log.Record(NativeCallRecord{
		Class:      resolved.Class.Descriptor.Name,
		Method:     resolved.Sig.Name,
		Descriptor: resolved.Sig.Descriptor.String(),
		ArgCount:   len(args),
		Mismatch:   mismatch,
	})
	padded := make([]Value, want)
	for i := range padded {
		padded[i] = MakeRef(NullRef)
	}
	copy(padded, args) // excess args are dropped, missing ones stay null
	return resolved.Native(t.m, padded)
}

// invokeBytecode implements §4.7 step 4: push a frame, run the dispatch
// loop until return or propagated exception.
func (t *Thread) invokeBytecode(ctx context.Context, resolved ResolvedMethod, args []Value) (Value, error) {
	if resolved.Method.IsAbstract() {
		return Value{}, errorf(InternalErrorCode, "abstract method has no body: %s.%s", resolved.Class.Descriptor.Name, resolved.Method.Signature)
	}
	frame := NewFrame(resolved.Class, resolved.Method, args)
	t.push(frame)
	defer t.pop()

	for {
		if err := ctx.Err(); err != nil {
			return Value{}, wrapf(InternalErrorCode, err, "dispatch cancelled")
		}
		result, done, err := t.step(frame)
		if err != nil {
			thrown, isThrow := err.(*thrownObject)
			if !isThrow {
				return Value{}, err
			}
			handled, herr := t.handleThrow(frame, thrown)
			if herr != nil {
				return Value{}, herr
			}
			if !handled {
				return Value{}, thrown
			}
			continue
		}
		if done {
			return result, nil
		}
	}
}

// handleThrow implements §4.7's exception propagation: walk the current
// frame's handler table for a matching handler; if none, the caller
// re-throws to its own frame (the frame stack has already had this
// frame popped by the deferred pop in invokeBytecode's caller once this
// function returns false all the way up).
func (t *Thread) handleThrow(frame *Frame, thrown *thrownObject) (handled bool, err error) {
	for _, h := range frame.Method.Handlers {
		if frame.PC < h.Start || frame.PC >= h.End {
			continue
		}
		if h.CatchType != "" {
			target := classfile.ClassType(h.CatchType)
			source := classfile.ClassType(thrown.class.Descriptor.Name)
			if !t.m.Classes.Check(source, target) {
				continue
			}
		}
		frame.Clear()
		if err := frame.Push(MakeRef(thrown.ref)); err != nil {
			return false, err
		}
		frame.PC = h.Target
		return true, nil
	}
	return false, nil
}
