// Package trace provides a tracing subsystem for the virtual machine.
//
// The trace package enables tracking of class resolution, heap
// allocation, and method dispatch to help diagnose performance issues
// and hangs in long-running interpreted programs.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	lumen run --trace=- classes Main main "()int"
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - Nop: Zero-overhead no-op tracer when disabled
//   - StreamTracer: Immediate write to output (file/stderr)
//   - RingTracer: Circular buffer for crash dumps
//   - MultiTracer: Combines multiple tracers
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: No tracing
//   - LevelError: Only crash dumps
//   - LevelPhase: Thread and resolve boundaries
//   - LevelDetail: Class-level events
//   - LevelDebug: Everything including instruction dispatch
//
// # Scopes
//
// Events are categorized by scope:
//
//   - ScopeThread: Top-level interpreter thread operations
//   - ScopeResolve: Class table and method resolver boundaries
//   - ScopeClass: Per-class processing (loading, linking, allocation)
//   - ScopeInstr: Instruction dispatch level (future)
//
// # Context Propagation
//
// A Tracer can be carried in a context (the VM itself takes its tracer
// from vm.Options.Tracer):
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeResolve, "resolve:Main", parentID)
//	defer span.End("")
package trace
