// Package natives is the concrete native-binding registry consumed by
// internal/vm (§4.8, §6): a tree of leaves keyed by class name, method
// name, and descriptor, fixed once at VM construction time. Grounded on
// the teacher's Runtime-interface split (internal/vm/term_runtime.go):
// host behavior lives behind a small, swappable collaborator rather
// than being baked into the interpreter.
package natives

import (
	"strings"

	"github.com/cnkfz/lumen/internal/classfile"
	"github.com/cnkfz/lumen/internal/vm"
)

// leaf pairs a native function with its declared arity (including an
// implicit receiver for instance methods), the width Thread.invokeNative
// pads or truncates every call to (§4.8's tolerant-arity rule).
type leaf struct {
	fn    vm.NativeFunc
	arity int
}

// node is one path segment of the registry tree; classes are nested by
// their slash-separated internal name, leaves are keyed by "name+descriptor"
// (never split further, since a descriptor may itself contain slashes).
type node struct {
	children map[string]*node
	leaves   map[string]leaf
}

func newNode() *node {
	return &node{children: make(map[string]*node), leaves: make(map[string]leaf)}
}

// Registry is a vm.NativeRegistry backed by the path tree described in
// §4.8: "Lookup splits the path on / up to (but not into) the
// descriptor's parenthesis."
type Registry struct {
	root *node
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{root: newNode()}
}

// Register binds sig on owner (an internal class name) to fn, declared
// to take arity arguments.
func (r *Registry) Register(owner string, sig classfile.Signature, arity int, fn vm.NativeFunc) {
	n := r.root
	for _, seg := range strings.Split(owner, "/") {
		child, ok := n.children[seg]
		if !ok {
			child = newNode()
			n.children[seg] = child
		}
		n = child
	}
	n.leaves[sig.String()] = leaf{fn: fn, arity: arity}
}

// Lookup implements vm.NativeRegistry.
func (r *Registry) Lookup(className string, sig classfile.Signature) (vm.NativeFunc, int, bool) {
	n := r.root
	for _, seg := range strings.Split(className, "/") {
		child, ok := n.children[seg]
		if !ok {
			return nil, 0, false
		}
		n = child
	}
	l, ok := n.leaves[sig.String()]
	if !ok {
		return nil, 0, false
	}
	return l.fn, l.arity, true
}
