package vm

import (
	"fmt"

	"github.com/cnkfz/lumen/internal/classfile"
)

// ClassTable is the resolution cache and by-index registry of §4.1: it
// turns a class name into a RuntimeClass with a stable numeric index,
// resolving the transitive ancestry (super and interfaces) before the
// class itself becomes usable.
type ClassTable struct {
	loader  classfile.Loader
	parser  classfile.Parser
	tracer  *tracerAdapter
	byName  map[string]*RuntimeClass
	byIndex []*RuntimeClass
	loading map[string]bool // in-progress set, detects cyclic inheritance
}

// NewClassTable constructs an empty class table backed by loader and
// parser.
func NewClassTable(loader classfile.Loader, parser classfile.Parser, tracer *tracerAdapter) *ClassTable {
	return &ClassTable{
		loader:  loader,
		parser:  parser,
		tracer:  tracer,
		byName:  make(map[string]*RuntimeClass),
		loading: make(map[string]bool),
	}
}

// Resolve implements §4.1's resolve(classType): idempotent, total for
// well-formed inputs. Cyclic inheritance surfaces as MalformedClass; a
// missing class or super surfaces as ClassNotFound.
func (t *ClassTable) Resolve(name string) (*RuntimeClass, error) {
	if rc, ok := t.byName[name]; ok {
		return rc, nil
	}
	if t.loading[name] {
		return nil, errorf(MalformedClass, "cyclic inheritance detected at %s", name)
	}
	t.loading[name] = true
	defer delete(t.loading, name)

	t.tracer.classEvent(name, "load")
	data, err := t.loader.Load(name)
	if err != nil {
		if err == classfile.ErrClassNotFound {
			return nil, errorf(ClassNotFound, "class not found: %s", name)
		}
		return nil, wrapf(ClassNotFound, err, "loading class %s", name)
	}

	desc, err := t.parser.Parse(data)
	if err != nil {
		return nil, wrapf(MalformedClass, err, "parsing class %s", name)
	}
	if desc.Name != name {
		return nil, errorf(MalformedClass, "class %s declares name %s", name, desc.Name)
	}

	var superRC *RuntimeClass
	if desc.Super != "" {
		superRC, err = t.Resolve(desc.Super)
		if err != nil {
			return nil, err
		}
	}
	ifaceRCs := make([]*RuntimeClass, 0, len(desc.Interfaces))
	for _, iface := range desc.Interfaces {
		ifaceRC, err := t.Resolve(iface)
		if err != nil {
			return nil, err
		}
		ifaceRCs = append(ifaceRCs, ifaceRC)
	}

	var fields []classfile.FieldDescriptor
	if superRC != nil {
		fields = append(fields, superRC.instanceFields...)
	}
	for _, f := range desc.Fields {
		if !f.Access.Has(classfile.Static) {
			fields = append(fields, f)
		}
	}

	rc := &RuntimeClass{
		Descriptor:     desc,
		Index:          len(t.byIndex),
		instanceFields: fields,
		statics:        make(map[string]Value),
	}
	for _, f := range desc.Fields {
		if f.Access.Has(classfile.Static) {
			rc.statics[f.Name] = ZeroValue(!f.Type.IsPrimitive(), f.Type.Width())
		}
	}
	rc.ancestry = computeAncestry(rc, superRC, ifaceRCs)

	t.byName[name] = rc
	t.byIndex = append(t.byIndex, rc)
	t.tracer.classEvent(name, "resolved")
	return rc, nil
}

// ByIndex implements §4.1's byIndex(i), defined for previously assigned
// indices.
func (t *ClassTable) ByIndex(i int) (*RuntimeClass, error) {
	if i < 0 || i >= len(t.byIndex) {
		return nil, errorf(InternalErrorCode, "class index out of range: %d", i)
	}
	return t.byIndex[i], nil
}

// Len reports how many classes have been resolved so far.
func (t *ClassTable) Len() int { return len(t.byIndex) }

// computeAncestry builds the reflexive transitive closure of self,
// super, and interfaces (§3 invariant), per §9's note that eager
// computation right after super-resolution is observably equivalent to
// lazy computation — this implementation computes eagerly since super
// and interfaces are already resolved at this point.
func computeAncestry(self, super *RuntimeClass, ifaces []*RuntimeClass) map[string]bool {
	set := map[string]bool{self.Descriptor.Name: true}
	if super != nil {
		for name := range super.ancestry {
			set[name] = true
		}
	} else if self.Descriptor.Name != classfile.ObjectClassName {
		set[classfile.ObjectClassName] = true
	}
	for _, iface := range ifaces {
		for name := range iface.ancestry {
			set[name] = true
		}
	}
	return set
}

// Ancestry reports whether rc's ancestry set contains className.
func (rc *RuntimeClass) Ancestry(className string) bool {
	return rc.ancestry[className]
}

// String implements fmt.Stringer for diagnostics.
func (rc *RuntimeClass) String() string {
	return fmt.Sprintf("%s#%d", rc.Descriptor.Name, rc.Index)
}
