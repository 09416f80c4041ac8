package vm

import (
	"testing"

	"github.com/cnkfz/lumen/internal/classfile"
)

// newTestClassTable builds a ClassTable backed by an in-memory registry of
// pre-built ClassDescriptors, keyed by class name. The loader hands back the
// name itself as the "bytes", and the parser looks the descriptor up by
// that same name — sidestepping the JSON wire format for tests that only
// care about ancestry and subtype behavior.
func newTestClassTable(classes map[string]*classfile.ClassDescriptor) *ClassTable {
	loader := classfile.LoaderFunc(func(name string) ([]byte, error) {
		if _, ok := classes[name]; !ok {
			return nil, classfile.ErrClassNotFound
		}
		return []byte(name), nil
	})
	parser := classfile.ParserFunc(func(data []byte) (*classfile.ClassDescriptor, error) {
		return classes[string(data)], nil
	})
	return NewClassTable(loader, parser, &tracerAdapter{})
}

func buildAnimalHierarchy() map[string]*classfile.ClassDescriptor {
	object := classfile.NewBuilder(classfile.ObjectClassName, "").Build()
	animal := classfile.NewBuilder("Animal", classfile.ObjectClassName).Build()
	dog := classfile.NewBuilder("Dog", "Animal").Build()
	cat := classfile.NewBuilder("Cat", "Animal").
		Implements("Pet").Build()
	pet := classfile.NewBuilder("Pet", "").Access(classfile.Interface).Build()
	return map[string]*classfile.ClassDescriptor{
		object.Name: object,
		animal.Name: animal,
		dog.Name:    dog,
		cat.Name:    cat,
		pet.Name:    pet,
	}
}

func TestClassTable_ResolveBuildsAncestry(t *testing.T) {
	ct := newTestClassTable(buildAnimalHierarchy())
	dog, err := ct.Resolve("Dog")
	if err != nil {
		t.Fatalf("Resolve(Dog): %v", err)
	}
	for _, want := range []string{"Dog", "Animal", classfile.ObjectClassName} {
		if !dog.Ancestry(want) {
			t.Errorf("Dog ancestry missing %s", want)
		}
	}
	if dog.Ancestry("Cat") {
		t.Error("Dog should not be ancestor-related to Cat")
	}
}

func TestClassTable_ResolveIsIdempotent(t *testing.T) {
	ct := newTestClassTable(buildAnimalHierarchy())
	a, err := ct.Resolve("Dog")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := ct.Resolve("Dog")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a != b {
		t.Error("expected the same *RuntimeClass instance on repeated resolve")
	}
}

func TestClassTable_ResolveMissingClass(t *testing.T) {
	ct := newTestClassTable(buildAnimalHierarchy())
	if _, err := ct.Resolve("Ghost"); err == nil {
		t.Error("expected ClassNotFound for an unregistered class")
	}
}

func TestSubtype_ClassIntoClass(t *testing.T) {
	ct := newTestClassTable(buildAnimalHierarchy())
	dog := classfile.ClassType("Dog")
	animal := classfile.ClassType("Animal")
	cat := classfile.ClassType("Cat")
	if !ct.Check(dog, animal) {
		t.Error("Dog should be assignable to Animal")
	}
	if ct.Check(dog, cat) {
		t.Error("Dog should not be assignable to Cat")
	}
}

func TestSubtype_ClassIntoInterface(t *testing.T) {
	ct := newTestClassTable(buildAnimalHierarchy())
	cat := classfile.ClassType("Cat")
	pet := classfile.ClassType("Pet")
	if !ct.Check(cat, pet) {
		t.Error("Cat should be assignable to Pet (declared interface)")
	}
}

func TestSubtype_ArrayIntoObject(t *testing.T) {
	ct := newTestClassTable(buildAnimalHierarchy())
	arr := classfile.ArrayType(classfile.PrimitiveType(classfile.Int))
	object := classfile.ClassType(classfile.ObjectClassName)
	cloneable := classfile.ClassType(classfile.CloneableClassName)
	other := classfile.ClassType("Dog")
	if !ct.Check(arr, object) {
		t.Error("array should be assignable to Object")
	}
	if !ct.Check(arr, cloneable) {
		t.Error("array should be assignable to Cloneable")
	}
	if ct.Check(arr, other) {
		t.Error("array should not be assignable to an unrelated class")
	}
}

func TestSubtype_ArrayIntoArray(t *testing.T) {
	ct := newTestClassTable(buildAnimalHierarchy())
	intArr := classfile.ArrayType(classfile.PrimitiveType(classfile.Int))
	longArr := classfile.ArrayType(classfile.PrimitiveType(classfile.Long))
	if ct.Check(intArr, longArr) {
		t.Error("int[] should not be assignable to long[]: primitive arrays are invariant")
	}

	dogArr := classfile.ArrayType(classfile.ClassType("Dog"))
	animalArr := classfile.ArrayType(classfile.ClassType("Animal"))
	if !ct.Check(dogArr, animalArr) {
		t.Error("Dog[] should be assignable to Animal[]: reference arrays are covariant")
	}
}

func TestSubtype_PrimitiveNeverAssignable(t *testing.T) {
	ct := newTestClassTable(buildAnimalHierarchy())
	i := classfile.PrimitiveType(classfile.Int)
	l := classfile.PrimitiveType(classfile.Long)
	if ct.Check(i, l) {
		t.Error("Check should never report primitive-to-primitive assignability")
	}
}
