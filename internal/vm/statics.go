package vm

// GetStatic reads a static field, searching rc's own declaration first
// and then its super-chain (mirroring the instance-field inheritance
// model, since statics are likewise declared once and visible to
// subclasses).
func (m *Machine) GetStatic(rc *RuntimeClass, name string) (Value, error) {
	for c := rc; c != nil; {
		if v, ok := c.statics[name]; ok {
			return v, nil
		}
		if c.Descriptor.Super == "" {
			break
		}
		super, err := m.Classes.Resolve(c.Descriptor.Super)
		if err != nil {
			return Value{}, err
		}
		c = super
	}
	return Value{}, errorf(InternalErrorCode, "no such static field %s on %s", name, rc.Descriptor.Name)
}

// PutStatic writes a static field, walking the super-chain the same way
// GetStatic does to find the declaring class.
func (m *Machine) PutStatic(rc *RuntimeClass, name string, v Value) error {
	for c := rc; c != nil; {
		if _, ok := c.statics[name]; ok {
			c.statics[name] = v
			return nil
		}
		if c.Descriptor.Super == "" {
			break
		}
		super, err := m.Classes.Resolve(c.Descriptor.Super)
		if err != nil {
			return err
		}
		c = super
	}
	return errorf(InternalErrorCode, "no such static field %s on %s", name, rc.Descriptor.Name)
}
