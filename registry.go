package ascent

import "fmt"

// Component is one mass item of the rocket, located by its axial position
// from the nose tip along the centerline.
type Component struct {
	Name     string
	Mass     float64 // kg
	Position float64 // m from nose tip
}

func (c Component) String() string {
	return fmt.Sprintf("%s: %.3f kg @ %.3f m", c.Name, c.Mass, c.Position)
}

// Aggregate holds the mass properties derived from the full component list.
type Aggregate struct {
	TotalMass       float64 // kg
	CenterOfGravity float64 // m from nose tip
	// MomentOfInertia is the pitch moment of inertia about the CG, treating
	// each component as a point mass.
	MomentOfInertia float64 // kg.m^2
}

// MassRegistry holds the rocket's component list and derives aggregate mass
// properties on demand. Every mutation invalidates the cached aggregate so
// a reload can never leave stale numbers behind.
type MassRegistry struct {
	components map[string]Component
	order      []string
	agg        Aggregate
	dirty      bool
}

// NewMassRegistry returns an empty registry.
func NewMassRegistry() *MassRegistry {
	return &MassRegistry{components: make(map[string]Component), dirty: true}
}

// Add registers a new component. Fails with DuplicateComponentError if the
// name is already taken; the registry is left unchanged.
func (r *MassRegistry) Add(c Component) error {
	if _, found := r.components[c.Name]; found {
		return DuplicateComponentError{Name: c.Name}
	}
	r.components[c.Name] = c
	r.order = append(r.order, c.Name)
	r.dirty = true
	return nil
}

// Update changes the mass and/or position of a registered component. A nil
// field keeps the current value. Fails with UnknownComponentError if the
// name is not registered; the registry is left unchanged.
func (r *MassRegistry) Update(name string, mass, position *float64) error {
	c, found := r.components[name]
	if !found {
		return UnknownComponentError{Name: name}
	}
	if mass != nil {
		c.Mass = *mass
	}
	if position != nil {
		c.Position = *position
	}
	r.components[name] = c
	r.dirty = true
	return nil
}

// Remove drops a component. Fails with UnknownComponentError if the name is
// not registered.
func (r *MassRegistry) Remove(name string) error {
	if _, found := r.components[name]; !found {
		return UnknownComponentError{Name: name}
	}
	delete(r.components, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.dirty = true
	return nil
}

// SetPropellantMass updates the propellant component so the aggregate
// reflects a specific burn state. Fails if no propellant is registered.
func (r *MassRegistry) SetPropellantMass(mass float64) error {
	return r.Update("propellant", &mass, nil)
}

// Component returns a registered component by name.
func (r *MassRegistry) Component(name string) (Component, error) {
	c, found := r.components[name]
	if !found {
		return Component{}, UnknownComponentError{Name: name}
	}
	return c, nil
}

// Components returns the component list in registration order.
func (r *MassRegistry) Components() []Component {
	list := make([]Component, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.components[name])
	}
	return list
}

// Aggregate returns the total mass, center of gravity and pitch moment of
// inertia. The result is recomputed from the full component list after any
// mutation.
func (r *MassRegistry) Aggregate() Aggregate {
	if !r.dirty {
		return r.agg
	}
	var total, moment float64
	for _, c := range r.components {
		total += c.Mass
		moment += c.Mass * c.Position
	}
	agg := Aggregate{TotalMass: total}
	if total > 0 {
		agg.CenterOfGravity = moment / total
	}
	for _, c := range r.components {
		d := c.Position - agg.CenterOfGravity
		agg.MomentOfInertia += c.Mass * d * d
	}
	r.agg = agg
	r.dirty = false
	return agg
}

// Snapshot returns an independent deep copy of the registry. Snapshots are
// what individual simulation runs own, so parallel runs share nothing.
func (r *MassRegistry) Snapshot() *MassRegistry {
	s := NewMassRegistry()
	for _, name := range r.order {
		s.components[name] = r.components[name]
		s.order = append(s.order, name)
	}
	return s
}
