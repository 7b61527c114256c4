package di

import "fmt"

// Slot is a named, typed dependency declared by a registry.
type Slot struct {
	Name string
	Type Type
}

// Registry supplies the slots of a container and their defaults.
//
// Implementations must be pure: Slots must return the same slots in the same
// order on every call, and Defaults the same descriptors. Slot order is
// significant, the implicit strategy picks the first declared type a value
// is assignable to.
type Registry interface {
	Slots() []Slot
	Defaults() map[string]Default
}

// MapRegistry is an insertion-ordered in-memory Registry.
//
//	reg := di.NewRegistry().
//		Declare("store", di.TypeOf[*Store]()).
//		Declare("clock", di.TypeOf[Clock]()).
//		Default("store", di.ConstructOf[*Store]())
type MapRegistry struct {
	slots    []Slot
	index    map[string]int
	defaults map[string]Default
}

func NewRegistry() *MapRegistry {
	return &MapRegistry{index: map[string]int{}, defaults: map[string]Default{}}
}

// Declare adds a slot and returns the registry for chaining. Declaring an
// existing name replaces its type and keeps its position.
func (r *MapRegistry) Declare(name string, t Type) *MapRegistry {
	if name == "" {
		panic(fmt.Errorf("di: empty slot name"))
	}
	if i, ok := r.index[name]; ok {
		r.slots[i].Type = t
		return r
	}
	r.index[name] = len(r.slots)
	r.slots = append(r.slots, Slot{Name: name, Type: t})
	return r
}

// Default sets the default for name. v is normalized with DefaultOf, so it
// may be a Default, a Type, a producer func or a plain instance.
func (r *MapRegistry) Default(name string, v any) *MapRegistry {
	if name == "" {
		panic(fmt.Errorf("di: empty slot name"))
	}
	r.defaults[name] = DefaultOf(v)
	return r
}

// Slots implements Registry. The returned slice is a copy.
func (r *MapRegistry) Slots() []Slot {
	out := make([]Slot, len(r.slots))
	copy(out, r.slots)
	return out
}

// Defaults implements Registry. The returned map is a copy.
func (r *MapRegistry) Defaults() map[string]Default {
	out := make(map[string]Default, len(r.defaults))
	for k, v := range r.defaults {
		out[k] = v
	}
	return out
}

// Lookup returns the declared type of name.
func (r *MapRegistry) Lookup(name string) (Type, bool) {
	i, ok := r.index[name]
	if !ok {
		return Type{}, false
	}
	return r.slots[i].Type, true
}

// Len returns the number of declared slots.
func (r *MapRegistry) Len() int { return len(r.slots) }
