package manifest

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sghaida/odic/di"
)

// ErrUnknownName is matched by UnknownNameError.
var ErrUnknownName = errors.New("manifest: unknown name")

// UnknownNameError is returned when a manifest refers to a type, producer or
// instance the Catalog does not know.
type UnknownNameError struct {
	// Kind is "type", "producer" or "instance".
	Kind string
	Name string
	Slot string
}

// Error implements the error interface.
func (e UnknownNameError) Error() string {
	// Example: manifest: slot "store" refers to unknown type "*Store"
	return "manifest: slot " + strconv.Quote(e.Slot) + " refers to unknown " + e.Kind + " " + strconv.Quote(e.Name)
}

// Is reports whether target is ErrUnknownName.
func (e UnknownNameError) Is(target error) bool { return target == ErrUnknownName }

// Catalog binds the names used in manifests to Go values.
//
//	cat := manifest.NewCatalog()
//	manifest.RegisterType[*Store](cat, "*Store")
//	cat.Producer("NewClock", NewClock)
type Catalog struct {
	types     map[string]di.Type
	producers map[string]any
	instances map[string]any
}

func NewCatalog() *Catalog {
	return &Catalog{
		types:     map[string]di.Type{},
		producers: map[string]any{},
		instances: map[string]any{},
	}
}

// RegisterType binds name to T and returns the catalog for chaining.
func RegisterType[T any](c *Catalog, name string) *Catalog {
	return c.Type(name, di.TypeOf[T]())
}

// Type binds name to t.
func (c *Catalog) Type(name string, t di.Type) *Catalog {
	c.types[name] = t
	return c
}

// Producer binds name to a producer func. It panics if fn is not a
// zero-argument func returning a value.
func (c *Catalog) Producer(name string, fn any) *Catalog {
	_ = di.Produce(fn)
	c.producers[name] = fn
	return c
}

// Instance binds name to a ready value.
func (c *Catalog) Instance(name string, v any) *Catalog {
	c.instances[name] = v
	return c
}

// resolveType maps a manifest type name to a di.Type.
func (c *Catalog) resolveType(slot, name string) (di.Type, error) {
	switch name {
	case TypeCallable:
		return di.Callable, nil
	case TypeDeferred:
		return di.Deferred, nil
	}
	t, ok := c.types[name]
	if !ok {
		return di.Type{}, UnknownNameError{Kind: "type", Name: name, Slot: slot}
	}
	return t, nil
}

func (c *Catalog) resolveDefault(slot string, d *DefaultSpec) (di.Default, error) {
	switch {
	case d.Construct != "":
		t, err := c.resolveType(slot, d.Construct)
		if err != nil {
			return di.Default{}, err
		}
		return di.Construct(t), nil
	case d.Produce != "":
		fn, ok := c.producers[d.Produce]
		if !ok {
			return di.Default{}, UnknownNameError{Kind: "producer", Name: d.Produce, Slot: slot}
		}
		return di.Produce(fn), nil
	default:
		v, ok := c.instances[d.Instance]
		if !ok {
			return di.Default{}, UnknownNameError{Kind: "instance", Name: d.Instance, Slot: slot}
		}
		return di.Instance(v), nil
	}
}

// Registry builds a di.MapRegistry declaring the slots in manifest order.
func (s *Spec) Registry(c *Catalog) (*di.MapRegistry, error) {
	if c == nil {
		c = NewCatalog()
	}
	reg := di.NewRegistry()
	for _, slot := range s.Slots {
		t, err := c.resolveType(slot.Name, slot.Type)
		if err != nil {
			return nil, err
		}
		reg.Declare(slot.Name, t)

		if slot.Default == nil {
			continue
		}
		def, err := c.resolveDefault(slot.Name, slot.Default)
		if err != nil {
			return nil, err
		}
		reg.Default(slot.Name, def)
	}
	return reg, nil
}

// Definition builds the registry and wraps it in a di.Definition named after
// the container, using the manifest strategy. opts are applied after the
// name, so di.WithName can still override it.
func (s *Spec) Definition(c *Catalog, opts ...di.Option) (*di.Definition, error) {
	strategy, err := di.ParseStrategy(s.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	reg, err := s.Registry(c)
	if err != nil {
		return nil, err
	}
	all := append([]di.Option{di.WithName(s.Container)}, opts...)
	return di.Define(reg, strategy, all...), nil
}
