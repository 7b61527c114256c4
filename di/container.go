package di

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"
)

// Container is an immutable set of resolved dependencies keyed by slot name.
//
// Containers are built by a Definition (see Explicit and Implicit) and can
// not be modified afterwards: Set and Remove always fail. A container is safe
// for concurrent reads; a Deferred slot's producer runs at most once.
type Container struct {
	name    string
	order   []string
	entries map[string]*entry
	logger  *zap.Logger
}

func newContainer(name string, logger *zap.Logger, size int) *Container {
	return &Container{
		name:    name,
		entries: make(map[string]*entry, size),
		logger:  logger,
	}
}

// Get returns the dependency stored under name. A Deferred slot is evaluated
// on the first call and the result is returned on every later call.
func (c *Container) Get(name string) (any, error) {
	if c == nil {
		return nil, NotFoundError{Name: name}
	}
	e, ok := c.entries[name]
	if !ok {
		return nil, NotFoundError{Name: name}
	}
	return e.load(name, c.logger)
}

// MustGet returns the dependency or panics with the error Get would return.
func (c *Container) MustGet(name string) any {
	v, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Property is the field-style accessor; it is equivalent to Get.
func (c *Container) Property(name string) (any, error) { return c.Get(name) }

// Index is the bracket-style accessor. key is formatted with fmt.Sprint and
// passed to Get.
func (c *Container) Index(key any) (any, error) {
	if s, ok := key.(string); ok {
		return c.Get(s)
	}
	return c.Get(fmt.Sprint(key))
}

// Exists reports whether a dependency is stored under name, including slots
// filled from defaults.
func (c *Container) Exists(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.entries[name]
	return ok
}

// Set always fails: containers are immutable.
func (c *Container) Set(name string, _ any) error {
	return ImmutableError{Op: "set", Name: name}
}

// Remove always fails: containers are immutable.
func (c *Container) Remove(name string) error {
	return ImmutableError{Op: "remove", Name: name}
}

// Names returns the stored slot names in registry declaration order.
func (c *Container) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of stored dependencies.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Name returns the name of the definition that built the container.
func (c *Container) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// GetAs returns the dependency typed as T.
//
// It returns NotFoundError if the name is missing and WrongTypeError if the
// stored value is not a T.
func GetAs[T any](c *Container, name string) (T, error) {
	var zero T
	raw, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	v, ok := raw.(T)
	if !ok {
		return zero, WrongTypeError{
			Name: name,
			Want: reflect.TypeFor[T]().String(),
			Got:  typeName(raw),
		}
	}
	return v, nil
}

// MustGetAs returns the dependency typed as T or panics.
func MustGetAs[T any](c *Container, name string) T {
	v, err := GetAs[T](c, name)
	if err != nil {
		panic(err)
	}
	return v
}

//
// -----------------------------------------------------------------------------
// Construction helpers shared by the strategies
// -----------------------------------------------------------------------------

// fillDefaults materializes the default of every slot that has no entry.
//
// Slots are visited in declaration order. A Produce default for a Deferred
// slot is stored unevaluated; every other producer runs immediately.
func (c *Container) fillDefaults(slots []Slot, defaults map[string]Default) error {
	declared := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		declared[slot.Name] = struct{}{}
	}

	undeclared := make([]string, 0)
	for name := range defaults {
		if _, ok := declared[name]; !ok {
			undeclared = append(undeclared, name)
		}
	}
	if len(undeclared) > 0 {
		sort.Strings(undeclared)
		return UndeclaredSlotError{Name: undeclared[0]}
	}

	for _, slot := range slots {
		if _, ok := c.entries[slot.Name]; ok {
			continue
		}
		def, ok := defaults[slot.Name]
		if !ok || def.IsZero() {
			continue
		}

		if slot.Type.IsDeferred() && def.kind == defaultProduce {
			c.entries[slot.Name] = pending(def.producer)
			c.logger.Debug("default deferred",
				zap.String("container", c.name),
				zap.String("slot", slot.Name),
			)
			continue
		}

		v, err := def.materialize(slot.Name)
		if err != nil {
			return err
		}
		c.entries[slot.Name] = materialized(v)
		c.logger.Debug("default materialized",
			zap.String("container", c.name),
			zap.String("slot", slot.Name),
			zap.String("default", def.String()),
		)
	}
	return nil
}

// seal fixes the iteration order once the entries are complete.
func (c *Container) seal(slots []Slot) {
	c.order = make([]string, 0, len(c.entries))
	for _, slot := range slots {
		if _, ok := c.entries[slot.Name]; ok {
			c.order = append(c.order, slot.Name)
		}
	}
}
