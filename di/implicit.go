package di

import (
	"reflect"
	"strconv"

	"go.uber.org/zap"
)

// typeIndex maps declared types back to slot names, keeping the order in
// which each type was first declared. When two slots declare the same type
// the later slot name wins but the type keeps its first position.
type typeIndex struct {
	order []Type
	names map[Type]string
}

func newTypeIndex(slots []Slot) typeIndex {
	idx := typeIndex{
		order: make([]Type, 0, len(slots)),
		names: make(map[Type]string, len(slots)),
	}
	for _, slot := range slots {
		if _, seen := idx.names[slot.Type]; !seen {
			idx.order = append(idx.order, slot.Type)
		}
		idx.names[slot.Type] = slot.Name
	}
	return idx
}

// match returns the slot name a candidate value satisfies.
//
// Func values match a slot declaring exactly their type, else the Callable
// slot. Other values match a slot declaring exactly their type, else the
// first declared type they are assignable to.
func (idx typeIndex) match(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rt := reflect.TypeOf(v)

	if name, ok := idx.names[TypeFor(rt)]; ok {
		return name, true
	}

	if rt.Kind() == reflect.Func {
		name, ok := idx.names[Callable]
		return name, ok
	}

	for _, t := range idx.order {
		if t.kind != kindConcrete || t.rt == nil {
			continue
		}
		if rt.AssignableTo(t.rt) {
			return idx.names[t], true
		}
	}
	return "", false
}

// resolveImplicit builds c from a list of inputs:
//
//  1. producers are invoked once to obtain the candidate value
//  2. each candidate is matched to a slot by type and stored under its name;
//     a later candidate for the same slot replaces the earlier one
//  3. defaults fill the remaining slots
func resolveImplicit(c *Container, in Inputs, slots []Slot, defaults map[string]Default) error {
	idx := newTypeIndex(slots)

	for pos, v := range in.values {
		candidate := v
		if isProducer(v) {
			var err error
			candidate, err = invoke("["+strconv.Itoa(pos)+"]", v)
			if err != nil {
				return err
			}
		}

		name, ok := idx.match(candidate)
		if !ok {
			return UnresolvedDependencyError{Position: pos, GotType: typeName(candidate)}
		}

		if _, dup := c.entries[name]; dup {
			c.logger.Warn("dependency replaced by a later input",
				zap.String("container", c.name),
				zap.String("slot", name),
				zap.Int("position", pos),
			)
		}
		c.entries[name] = materialized(candidate)
		c.logger.Debug("dependency resolved",
			zap.String("container", c.name),
			zap.String("slot", name),
			zap.String("type", typeName(candidate)),
			zap.Int("position", pos),
		)
	}

	return c.fillDefaults(slots, defaults)
}
