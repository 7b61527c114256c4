package di

import "go.uber.org/zap"

// resolveExplicit builds c from name-keyed inputs:
//
//  1. store the inputs verbatim (every key must name a declared slot)
//  2. fill defaults for the remaining slots
//  3. evaluate producers whose slot does not expect a func; keep the
//     producers of Deferred slots pending
//  4. validate every entry against its slot type, in declaration order
//
// Positional inputs are keyed "0", "1", ... and so fail in step 1 unless the
// registry declares such names.
func resolveExplicit(c *Container, in Inputs, slots []Slot, defaults map[string]Default) error {
	types := make(map[string]Type, len(slots))
	for _, slot := range slots {
		types[slot.Name] = slot.Type
	}

	for i, name := range in.names {
		if _, ok := types[name]; !ok {
			return UndeclaredSlotError{Name: name}
		}
		c.entries[name] = materialized(in.values[i])
	}

	if err := c.fillDefaults(slots, defaults); err != nil {
		return err
	}

	for _, slot := range slots {
		e, ok := c.entries[slot.Name]
		if !ok || e.lazy || !isProducer(e.raw()) {
			continue
		}
		if slot.Type.IsDeferred() {
			c.entries[slot.Name] = pending(e.raw())
			continue
		}
		if slot.Type.holdsFunc() {
			continue
		}

		v, err := invoke(slot.Name, e.raw())
		if err != nil {
			return err
		}
		c.entries[slot.Name] = materialized(v)
		c.logger.Debug("producer evaluated",
			zap.String("container", c.name),
			zap.String("slot", slot.Name),
		)
	}

	for _, slot := range slots {
		e, ok := c.entries[slot.Name]
		if !ok {
			continue
		}
		if !slot.Type.Accepts(e.raw()) {
			return InvalidDependencyError{
				Name:     slot.Name,
				Expected: slot.Type.String(),
				Got:      typeName(e.raw()),
			}
		}
		c.logger.Debug("dependency resolved",
			zap.String("container", c.name),
			zap.String("slot", slot.Name),
			zap.Stringer("type", slot.Type),
		)
	}
	return nil
}
