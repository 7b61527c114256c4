package di

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Strategy selects how a Definition matches inputs to slots.
type Strategy uint8

const (
	// StrategyExplicit matches input keys to slot names and validates types.
	StrategyExplicit Strategy = iota

	// StrategyImplicit matches input values to slots by runtime type.
	StrategyImplicit
)

// String returns "explicit" or "implicit".
func (s Strategy) String() string {
	switch s {
	case StrategyExplicit:
		return "explicit"
	case StrategyImplicit:
		return "implicit"
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// ParseStrategy is the inverse of Strategy.String (case-insensitive).
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "explicit":
		return StrategyExplicit, nil
	case "implicit":
		return StrategyImplicit, nil
	}
	return 0, fmt.Errorf("di: unknown strategy %q", s)
}

// Definition is a concrete container type: one fixed Registry plus the
// strategy used to resolve inputs against it.
//
// Definitions are usually package-level values:
//
//	var Services = di.Explicit(servicesRegistry)
//
//	c, err := Services.Make(di.Named{"store": store})
type Definition struct {
	name     string
	registry Registry
	strategy Strategy
	logger   *zap.Logger
}

// Option configures a Definition.
type Option func(*Definition)

// WithLogger sets the logger used for construction events. The default is
// zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(d *Definition) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithName sets the name reported in logs and by Container.Name.
func WithName(name string) Option {
	return func(d *Definition) {
		d.name = name
	}
}

// Define returns a Definition for reg using strategy s. It panics if reg is
// nil.
func Define(reg Registry, s Strategy, opts ...Option) *Definition {
	if reg == nil {
		panic(fmt.Errorf("di: nil registry"))
	}
	d := &Definition{
		name:     s.String(),
		registry: reg,
		strategy: s,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Explicit returns a Definition whose containers take name-keyed inputs.
func Explicit(reg Registry, opts ...Option) *Definition {
	return Define(reg, StrategyExplicit, opts...)
}

// Implicit returns a Definition whose containers take a list of inputs and
// match each one to a slot by type.
func Implicit(reg Registry, opts ...Option) *Definition {
	return Define(reg, StrategyImplicit, opts...)
}

// Name returns the definition name.
func (d *Definition) Name() string { return d.name }

// Strategy returns the resolution strategy.
func (d *Definition) Strategy() Strategy { return d.strategy }

// Registry returns the registry the definition was created with.
func (d *Definition) Registry() Registry { return d.registry }

// Make builds a container from inputs. inputs may be a single value, a list
// or a map (see NormalizeInputs).
//
// Make either returns a complete, validated container or an error; it never
// returns a partially built container.
func (d *Definition) Make(inputs any) (*Container, error) {
	in := NormalizeInputs(inputs)
	slots := d.registry.Slots()
	defaults := d.registry.Defaults()

	c := newContainer(d.name, d.logger, len(slots))

	var err error
	switch d.strategy {
	case StrategyImplicit:
		err = resolveImplicit(c, in, slots, defaults)
	default:
		err = resolveExplicit(c, in, slots, defaults)
	}
	if err != nil {
		d.logger.Debug("container build failed",
			zap.String("container", d.name),
			zap.Stringer("strategy", d.strategy),
			zap.Error(err),
		)
		return nil, err
	}

	c.seal(slots)
	d.logger.Debug("container built",
		zap.String("container", d.name),
		zap.Stringer("strategy", d.strategy),
		zap.Strings("slots", c.order),
	)
	return c, nil
}

// MustMake is like Make but panics on error.
func (d *Definition) MustMake(inputs any) *Container {
	c, err := d.Make(inputs)
	if err != nil {
		panic(err)
	}
	return c
}
