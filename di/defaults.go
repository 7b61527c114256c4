package di

import "reflect"

type defaultKind uint8

const (
	defaultInstance defaultKind = iota + 1
	defaultConstruct
	defaultProduce
)

// Default describes how to fill a slot that received no input.
//
// Build one with Instance, Construct, ConstructOf, Produce or DefaultOf.
// The zero Default is treated as "no default".
type Default struct {
	kind     defaultKind
	value    any
	typ      Type
	producer any
}

// Instance returns a Default that stores v as-is.
func Instance(v any) Default { return Default{kind: defaultInstance, value: v} }

// Construct returns a Default that instantiates t with no arguments.
func Construct(t Type) Default { return Default{kind: defaultConstruct, typ: t} }

// ConstructOf returns a Default that instantiates T with no arguments.
//
//	di.ConstructOf[*Store]() // &Store{}
func ConstructOf[T any]() Default { return Construct(TypeOf[T]()) }

// Produce returns a Default that invokes fn once while the container is
// built and stores its result. fn must be a producer (see Deferred); any
// other value panics.
func Produce(fn any) Default {
	if !isProducer(fn) {
		panic("di: Produce requires a zero-argument func returning a value (got " + typeName(fn) + ")")
	}
	return Default{kind: defaultProduce, producer: fn}
}

// DefaultOf normalizes a raw default: producers are invoked, Type and
// reflect.Type values are instantiated, everything else is an instance.
func DefaultOf(v any) Default {
	switch d := v.(type) {
	case Default:
		return d
	case Type:
		return Construct(d)
	case reflect.Type:
		return Construct(TypeFor(d))
	}
	if isProducer(v) {
		return Produce(v)
	}
	return Instance(v)
}

// IsZero reports whether d holds no default.
func (d Default) IsZero() bool { return d.kind == 0 }

// String describes the default for diagnostics.
func (d Default) String() string {
	switch d.kind {
	case defaultInstance:
		return "instance(" + typeName(d.value) + ")"
	case defaultConstruct:
		return "construct(" + d.typ.String() + ")"
	case defaultProduce:
		return "produce(" + typeName(d.producer) + ")"
	}
	return "none"
}

// materialize computes the default value for slot name.
func (d Default) materialize(name string) (any, error) {
	switch d.kind {
	case defaultProduce:
		return invoke(name, d.producer)
	case defaultConstruct:
		v, ok := d.typ.instantiate()
		if !ok {
			return nil, InstantiationError{Name: name, Type: d.typ.String()}
		}
		return v, nil
	default:
		return d.value, nil
	}
}
