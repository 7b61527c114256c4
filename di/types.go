package di

import (
	"fmt"
	"reflect"
)

type typeKind uint8

const (
	kindConcrete typeKind = iota
	kindCallable
	kindDeferred
)

// Type describes the required type of a slot.
//
// A Type is either a concrete reflect.Type (struct pointer, interface, named
// value type...) or one of the sentinels Callable and Deferred. Types are
// comparable and can be used as map keys.
type Type struct {
	kind typeKind
	rt   reflect.Type
}

var (
	// Callable is satisfied by any non-nil func value. Values for Callable
	// slots are stored as-is and never invoked by the container.
	Callable = Type{kind: kindCallable}

	// Deferred is satisfied by a producer (a func with no parameters that
	// returns a value, or a value and an error). The producer is stored
	// unevaluated and invoked on the first Get; the result is memoized.
	Deferred = Type{kind: kindDeferred}
)

// TypeOf returns the Type for T.
//
//	di.TypeOf[*Store]()   // concrete pointer type
//	di.TypeOf[Clock]()    // interface type; any implementation is accepted
func TypeOf[T any]() Type {
	return Type{kind: kindConcrete, rt: reflect.TypeFor[T]()}
}

// TypeFor wraps an existing reflect.Type. A nil rt yields the zero Type,
// which accepts nothing.
func TypeFor(rt reflect.Type) Type {
	return Type{kind: kindConcrete, rt: rt}
}

// Reflect returns the underlying reflect.Type, or nil for sentinels.
func (t Type) Reflect() reflect.Type { return t.rt }

// IsCallable reports whether t is the Callable sentinel.
func (t Type) IsCallable() bool { return t.kind == kindCallable }

// IsDeferred reports whether t is the Deferred sentinel.
func (t Type) IsDeferred() bool { return t.kind == kindDeferred }

// IsZero reports whether t is the zero Type.
func (t Type) IsZero() bool { return t.kind == kindConcrete && t.rt == nil }

// String returns "callable", "deferred" or the Go type name.
func (t Type) String() string {
	switch t.kind {
	case kindCallable:
		return "callable"
	case kindDeferred:
		return "deferred"
	}
	if t.rt == nil {
		return "<invalid>"
	}
	return t.rt.String()
}

// Accepts reports whether v satisfies t.
//
// For concrete types this is reflect assignability, so an interface type
// accepts every implementation and a concrete type accepts only itself.
func (t Type) Accepts(v any) bool {
	if v == nil {
		return false
	}
	switch t.kind {
	case kindCallable:
		return reflect.TypeOf(v).Kind() == reflect.Func
	case kindDeferred:
		return isProducer(v)
	}
	if t.rt == nil {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(t.rt)
}

// holdsFunc reports whether a slot of type t expects a func value, in which
// case a provided producer is kept rather than evaluated.
func (t Type) holdsFunc() bool {
	if t.kind != kindConcrete {
		return true
	}
	return t.rt != nil && t.rt.Kind() == reflect.Func
}

// instantiate builds a new value of t with no arguments.
//
// Pointer types get a pointer to a new zero Elem, maps/slices/chans are made
// empty, other value types get their zero value. Interfaces, funcs and the
// sentinels cannot be instantiated.
func (t Type) instantiate() (any, bool) {
	if t.kind != kindConcrete || t.rt == nil {
		return nil, false
	}
	switch t.rt.Kind() {
	case reflect.Pointer:
		return reflect.New(t.rt.Elem()).Interface(), true
	case reflect.Map:
		return reflect.MakeMap(t.rt).Interface(), true
	case reflect.Slice:
		return reflect.MakeSlice(t.rt, 0, 0).Interface(), true
	case reflect.Chan:
		return reflect.MakeChan(t.rt, 0).Interface(), true
	case reflect.Interface, reflect.Func, reflect.UnsafePointer, reflect.Invalid:
		return nil, false
	default:
		return reflect.New(t.rt).Elem().Interface(), true
	}
}

// typeName formats the runtime type of v for error messages.
func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}
