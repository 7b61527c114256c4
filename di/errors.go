package di

import (
	"errors"
	"strconv"
)

var (
	// ErrNotFound is matched by NotFoundError.
	ErrNotFound = errors.New("di: dependency not found")

	// ErrInvalidDependency is matched by InvalidDependencyError and
	// UnresolvedDependencyError.
	ErrInvalidDependency = errors.New("di: invalid dependency")

	// ErrUndeclaredSlot is matched by UndeclaredSlotError.
	ErrUndeclaredSlot = errors.New("di: undeclared slot")

	// ErrImmutable is matched by ImmutableError.
	ErrImmutable = errors.New("di: container is immutable")

	// ErrInstantiation is matched by InstantiationError.
	ErrInstantiation = errors.New("di: cannot instantiate default")

	// ErrProducer is matched by ProducerError.
	ErrProducer = errors.New("di: producer failed")

	// ErrProducerPanic is wrapped by ProducerError when the producer panicked.
	ErrProducerPanic = errors.New("di: panic during producer call")

	// ErrWrongType is matched by WrongTypeError.
	ErrWrongType = errors.New("di: dependency has wrong type")
)

// NotFoundError is returned by Get when no entry exists for Name.
//
// Defaults are never applied at read time; they are materialized during Make.
type NotFoundError struct{ Name string }

// Error implements the error interface.
func (e NotFoundError) Error() string {
	// Example: di: dependency not found for "db"
	return "di: dependency not found for " + strconv.Quote(e.Name)
}

// Is reports whether target is ErrNotFound.
func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidDependencyError is returned by the explicit strategy when a provided
// value does not satisfy its slot's declared type.
type InvalidDependencyError struct {
	// Name is the slot name.
	Name string

	// Expected is the declared type, e.g. "*app.Store" or "callable".
	Expected string

	// Got is the runtime type of the provided value.
	Got string
}

// Error implements the error interface.
func (e InvalidDependencyError) Error() string {
	// Example: di: "db" does not match expected type "*app.Store" (got int)
	return "di: " + strconv.Quote(e.Name) + " does not match expected type " +
		strconv.Quote(e.Expected) + " (got " + e.Got + ")"
}

// Is reports whether target is ErrInvalidDependency.
func (e InvalidDependencyError) Is(target error) bool { return target == ErrInvalidDependency }

// UnresolvedDependencyError is returned by the implicit strategy when a value
// matches no declared slot.
type UnresolvedDependencyError struct {
	// Position is the index of the value in the input list.
	Position int

	// GotType is the runtime type of the value ("<nil>" for nil).
	GotType string
}

// Error implements the error interface.
func (e UnresolvedDependencyError) Error() string {
	// Example: di: could not resolve dependency at position 1 (int)
	return "di: could not resolve dependency at position " + strconv.Itoa(e.Position) + " (" + e.GotType + ")"
}

// Is reports whether target is ErrInvalidDependency.
func (e UnresolvedDependencyError) Is(target error) bool { return target == ErrInvalidDependency }

// UndeclaredSlotError is returned when an input names a slot the registry does
// not declare. Registries must declare a type for every slot they accept.
type UndeclaredSlotError struct{ Name string }

// Error implements the error interface.
func (e UndeclaredSlotError) Error() string {
	return "di: no type declared for slot " + strconv.Quote(e.Name)
}

// Is reports whether target is ErrUndeclaredSlot.
func (e UndeclaredSlotError) Is(target error) bool { return target == ErrUndeclaredSlot }

// ImmutableError is returned by Set and Remove.
type ImmutableError struct {
	// Op is "set" or "remove".
	Op string

	// Name is the slot the caller tried to modify.
	Name string
}

// Error implements the error interface.
func (e ImmutableError) Error() string {
	// Example: di: cannot set "db": container is immutable
	return "di: cannot " + e.Op + " " + strconv.Quote(e.Name) + ": container is immutable"
}

// Is reports whether target is ErrImmutable.
func (e ImmutableError) Is(target error) bool { return target == ErrImmutable }

// InstantiationError is returned when a Construct default names a type that
// has no zero-argument instantiation (interfaces, funcs, sentinels).
type InstantiationError struct {
	Name string
	Type string
}

// Error implements the error interface.
func (e InstantiationError) Error() string {
	return "di: cannot instantiate default for " + strconv.Quote(e.Name) + " of type " + strconv.Quote(e.Type)
}

// Is reports whether target is ErrInstantiation.
func (e InstantiationError) Is(target error) bool { return target == ErrInstantiation }

// ProducerError wraps a failure returned (or a panic raised) by a producer.
type ProducerError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e ProducerError) Error() string {
	return "di: producer for " + strconv.Quote(e.Name) + " failed: " + e.Err.Error()
}

// Unwrap returns the producer's error.
func (e ProducerError) Unwrap() error { return e.Err }

// Is reports whether target is ErrProducer.
func (e ProducerError) Is(target error) bool { return target == ErrProducer }

// WrongTypeError is returned by GetAs when the stored value is not a T.
type WrongTypeError struct {
	Name string
	Want string

	// Got is reflect.TypeOf(value).String() for the stored value.
	Got string
}

// Error implements the error interface.
func (e WrongTypeError) Error() string {
	// Example: di: dependency "db" has wrong type (want *app.Store, got *app.Cache)
	return "di: dependency " + strconv.Quote(e.Name) + " has wrong type (want " + e.Want + ", got " + e.Got + ")"
}

// Is reports whether target is ErrWrongType.
func (e WrongTypeError) Is(target error) bool { return target == ErrWrongType }
