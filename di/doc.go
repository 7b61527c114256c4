// Package di provides immutable dependency containers with name-keyed slots.
//
// A container type is a Definition: a Registry that declares the slots (a
// name plus a required Type, in a significant order) and their defaults, and
// a resolution strategy:
//
//   - Explicit: inputs are keyed by slot name. Each value is checked against
//     its slot's type; producers are evaluated unless the slot expects a
//     func. Best for "options" style constructors.
//   - Implicit: inputs are a plain list. Each value is matched to a slot by
//     runtime type (exact type, then the first declared type it is
//     assignable to, then Callable). Best when callers pass dependencies in
//     any order.
//
// Slots that received no input are filled from their Default (an instance, a
// type to instantiate, or a producer to invoke). Once Make returns, the
// container is read-only: Set and Remove always fail with ImmutableError.
//
// Design goals:
//   - One flat set of slots per container; no graph resolution.
//   - Make returns a complete container or an error, never a partial one.
//   - Typed errors that can be matched with errors.Is / errors.As.
//
// Example:
//
//	reg := di.NewRegistry().
//		Declare("store", di.TypeOf[*Store]()).
//		Declare("clock", di.TypeOf[Clock]()).
//		Default("store", di.ConstructOf[*Store]()).
//		Default("clock", func() Clock { return SystemClock{} })
//
//	Services := di.Implicit(reg)
//
//	c, err := Services.Make(di.Positional{FakeClock{}})
//	store := di.MustGetAs[*Store](c, "store")
package di
