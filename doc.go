// Package odic provides immutable, name-slot dependency containers for Go.
//
// The module is split into:
//
//   - di: the container library (registries, explicit and implicit strategies)
//   - manifest: YAML declarations of registries, validated and bound to Go types
//   - cmd/odic: a generator that turns a manifest into a typed container wrapper
//   - examples: a runnable composition root
//
// Containers resolve one flat set of slots each; there is no autowiring
// across a dependency graph. Wiring stays in your composition root.
package odic
