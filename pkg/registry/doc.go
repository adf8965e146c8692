// Package registry stores named serializations: a chain paired with the base
// object it replays against.
//
// Applications construct one Registry at startup, register every
// serialization, and pass the Registry to the code that executes them.
// There is no process-wide default instance.
//
// # Lifecycle
//
// Registration is permanent. Register rejects a name that is already taken
// (ErrAlreadyRegistered) and there is no removal API, so a *Serialization
// obtained from Get stays valid for the life of the Registry.
//
// # Lookup
//
// Get fails with ErrNotRegistered for unknown names; Execute is Get followed
// by Serialization.Execute. Instant builds an unregistered Serialization for
// one-off replays.
//
// Provider is the read-only view of a Registry, for consumers that only
// execute serializations.
package registry
