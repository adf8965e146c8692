// Package chain records parameterized chains of named operations and
// replays them against a chained object.
//
// # Building
//
// A Chain is immutable. Every building call (Call, Filter, Exclude, ...)
// returns a new Chain and leaves the receiver untouched, so a chain can serve
// as a template for several derived chains:
//
//	base := chain.New().Exclude(chain.KW("banned", true))
//	byName := base.Filter(chain.KW("name__icontains", "$name"))
//	byField := base.Filter(chain.KW("__field", "$value"))
//
// Placeholders are declared with two syntactic forms that share one
// namespace:
//   - "$name" in a positional argument or keyword value
//   - "__name" as a keyword key (the keyword itself is parameterized)
//
// "$$x" and "____x" escape to the literals "$x" and "__x". A placeholder name
// may be declared only once per chain; a second declaration fails the chain
// with ErrDuplicatePlaceholder. Build errors are sticky and reported by Err.
//
// # Replaying
//
// Replay substitutes caller-supplied parameters into the recorded tokens and
// applies each operation, in order, to a Target. Parameter keys may be given
// bare ("name") or decorated ("$name", "__name"). Every declared placeholder
// must receive a value; otherwise replay fails with a *MissingParametersError
// naming all of the missing placeholders.
//
// # Chained objects
//
// Target is the capability a chained object must provide: apply a named call
// and return the next object. Methods is a registration table that turns any
// value type into a Target without reflection.
package chain
