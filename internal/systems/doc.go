// Package systems provides the output-port machinery blocks use to expose
// computed values to the rest of a network.
//
// An [OutputPort] owns three things on behalf of its block:
//
//   - allocation of a default value of the declared kind and size
//   - validation that values crossing the port boundary have that kind
//   - lazy, per-[Context] caching of the computed value
//
// The computation itself is supplied by the block as a [CalcFunc]; the port
// defines none of its own. Consumers call [OutputPort.Eval], which computes
// at most once per context until the context's cache slot is invalidated.
//
// # Values
//
// Every value that crosses a port carries an explicit [Kind] and a type
// name. Ports compare those by equality and never inspect contents.
// [BasicVector] is the vector kind; [Abstract] wraps any other Go value.
//
// # Thread Safety
//
// Ports hold no per-context state and take no locks. A [Context] owns its
// cache slots, so concurrent Eval calls on the same context must be
// synchronized by the caller, while distinct contexts are independent.
package systems
