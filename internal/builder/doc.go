// Package builder turns a loaded pipeline model into executable parts: nodes
// whose transforms call registered handlers, unconditional and conditional
// edges, the state schema and the initial state.
//
// # Why Builder Exists
//
// The builder is the bridge between declarative configuration and the
// runtime. The graph and executor packages know nothing about HCL; they see
// plain node.Node values with a Transform function. The builder produces
// those functions by binding each node's argument expressions to its handler.
//
// # How It Works
//
// For every node in the model:
//  1. **Resolve:** Look up the handler named by `transform`.
//  2. **Check:** Reject a missing resource when the handler needs one, a
//     resource absent from the registry, or arguments the handler cannot take.
//  3. **Bind:** Build a Transform that, at run time, evaluates the arguments
//     against the current state snapshot, decodes them into the handler's
//     input struct and invokes the handler.
//
// `depends_on` lists and `edge` blocks become graph.Edge values; `route`
// blocks become graph.ConditionalEdge values whose predicate evaluates the
// condition against state. Structural validation (unknown endpoints, cycles,
// reachability) is left to graph.Compile.
package builder
