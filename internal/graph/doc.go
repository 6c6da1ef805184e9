// Package graph compiles and validates the execution graph and provides the
// per-run facade the scheduler and executor work through.
//
// # Compile
//
// Compile (or the declarative Builder) takes node specs, unconditional edges
// and conditional edges and returns an immutable *ExecutionGraph. Validation
// is all-or-nothing: the first violation is returned and no partial graph is
// produced. The checks are:
//
//   - node IDs are non-empty, unique and not a sentinel (START/END);
//   - a node's output key is not a reserved state key;
//   - every edge endpoint is a declared node or a sentinel (UnknownNodeError);
//   - every conditional edge has a declared source, at least one branch and
//     declared branch targets; a node has at most one conditional edge;
//   - the graph is acyclic (CycleError, Kahn's algorithm);
//   - every node is reachable from an entry node (ErrUnreachable).
//
// Entry nodes are the targets of edges leaving START. When no edge leaves
// START, every node without predecessors is an entry node. A node without
// outgoing edges is implicitly connected to END.
//
// # Facade
//
// The compiled graph is read-only and can be run many times. Each run wraps it
// in a Manager together with a fresh nodestore.Store:
//
//	┌─────────────────────────────────────┐
//	│           Graph facade              │
//	│   (scheduler and executor API)      │
//	└──────────┬────────────┬─────────────┘
//	           │            │
//	           ▼            ▼
//	  ┌────────────────┐  ┌────────────┐
//	  │ ExecutionGraph │  │ Node State │
//	  │  (topology +   │  │   Store    │
//	  │    routes)     │  │  (status)  │
//	  └────────────────┘  └────────────┘
package graph
