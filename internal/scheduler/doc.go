// Package scheduler decides which node of an execution graph runs next.
//
// Exactly one node runs at a time. A node is ready when every predecessor is
// resolved (completed or skipped) and at least one incoming edge fired. Among
// ready nodes the one declared first wins, so runs are deterministic.
//
// When a node completes, Advance fires its outgoing edges: every
// unconditional edge, plus the single branch chosen by its conditional edge.
// Nodes whose predecessors are all resolved but which no edge activated sit
// only on branches that were not taken; Next marks them skipped, which in turn
// resolves them for their own successors.
package scheduler
