// Package state implements the workflow state shared by all nodes of a run.
//
// The state is a key/value mapping where every key has a declared merge
// policy. Replace keys keep the last value written in execution order; Append
// keys accumulate every contribution in execution order. Nodes never write
// to the store directly: the node wrapper merges a node's output after the
// node completes, and transforms only ever see an immutable Snapshot.
//
// The reserved "metrics" key is always an Append key and can only be written
// through MergeReserved.
package state
