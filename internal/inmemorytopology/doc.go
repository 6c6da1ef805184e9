// Package inmemorytopology provides a thread-safe, in-memory implementation
// of topologystore.Store. It fits graphs whose structure is comfortably held
// in memory for the duration of a run.
package inmemorytopology
