// Package instrument is the node execution wrapper. It applies the same
// sequence to every node: time the transform, build a metric record, merge
// the node's output under its key's policy, then append the record to the
// reserved metrics key. A failing transform merges nothing and builds no
// record.
//
// Cross-cutting behaviour (logging, Prometheus observation, panic recovery)
// is added as Middleware around the timed invocation.
package instrument
