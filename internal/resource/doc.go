// Package resource owns the single heavy backing resource (for example an
// inference model) that may be resident at any time.
//
// The Manager serialises every load behind one mutex that spans the whole
// check-and-load sequence, so two callers can never both observe "nothing
// resident" and both load. Loading a different resource always unloads the
// resident one first:
//
//	UNLOADED → LOADING → LOADED → UNLOADING → UNLOADED
//
// Resources are described by a Registry loaded once from a registry file
// (HCL or JSON) and validated before any run starts. The Manager itself does
// not know how to materialise a resource; it delegates to a Loader, usually a
// Backends multiplexer that dispatches on the entry's backend name.
package resource
