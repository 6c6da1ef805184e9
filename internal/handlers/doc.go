// Package handlers holds the named transform handlers a pipeline file can
// reference from a node's `transform` attribute.
package handlers
